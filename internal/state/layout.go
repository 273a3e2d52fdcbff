package state

const (
	minParentTerminalWidth  = 60
	minPreviewTerminalWidth = 30
	minMainPanelWidth       = 12

	headerRows = 1
	footerRows = 1
)

// Layout holds pane geometry in screen cells. A pane with zero width is
// not shown.
type Layout struct {
	ParentX, ParentWidth   int
	MainX, MainWidth       int
	PreviewX, PreviewWidth int
	Top, BodyHeight        int
}

// ComputeLayout splits a w x h screen into panes following the configured
// ratios. One separator column sits between visible panes.
func ComputeLayout(w, h int, s Settings) Layout {
	if w < 0 {
		w = 0
	}
	l := Layout{Top: headerRows, BodyHeight: h - headerRows - footerRows}
	if l.BodyHeight < 0 {
		l.BodyHeight = 0
	}

	parent, main, preview := s.Layout.Parent, s.Layout.Main, s.Layout.Preview
	if main <= 0 {
		main = 1
	}
	if !s.ShowParent || w < minParentTerminalWidth || parent < 0 {
		parent = 0
	}
	if !s.ShowPreview || w < minPreviewTerminalWidth || preview < 0 {
		preview = 0
	}

	separators := 0
	if parent > 0 {
		separators++
	}
	if preview > 0 {
		separators++
	}
	avail := w - separators
	if avail < 0 {
		avail = 0
	}
	total := parent + main + preview

	l.ParentWidth = avail * parent / total
	l.PreviewWidth = avail * preview / total
	l.MainWidth = avail - l.ParentWidth - l.PreviewWidth

	if l.MainWidth < minMainPanelWidth && l.PreviewWidth > 0 {
		// Give the main pane its minimum back from the preview first.
		take := minMainPanelWidth - l.MainWidth
		if take > l.PreviewWidth {
			take = l.PreviewWidth
		}
		l.PreviewWidth -= take
		l.MainWidth += take
		if l.PreviewWidth == 0 {
			l.MainWidth++ // separator no longer needed
		}
	}

	x := 0
	l.ParentX = x
	if l.ParentWidth > 0 {
		x += l.ParentWidth + 1
	}
	l.MainX = x
	x += l.MainWidth
	if l.PreviewWidth > 0 {
		x++
	}
	l.PreviewX = x
	return l
}

// Layout returns the pane geometry for the current screen size.
func (s *AppState) Layout() Layout {
	return ComputeLayout(s.ScreenWidth, s.ScreenHeight, s.Settings)
}
