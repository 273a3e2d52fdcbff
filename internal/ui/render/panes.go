package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	fsutil "github.com/kk-code-lab/runa/internal/fs"
	statepkg "github.com/kk-code-lab/runa/internal/state"
	"github.com/kk-code-lab/runa/internal/textutil"
)

// drawParentPane renders the parent directory with the current directory
// highlighted and kept near the middle of the pane.
func (r *Renderer) drawParentPane(parent statepkg.ParentView, l statepkg.Layout) {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	r.clearArea(l.ParentX, l.ParentWidth, l.Top, l.BodyHeight, base)
	if parent.Dir == "" || len(parent.Entries) == 0 {
		return
	}

	rows := l.BodyHeight
	current := 0
	for i, e := range parent.Entries {
		if e.Name == parent.Highlight {
			current = i
			break
		}
	}
	start := 0
	if len(parent.Entries) > rows {
		start = current - rows/2
		if start < 0 {
			start = 0
		}
		if start > len(parent.Entries)-rows {
			start = len(parent.Entries) - rows
		}
	}

	for i := 0; i < rows && start+i < len(parent.Entries); i++ {
		e := parent.Entries[start+i]
		style := r.entryStyle(e, base)
		if e.Name == parent.Highlight {
			style = base.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		}
		line := " " + entryIcon(e) + " " + textutil.Truncate(e.DisplayName(), l.ParentWidth-3)
		r.drawRow(l.ParentX, l.Top+i, l.ParentWidth, line, style)
	}
}

// markerGlyph is the first column of a main pane row.
func markerGlyph(marked, clipped, cut bool) rune {
	switch {
	case marked:
		return '*'
	case clipped && cut:
		return '-'
	case clipped:
		return '+'
	default:
		return ' '
	}
}

// drawMainPane renders the visible window of the current directory.
func (r *Renderer) drawMainPane(nav statepkg.NavView, l statepkg.Layout) {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	r.clearArea(l.MainX, l.MainWidth, l.Top, l.BodyHeight, base)

	if len(nav.Entries) == 0 {
		msg := ""
		style := base.Dim(true)
		switch {
		case nav.Err != nil:
			msg = " " + nav.Err.Error()
			style = base.Foreground(r.theme.ErrorFg)
		case nav.Loading:
			msg = " Loading…"
		case nav.Filter != "":
			msg = " No matches"
		default:
			msg = " Empty directory"
		}
		r.drawRow(l.MainX, l.Top, l.MainWidth, textutil.Truncate(msg, l.MainWidth), style)
		return
	}

	for i, e := range nav.Entries {
		y := l.Top + i
		selected := nav.Scroll+i == nav.Cursor
		style := r.entryStyle(e, base)
		if selected {
			style = base.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		}

		markStyle := style
		glyph := markerGlyph(nav.Marked[i], nav.Clipped[i], nav.Cut)
		switch {
		case nav.Marked[i]:
			markStyle = markStyle.Foreground(r.theme.MarkerFg).Bold(true)
		case nav.Clipped[i] && nav.Cut:
			markStyle = markStyle.Foreground(r.theme.ClipCutFg)
		case nav.Clipped[i]:
			markStyle = markStyle.Foreground(r.theme.ClipCopyFg)
		}
		if l.MainWidth < 1 {
			continue
		}
		r.screen.SetContent(l.MainX, y, glyph, nil, markStyle)

		size := ""
		if !e.IsDir {
			size = fsutil.FormatSize(e.Size, e.StatErr == nil)
		}
		nameWidth := l.MainWidth - 3
		if size != "" && nameWidth-len(size)-1 >= 8 {
			nameWidth -= len(size) + 1
		} else {
			size = ""
		}
		name := textutil.Truncate(e.DisplayName(), nameWidth)
		line := entryIcon(e) + " " + name
		r.drawRow(l.MainX+1, y, l.MainWidth-1, line, style)
		if size != "" {
			r.drawTextLine(l.MainX+l.MainWidth-len(size)-1, y, len(size), size, style)
		}
	}
}

// drawPreviewPane writes the preview lines. The lines already have the pane
// width; they are fitted again in case the layout changed since the preview
// was produced.
func (r *Renderer) drawPreviewPane(preview statepkg.PreviewView, l statepkg.Layout) {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.PreviewFg)
	r.clearArea(l.PreviewX, l.PreviewWidth, l.Top, l.BodyHeight, base)
	if preview.Status == statepkg.PreviewUnavailable {
		return
	}
	for i, line := range preview.Lines {
		if i >= l.BodyHeight {
			break
		}
		r.drawTextLine(l.PreviewX, l.Top+i, l.PreviewWidth, textutil.FitWidth(line, l.PreviewWidth), base)
	}
	if len(preview.Lines) == 0 && preview.Status == statepkg.PreviewPending {
		r.drawRow(l.PreviewX, l.Top, l.PreviewWidth, " …", base.Dim(true))
	}
}

func countLabel(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
