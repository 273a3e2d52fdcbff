package state

import "github.com/kk-code-lab/runa/internal/protocol"

// NavView is the main pane for one frame. Entries holds only the rows in
// the viewport, starting at Scroll; Cursor is absolute.
type NavView struct {
	Dir     string
	Entries []FileEntry
	Marked  []bool
	Clipped []bool
	Total   int
	Cut     bool
	Cursor  int
	Scroll  int
	Filter  string
	Loading bool
	Err     error

	MarkCount int
	ClipCount int
}

// ParentView is a read-only copy of the parent pane.
type ParentView struct {
	Dir       string
	Entries   []FileEntry
	Highlight string
}

// PreviewView is a read-only copy of the preview pane.
type PreviewView struct {
	Target   string
	Lines    []string
	Status   PreviewStatus
	Fallback bool
}

// FindView is the find overlay. Results holds the rows in the viewport,
// starting at Scroll; Selected is absolute.
type FindView struct {
	Active   bool
	Root     string
	Query    string
	Results  []protocol.FindMatch
	Total    int
	Selected int
	Scroll   int
	Status   FindStatus
	Err      error
}

// View is everything the renderer needs for one frame.
type View struct {
	Nav     NavView
	Parent  ParentView
	Preview PreviewView
	Find    FindView
	Layout  Layout

	Mode        Mode
	Prompt      string
	PromptPaths []string
	Notice      Notice
	Info        InfoState
}

// View takes a snapshot. Slices may share backing arrays with the state and
// must not be modified.
func (s *AppState) View() View {
	layout := s.Layout()
	visible := s.Visible()
	window := viewport(len(visible), s.Nav.Scroll, layout.BodyHeight)
	rows := visible[window.start:window.end]
	nav := NavView{
		Dir:       s.Nav.CurrentDir,
		Entries:   rows,
		Marked:    make([]bool, len(rows)),
		Clipped:   make([]bool, len(rows)),
		Total:     len(visible),
		Cut:       s.Nav.ClipMode == ClipCut,
		Cursor:    s.Nav.Cursor,
		Scroll:    window.start,
		Filter:    s.Nav.Filter,
		Loading:   s.Nav.Loading,
		Err:       s.Nav.Err,
		MarkCount: len(s.Nav.Markers),
		ClipCount: len(s.Nav.Clipboard),
	}
	for i, e := range rows {
		nav.Marked[i] = s.IsMarked(e.FullPath)
		nav.Clipped[i] = s.InClipboard(e.FullPath)
	}

	results := s.Find.Results
	fw := viewport(len(results), s.Find.Scroll, findListHeight(s))

	return View{
		Nav: nav,
		Parent: ParentView{
			Dir:       s.Parent.Dir,
			Entries:   s.Parent.Entries,
			Highlight: s.Parent.Highlight,
		},
		Preview: PreviewView{
			Target:   s.Preview.Target,
			Lines:    s.Preview.Lines,
			Status:   s.Preview.Status,
			Fallback: s.Preview.Fallback,
		},
		Find: FindView{
			Active:   s.Mode == ModeFind,
			Root:     s.Find.Root,
			Query:    s.Find.Query,
			Results:  results[fw.start:fw.end],
			Total:    len(results),
			Selected: s.Find.Selected,
			Scroll:   fw.start,
			Status:   s.Find.Status,
			Err:      s.Find.Err,
		},
		Layout:      layout,
		Mode:        s.Mode,
		Prompt:      string(s.Prompt),
		PromptPaths: s.PromptPaths,
		Notice:      s.Notice,
		Info:        s.Info,
	}
}

type span struct{ start, end int }

func viewport(n, scroll, height int) span {
	if height < 0 {
		height = 0
	}
	if scroll > n {
		scroll = n
	}
	if scroll < 0 {
		scroll = 0
	}
	end := scroll + height
	if end > n {
		end = n
	}
	return span{start: scroll, end: end}
}
