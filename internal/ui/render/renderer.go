package render

import (
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/runa/internal/state"
	"github.com/kk-code-lab/runa/internal/textutil"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws one frame from a state snapshot.
func (r *Renderer) Render(view statepkg.View) {
	r.screen.Clear()

	w, h := r.screen.Size()
	l := view.Layout
	if w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}

	r.drawHeader(view, w)
	if l.ParentWidth > 0 {
		r.drawParentPane(view.Parent, l)
		r.drawSeparator(l.ParentX+l.ParentWidth, l)
	}
	r.drawMainPane(view.Nav, l)
	if l.PreviewWidth > 0 {
		r.drawSeparator(l.PreviewX-1, l)
		r.drawPreviewPane(view.Preview, l)
	}

	switch {
	case view.Find.Active:
		r.drawFindOverlay(view.Find, l, w)
	case view.Mode == statepkg.ModeConfirmDelete:
		r.drawDeleteConfirm(view.PromptPaths, w, l)
	case view.Info.Visible:
		r.drawInfoOverlay(view.Info, w, l)
	}

	if h > 1 {
		r.drawStatusLine(view, w, h-1)
	}
	r.screen.Show()
}

// drawHeader renders the top bar with title and breadcrumb
func (r *Renderer) drawHeader(view statepkg.View, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	endX := r.drawTextLine(0, 0, w, "runa ", headerStyle.Bold(true))
	last, prefix := splitBreadcrumb(view.Nav.Dir)

	available := w - endX
	lastWidth := textutil.DisplayWidth(last)
	if lastWidth >= available {
		endX = r.drawTextLine(endX, 0, available, fitBreadcrumb(last, available), headerStyle.Bold(true))
	} else {
		if prefix != "" {
			fitted := fitBreadcrumb(prefix, available-lastWidth)
			endX = r.drawTextLine(endX, 0, available, fitted, headerStyle)
		}
		endX = r.drawTextLine(endX, 0, w-endX, last, headerStyle.Bold(true))
	}

	if view.Nav.Loading && endX+2 < w {
		endX = r.drawTextLine(endX, 0, w-endX, "  …", headerStyle.Dim(true))
	}
	r.fillRow(endX, w, 0, headerStyle)
}

// splitBreadcrumb returns the last path element and the parent prefix with
// a trailing separator.
func splitBreadcrumb(dir string) (last, prefix string) {
	if dir == "" {
		return string(filepath.Separator), ""
	}
	last = filepath.Base(dir)
	if parent := filepath.Dir(dir); parent != dir {
		prefix = parent
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
	}
	return last, prefix
}

func (r *Renderer) drawSeparator(x int, l statepkg.Layout) {
	style := tcell.StyleDefault.Foreground(r.theme.HiddenFg)
	for y := l.Top; y < l.Top+l.BodyHeight; y++ {
		r.screen.SetContent(x, y, '│', nil, style)
	}
}

func (r *Renderer) clearArea(startX, width, startY, height int, style tcell.Style) {
	for y := startY; y < startY+height; y++ {
		r.fillRow(startX, startX+width, y, style)
	}
}

func (r *Renderer) entryStyle(e statepkg.FileEntry, base tcell.Style) tcell.Style {
	style := base
	switch {
	case e.IsSymlink:
		style = style.Foreground(r.theme.SymlinkFg)
	case e.IsDir:
		style = style.Foreground(r.theme.DirectoryFg)
	default:
		style = style.Foreground(r.theme.FileFg)
	}
	if e.IsHidden() {
		style = style.Foreground(r.theme.HiddenFg)
	}
	return style
}

func entryIcon(e statepkg.FileEntry) string {
	switch {
	case e.IsSymlink:
		return "@"
	case e.IsDir:
		return "/"
	default:
		return " "
	}
}
