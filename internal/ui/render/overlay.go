package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/runa/internal/find"
	fsutil "github.com/kk-code-lab/runa/internal/fs"
	statepkg "github.com/kk-code-lab/runa/internal/state"
	"github.com/kk-code-lab/runa/internal/textutil"
)

const maxDeleteListing = 8

func buildInfoLines(info statepkg.InfoState) []string {
	if info.Err != nil {
		return []string{info.Err.Error()}
	}
	i := info.Info
	lines := []string{
		fmt.Sprintf("%-12s %s", "Name", i.Name),
		fmt.Sprintf("%-12s %s", "Path", i.Path),
		fmt.Sprintf("%-12s %s", "Type", i.Type),
		fmt.Sprintf("%-12s %s", "Size", fsutil.FormatSize(i.Size, i.HasSize)),
		fmt.Sprintf("%-12s %s", "Modified", fsutil.FormatTime(i.Modified)),
		fmt.Sprintf("%-12s %s", "Permissions", i.Attributes),
	}
	if i.Target != "" {
		lines = append(lines, fmt.Sprintf("%-12s %s", "Target", i.Target))
	}
	return lines
}

func buildDeleteLines(paths []string) []string {
	lines := make([]string, 0, maxDeleteListing+1)
	for i, p := range paths {
		if i == maxDeleteListing {
			lines = append(lines, fmt.Sprintf("… and %d more", len(paths)-maxDeleteListing))
			break
		}
		lines = append(lines, p)
	}
	return lines
}

func (r *Renderer) drawInfoOverlay(info statepkg.InfoState, w int, l statepkg.Layout) {
	r.drawBox(" Info ", buildInfoLines(info), w, l)
}

func (r *Renderer) drawDeleteConfirm(paths []string, w int, l statepkg.Layout) {
	r.drawBox(" Delete ", buildDeleteLines(paths), w, l)
}

// drawBox draws a bordered box centered over the body.
func (r *Renderer) drawBox(title string, lines []string, w int, l statepkg.Layout) {
	style := tcell.StyleDefault.Background(r.theme.OverlayBg).Foreground(r.theme.OverlayFg)

	inner := textutil.DisplayWidth(title)
	for _, line := range lines {
		if lw := textutil.DisplayWidth(line); lw > inner {
			inner = lw
		}
	}
	inner += 2
	if inner > w-2 {
		inner = w - 2
	}
	height := len(lines) + 2
	if height > l.BodyHeight {
		height = l.BodyHeight
	}
	if inner <= 0 || height < 3 {
		return
	}

	x0 := (w - inner - 2) / 2
	y0 := l.Top + (l.BodyHeight-height)/2
	x1 := x0 + inner + 1
	y1 := y0 + height - 1

	for x := x0 + 1; x < x1; x++ {
		r.screen.SetContent(x, y0, tcell.RuneHLine, nil, style)
		r.screen.SetContent(x, y1, tcell.RuneHLine, nil, style)
	}
	for y := y0 + 1; y < y1; y++ {
		r.screen.SetContent(x0, y, tcell.RuneVLine, nil, style)
		r.screen.SetContent(x1, y, tcell.RuneVLine, nil, style)
	}
	r.screen.SetContent(x0, y0, tcell.RuneULCorner, nil, style)
	r.screen.SetContent(x1, y0, tcell.RuneURCorner, nil, style)
	r.screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, style)
	r.screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, style)
	r.drawTextLine(x0+2, y0, inner-2, title, style.Bold(true))

	for i := 0; i < height-2 && i < len(lines); i++ {
		r.drawRow(x0+1, y0+1+i, inner, " "+textutil.Truncate(lines[i], inner-2), style)
	}
}

func findStatusText(f statepkg.FindView) string {
	switch {
	case f.Status == statepkg.FindToolMissing:
		return find.ToolMissingNotice
	case f.Err != nil:
		return f.Err.Error()
	case f.Status == statepkg.FindRunning:
		return "searching…"
	case f.Status == statepkg.FindDone && f.Total == 0:
		return "no matches"
	case f.Status == statepkg.FindDone:
		return fmt.Sprintf("%d results", f.Total)
	default:
		return ""
	}
}

// drawFindOverlay covers the main and preview panes with the query line and
// the visible window of results.
func (r *Renderer) drawFindOverlay(f statepkg.FindView, l statepkg.Layout, w int) {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	x := l.MainX
	width := w - x
	if width <= 0 || l.BodyHeight <= 0 {
		return
	}
	r.clearArea(x, width, l.Top, l.BodyHeight, base)

	status := findStatusText(f)
	statusWidth := textutil.DisplayWidth(status)
	promptWidth := width
	if statusWidth > 0 && width-statusWidth-2 >= 16 {
		promptWidth = width - statusWidth - 2
		statusStyle := base.Dim(true)
		if f.Err != nil || f.Status == statepkg.FindToolMissing {
			statusStyle = base.Foreground(r.theme.ErrorFg)
		}
		r.drawTextLine(x+promptWidth+1, l.Top, statusWidth, status, statusStyle)
	}
	r.drawPrompt(x, l.Top, promptWidth, "Find: ", f.Query, base)

	for i, m := range f.Results {
		y := l.Top + 1 + i
		if y >= l.Top+l.BodyHeight {
			break
		}
		style := base
		if m.IsDir {
			style = style.Foreground(r.theme.DirectoryFg)
		}
		if f.Scroll+i == f.Selected {
			style = base.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		}
		name := m.Rel
		if name == "" {
			name = m.Path
		}
		if m.IsDir {
			name += "/"
		}
		r.drawRow(x, y, width, " "+textutil.Truncate(name, width-1), style)
	}
}
