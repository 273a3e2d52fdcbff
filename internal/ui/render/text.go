package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/runa/internal/textutil"
)

// drawTextLine writes text starting at startX, never past maxWidth columns,
// and returns the column after the last cell written. Unprintable runes are
// skipped; combining marks are attached to the preceding cell.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	i := 0

	for i < len(runes) {
		mainc := runes[i]
		i++
		if !textutil.Printable(mainc) {
			continue
		}

		var combc []rune
		for i < len(runes) && textutil.RuneWidth(runes[i]) == 0 && textutil.Printable(runes[i]) {
			combc = append(combc, runes[i])
			i++
		}

		w := textutil.RuneWidth(mainc)
		if w == 0 {
			w = 1
		}
		if x-startX+w > maxWidth {
			break
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		x += w
	}

	return x
}

// fillRow pads a row with spaces from startX up to endX.
func (r *Renderer) fillRow(startX, endX, y int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawRow writes text into a fixed-width cell range and pads the rest.
func (r *Renderer) drawRow(startX, y, width int, text string, style tcell.Style) {
	if width <= 0 {
		return
	}
	end := r.drawTextLine(startX, y, width, text, style)
	r.fillRow(end, startX+width, y, style)
}

// fitBreadcrumb trims the breadcrumb path to fit within the available
// width, keeping the end of the path.
func fitBreadcrumb(path string, width int) string {
	if width <= 0 {
		return ""
	}
	if textutil.DisplayWidth(path) <= width {
		return path
	}
	if width == 1 {
		return "…"
	}

	available := width - 1
	runes := []rune(path)
	start := len(runes)
	used := 0
	for start > 0 {
		w := textutil.RuneWidth(runes[start-1])
		if used+w > available {
			break
		}
		used += w
		start--
	}
	return "…" + string(runes[start:])
}
