package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/runa/internal/state"
	"github.com/kk-code-lab/runa/internal/textutil"
)

const promptCursor = '█'

var promptLabels = map[statepkg.Mode]string{
	statepkg.ModeFilter:     "Filter: ",
	statepkg.ModeRename:     "Rename: ",
	statepkg.ModeCreateFile: "New file: ",
	statepkg.ModeCreateDir:  "New folder: ",
}

// buildStatusSegments returns the summary shown when no prompt or notice is
// on the status line.
func buildStatusSegments(view statepkg.View) []string {
	nav := view.Nav
	var segments []string
	if nav.Total > 0 {
		segments = append(segments, fmt.Sprintf("%d/%d", nav.Cursor+1, nav.Total))
	}
	if nav.Filter != "" {
		segments = append(segments, "filter: "+nav.Filter)
	}
	if nav.MarkCount > 0 {
		segments = append(segments, fmt.Sprintf("%d marked", nav.MarkCount))
	}
	if nav.ClipCount > 0 {
		verb := "copied"
		if nav.Cut {
			verb = "cut"
		}
		segments = append(segments, fmt.Sprintf("%d %s", nav.ClipCount, verb))
	}
	if view.Find.Status == statepkg.FindToolMissing && !view.Find.Active {
		segments = append(segments, "find unavailable")
	}
	return segments
}

// drawStatusLine renders the bottom row: the prompt being edited, a
// pending confirmation, a notice, or the directory summary.
func (r *Renderer) drawStatusLine(view statepkg.View, w, y int) {
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	if label, ok := promptLabels[view.Mode]; ok {
		text := view.Prompt
		if view.Mode == statepkg.ModeFilter {
			text = view.Nav.Filter
		}
		r.drawPrompt(0, y, w, label, text, normalStyle)
		return
	}

	switch {
	case view.Mode == statepkg.ModeConfirmDelete:
		text := fmt.Sprintf("Delete %s? [y/N]", countLabel(len(view.PromptPaths), "item", "items"))
		r.drawRow(0, y, w, textutil.Truncate(text, w), normalStyle.Foreground(r.theme.ErrorFg).Bold(true))
	case view.Notice.Text != "":
		style := normalStyle.Foreground(r.theme.NoticeFg)
		if view.Notice.Error {
			style = normalStyle.Foreground(r.theme.ErrorFg)
		}
		r.drawRow(0, y, w, textutil.Truncate(" "+view.Notice.Text, w), style)
	default:
		text := " " + strings.Join(buildStatusSegments(view), "  ")
		r.drawRow(0, y, w, textutil.Truncate(text, w), normalStyle)
	}
}

// drawPrompt draws label and text followed by a block cursor. When the
// text is too long its beginning scrolls out of view.
func (r *Renderer) drawPrompt(x, y, width int, label, text string, style tcell.Style) {
	cursorStyle := style.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)

	end := r.drawTextLine(x, y, width, label, style.Bold(true))
	room := x + width - end - 1
	if room > 0 {
		if textutil.DisplayWidth(text) > room {
			text = fitBreadcrumb(text, room)
		}
		end = r.drawTextLine(end, y, room, text, style)
	}
	if end < x+width {
		r.screen.SetContent(end, y, promptCursor, nil, cursorStyle)
		end++
	}
	r.fillRow(end, x+width, y, style)
}
