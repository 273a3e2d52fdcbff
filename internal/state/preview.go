package state

import (
	"context"
	"errors"

	"github.com/kk-code-lab/runa/internal/preview"
	"github.com/kk-code-lab/runa/internal/protocol"
)

// selectionChanged moves the preview to the current selection. The
// generation advances immediately so anything already in flight is stale;
// the request itself goes out now in instant mode and after the debounce
// window otherwise.
func (r *StateReducer) selectionChanged(state *AppState) {
	p := &state.Preview
	p.Generation++
	p.debouncing = false
	r.dispatcher.Invalidate(protocol.ContextPreview, protocol.KindList)
	r.dispatcher.Invalidate(protocol.ContextPreview, protocol.KindPreview)

	sel, ok := state.Selected()
	if !ok || state.Layout().PreviewWidth <= 0 {
		p.Target = ""
		p.TargetDir = false
		p.Lines = nil
		p.Status = PreviewUnavailable
		p.Fallback = false
		return
	}
	p.Target = sel.FullPath
	p.TargetDir = sel.IsDir
	p.Status = PreviewPending

	if state.Settings.InstantPreview || state.Settings.PreviewDebounce <= 0 {
		r.issuePreview(state)
		return
	}
	p.debouncing = true
	p.deadline = r.now().Add(state.Settings.PreviewDebounce)
}

func previewLineCount(state *AppState) int {
	n := state.Settings.PreviewLines
	if n <= 0 {
		n = state.Layout().BodyHeight
	}
	if n < preview.MinLines {
		n = preview.MinLines
	}
	return n
}

func (r *StateReducer) issuePreview(state *AppState) {
	p := &state.Preview
	p.debouncing = false
	if p.Target == "" {
		return
	}
	p.issued = p.Generation
	width := state.Layout().PreviewWidth
	lines := previewLineCount(state)

	if p.TargetDir {
		payload := protocol.ListPayload{Path: p.Target, Options: state.Settings.List}
		if _, err := r.dispatcher.Issue(protocol.ContextPreview, payload); err != nil {
			r.dispatcher.Invalidate(protocol.ContextPreview, protocol.KindList)
			res, lerr := r.fallback.List(payload)
			r.applyDirPreview(state, res, lerr)
		}
		return
	}

	payload := protocol.PreviewPayload{
		Path:       p.Target,
		MaxLines:   lines,
		Width:      width,
		MaxBytes:   state.Settings.PreviewMaxByte,
		Method:     state.Settings.PreviewMethod,
		Formatter:  state.Settings.Formatter,
		Options:    state.Settings.List,
		Generation: p.Generation,
	}
	if _, err := r.dispatcher.Issue(protocol.ContextPreview, payload); err != nil {
		r.dispatcher.Invalidate(protocol.ContextPreview, protocol.KindPreview)
		r.applyFilePreview(state, r.fallback.Preview(context.Background(), payload))
	}
}

// applyDirPreview shows a directory listing in the preview pane. The
// dispatcher has already rejected listings for older selections.
func (r *StateReducer) applyDirPreview(state *AppState, res protocol.ListResult, err error) {
	p := &state.Preview
	if !p.TargetDir || p.issued != p.Generation {
		return
	}
	width := state.Layout().PreviewWidth
	lines := previewLineCount(state)
	if err != nil {
		p.Lines = preview.DirectoryError(err, lines, width)
	} else {
		p.Lines = preview.DirectoryLines(res.Entries, lines, width)
	}
	p.Status = PreviewReady
	p.Fallback = false
}

func (r *StateReducer) applyFilePreview(state *AppState, res protocol.PreviewResult) {
	p := &state.Preview
	if res.Generation != p.Generation || p.TargetDir {
		return
	}
	p.Lines = res.Lines
	p.Status = PreviewReady
	p.Fallback = res.Fallback
}

func (r *StateReducer) previewFailed(state *AppState, err error) {
	if errors.Is(err, protocol.ErrCancelled) {
		return
	}
	p := &state.Preview
	p.Lines = nil
	p.Status = PreviewUnavailable
	r.logger.Debug("preview failed", "path", p.Target, "error", err)
}
