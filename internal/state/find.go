package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kk-code-lab/runa/internal/find"
	"github.com/kk-code-lab/runa/internal/protocol"
)

func (r *StateReducer) startFind(state *AppState) {
	if !r.findAvailable() {
		state.Find = FindState{Status: FindToolMissing}
		state.notifyError(errors.New(find.ToolMissingNotice))
		return
	}
	state.Mode = ModeFind
	state.Find = FindState{Root: state.Nav.CurrentDir}
	state.Info = InfoState{}
}

// scheduleFind restarts the typing debounce. Whatever is in flight for the
// previous query is made stale right away.
func (r *StateReducer) scheduleFind(state *AppState, delay time.Duration) {
	r.dispatcher.Invalidate(protocol.ContextFind, protocol.KindFind)
	state.Find.pending = true
	state.Find.deadline = r.now().Add(delay)
}

func (r *StateReducer) issueFind(state *AppState) {
	f := &state.Find
	f.pending = false
	if strings.TrimSpace(f.Query) == "" {
		r.clearFind(state)
		return
	}
	payload := protocol.FindPayload{
		Root:       f.Root,
		Query:      f.Query,
		MaxResults: state.Settings.MaxFindResults,
		Exclude:    state.Settings.FindExclude,
	}
	if _, err := r.dispatcher.Issue(protocol.ContextFind, payload); err != nil {
		f.Status = FindDone
		f.Err = err
		state.notifyError(fmt.Errorf("find: %w", err))
		return
	}
	f.Status = FindRunning
	f.Err = nil
}

func (r *StateReducer) clearFind(state *AppState) {
	r.dispatcher.Invalidate(protocol.ContextFind, protocol.KindFind)
	r.cancel(protocol.KindFind)
	f := &state.Find
	f.Results = nil
	f.Selected = 0
	f.Scroll = 0
	f.Status = FindIdle
	f.Err = nil
	f.pending = false
}

func (r *StateReducer) closeFind(state *AppState) {
	if state.Mode != ModeFind {
		return
	}
	r.clearFind(state)
	state.Mode = ModeNormal
	state.Find = FindState{}
}

func (r *StateReducer) applyFind(state *AppState, resp protocol.Response) {
	if state.Mode != ModeFind {
		return
	}
	f := &state.Find
	if resp.Err != nil {
		switch {
		case errors.Is(resp.Err, protocol.ErrCancelled):
			return
		case errors.Is(resp.Err, protocol.ErrToolMissing):
			f.Status = FindToolMissing
			f.Results = nil
			state.notifyError(errors.New(find.ToolMissingNotice))
			return
		default:
			f.Status = FindDone
			f.Err = resp.Err
			state.notifyError(fmt.Errorf("find: %w", resp.Err))
			return
		}
	}
	res, _ := resp.Result.(protocol.FindResult)
	f.Results = res.Matches
	f.Selected = 0
	f.Scroll = 0
	f.Status = FindDone
	f.Err = nil
}

func findListHeight(state *AppState) int {
	h := state.Layout().BodyHeight - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (r *StateReducer) moveFindSelection(state *AppState, delta int) {
	f := &state.Find
	n := len(f.Results)
	if state.Mode != ModeFind || n == 0 {
		return
	}
	f.Selected = ((f.Selected+delta)%n + n) % n
	r.ensureFindSelectionVisible(state)
}

func (r *StateReducer) ensureFindSelectionVisible(state *AppState) {
	f := &state.Find
	height := findListHeight(state)
	if f.Selected < f.Scroll {
		f.Scroll = f.Selected
	}
	if f.Selected >= f.Scroll+height {
		f.Scroll = f.Selected - height + 1
	}
	if f.Scroll < 0 {
		f.Scroll = 0
	}
}

// openFindResult leaves find mode. A directory is entered; a file has its
// parent entered with the file selected.
func (r *StateReducer) openFindResult(state *AppState) {
	f := state.Find
	if state.Mode != ModeFind || f.Selected < 0 || f.Selected >= len(f.Results) {
		return
	}
	match := f.Results[f.Selected]
	r.closeFind(state)
	if match.IsDir {
		r.requestListing(state, match.Path, "")
		return
	}
	r.requestListing(state, filepath.Dir(match.Path), filepath.Base(match.Path))
}
