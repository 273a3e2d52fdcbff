package state

import (
	"testing"
	"time"

	"github.com/kk-code-lab/runa/internal/protocol"
)

// ===== PREVIEW TESTS =====

func TestPreviewDebounceSettlesOnFinalSelection(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a", "b", "c", "d", "e")

	h.reduce(t, state, NavigateDownAction{}, NavigateDownAction{}, NavigateDownAction{})
	if got := len(h.sub.matching(protocol.ContextPreview, protocol.KindPreview)); got != 0 {
		t.Fatalf("issued %d previews while moving, want 0", got)
	}
	if state.Preview.Status != PreviewPending || state.Preview.Target != "/test/d" {
		t.Fatalf("preview = %+v", state.Preview)
	}

	h.reducer.Tick(state, h.clock.advance(40*time.Millisecond))
	if got := len(h.sub.matching(protocol.ContextPreview, protocol.KindPreview)); got != 0 {
		t.Fatalf("issued %d previews before the window elapsed", got)
	}

	h.reducer.Tick(state, h.clock.advance(40*time.Millisecond))
	reqs := h.sub.matching(protocol.ContextPreview, protocol.KindPreview)
	if len(reqs) != 1 {
		t.Fatalf("issued %d previews after settling, want 1", len(reqs))
	}
	payload := reqs[0].Payload.(protocol.PreviewPayload)
	if payload.Path != "/test/d" || payload.Generation != state.Preview.Generation {
		t.Errorf("payload = %+v, generation %d", payload, state.Preview.Generation)
	}
	if payload.Width != state.Layout().PreviewWidth || payload.MaxLines < 3 {
		t.Errorf("payload size %dx%d", payload.Width, payload.MaxLines)
	}

	h.reply(t, state, reqs[0], protocol.PreviewResult{Path: "/test/d", Lines: []string{"x"}, Generation: payload.Generation}, nil)
	if state.Preview.Status != PreviewReady || len(state.Preview.Lines) != 1 {
		t.Errorf("preview = %+v", state.Preview)
	}
}

func TestMovementRestartsDebounce(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a", "b", "c")

	h.reduce(t, state, NavigateDownAction{})
	h.clock.advance(60 * time.Millisecond)
	h.reduce(t, state, NavigateDownAction{})
	h.reducer.Tick(state, h.clock.advance(60*time.Millisecond))
	if got := len(h.sub.matching(protocol.ContextPreview, protocol.KindPreview)); got != 0 {
		t.Fatalf("movement should restart the window, issued %d", got)
	}
	h.reducer.Tick(state, h.clock.advance(20*time.Millisecond))
	req := h.sub.last(t, protocol.ContextPreview, protocol.KindPreview)
	if req.Payload.(protocol.PreviewPayload).Path != "/test/c" {
		t.Errorf("previewed %s, want /test/c", req.Payload.(protocol.PreviewPayload).Path)
	}
}

func TestInstantPreviewIssuesOnEveryMove(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a", "b", "c")
	state.Settings.InstantPreview = true

	h.reduce(t, state, NavigateDownAction{}, NavigateDownAction{})
	reqs := h.sub.matching(protocol.ContextPreview, protocol.KindPreview)
	if len(reqs) != 2 {
		t.Fatalf("issued %d previews, want 2", len(reqs))
	}

	// The first reply is stale by id and by generation.
	h.reply(t, state, reqs[0], protocol.PreviewResult{Path: "/test/b", Lines: []string{"old"}, Generation: reqs[0].Payload.(protocol.PreviewPayload).Generation}, nil)
	if state.Preview.Status == PreviewReady {
		t.Fatal("stale preview applied")
	}
	h.reply(t, state, reqs[1], protocol.PreviewResult{Path: "/test/c", Lines: []string{"new"}, Generation: reqs[1].Payload.(protocol.PreviewPayload).Generation}, nil)
	if state.Preview.Status != PreviewReady || state.Preview.Lines[0] != "new" {
		t.Errorf("preview = %+v", state.Preview)
	}
}

func TestPreviewGenerationMismatchDropped(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a", "b")
	state.Settings.InstantPreview = true

	h.reduce(t, state, NavigateDownAction{})
	req := h.sub.last(t, protocol.ContextPreview, protocol.KindPreview)
	h.reply(t, state, req, protocol.PreviewResult{Path: "/test/b", Lines: []string{"x"}, Generation: state.Preview.Generation - 1}, nil)
	if state.Preview.Status != PreviewPending {
		t.Errorf("status = %v, want pending", state.Preview.Status)
	}
}

func TestDirectoryPreviewGoesThroughListWorker(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "docs/", "file")
	state.Settings.InstantPreview = true

	h.reduce(t, state, NavigateDownAction{}, NavigateUpAction{})
	req := h.sub.last(t, protocol.ContextPreview, protocol.KindList)
	if req.Payload.(protocol.ListPayload).Path != "/test/docs" {
		t.Fatalf("listing %s, want /test/docs", req.Payload.(protocol.ListPayload).Path)
	}

	h.reply(t, state, req, protocol.ListResult{Path: "/test/docs", Entries: entries("/test/docs", "readme")}, nil)
	if state.Preview.Status != PreviewReady {
		t.Fatalf("status = %v", state.Preview.Status)
	}
	width := state.Layout().PreviewWidth
	for i, line := range state.Preview.Lines {
		if len([]rune(line)) != width {
			t.Errorf("line %d width %d, want %d", i, len([]rune(line)), width)
		}
	}
}

func TestPreviewUnavailableWithoutSelection(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a")

	h.reduce(t, state, RefreshDirectoryAction{})
	req := h.sub.last(t, protocol.ContextMain, protocol.KindList)
	h.reply(t, state, req, protocol.ListResult{Path: "/test"}, nil)
	if state.Preview.Status != PreviewUnavailable || state.Preview.Target != "" {
		t.Errorf("preview = %+v", state.Preview)
	}
}

func TestPreviewFailedIssueRendersInline(t *testing.T) {
	h := newHarness(t)
	h.sub.fail = true
	state := newTestState("/nonexistent-dir-for-test", "missing")
	state.Settings.InstantPreview = true

	h.reduce(t, state, ResizeAction{Width: 90, Height: 20})
	if state.Preview.Status != PreviewReady {
		t.Fatalf("status = %v, want ready from the inline renderer", state.Preview.Status)
	}
	if len(state.Preview.Lines) == 0 {
		t.Error("inline renderer produced no lines")
	}
}

func TestPreviewHiddenPaneIsUnavailable(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a", "b")
	state.Settings.ShowPreview = false
	h.reduce(t, state, NavigateDownAction{})
	if state.Preview.Status != PreviewUnavailable {
		t.Errorf("status = %v", state.Preview.Status)
	}
	h.reducer.Tick(state, h.clock.advance(time.Second))
	if got := len(h.sub.matching(protocol.ContextPreview, protocol.KindPreview)); got != 0 {
		t.Errorf("issued %d previews for a hidden pane", got)
	}
}
