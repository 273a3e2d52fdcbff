package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/kk-code-lab/runa/internal/dispatch"
	"github.com/kk-code-lab/runa/internal/find"
	"github.com/kk-code-lab/runa/internal/protocol"
)

// ===== FIND TESTS =====

func typeQuery(t *testing.T, h *harness, state *AppState, query string) {
	t.Helper()
	for _, r := range query {
		h.reduce(t, state, FindCharAction{Char: r})
	}
}

func TestFindRequiresTool(t *testing.T) {
	sub := &recorder{}
	reducer := NewStateReducer(ReducerConfig{
		Dispatcher:    dispatch.New(sub, nil),
		FindAvailable: func() bool { return false },
	})
	state := newTestState("/test", "a")

	if _, err := reducer.Reduce(state, FindStartAction{}); err != nil {
		t.Fatal(err)
	}
	if state.Mode == ModeFind {
		t.Error("find mode should not open without the tool")
	}
	if state.Find.Status != FindToolMissing {
		t.Errorf("status = %v, want tool missing", state.Find.Status)
	}
	if state.Notice.Text != find.ToolMissingNotice {
		t.Errorf("notice = %q", state.Notice.Text)
	}
}

func TestFindDebouncesTyping(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/root", "a")
	h.reduce(t, state, FindStartAction{})
	typeQuery(t, h, state, "ab")

	h.reducer.Tick(state, h.clock.advance(100*time.Millisecond))
	if got := len(h.sub.matching(protocol.ContextFind, protocol.KindFind)); got != 0 {
		t.Fatalf("issued %d searches inside the typing window", got)
	}
	h.reducer.Tick(state, h.clock.advance(30*time.Millisecond))
	req := h.sub.last(t, protocol.ContextFind, protocol.KindFind)
	payload := req.Payload.(protocol.FindPayload)
	if payload.Query != "ab" || payload.Root != "/root" || payload.MaxResults != find.DefaultMaxResults {
		t.Errorf("payload = %+v", payload)
	}
	if state.Find.Status != FindRunning {
		t.Errorf("status = %v, want running", state.Find.Status)
	}
}

func TestFindBackspaceUsesShorterWindow(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/root", "a")
	h.reduce(t, state, FindStartAction{})
	typeQuery(t, h, state, "abc")
	h.reducer.Tick(state, h.clock.advance(200*time.Millisecond))

	h.reduce(t, state, FindBackspaceAction{})
	h.reducer.Tick(state, h.clock.advance(95*time.Millisecond))
	reqs := h.sub.matching(protocol.ContextFind, protocol.KindFind)
	if len(reqs) != 2 || reqs[1].Payload.(protocol.FindPayload).Query != "ab" {
		t.Fatalf("requests = %d, want a second search for ab", len(reqs))
	}
}

func TestFindNewerQuerySupersedes(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/root", "a")
	h.reduce(t, state, FindStartAction{})

	typeQuery(t, h, state, "abc")
	h.reducer.Tick(state, h.clock.advance(time.Second))
	first := h.sub.last(t, protocol.ContextFind, protocol.KindFind)

	typeQuery(t, h, state, "d")
	// A reply to the old query arriving now must be ignored even before the
	// new search is issued.
	h.reply(t, state, first, protocol.FindResult{Query: "abc", Matches: []protocol.FindMatch{{Path: "/root/abc", Rel: "abc"}}}, nil)
	if len(state.Find.Results) != 0 {
		t.Fatal("results for a superseded query applied")
	}

	h.reducer.Tick(state, h.clock.advance(time.Second))
	second := h.sub.last(t, protocol.ContextFind, protocol.KindFind)
	if second.Payload.(protocol.FindPayload).Query != "abcd" {
		t.Fatalf("second query = %q", second.Payload.(protocol.FindPayload).Query)
	}
	h.reply(t, state, second, protocol.FindResult{Query: "abcd", Matches: []protocol.FindMatch{{Path: "/root/abcd", Rel: "abcd"}}}, nil)
	if len(state.Find.Results) != 1 || state.Find.Results[0].Rel != "abcd" || state.Find.Status != FindDone {
		t.Errorf("find = %+v", state.Find)
	}
}

func TestFindEmptyQueryClears(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/root", "a")
	h.reduce(t, state, FindStartAction{})
	typeQuery(t, h, state, "x")
	h.reducer.Tick(state, h.clock.advance(time.Second))
	req := h.sub.last(t, protocol.ContextFind, protocol.KindFind)
	h.reply(t, state, req, protocol.FindResult{Query: "x", Matches: []protocol.FindMatch{{Path: "/root/x"}}}, nil)

	h.reduce(t, state, FindBackspaceAction{})
	if state.Find.Status != FindIdle || len(state.Find.Results) != 0 {
		t.Errorf("find = %+v, want idle and empty", state.Find)
	}
}

func TestFindZeroResultsIsDone(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/root", "a")
	h.reduce(t, state, FindStartAction{})
	typeQuery(t, h, state, "zzz")
	h.reducer.Tick(state, h.clock.advance(time.Second))
	req := h.sub.last(t, protocol.ContextFind, protocol.KindFind)
	h.reply(t, state, req, protocol.FindResult{Query: "zzz"}, nil)
	if state.Find.Status != FindDone {
		t.Errorf("status = %v, want done", state.Find.Status)
	}
}

func TestFindToolMissingReply(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/root", "a")
	h.reduce(t, state, FindStartAction{})
	typeQuery(t, h, state, "q")
	h.reducer.Tick(state, h.clock.advance(time.Second))
	req := h.sub.last(t, protocol.ContextFind, protocol.KindFind)
	h.reply(t, state, req, protocol.FindResult{Query: "q"}, fmt.Errorf("fd: %w", protocol.ErrToolMissing))
	if state.Find.Status != FindToolMissing {
		t.Errorf("status = %v", state.Find.Status)
	}
}

func TestFindIssueFailureSetsError(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/root", "a")
	h.reduce(t, state, FindStartAction{})
	h.sub.fail = true
	typeQuery(t, h, state, "q")
	h.reducer.Tick(state, h.clock.advance(time.Second))
	if state.Find.Err == nil || !state.Notice.Error {
		t.Errorf("find = %+v notice = %+v", state.Find, state.Notice)
	}
}

func TestFindOpenResult(t *testing.T) {
	tests := []struct {
		name      string
		match     protocol.FindMatch
		wantPath  string
		wantFocus string
	}{
		{"directory is entered", protocol.FindMatch{Path: "/root/src/pkg", IsDir: true}, "/root/src/pkg", ""},
		{"file focuses in parent", protocol.FindMatch{Path: "/root/src/main.go"}, "/root/src", "main.go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			state := newTestState("/root", "a")
			h.reduce(t, state, FindStartAction{})
			typeQuery(t, h, state, "m")
			h.reducer.Tick(state, h.clock.advance(time.Second))
			req := h.sub.last(t, protocol.ContextFind, protocol.KindFind)
			h.reply(t, state, req, protocol.FindResult{Query: "m", Matches: []protocol.FindMatch{tt.match}}, nil)

			h.reduce(t, state, FindOpenAction{})
			if state.Mode != ModeNormal {
				t.Errorf("mode = %v, want normal", state.Mode)
			}
			list := h.sub.last(t, protocol.ContextMain, protocol.KindList).Payload.(protocol.ListPayload)
			if list.Path != tt.wantPath || list.Focus != tt.wantFocus {
				t.Errorf("listing %+v, want %s focus %q", list, tt.wantPath, tt.wantFocus)
			}
		})
	}
}

func TestFindNavigateWraps(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/root", "a")
	h.reduce(t, state, FindStartAction{})
	typeQuery(t, h, state, "m")
	h.reducer.Tick(state, h.clock.advance(time.Second))
	req := h.sub.last(t, protocol.ContextFind, protocol.KindFind)
	h.reply(t, state, req, protocol.FindResult{Query: "m", Matches: []protocol.FindMatch{{Path: "/1"}, {Path: "/2"}, {Path: "/3"}}}, nil)

	h.reduce(t, state, FindNavigateAction{Delta: -1})
	if state.Find.Selected != 2 {
		t.Errorf("selected = %d, want 2", state.Find.Selected)
	}
	h.reduce(t, state, FindNavigateAction{Delta: 1})
	if state.Find.Selected != 0 {
		t.Errorf("selected = %d, want 0", state.Find.Selected)
	}
}

func TestFindCloseDropsLateResults(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/root", "a")
	h.reduce(t, state, FindStartAction{})
	typeQuery(t, h, state, "m")
	h.reducer.Tick(state, h.clock.advance(time.Second))
	req := h.sub.last(t, protocol.ContextFind, protocol.KindFind)

	h.reduce(t, state, FindCloseAction{})
	h.reply(t, state, req, protocol.FindResult{Query: "m", Matches: []protocol.FindMatch{{Path: "/1"}}}, nil)
	if state.Mode != ModeNormal || len(state.Find.Results) != 0 {
		t.Errorf("mode = %v results = %d", state.Mode, len(state.Find.Results))
	}
}
