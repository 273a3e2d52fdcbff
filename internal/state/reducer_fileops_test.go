package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kk-code-lab/runa/internal/protocol"
)

func writeFile(path string) error {
	return os.WriteFile(path, []byte("data\n"), 0o644)
}

// ===== FILE OPERATION TESTS =====

func TestCopyFillsClipboardAndClearsMarkers(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a", "b", "c")
	h.reduce(t, state, ToggleMarkerAction{}, ToggleMarkerAction{}, CopyAction{})

	if len(state.Nav.Markers) != 0 {
		t.Errorf("markers = %v, want cleared", state.Nav.Markers)
	}
	if !state.InClipboard("/test/a") || !state.InClipboard("/test/b") || state.InClipboard("/test/c") {
		t.Errorf("clipboard = %v", state.Nav.Clipboard)
	}
	if state.Nav.ClipMode != ClipCopy {
		t.Errorf("clip mode = %v", state.Nav.ClipMode)
	}
}

func TestPasteIssuesSortedSources(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/src", "b", "a")
	state.Nav.Markers["/src/b"] = struct{}{}
	state.Nav.Markers["/src/a"] = struct{}{}
	h.reduce(t, state, CutAction{})
	state.Nav.CurrentDir = "/dst"

	h.reduce(t, state, PasteAction{})
	req := h.sub.last(t, protocol.ContextFileOp, protocol.KindFileOp)
	payload := req.Payload.(protocol.PastePayload)
	if !payload.Cut || payload.Dest != "/dst" || payload.Focus != "a" {
		t.Fatalf("payload = %+v", payload)
	}
	if len(payload.Sources) != 2 || payload.Sources[0] != "/src/a" || payload.Sources[1] != "/src/b" {
		t.Errorf("sources = %v", payload.Sources)
	}

	h.reply(t, state, req, protocol.FileOpResult{Op: protocol.OpMove, Affected: []string{"/dst/a", "/dst/b"}, Focus: "a", NeedReload: true, Message: "Pasted"}, nil)
	if len(state.Nav.Clipboard) != 0 {
		t.Error("a completed move should empty the clipboard")
	}
	reload := h.sub.last(t, protocol.ContextMain, protocol.KindList).Payload.(protocol.ListPayload)
	if reload.Path != "/dst" || reload.Focus != "a" {
		t.Errorf("reload = %+v", reload)
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a")
	h.reduce(t, state, PasteAction{})
	if len(h.sub.matching(protocol.ContextFileOp, protocol.KindFileOp)) != 0 {
		t.Error("nothing to paste")
	}
	if state.Notice.Text == "" {
		t.Error("expected a notice")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		answer  bool
		wantOps int
	}{
		{"declined", false, 0},
		{"confirmed", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			state := newTestState("/test", "a", "b")
			h.reduce(t, state, DeleteAction{})
			if state.Mode != ModeConfirmDelete || len(state.PromptPaths) != 1 {
				t.Fatalf("mode = %v paths = %v", state.Mode, state.PromptPaths)
			}
			h.reduce(t, state, ConfirmDeleteAction{Yes: tt.answer})
			if state.Mode != ModeNormal {
				t.Errorf("mode = %v", state.Mode)
			}
			reqs := h.sub.matching(protocol.ContextFileOp, protocol.KindFileOp)
			if len(reqs) != tt.wantOps {
				t.Fatalf("ops = %d, want %d", len(reqs), tt.wantOps)
			}
			if tt.wantOps == 1 {
				paths := reqs[0].Payload.(protocol.DeletePayload).Paths
				if len(paths) != 1 || paths[0] != "/test/a" {
					t.Errorf("paths = %v", paths)
				}
			}
		})
	}
}

func TestDeleteResultDropsMarkers(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a", "b")
	state.Nav.Markers["/test/a"] = struct{}{}
	h.reduce(t, state, DeleteAction{}, ConfirmDeleteAction{Yes: true})
	req := h.sub.last(t, protocol.ContextFileOp, protocol.KindFileOp)
	h.reply(t, state, req, protocol.FileOpResult{Op: protocol.OpDelete, Affected: []string{"/test/a"}, NeedReload: true, Message: "Item deleted"}, nil)
	if state.IsMarked("/test/a") {
		t.Error("deleted path still marked")
	}
	if state.Notice.Text != "Item deleted" {
		t.Errorf("notice = %q", state.Notice.Text)
	}
}

func TestSupersededFileOpStillReportsFailure(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a", "b")
	state.Nav.Markers["/test/a"] = struct{}{}

	h.reduce(t, state, DeleteAction{}, ConfirmDeleteAction{Yes: true})
	deleteReq := h.sub.last(t, protocol.ContextFileOp, protocol.KindFileOp)

	h.reduce(t, state, CreateFileAction{}, PromptCharAction{Char: 'x'}, PromptSubmitAction{})
	createReq := h.sub.last(t, protocol.ContextFileOp, protocol.KindFileOp)
	if createReq.ID == deleteReq.ID {
		t.Fatal("create was not issued")
	}
	listsBefore := len(h.sub.matching(protocol.ContextMain, protocol.KindList))

	h.reply(t, state, deleteReq,
		protocol.FileOpResult{Op: protocol.OpDelete, Failed: "/test/a", NeedReload: true},
		protocol.NewIoError("delete", "/test/a", os.ErrPermission))
	if !state.Notice.Error || !strings.Contains(state.Notice.Text, "/test/a") {
		t.Fatalf("notice = %+v, want the delete failure", state.Notice)
	}
	if got := len(h.sub.matching(protocol.ContextMain, protocol.KindList)); got != listsBefore {
		t.Errorf("superseded reply issued %d reloads", got-listsBefore)
	}

	h.reply(t, state, createReq,
		protocol.FileOpResult{Op: protocol.OpCreate, Affected: []string{"/test/x"}, Focus: "x", NeedReload: true, Message: "Created"}, nil)
	if state.Notice.Text != "Created" {
		t.Errorf("notice = %q", state.Notice.Text)
	}
	reload := h.sub.last(t, protocol.ContextMain, protocol.KindList).Payload.(protocol.ListPayload)
	if reload.Focus != "x" {
		t.Errorf("reload = %+v", reload)
	}
}

func TestSupersededDeleteStillDropsMarkers(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a", "b")
	state.Nav.Markers["/test/a"] = struct{}{}

	h.reduce(t, state, DeleteAction{}, ConfirmDeleteAction{Yes: true})
	deleteReq := h.sub.last(t, protocol.ContextFileOp, protocol.KindFileOp)
	h.reduce(t, state, CreateDirectoryAction{}, PromptCharAction{Char: 'd'}, PromptSubmitAction{})

	h.reply(t, state, deleteReq, protocol.FileOpResult{Op: protocol.OpDelete, Affected: []string{"/test/a"}, NeedReload: true, Message: "Item deleted"}, nil)
	if state.IsMarked("/test/a") {
		t.Error("deleted path still marked")
	}
	if state.Notice.Text != "Item deleted" {
		t.Errorf("notice = %q", state.Notice.Text)
	}
}

func TestRenamePrompt(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "old.txt")
	h.reduce(t, state, RenameAction{})
	if state.Mode != ModeRename || string(state.Prompt) != "old.txt" {
		t.Fatalf("mode = %v prompt = %q", state.Mode, string(state.Prompt))
	}
	for i := 0; i < len("old.txt"); i++ {
		h.reduce(t, state, PromptBackspaceAction{})
	}
	for _, r := range "new.txt" {
		h.reduce(t, state, PromptCharAction{Char: r})
	}
	h.reduce(t, state, PromptSubmitAction{})

	payload := h.sub.last(t, protocol.ContextFileOp, protocol.KindFileOp).Payload.(protocol.RenamePayload)
	if payload.From != "/test/old.txt" || payload.To != "/test/new.txt" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestPromptRejectsInvalidNames(t *testing.T) {
	for _, name := range []string{"..", "a/b", "   "} {
		h := newHarness(t)
		state := newTestState("/test", "a")
		h.reduce(t, state, CreateFileAction{})
		for _, r := range name {
			h.reduce(t, state, PromptCharAction{Char: r})
		}
		h.reduce(t, state, PromptSubmitAction{})
		if got := len(h.sub.matching(protocol.ContextFileOp, protocol.KindFileOp)); got != 0 {
			t.Errorf("name %q issued %d ops", name, got)
		}
		if state.Mode != ModeNormal {
			t.Errorf("name %q left mode %v", name, state.Mode)
		}
	}
}

func TestPromptCancel(t *testing.T) {
	h := newHarness(t)
	state := newTestState("/test", "a")
	h.reduce(t, state, CreateDirectoryAction{}, PromptCharAction{Char: 'x'}, PromptCancelAction{})
	if state.Mode != ModeNormal || len(state.Prompt) != 0 {
		t.Errorf("mode = %v prompt = %q", state.Mode, string(state.Prompt))
	}
}

func TestCreateFallsBackInline(t *testing.T) {
	h := newHarness(t)
	h.sub.fail = true
	dir := t.TempDir()
	if err := writeFile(filepath.Join(dir, "file.txt")); err != nil {
		t.Fatal(err)
	}
	state := newTestState(dir)
	h.reduce(t, state, LoadDirectoryAction{Path: dir})

	for _, want := range []string{"file_1.txt", "file_2.txt"} {
		h.reduce(t, state, CreateFileAction{})
		for _, r := range "file.txt" {
			h.reduce(t, state, PromptCharAction{Char: r})
		}
		h.reduce(t, state, PromptSubmitAction{})

		if _, err := os.Stat(filepath.Join(dir, want)); err != nil {
			t.Fatalf("expected %s: %v", want, err)
		}
		if selectedName(state) != want {
			t.Errorf("selected = %q, want %s", selectedName(state), want)
		}
	}
}
