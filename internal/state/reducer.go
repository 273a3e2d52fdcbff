package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kk-code-lab/runa/internal/dispatch"
	"github.com/kk-code-lab/runa/internal/fileops"
	fsutil "github.com/kk-code-lab/runa/internal/fs"
	"github.com/kk-code-lab/runa/internal/loader"
	"github.com/kk-code-lab/runa/internal/preview"
	"github.com/kk-code-lab/runa/internal/protocol"
)

// Fallbacks run work inline when a worker cannot take a request.
type Fallbacks struct {
	List    func(protocol.ListPayload) (protocol.ListResult, error)
	Preview func(context.Context, protocol.PreviewPayload) protocol.PreviewResult
	FileOp  func(context.Context, protocol.Payload) (protocol.FileOpResult, error)
}

// ReducerConfig wires a reducer to the worker side. Zero fields get
// working defaults; a nil Dispatcher runs everything inline.
type ReducerConfig struct {
	Dispatcher    *dispatch.Dispatcher
	Fallbacks     Fallbacks
	FindAvailable func() bool
	// Cancel aborts the in-flight request of a worker kind.
	Cancel func(protocol.Kind)
	Clock  func() time.Time
	Logger *slog.Logger
}

// StateReducer applies actions to an AppState.
type StateReducer struct {
	dispatcher    *dispatch.Dispatcher
	fallback      Fallbacks
	findAvailable func() bool
	cancel        func(protocol.Kind)
	now           func() time.Time
	logger        *slog.Logger
}

type unavailable struct{}

func (unavailable) Submit(req protocol.Request) error {
	return fmt.Errorf("%s: %w", req.Kind, protocol.ErrWorkerUnavailable)
}

// NewStateReducer builds a reducer from cfg.
func NewStateReducer(cfg ReducerConfig) *StateReducer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &StateReducer{
		dispatcher:    cfg.Dispatcher,
		fallback:      cfg.Fallbacks,
		findAvailable: cfg.FindAvailable,
		cancel:        cfg.Cancel,
		now:           cfg.Clock,
		logger:        logger,
	}
	if r.dispatcher == nil {
		r.dispatcher = dispatch.New(unavailable{}, logger)
	}
	if r.fallback.List == nil {
		r.fallback.List = loader.NewDirectory().Load
	}
	if r.fallback.Preview == nil {
		r.fallback.Preview = preview.NewService(nil, logger).Preview
	}
	if r.fallback.FileOp == nil {
		r.fallback.FileOp = fileops.NewExecutor(logger).Run
	}
	if r.findAvailable == nil {
		r.findAvailable = func() bool { return true }
	}
	if r.cancel == nil {
		r.cancel = func(protocol.Kind) {}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Reduce applies action to state in place and returns it.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	state.ensureMaps()
	if tick, ok := action.(TickAction); ok {
		r.Tick(state, tick.Now)
		return state, nil
	}
	state.Now = r.now()

	switch a := action.(type) {
	case NavigateDownAction:
		if state.moveCursor(1) {
			r.selectionChanged(state)
		}

	case NavigateUpAction:
		if state.moveCursor(-1) {
			r.selectionChanged(state)
		}

	case EnterDirectoryAction:
		sel, ok := state.Selected()
		if ok && sel.IsDir {
			r.requestListing(state, sel.FullPath, "")
		}

	case GoParentAction:
		dir := state.Nav.CurrentDir
		parent := filepath.Dir(dir)
		if parent != dir {
			r.requestListing(state, parent, filepath.Base(dir))
		}

	case LoadDirectoryAction:
		r.requestListing(state, a.Path, a.Focus)

	case RefreshDirectoryAction:
		r.requestListing(state, state.Nav.CurrentDir, "")

	case ToggleMarkerAction:
		if state.toggleMarker(state.Settings.ToggleMarkerJump) {
			r.selectionChanged(state)
		}

	case ClearMarkersAction:
		state.Nav.Markers = make(map[string]struct{})
		state.Nav.Clipboard = make(map[string]struct{})

	case CopyAction:
		r.fillClipboard(state, ClipCopy)

	case CutAction:
		r.fillClipboard(state, ClipCut)

	case PasteAction:
		r.paste(state)

	case FilterStartAction:
		state.Mode = ModeFilter

	case FilterCharAction:
		state.setFilter(state.Nav.Filter + string(a.Char))
		r.selectionChanged(state)

	case FilterBackspaceAction:
		if state.Nav.Filter == "" {
			break
		}
		runes := []rune(state.Nav.Filter)
		state.setFilter(string(runes[:len(runes)-1]))
		r.selectionChanged(state)

	case FilterConfirmAction:
		state.Mode = ModeNormal

	case FilterClearAction:
		state.Mode = ModeNormal
		if state.Nav.Filter != "" {
			state.setFilter("")
			r.selectionChanged(state)
		}

	case DeleteAction:
		targets := state.Targets()
		if len(targets) == 0 {
			break
		}
		state.Mode = ModeConfirmDelete
		state.PromptPaths = targets

	case ConfirmDeleteAction:
		paths := state.PromptPaths
		state.Mode = ModeNormal
		state.PromptPaths = nil
		if a.Yes && len(paths) > 0 {
			r.runFileOp(state, protocol.DeletePayload{Paths: paths})
		}

	case RenameAction:
		sel, ok := state.Selected()
		if !ok {
			break
		}
		state.Mode = ModeRename
		state.Prompt = []rune(sel.Name)
		state.PromptPaths = []string{sel.FullPath}

	case CreateFileAction:
		state.Mode = ModeCreateFile
		state.Prompt = nil

	case CreateDirectoryAction:
		state.Mode = ModeCreateDir
		state.Prompt = nil

	case PromptCharAction:
		if state.Mode.Prompting() {
			state.Prompt = append(state.Prompt, a.Char)
		}

	case PromptBackspaceAction:
		if n := len(state.Prompt); n > 0 {
			state.Prompt = state.Prompt[:n-1]
		}

	case PromptCancelAction:
		state.Mode = ModeNormal
		state.Prompt = nil
		state.PromptPaths = nil

	case PromptSubmitAction:
		r.submitPrompt(state)

	case FindStartAction:
		r.startFind(state)

	case FindCharAction:
		if state.Mode != ModeFind {
			break
		}
		state.Find.Query += string(a.Char)
		r.scheduleFind(state, findCharDebounce)

	case FindBackspaceAction:
		if state.Mode != ModeFind || state.Find.Query == "" {
			break
		}
		runes := []rune(state.Find.Query)
		state.Find.Query = string(runes[:len(runes)-1])
		if state.Find.Query == "" {
			r.clearFind(state)
		} else {
			r.scheduleFind(state, findBackspaceDebounce)
		}

	case FindNavigateAction:
		r.moveFindSelection(state, a.Delta)

	case FindOpenAction:
		r.openFindResult(state)

	case FindCloseAction:
		r.closeFind(state)

	case ResizeAction:
		if a.Width == state.ScreenWidth && a.Height == state.ScreenHeight {
			break
		}
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		state.ensureCursorVisible()
		r.ensureFindSelectionVisible(state)
		r.selectionChanged(state)

	case ToggleHiddenFilesAction:
		state.Settings.List.ShowHidden = !state.Settings.List.ShowHidden
		if state.Settings.List.ShowHidden {
			state.notify("Showing hidden files")
		} else {
			state.notify("Hiding hidden files")
		}
		r.requestListing(state, state.Nav.CurrentDir, "")

	case ShowInfoAction:
		if state.Info.Visible {
			state.Info = InfoState{}
			break
		}
		sel, ok := state.Selected()
		if !ok {
			break
		}
		info, err := fsutil.Stat(sel.FullPath)
		state.Info = InfoState{Visible: true, Info: info, Err: err}

	case HideInfoAction:
		state.Info = InfoState{}

	case NoticeAction:
		if a.Error {
			state.notifyError(errors.New(a.Text))
		} else {
			state.notify(a.Text)
		}

	case ResponseAction:
		r.applyResponse(state, a.Response)

	default:
		return state, fmt.Errorf("unhandled action %T", action)
	}
	return state, nil
}

// Tick advances the debounce timers and expires notices. It reports
// whether anything visible changed.
func (r *StateReducer) Tick(state *AppState, now time.Time) bool {
	state.ensureMaps()
	state.Now = now
	changed := false
	if state.Preview.debouncing && !now.Before(state.Preview.deadline) {
		r.issuePreview(state)
		changed = true
	}
	if state.Find.pending && !now.Before(state.Find.deadline) {
		r.issueFind(state)
		changed = true
	}
	if state.Notice.Text != "" && now.After(state.Notice.Expires) {
		state.Notice = Notice{}
		changed = true
	}
	return changed
}

// ===== LISTINGS =====

// requestListing asks for the main-pane listing of path. The visible
// directory only changes once the listing is accepted.
func (r *StateReducer) requestListing(state *AppState, path, focus string) {
	payload := protocol.ListPayload{
		Path:    filepath.Clean(path),
		Options: state.Settings.List,
		Focus:   focus,
	}
	state.Nav.Loading = true
	if _, err := r.dispatcher.Issue(protocol.ContextMain, payload); err != nil {
		r.dispatcher.Invalidate(protocol.ContextMain, protocol.KindList)
		res, lerr := r.fallback.List(payload)
		r.applyMain(state, res, lerr)
	}
}

func (r *StateReducer) applyMain(state *AppState, res protocol.ListResult, err error) {
	if err != nil {
		state.Nav.Loading = false
		if res.Path == state.Nav.CurrentDir {
			state.Nav.Err = err
			state.Nav.Entries = nil
			state.refilter()
			state.clampCursor()
		}
		state.notifyError(err)
		r.selectionChanged(state)
		return
	}
	if res.Path != state.Nav.CurrentDir {
		state.rememberPosition()
		state.Info = InfoState{}
	}
	state.applyListing(res)
	r.requestParent(state)
	r.selectionChanged(state)
}

func (r *StateReducer) requestParent(state *AppState) {
	dir := state.Nav.CurrentDir
	parent := filepath.Dir(dir)
	if !state.Settings.ShowParent || parent == dir {
		r.dispatcher.Invalidate(protocol.ContextParent, protocol.KindList)
		state.Parent = ParentState{}
		return
	}
	name := filepath.Base(dir)
	opts := state.Settings.List.Clone()
	opts.AlwaysShow = append(opts.AlwaysShow, name)
	payload := protocol.ListPayload{Path: parent, Options: opts, Focus: name}
	if _, err := r.dispatcher.Issue(protocol.ContextParent, payload); err != nil {
		r.dispatcher.Invalidate(protocol.ContextParent, protocol.KindList)
		res, lerr := r.fallback.List(payload)
		r.applyParent(state, res, lerr)
	}
}

func (r *StateReducer) applyParent(state *AppState, res protocol.ListResult, err error) {
	if res.Path != filepath.Dir(state.Nav.CurrentDir) {
		return
	}
	if err != nil {
		state.Parent = ParentState{Dir: res.Path, Err: err}
		return
	}
	state.applyParentListing(res, filepath.Base(state.Nav.CurrentDir))
}

// ===== RESPONSES =====

func (r *StateReducer) applyResponse(state *AppState, resp protocol.Response) {
	fresh := r.dispatcher.Accept(resp)
	if resp.Kind == protocol.KindFileOp {
		// Every operation reports its outcome; only the newest reloads.
		res, _ := resp.Result.(protocol.FileOpResult)
		r.applyFileOp(state, res, resp.Err, fresh)
		return
	}
	if !fresh {
		return
	}
	switch resp.Key() {
	case protocol.Key{Context: protocol.ContextMain, Kind: protocol.KindList}:
		res, _ := resp.Result.(protocol.ListResult)
		r.applyMain(state, res, resp.Err)
	case protocol.Key{Context: protocol.ContextParent, Kind: protocol.KindList}:
		res, _ := resp.Result.(protocol.ListResult)
		r.applyParent(state, res, resp.Err)
	case protocol.Key{Context: protocol.ContextPreview, Kind: protocol.KindList}:
		res, _ := resp.Result.(protocol.ListResult)
		r.applyDirPreview(state, res, resp.Err)
	case protocol.Key{Context: protocol.ContextPreview, Kind: protocol.KindPreview}:
		res, ok := resp.Result.(protocol.PreviewResult)
		if resp.Err != nil || !ok {
			r.previewFailed(state, resp.Err)
			return
		}
		r.applyFilePreview(state, res)
	case protocol.Key{Context: protocol.ContextFind, Kind: protocol.KindFind}:
		r.applyFind(state, resp)
	default:
		r.logger.Debug("response for unknown key", "key", resp.Key().String())
	}
}

// ===== FILE OPERATIONS =====

func (r *StateReducer) fillClipboard(state *AppState, mode ClipMode) {
	targets := state.Targets()
	if len(targets) == 0 {
		return
	}
	state.Nav.Clipboard = make(map[string]struct{}, len(targets))
	for _, path := range targets {
		state.Nav.Clipboard[path] = struct{}{}
	}
	state.Nav.ClipMode = mode
	state.Nav.Markers = make(map[string]struct{})

	verb := "copied"
	if mode == ClipCut {
		verb = "cut"
	}
	state.notify(fmt.Sprintf("%s %s", itemCount(len(targets)), verb))
}

func (r *StateReducer) paste(state *AppState) {
	if len(state.Nav.Clipboard) == 0 {
		state.notify("Clipboard is empty")
		return
	}
	sources := sortedKeys(state.Nav.Clipboard)
	r.runFileOp(state, protocol.PastePayload{
		Sources: sources,
		Dest:    state.Nav.CurrentDir,
		Cut:     state.Nav.ClipMode == ClipCut,
		Focus:   filepath.Base(sources[0]),
	})
}

func (r *StateReducer) submitPrompt(state *AppState) {
	mode := state.Mode
	name := strings.TrimSpace(string(state.Prompt))
	paths := state.PromptPaths
	state.Mode = ModeNormal
	state.Prompt = nil
	state.PromptPaths = nil

	if name == "" {
		return
	}
	if name == "." || name == ".." || strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
		state.notifyError(fmt.Errorf("invalid name %q", name))
		return
	}

	switch mode {
	case ModeRename:
		if len(paths) == 0 {
			return
		}
		from := paths[0]
		to := filepath.Join(filepath.Dir(from), name)
		if to == from {
			return
		}
		r.runFileOp(state, protocol.RenamePayload{From: from, To: to})
	case ModeCreateFile:
		r.runFileOp(state, protocol.CreatePayload{Path: filepath.Join(state.Nav.CurrentDir, name)})
	case ModeCreateDir:
		r.runFileOp(state, protocol.CreatePayload{Path: filepath.Join(state.Nav.CurrentDir, name), Dir: true})
	}
}

func (r *StateReducer) runFileOp(state *AppState, payload protocol.Payload) {
	if _, err := r.dispatcher.Issue(protocol.ContextFileOp, payload); err != nil {
		r.dispatcher.Invalidate(protocol.ContextFileOp, protocol.KindFileOp)
		res, ferr := r.fallback.FileOp(context.Background(), payload)
		r.applyFileOp(state, res, ferr, true)
	}
}

// applyFileOp reports an operation's outcome. reload is false for replies
// that a later operation has already superseded.
func (r *StateReducer) applyFileOp(state *AppState, res protocol.FileOpResult, err error, reload bool) {
	if err != nil {
		r.logger.Warn("file operation failed", "op", string(res.Op), "path", res.Failed, "error", err)
		state.notifyError(err)
	} else if res.Message != "" {
		state.notify(res.Message)
	}

	switch res.Op {
	case protocol.OpDelete:
		for _, path := range res.Affected {
			delete(state.Nav.Markers, path)
			delete(state.Nav.Clipboard, path)
		}
	case protocol.OpMove:
		if err == nil {
			state.Nav.Clipboard = make(map[string]struct{})
		}
	}

	if reload && res.NeedReload {
		r.requestListing(state, state.Nav.CurrentDir, res.Focus)
	}
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
