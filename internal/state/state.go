// Package state holds everything the interaction loop knows about the
// browser and the reducer that mutates it. State is owned by the
// interaction goroutine; workers only ever see copies sent as requests.
package state

import (
	"time"

	fsutil "github.com/kk-code-lab/runa/internal/fs"
	"github.com/kk-code-lab/runa/internal/protocol"
)

// FileEntry mirrors fs.Entry so UI/state code can rely on a stable type.
type FileEntry = fsutil.Entry

// Mode selects how keys are interpreted.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeRename
	ModeCreateFile
	ModeCreateDir
	ModeConfirmDelete
	ModeFind
)

// Prompting reports whether the mode reads a line of text.
func (m Mode) Prompting() bool {
	switch m {
	case ModeFilter, ModeRename, ModeCreateFile, ModeCreateDir, ModeFind:
		return true
	}
	return false
}

// ClipMode says what a paste does with the clipboard.
type ClipMode int

const (
	ClipCopy ClipMode = iota
	ClipCut
)

// ===== STATE DEFINITIONS =====

// NavState describes the main pane.
type NavState struct {
	CurrentDir string
	// Entries is the listing as delivered, already sorted and visibility
	// filtered. The name filter is applied on top by Visible.
	Entries []FileEntry
	Cursor  int // index into Visible()
	Scroll  int
	Filter  string

	Markers   map[string]struct{}
	Clipboard map[string]struct{}
	ClipMode  ClipMode

	Loading bool
	Err     error

	// per-directory memory
	positions map[string]string
	filters   map[string]string

	visible []FileEntry
}

// ParentState describes the parent pane.
type ParentState struct {
	Dir     string
	Entries []FileEntry
	// Highlight is the name of the current directory inside Dir.
	Highlight string
	Err       error
}

// PreviewStatus tracks the preview pane.
type PreviewStatus int

const (
	PreviewUnavailable PreviewStatus = iota
	PreviewPending
	PreviewReady
)

func (s PreviewStatus) String() string {
	switch s {
	case PreviewPending:
		return "pending"
	case PreviewReady:
		return "ready"
	default:
		return "unavailable"
	}
}

// PreviewState describes the preview pane. Generation moves on every
// selection change; only a response carrying the live generation is shown.
type PreviewState struct {
	Target     string
	TargetDir  bool
	Generation uint64
	Lines      []string
	Status     PreviewStatus
	Fallback   bool

	debouncing bool
	deadline   time.Time
	// issued is the generation of the newest request sent.
	issued uint64
}

// FindStatus tracks a fuzzy find session.
type FindStatus int

const (
	FindIdle FindStatus = iota
	FindRunning
	FindDone
	FindToolMissing
)

func (s FindStatus) String() string {
	switch s {
	case FindRunning:
		return "running"
	case FindDone:
		return "done"
	case FindToolMissing:
		return "tool missing"
	default:
		return "idle"
	}
}

// FindState describes the find overlay.
type FindState struct {
	Root     string
	Query    string
	Results  []protocol.FindMatch
	Selected int
	Scroll   int
	Status   FindStatus
	Err      error

	pending  bool
	deadline time.Time
}

// Notice is a status-line message that disappears after Expires.
type Notice struct {
	Text    string
	Error   bool
	Expires time.Time
}

// InfoState backs the show-info overlay.
type InfoState struct {
	Visible bool
	Info    fsutil.Info
	Err     error
}

// AppState is the single source of truth
type AppState struct {
	Nav     NavState
	Parent  ParentState
	Preview PreviewState
	Find    FindState

	Mode   Mode
	Prompt []rune
	// PromptPaths are the entries a rename or delete prompt applies to.
	PromptPaths []string

	Notice Notice
	Info   InfoState

	Settings Settings

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	// Now is the time of the last tick.
	Now time.Time

	// Error state
	LastError error
}

// NewAppState returns the state for a browser opened at dir. Nothing is
// loaded until the first LoadDirectoryAction.
func NewAppState(dir string, settings Settings) *AppState {
	return &AppState{
		Nav: NavState{
			CurrentDir: dir,
			Markers:    make(map[string]struct{}),
			Clipboard:  make(map[string]struct{}),
			positions:  make(map[string]string),
			filters:    make(map[string]string),
		},
		Settings: settings,
	}
}

func (s *AppState) ensureMaps() {
	if s.Nav.Markers == nil {
		s.Nav.Markers = make(map[string]struct{})
	}
	if s.Nav.Clipboard == nil {
		s.Nav.Clipboard = make(map[string]struct{})
	}
	if s.Nav.positions == nil {
		s.Nav.positions = make(map[string]string)
	}
	if s.Nav.filters == nil {
		s.Nav.filters = make(map[string]string)
	}
	if s.Nav.visible == nil && len(s.Nav.Entries) > 0 {
		s.refilter()
	}
}

func (s *AppState) notify(text string) {
	s.Notice = Notice{Text: text, Expires: s.Now.Add(noticeTTL)}
}

func (s *AppState) notifyError(err error) {
	s.LastError = err
	s.Notice = Notice{Text: err.Error(), Error: true, Expires: s.Now.Add(noticeTTL)}
}
