package state

import (
	"time"

	"github.com/kk-code-lab/runa/internal/protocol"
)

// Action is the base interface for all state mutations
type Action interface{}

// ===== NAVIGATION ACTIONS =====

type NavigateUpAction struct{}
type NavigateDownAction struct{}
type EnterDirectoryAction struct{}
type GoParentAction struct{}
type RefreshDirectoryAction struct{}

// LoadDirectoryAction lists Path and selects Focus once it arrives.
type LoadDirectoryAction struct {
	Path  string
	Focus string
}

// ===== SELECTION ACTIONS =====

type ToggleMarkerAction struct{}
type ClearMarkersAction struct{}
type CopyAction struct{}
type CutAction struct{}
type PasteAction struct{}

// ===== FILTER ACTIONS =====

type FilterStartAction struct{}
type FilterCharAction struct {
	Char rune
}
type FilterBackspaceAction struct{}
type FilterConfirmAction struct{}
type FilterClearAction struct{}

// ===== PROMPT ACTIONS =====

type DeleteAction struct{}
type RenameAction struct{}
type CreateFileAction struct{}
type CreateDirectoryAction struct{}

type PromptCharAction struct {
	Char rune
}
type PromptBackspaceAction struct{}
type PromptSubmitAction struct{}
type PromptCancelAction struct{}

// ConfirmDeleteAction answers the delete prompt.
type ConfirmDeleteAction struct {
	Yes bool
}

// ===== FIND ACTIONS =====

type FindStartAction struct{}
type FindCharAction struct {
	Char rune
}
type FindBackspaceAction struct{}
type FindNavigateAction struct {
	Delta int
}
type FindOpenAction struct{}
type FindCloseAction struct{}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

type ToggleHiddenFilesAction struct{}
type ShowInfoAction struct{}
type HideInfoAction struct{}

// NoticeAction shows a status-line message.
type NoticeAction struct {
	Text  string
	Error bool
}

// ===== LOOP ACTIONS =====

// TickAction advances debounce timers and notice expiry.
type TickAction struct {
	Now time.Time
}

// ResponseAction delivers a worker response.
type ResponseAction struct {
	Response protocol.Response
}

// ===== APPLICATION ACTIONS =====
// Handled by the application, never reach the reducer.

type QuitAction struct{}
type OpenFileAction struct{}
type YankPathAction struct{}
type SuspendAction struct{}
