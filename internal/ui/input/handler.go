package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/runa/internal/config"
	statepkg "github.com/kk-code-lab/runa/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan<- statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
	keymap     *Keymap
}

// NewInputHandler creates a new input handler. A nil keymap falls back to the
// default bindings.
func NewInputHandler(actionChan chan<- statepkg.Action, keymap *Keymap) *InputHandler {
	if keymap == nil {
		keymap, _ = NewKeymap(config.DefaultKeys())
	}
	return &InputHandler{
		actionChan: actionChan,
		keymap:     keymap,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	mode := statepkg.ModeNormal
	infoVisible := false
	if ih.state != nil {
		mode = ih.state.Mode
		infoVisible = ih.state.Info.Visible
	}

	switch mode {
	case statepkg.ModeFilter:
		ih.filterKey(ev)
		return true
	case statepkg.ModeFind:
		ih.findKey(ev)
		return true
	case statepkg.ModeRename, statepkg.ModeCreateFile, statepkg.ModeCreateDir:
		ih.promptKey(ev)
		return true
	case statepkg.ModeConfirmDelete:
		yes := ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y')
		ih.actionChan <- statepkg.ConfirmDeleteAction{Yes: yes}
		return true
	}

	if infoVisible {
		// Any key closes the info box.
		ih.actionChan <- statepkg.HideInfoAction{}
		return true
	}

	if ev.Key() == tcell.KeyCtrlZ {
		ih.actionChan <- statepkg.SuspendAction{}
		return true
	}

	action, ok := ih.keymap.Lookup(ChordFor(ev))
	if !ok {
		return true
	}
	ih.actionChan <- action
	if _, quit := action.(statepkg.QuitAction); quit {
		return false
	}
	return true
}

func (ih *InputHandler) filterKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.FilterClearAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.FilterConfirmAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.FilterBackspaceAction{}
	case tcell.KeyUp:
		ih.actionChan <- statepkg.NavigateUpAction{}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.NavigateDownAction{}
	case tcell.KeyRune:
		ih.actionChan <- statepkg.FilterCharAction{Char: ev.Rune()}
	}
}

func (ih *InputHandler) findKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.FindCloseAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.FindOpenAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.FindBackspaceAction{}
	case tcell.KeyUp, tcell.KeyCtrlP:
		ih.actionChan <- statepkg.FindNavigateAction{Delta: -1}
	case tcell.KeyDown, tcell.KeyCtrlN:
		ih.actionChan <- statepkg.FindNavigateAction{Delta: 1}
	case tcell.KeyRune:
		ih.actionChan <- statepkg.FindCharAction{Char: ev.Rune()}
	}
}

func (ih *InputHandler) promptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.PromptCancelAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.PromptSubmitAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.PromptBackspaceAction{}
	case tcell.KeyRune:
		ih.actionChan <- statepkg.PromptCharAction{Char: ev.Rune()}
	}
}
