package app

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/runa/internal/state"
)

// tickInterval drives debounce deadlines and notice expiry.
const tickInterval = 16 * time.Millisecond

// Run starts the workers and processes events until the user quits or ctx
// is cancelled.
func (app *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.pool.Start(ctx)

	app.dispatch(statepkg.LoadDirectoryAction{Path: app.state.Nav.CurrentDir})
	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	responses := app.pool.Responses()

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case resp, ok := <-responses:
			if !ok {
				return nil
			}
			if app.handleAction(statepkg.ResponseAction{Response: resp}) {
				renderPending = true
			}
		case now := <-ticker.C:
			if app.reducer.Tick(app.state, now) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
	return nil
}

func (app *Application) render() {
	app.renderer.Render(app.state.View())
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		// Resumed from the SIGCONT case in Run.
		app.suspendToShell()
		return false
	}

	return app.handleAppAction(action)
}

func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.YankPathAction:
		return app.handleYankPath()
	case statepkg.OpenFileAction:
		return app.handleOpenFile()
	}

	app.dispatch(action)
	return true
}

// dispatch runs the reducer; failures are shown on the status line.
func (app *Application) dispatch(action statepkg.Action) {
	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.logger.Warn("action failed", "action", actionName(action), "error", err)
		app.state.LastError = err
	}
}
