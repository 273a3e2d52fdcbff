//go:build windows

package app

import "os"

// Job control does not exist on Windows.
func (app *Application) suspendToShell() {
	app.notify("Suspend is not supported on Windows", false)
}

func (app *Application) resumeAfterStop() bool {
	return false
}

func contSignals() []os.Signal {
	return nil
}
