package app

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	statepkg "github.com/kk-code-lab/runa/internal/state"
)

func actionName(action statepkg.Action) string {
	return fmt.Sprintf("%T", action)
}

func (app *Application) notify(text string, isErr bool) {
	app.dispatch(statepkg.NoticeAction{Text: text, Error: isErr})
}

func (app *Application) handleYankPath() bool {
	entry, ok := app.state.Selected()
	if !ok {
		return false
	}
	p := normalizeClipboardPath(entry.FullPath, runtime.GOOS)
	if err := app.clipboard(p); err != nil {
		app.logger.Warn("clipboard write failed", "error", err)
		app.notify(fmt.Sprintf("Copy failed: %v", err), true)
		return true
	}
	app.notify("Copied path: "+p, false)
	return true
}

func normalizeClipboardPath(inputPath string, goos string) string {
	if strings.EqualFold(goos, "windows") {
		cleaned := filepath.Clean(inputPath)
		return strings.ReplaceAll(cleaned, "/", `\`)
	}
	return path.Clean(filepath.ToSlash(inputPath))
}

// handleOpenFile enters a selected directory or opens a file in the
// editor, reloading the listing afterwards.
func (app *Application) handleOpenFile() bool {
	entry, ok := app.state.Selected()
	if !ok {
		return false
	}
	if entry.IsDir {
		app.dispatch(statepkg.EnterDirectoryAction{})
		return true
	}
	if len(app.editorCmd) == 0 {
		app.notify("No editor found; set editor.cmd or $EDITOR", true)
		return true
	}

	if err := app.openFileInEditor(entry.FullPath); err != nil {
		app.logger.Warn("editor failed", "path", entry.FullPath, "error", err)
		app.notify(fmt.Sprintf("Editor failed: %v", err), true)
	}
	app.dispatch(statepkg.RefreshDirectoryAction{})
	return true
}

func (app *Application) openFileInEditor(filePath string) error {
	editorArgs := app.editorArgsWithFile(filePath)
	useTTY := runtime.GOOS != "windows"
	var tty *os.File
	var err error

	if useTTY {
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(editorArgs)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := exec.Command(editorArgs[0], editorArgs[1:]...)
	if useTTY {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	runErr := cmd.Run()
	_ = flushConsoleInput()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	return runErr
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		app.screen.Sync()
	}()

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}
