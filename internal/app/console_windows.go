//go:build windows

package app

import "golang.org/x/sys/windows"

// flushConsoleInput drops keystrokes the editor left in the console buffer
// so they are not replayed as browser commands.
func flushConsoleInput() error {
	in, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return err
	}
	return windows.FlushConsoleInputBuffer(in)
}
