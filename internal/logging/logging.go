// Package logging builds the JSON-lines logger. The terminal is owned by the
// UI, so logs go to a file under the user's state directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Config configures the logger.
type Config struct {
	// Output is where records are written. Nil discards them.
	Output io.Writer
	Level  slog.Level
	// Debug forces debug level.
	Debug bool
}

// New returns a JSON logger whose timestamp key is "ts".
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(Config{})
}

// DefaultPath returns $XDG_STATE_HOME/runa/runa.log, falling back to
// ~/.local/state/runa/runa.log.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "runa", "runa.log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "runa", "runa.log"), nil
}

// Open creates a file-backed logger configured from the environment.
// RUNA_DEBUG=1 enables debug records. When the log file cannot be opened the
// returned logger discards output and the closer is a no-op.
func Open() (*slog.Logger, io.Closer) {
	cfg := Config{Level: slog.LevelInfo, Debug: os.Getenv("RUNA_DEBUG") == "1"}
	path, err := DefaultPath()
	if err != nil {
		return New(cfg), nopCloser{}
	}
	f, err := OpenFile(path)
	if err != nil {
		return New(cfg), nopCloser{}
	}
	cfg.Output = f
	return New(cfg), f
}

// OpenFile opens path for appending, creating parent directories.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
