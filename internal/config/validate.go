package config

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// ValidationError collects every failed check.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func validate(cfg *Config) error {
	var errs []string

	switch cfg.Display.PreviewOptions.Method {
	case "internal", "bat":
	default:
		errs = append(errs, fmt.Sprintf("display.preview_options.method %q must be \"internal\" or \"bat\"", cfg.Display.PreviewOptions.Method))
	}
	if _, err := shlex.Split(cfg.Display.PreviewOptions.Args); err != nil {
		errs = append(errs, fmt.Sprintf("display.preview_options.args: %v", err))
	}

	if cfg.Display.PreviewDebounceMs < 0 {
		errs = append(errs, "display.preview_debounce_ms must not be negative")
	}
	if cfg.Display.ScrollPadding < 0 {
		errs = append(errs, "display.scroll_padding must not be negative")
	}

	l := cfg.Display.Layout
	if l.Parent < 0 || l.Main < 0 || l.Preview < 0 {
		errs = append(errs, "display.layout ratios must not be negative")
	}
	if l.Main <= 0 {
		errs = append(errs, "display.layout.main must be positive")
	}

	if cfg.Preview.MaxBytes < 0 {
		errs = append(errs, "preview.max_bytes must not be negative")
	}
	if cfg.Preview.MaxLines < 0 {
		errs = append(errs, "preview.max_lines must not be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
