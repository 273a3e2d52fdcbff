// Package config loads runa.toml. Values are resolved once at startup and
// are read-only afterwards.
package config

import (
	"fmt"
	"time"

	"github.com/google/shlex"

	fsutil "github.com/kk-code-lab/runa/internal/fs"
	"github.com/kk-code-lab/runa/internal/protocol"
)

type Config struct {
	DirsFirst       bool     `toml:"dirs_first"`
	ShowHidden      bool     `toml:"show_hidden"`
	ShowSystem      bool     `toml:"show_system"`
	CaseInsensitive bool     `toml:"case_insensitive"`
	AlwaysShow      []string `toml:"always_show"`
	MaxFindResults  int      `toml:"max_find_results"`

	Display DisplayConfig `toml:"display"`
	Preview PreviewConfig `toml:"preview"`
	Find    FindConfig    `toml:"find"`
	Editor  EditorConfig  `toml:"editor"`
	Keys    KeysConfig    `toml:"keys"`
}

type DisplayConfig struct {
	InstantPreview    bool `toml:"instant_preview"`
	ToggleMarkerJump  bool `toml:"toggle_marker_jump"`
	PreviewDebounceMs int  `toml:"preview_debounce_ms"`
	Parent            bool `toml:"parent"`
	Preview           bool `toml:"preview"`
	ScrollPadding     int  `toml:"scroll_padding"`

	Layout         LayoutConfig   `toml:"layout"`
	PreviewOptions PreviewOptions `toml:"preview_options"`
}

// LayoutConfig holds pane width ratios in percent.
type LayoutConfig struct {
	Parent  int `toml:"parent"`
	Main    int `toml:"main"`
	Preview int `toml:"preview"`
}

type PreviewOptions struct {
	Method string `toml:"method"`
	Theme  string `toml:"theme"`
	Style  string `toml:"style"`
	Wrap   bool   `toml:"wrap"`
	// Args is a shell-quoted string of extra formatter arguments.
	Args string `toml:"args"`
}

type PreviewConfig struct {
	MaxBytes int64 `toml:"max_bytes"`
	// MaxLines of 0 means the pane height.
	MaxLines int `toml:"max_lines"`
}

type FindConfig struct {
	Exclude []string `toml:"exclude"`
	Tool    string   `toml:"tool"`
}

type EditorConfig struct {
	Cmd string `toml:"cmd"`
}

// KeysConfig maps each action to the key names that trigger it.
type KeysConfig struct {
	OpenFile        []string `toml:"open_file"`
	GoUp            []string `toml:"go_up"`
	GoDown          []string `toml:"go_down"`
	GoParent        []string `toml:"go_parent"`
	GoIntoDir       []string `toml:"go_into_dir"`
	Quit            []string `toml:"quit"`
	Delete          []string `toml:"delete"`
	Copy            []string `toml:"copy"`
	Cut             []string `toml:"cut"`
	Paste           []string `toml:"paste"`
	Rename          []string `toml:"rename"`
	Create          []string `toml:"create"`
	CreateDirectory []string `toml:"create_directory"`
	Filter          []string `toml:"filter"`
	ToggleMarker    []string `toml:"toggle_marker"`
	ShowInfo        []string `toml:"show_info"`
	Find            []string `toml:"find"`
	ClearMarkers    []string `toml:"clear_markers"`
	ClearFilter     []string `toml:"clear_filter"`
	ToggleHidden    []string `toml:"toggle_hidden"`
	YankPath        []string `toml:"yank_path"`
}

// ListOptions returns the listing rules derived from the top-level flags.
func (c *Config) ListOptions() fsutil.ListOptions {
	return fsutil.ListOptions{
		DirsFirst:       c.DirsFirst,
		ShowHidden:      c.ShowHidden,
		ShowSystem:      c.ShowSystem,
		CaseInsensitive: c.CaseInsensitive,
		AlwaysShow:      append([]string(nil), c.AlwaysShow...),
	}
}

// PreviewDebounce is the settle time before a pending preview is issued.
func (c *Config) PreviewDebounce() time.Duration {
	return time.Duration(c.Display.PreviewDebounceMs) * time.Millisecond
}

// PreviewMethod returns the configured preview method.
func (c *Config) PreviewMethod() protocol.PreviewMethod {
	if c.Display.PreviewOptions.Method == string(protocol.PreviewExternal) {
		return protocol.PreviewExternal
	}
	return protocol.PreviewInternal
}

// FormatterOptions returns the external formatter settings with Args split
// the way a shell would.
func (c *Config) FormatterOptions() (protocol.FormatterOptions, error) {
	opts := c.Display.PreviewOptions
	args, err := shlex.Split(opts.Args)
	if err != nil {
		return protocol.FormatterOptions{}, fmt.Errorf("display.preview_options.args: %w", err)
	}
	return protocol.FormatterOptions{
		Theme: opts.Theme,
		Style: opts.Style,
		Wrap:  opts.Wrap,
		Args:  args,
	}, nil
}
