package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const minimalTemplate = `# runa.toml - configuration for runa
# Run "runa --config-help" to list every option.

dirs_first = true
show_hidden = true

[display]
instant_preview = false

[display.preview_options]
method = "internal"
`

const fullTemplate = `# runa.toml - default configuration for runa
# Commented values are the built-in defaults.

# General behavior
dirs_first = true
show_hidden = true
# show_system = false
case_insensitive = true
# always_show = []
# max_find_results = 2000        # clamped to 15..1000000

[display]
# instant_preview = false
# toggle_marker_jump = false
# preview_debounce_ms = 75
# parent = true
# preview = true
# scroll_padding = 5

[display.layout]
parent = 20
main = 40
preview = 40

[display.preview_options]
method = "internal"              # "internal" or "bat"
# bat related options if method = "bat"
# theme = "default"
# style = "plain"
# wrap = true
# args = ""                      # extra arguments, shell quoted

[preview]
# max_bytes = 262144
# max_lines = 0                  # 0 = pane height

[find]
# exclude = []                   # added to the built-in exclusion list
# tool = "fd"

[editor]
# cmd = ""                       # empty uses $VISUAL, $EDITOR, vim or nano

[keys]
# open_file = ["Enter"]
# go_up = ["k", "Up"]
# go_down = ["j", "Down"]
# go_parent = ["h", "Left", "Backspace"]
# go_into_dir = ["l", "Right"]
# quit = ["q", "Esc"]
# delete = ["d"]
# copy = ["y"]
# cut = ["x"]
# paste = ["p"]
# rename = ["r"]
# create = ["n"]
# create_directory = ["Shift+n"]
# filter = ["f"]
# toggle_marker = [" "]
# show_info = ["i"]
# find = ["s"]
# clear_markers = ["Ctrl+c"]
# clear_filter = ["Ctrl+f"]
# toggle_hidden = ["."]
# yank_path = ["Shift+y"]
`

// Template returns the starter file contents.
func Template(minimal bool) string {
	if minimal {
		return minimalTemplate
	}
	return fullTemplate
}

// GenerateDefault writes a starter config to path. An existing file is never
// overwritten.
func GenerateDefault(path string, minimal bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("config file already exists at %s: %w", path, err)
		}
		return fmt.Errorf("creating config file: %w", err)
	}
	if _, err := f.WriteString(Template(minimal)); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing config file: %w", err)
	}
	return f.Close()
}

// Help describes the configuration file for --config-help.
func Help() string {
	return fmt.Sprintf(`runa reads %s
(override with RUNA_CONFIG or --config). Environment overrides:
  RUNA_SHOW_HIDDEN, RUNA_INSTANT_PREVIEW, RUNA_MAX_FIND_RESULTS, RUNA_DEBUG

Generate a starter file with --init (minimal) or --init-full (every option).

Full reference:

%s`, DefaultPath(), fullTemplate)
}
