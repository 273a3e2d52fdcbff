package input

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/runa/internal/config"
	statepkg "github.com/kk-code-lab/runa/internal/state"
)

// Chord is a normalized key press.
type Chord struct {
	Key  tcell.Key
	Rune rune
	Alt  bool
}

var namedKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"return":    tcell.KeyEnter,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"tab":       tcell.KeyTab,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"del":       tcell.KeyDelete,
	"insert":    tcell.KeyInsert,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"pgup":      tcell.KeyPgUp,
	"pageup":    tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
	"pagedown":  tcell.KeyPgDn,
}

// ParseKey turns a key name from the config file into a chord. Accepted
// forms are a single character ("d", " "), a named key ("Enter", "Up",
// "F5"), and modifier prefixes: "Shift+n", "Ctrl+c", "Alt+x".
func ParseKey(name string) (Chord, error) {
	if name == "" {
		return Chord{}, fmt.Errorf("empty key name")
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return Chord{Key: tcell.KeyRune, Rune: r}, nil
	}

	var shift, ctrl, alt bool
	rest := name
	for {
		i := strings.IndexByte(rest, '+')
		if i <= 0 || i == len(rest)-1 {
			break
		}
		switch strings.ToLower(rest[:i]) {
		case "shift":
			shift = true
		case "ctrl", "control":
			ctrl = true
		case "alt", "meta":
			alt = true
		default:
			return Chord{}, fmt.Errorf("unknown modifier in %q", name)
		}
		rest = rest[i+1:]
	}

	if utf8.RuneCountInString(rest) == 1 {
		r, _ := utf8.DecodeRuneInString(rest)
		switch {
		case ctrl:
			lower := unicode.ToLower(r)
			if lower < 'a' || lower > 'z' {
				return Chord{}, fmt.Errorf("unsupported control key %q", name)
			}
			return Chord{Key: normalizeKey(tcell.KeyCtrlA + tcell.Key(lower-'a')), Alt: alt}, nil
		case shift:
			r = unicode.ToUpper(r)
		}
		return Chord{Key: tcell.KeyRune, Rune: r, Alt: alt}, nil
	}

	lower := strings.ToLower(rest)
	if lower == "space" {
		return Chord{Key: tcell.KeyRune, Rune: ' ', Alt: alt}, nil
	}
	if key, ok := namedKeys[lower]; ok {
		return Chord{Key: key, Alt: alt}, nil
	}
	if strings.HasPrefix(lower, "f") {
		if n, err := strconv.Atoi(lower[1:]); err == nil && n >= 1 && n <= 64 {
			return Chord{Key: tcell.KeyF1 + tcell.Key(n-1), Alt: alt}, nil
		}
	}
	return Chord{}, fmt.Errorf("unknown key %q", name)
}

// ChordFor normalizes a terminal key event.
func ChordFor(ev *tcell.EventKey) Chord {
	alt := ev.Modifiers()&tcell.ModAlt != 0
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModShift != 0 {
			r = unicode.ToUpper(r)
		}
		return Chord{Key: tcell.KeyRune, Rune: r, Alt: alt}
	default:
		return Chord{Key: normalizeKey(ev.Key()), Alt: alt}
	}
}

// Terminals disagree on which backspace code they send, and Ctrl+H shares
// the code of one of them.
func normalizeKey(k tcell.Key) tcell.Key {
	if k == tcell.KeyBackspace {
		return tcell.KeyBackspace2
	}
	return k
}

// Keymap maps chords to normal-mode actions.
type Keymap struct {
	bindings map[Chord]statepkg.Action
}

// Lookup returns the action bound to c.
func (k *Keymap) Lookup(c Chord) (statepkg.Action, bool) {
	action, ok := k.bindings[c]
	return action, ok
}

// NewKeymap builds a keymap from the configured bindings. Invalid names and
// chords claimed by two actions are reported; the first binding wins.
func NewKeymap(keys config.KeysConfig) (*Keymap, []error) {
	km := &Keymap{bindings: make(map[Chord]statepkg.Action)}
	var errs []error
	owner := make(map[Chord]string)

	bind := func(field string, names []string, action statepkg.Action) {
		for _, name := range names {
			chord, err := ParseKey(name)
			if err != nil {
				errs = append(errs, fmt.Errorf("keys.%s: %w", field, err))
				continue
			}
			if prev, taken := owner[chord]; taken {
				if prev != field {
					errs = append(errs, fmt.Errorf("keys.%s: %q already bound to %s", field, name, prev))
				}
				continue
			}
			owner[chord] = field
			km.bindings[chord] = action
		}
	}

	bind("open_file", keys.OpenFile, statepkg.OpenFileAction{})
	bind("go_up", keys.GoUp, statepkg.NavigateUpAction{})
	bind("go_down", keys.GoDown, statepkg.NavigateDownAction{})
	bind("go_parent", keys.GoParent, statepkg.GoParentAction{})
	bind("go_into_dir", keys.GoIntoDir, statepkg.EnterDirectoryAction{})
	bind("quit", keys.Quit, statepkg.QuitAction{})
	bind("delete", keys.Delete, statepkg.DeleteAction{})
	bind("copy", keys.Copy, statepkg.CopyAction{})
	bind("cut", keys.Cut, statepkg.CutAction{})
	bind("paste", keys.Paste, statepkg.PasteAction{})
	bind("rename", keys.Rename, statepkg.RenameAction{})
	bind("create", keys.Create, statepkg.CreateFileAction{})
	bind("create_directory", keys.CreateDirectory, statepkg.CreateDirectoryAction{})
	bind("filter", keys.Filter, statepkg.FilterStartAction{})
	bind("toggle_marker", keys.ToggleMarker, statepkg.ToggleMarkerAction{})
	bind("show_info", keys.ShowInfo, statepkg.ShowInfoAction{})
	bind("find", keys.Find, statepkg.FindStartAction{})
	bind("clear_markers", keys.ClearMarkers, statepkg.ClearMarkersAction{})
	bind("clear_filter", keys.ClearFilter, statepkg.FilterClearAction{})
	bind("toggle_hidden", keys.ToggleHidden, statepkg.ToggleHiddenFilesAction{})
	bind("yank_path", keys.YankPath, statepkg.YankPathAction{})

	return km, errs
}
