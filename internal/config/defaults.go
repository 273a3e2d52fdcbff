package config

import "github.com/kk-code-lab/runa/internal/find"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		DirsFirst:       true,
		ShowHidden:      true,
		ShowSystem:      false,
		CaseInsensitive: true,
		AlwaysShow:      []string{},
		MaxFindResults:  find.DefaultMaxResults,
		Display: DisplayConfig{
			InstantPreview:    false,
			ToggleMarkerJump:  false,
			PreviewDebounceMs: 75,
			Parent:            true,
			Preview:           true,
			ScrollPadding:     5,
			Layout:            LayoutConfig{Parent: 20, Main: 40, Preview: 40},
			PreviewOptions: PreviewOptions{
				Method: "internal",
				Theme:  "default",
				Style:  "plain",
				Wrap:   true,
			},
		},
		Preview: PreviewConfig{MaxBytes: 256 << 10},
		Find:    FindConfig{Exclude: []string{}},
		Keys:    DefaultKeys(),
	}
}

// DefaultKeys returns the built-in key bindings.
func DefaultKeys() KeysConfig {
	return KeysConfig{
		OpenFile:        []string{"Enter"},
		GoUp:            []string{"k", "Up"},
		GoDown:          []string{"j", "Down"},
		GoParent:        []string{"h", "Left", "Backspace"},
		GoIntoDir:       []string{"l", "Right"},
		Quit:            []string{"q", "Esc"},
		Delete:          []string{"d"},
		Copy:            []string{"y"},
		Cut:             []string{"x"},
		Paste:           []string{"p"},
		Rename:          []string{"r"},
		Create:          []string{"n"},
		CreateDirectory: []string{"Shift+n"},
		Filter:          []string{"f"},
		ToggleMarker:    []string{" "},
		ShowInfo:        []string{"i"},
		Find:            []string{"s"},
		ClearMarkers:    []string{"Ctrl+c"},
		ClearFilter:     []string{"Ctrl+f"},
		ToggleHidden:    []string{"."},
		YankPath:        []string{"Shift+y"},
	}
}
