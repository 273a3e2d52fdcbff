package state

import (
	"time"

	"github.com/kk-code-lab/runa/internal/config"
	fsutil "github.com/kk-code-lab/runa/internal/fs"
	"github.com/kk-code-lab/runa/internal/protocol"
)

const (
	noticeTTL = 3 * time.Second

	findCharDebounce      = 120 * time.Millisecond
	findBackspaceDebounce = 90 * time.Millisecond
)

// Settings are the configuration values the reducer consults.
type Settings struct {
	List             fsutil.ListOptions
	InstantPreview   bool
	PreviewDebounce  time.Duration
	ToggleMarkerJump bool
	ScrollPadding    int

	ShowParent  bool
	ShowPreview bool
	Layout      config.LayoutConfig

	PreviewMethod  protocol.PreviewMethod
	Formatter      protocol.FormatterOptions
	PreviewMaxByte int64
	PreviewLines   int

	MaxFindResults int
	FindExclude    []string
}

// SettingsFromConfig extracts reducer settings from a loaded config.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	formatter, err := cfg.FormatterOptions()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		List:             cfg.ListOptions(),
		InstantPreview:   cfg.Display.InstantPreview,
		PreviewDebounce:  cfg.PreviewDebounce(),
		ToggleMarkerJump: cfg.Display.ToggleMarkerJump,
		ScrollPadding:    cfg.Display.ScrollPadding,
		ShowParent:       cfg.Display.Parent,
		ShowPreview:      cfg.Display.Preview,
		Layout:           cfg.Display.Layout,
		PreviewMethod:    cfg.PreviewMethod(),
		Formatter:        formatter,
		PreviewMaxByte:   cfg.Preview.MaxBytes,
		PreviewLines:     cfg.Preview.MaxLines,
		MaxFindResults:   cfg.MaxFindResults,
		FindExclude:      append([]string(nil), cfg.Find.Exclude...),
	}, nil
}

// DefaultSettings is SettingsFromConfig over the built-in defaults.
func DefaultSettings() Settings {
	cfg := config.DefaultConfig()
	s, _ := SettingsFromConfig(&cfg)
	return s
}
