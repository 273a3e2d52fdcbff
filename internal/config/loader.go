package config

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/kk-code-lab/runa/internal/find"
)

// DefaultPath returns $RUNA_CONFIG, else ~/.config/runa/runa.toml.
func DefaultPath() string {
	if path := os.Getenv("RUNA_CONFIG"); path != "" {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "runa", "runa.toml")
	}
	return "runa.toml"
}

// Load reads the file at DefaultPath.
func Load(logger *slog.Logger) (*Config, error) {
	return LoadFrom(DefaultPath(), logger)
}

// LoadFrom starts from the defaults, decodes path over them when it exists,
// applies RUNA_* environment overrides and validates the result. Unknown keys
// and clamped values are logged, not rejected.
func LoadFrom(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := DefaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, iofs.ErrNotExist):
			logger.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			return nil, fmt.Errorf("loading %s: %w", path, err)
		default:
			for _, key := range md.Undecoded() {
				logger.Warn("unknown config key", "path", path, "key", key.String())
			}
		}
	}

	applyEnvOverrides(&cfg, logger)

	if n, clamped := find.ClampMaxResults(cfg.MaxFindResults); clamped {
		logger.Warn("max_find_results out of range, clamped",
			"value", cfg.MaxFindResults, "min", find.MinMaxResults, "max", find.MaxMaxResults, "clamped", n)
		cfg.MaxFindResults = n
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config, logger *slog.Logger) {
	if v := os.Getenv("RUNA_SHOW_HIDDEN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ShowHidden = b
		} else {
			logger.Warn("ignoring invalid env override", "name", "RUNA_SHOW_HIDDEN", "value", v)
		}
	}
	if v := os.Getenv("RUNA_INSTANT_PREVIEW"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Display.InstantPreview = b
		} else {
			logger.Warn("ignoring invalid env override", "name", "RUNA_INSTANT_PREVIEW", "value", v)
		}
	}
	if v := os.Getenv("RUNA_MAX_FIND_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFindResults = n
		} else {
			logger.Warn("ignoring invalid env override", "name", "RUNA_MAX_FIND_RESULTS", "value", v)
		}
	}
}
