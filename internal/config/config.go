// Package config loads viewer configuration from a TOML file, layering
// file values over built-in defaults. A missing file is not an error: the
// defaults stand alone.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid reports a configuration value outside its accepted range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the viewer configuration.
type Config struct {
	Editor    Editor    `toml:"editor"`
	Highlight Highlight `toml:"highlight"`
	Log       Log       `toml:"log"`
}

// Editor holds text layout settings.
type Editor struct {
	// TabWidth is the tab stop distance in cells.
	TabWidth int `toml:"tab_width"`
	// Wrap enables soft wrapping at startup.
	Wrap bool `toml:"wrap"`
}

// Highlight holds syntax highlighting settings.
type Highlight struct {
	Enabled bool `toml:"enabled"`
	// Style names a chroma style.
	Style string `toml:"style"`
}

// Log holds logging settings.
type Log struct {
	// File receives log output; empty disables logging.
	File string `toml:"file"`
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: Editor{
			TabWidth: 8,
			Wrap:     true,
		},
		Highlight: Highlight{
			Enabled: true,
			Style:   "monokai",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// DefaultPath returns the conventional configuration file location under
// the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "softwrap", "config.toml")
}

// Load reads the configuration at path over the defaults. A missing file
// yields the defaults; a malformed file or invalid value is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 64 {
		return fmt.Errorf("%w: editor.tab_width %d", ErrInvalid, c.Editor.TabWidth)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}
