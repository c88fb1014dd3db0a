// Package config handles rbcore.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "rbcore.toml"

// Config represents an rbcore.toml file.
type Config struct {
	Runtime  Runtime  `toml:"runtime"`
	Log      Log      `toml:"log"`
	Array    Array    `toml:"array"`
	Snapshot Snapshot `toml:"snapshot"`

	// Dir is the directory containing the rbcore.toml file (set at load time).
	// It is empty for the built-in defaults.
	Dir string `toml:"-"`
}

// Runtime configures the guest runtime.
type Runtime struct {
	// Warnings forwards guest warnings to $stderr when set.
	Warnings bool `toml:"warnings"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Array configures Array allocation.
type Array struct {
	InitialCapacity int `toml:"initial-capacity"`
}

// Snapshot configures snapshot output.
type Snapshot struct {
	Format string `toml:"format"`
}

// Default returns the configuration used when no rbcore.toml exists.
func Default() *Config {
	return &Config{
		Runtime:  Runtime{Warnings: true},
		Log:      Log{Verbosity: 0},
		Array:    Array{InitialCapacity: 0},
		Snapshot: Snapshot{Format: "cbor"},
	}
}

// Load parses rbcore.toml from the given directory. Keys missing from the
// file keep their defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find an rbcore.toml file and loads
// it. Without one, the defaults are returned.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Array.InitialCapacity < 0 {
		return fmt.Errorf("array.initial-capacity must not be negative, got %d", c.Array.InitialCapacity)
	}
	switch c.Snapshot.Format {
	case "cbor", "yaml":
	default:
		return fmt.Errorf("snapshot.format must be cbor or yaml, got %q", c.Snapshot.Format)
	}
	return nil
}

// LogPath returns the log file path resolved against Dir, or nil to log to
// stderr.
func (c *Config) LogPath() *string {
	if c.Log.Path == "" {
		return nil
	}
	path := c.Log.Path
	if !filepath.IsAbs(path) && c.Dir != "" {
		path = filepath.Join(c.Dir, path)
	}
	return &path
}
