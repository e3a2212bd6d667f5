// Package config loads Tagbook settings from a TOML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultFileName is the config file inside the data directory.
	DefaultFileName = "config.toml"

	envDataDir   = "TAGBOOK_DATA_DIR"
	envLogLevel  = "TAGBOOK_LOG_LEVEL"
	envLogFormat = "TAGBOOK_LOG_FORMAT"
	envAutoSave  = "TAGBOOK_AUTOSAVE"
)

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config holds the application configuration.
type Config struct {
	DataDir      string    `toml:"data_dir"`
	TagTreeFile  string    `toml:"tag_tree_file"`
	DatabaseFile string    `toml:"database_file"`
	AutoSave     bool      `toml:"autosave"`
	Log          LogConfig `toml:"log"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:      filepath.Join(home, ".tagbook"),
		TagTreeFile:  "tagtree.json",
		DatabaseFile: "contacts.db",
		AutoSave:     true,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the config file location under the default data
// directory.
func DefaultPath() string {
	return filepath.Join(DefaultConfig().DataDir, DefaultFileName)
}

// Load reads the TOML file at path over the defaults, then applies the
// environment. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromEnv overrides fields from TAGBOOK_* variables.
func (c *Config) LoadFromEnv() error {
	if dir := os.Getenv(envDataDir); dir != "" {
		c.DataDir = dir
	}
	if level := os.Getenv(envLogLevel); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv(envLogFormat); format != "" {
		c.Log.Format = format
	}
	if raw := os.Getenv(envAutoSave); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", envAutoSave, raw, err)
		}
		c.AutoSave = v
	}
	return nil
}

// Validate rejects empty paths and unknown log settings.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if c.TagTreeFile == "" {
		return fmt.Errorf("config: tag_tree_file is required")
	}
	if c.DatabaseFile == "" {
		return fmt.Errorf("config: database_file is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// TagTreePath returns the tag tree file, resolved against DataDir when
// relative.
func (c Config) TagTreePath() string {
	return c.resolve(c.TagTreeFile)
}

// DatabasePath returns the contacts database, resolved against DataDir
// when relative.
func (c Config) DatabasePath() string {
	return c.resolve(c.DatabaseFile)
}

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
