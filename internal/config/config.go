// Package config loads the lostar defaults file.
//
// The file is TOML. Keys that are present override the built-in defaults;
// missing keys keep them. A missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the defaults file looked up in the user config directory.
const FileName = "lostar.toml"

// Config holds the defaults used by the command line.
type Config struct {
	// DB is the path of the capture store.
	DB string

	// BytesPerLine is the width of the text export.
	BytesPerLine int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// DefaultBaud is used for channels that do not set a baud rate.
	DefaultBaud int
}

// lostar.toml key mapping.
type fileConfig struct {
	DB           string `toml:"db"`
	BytesPerLine int    `toml:"bytes_per_line"`
	LogLevel     string `toml:"log_level"`
	DefaultBaud  int    `toml:"default_baud"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		DB:           "lostar.db",
		BytesPerLine: 16,
		LogLevel:     "warn",
		DefaultBaud:  9600,
	}
}

// DefaultPath returns the defaults file in the user config directory, or
// an empty string when that directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lostar", FileName)
}

// Load overlays the keys defined in path on Default. An empty path or a
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config: no defaults file", "path", path)
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("db") {
		cfg.DB = strings.TrimSpace(raw.DB)
	}
	if meta.IsDefined("bytes_per_line") {
		cfg.BytesPerLine = raw.BytesPerLine
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}
	if meta.IsDefined("default_baud") {
		cfg.DefaultBaud = raw.DefaultBaud
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.DB == "" {
		return errors.New("db must not be empty")
	}
	if c.BytesPerLine <= 0 {
		return fmt.Errorf("bytes_per_line must be positive, got %d", c.BytesPerLine)
	}
	if c.DefaultBaud <= 0 {
		return fmt.Errorf("default_baud must be positive, got %d", c.DefaultBaud)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log_level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
	return level, nil
}
