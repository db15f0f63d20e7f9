package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultPrompt       = "> "
	DefaultLineCapacity = 256
	DefaultHistoryDepth = 64
	DefaultLogLevel     = "info"
)

// Config holds the REPL's settings. Line capacity and history depth are
// fixed when the editor is constructed; a live reload applies only the
// fields that can change between lines (prompt, log level).
type Config struct {
	// Prompt is printed before every line.
	Prompt string `toml:"prompt"`

	// LineCapacity is the byte capacity of each editable line.
	LineCapacity int `toml:"line_capacity"`

	// HistoryDepth is the number of history ring slots.
	HistoryDepth int `toml:"history_depth"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// ParseError describes a configuration file that failed to parse.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Prompt:       DefaultPrompt,
		LineCapacity: DefaultLineCapacity,
		HistoryDepth: DefaultHistoryDepth,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads TOML configuration from path, layered over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), &ParseError{Path: path, Err: err}
	}

	cfg.normalize()
	return cfg, nil
}

// Parse decodes TOML configuration from raw bytes, layered over the
// defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), &ParseError{Path: "<data>", Err: err}
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps out-of-range values back to the defaults.
func (c *Config) normalize() {
	if c.LineCapacity <= 0 {
		c.LineCapacity = DefaultLineCapacity
	}
	if c.HistoryDepth <= 0 {
		c.HistoryDepth = DefaultHistoryDepth
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = DefaultLogLevel
	}
}
