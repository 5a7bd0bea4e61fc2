package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/dshills/vix/internal/logging"
)

// DefaultPath is the file name looked up when no -config flag is given.
const DefaultPath = "vix.toml"

// Config holds every vix setting.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Logging LoggingConfig `toml:"logging"`
	Script  ScriptConfig  `toml:"script"`
}

// EditorConfig controls how documents are loaded and saved.
type EditorConfig struct {
	// LineEnding is "auto", "lf", "crlf" or "cr". Auto detects from content.
	LineEnding string `toml:"line_ending"`

	// TabWidth is the number of cells a tab occupies when measuring width.
	TabWidth int `toml:"tab_width"`

	// Encoding is a WHATWG encoding label such as "utf-8" or "windows-1252".
	Encoding string `toml:"encoding"`

	// ReadOnly opens documents without allowing edits.
	ReadOnly bool `toml:"read_only"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level string `toml:"level"`
	// File is the log destination. Empty means stderr.
	File string `toml:"file"`
}

// ScriptConfig controls Lua edit scripts.
type ScriptConfig struct {
	// Timeout bounds a single script run. Zero disables the limit.
	Timeout Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a Go duration string ("5s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			LineEnding: "auto",
			TabWidth:   4,
			Encoding:   "utf-8",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Script: ScriptConfig{
			Timeout: Duration{5 * time.Second},
		},
	}
}

// Load builds a Config from defaults, the TOML file at path, and VIX_
// environment variables. An empty path or a missing file skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := decode(cfg, path, data); err != nil {
				return nil, err
			}
		}
	}

	if err := NewEnvLoader(EnvPrefix).Apply(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes TOML from r over the defaults and validates the
// result. Environment variables are not consulted.
func LoadFromReader(r io.Reader, name string) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := decode(cfg, name, data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode applies data on top of cfg. Keys absent from data keep their
// current value.
func decode(cfg *Config, source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return pe
	}
	return nil
}

// Validate checks every setting and returns an error wrapping
// ErrInvalidConfig for the first bad one.
func (c *Config) Validate() error {
	switch c.Editor.LineEnding {
	case "auto", "lf", "crlf", "cr":
	default:
		return invalid("editor.line_ending", c.Editor.LineEnding, "want auto, lf, crlf or cr")
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return invalid("editor.tab_width", c.Editor.TabWidth, "want 1..16")
	}
	if _, err := htmlindex.Get(c.Editor.Encoding); err != nil {
		return invalid("editor.encoding", c.Editor.Encoding, "unknown encoding")
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return invalid("logging.level", c.Logging.Level, "want debug, info, warn or error")
	}
	if c.Script.Timeout.Duration < 0 {
		return invalid("script.timeout", c.Script.Timeout, "must not be negative")
	}
	return nil
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
