package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Editor.TabWidth != 4 {
		t.Errorf("TabWidth = %d, want 4", cfg.Editor.TabWidth)
	}
	if cfg.Script.Timeout.Duration != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Script.Timeout)
	}
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(`
[editor]
line_ending = "crlf"
tab_width = 8
encoding = "windows-1252"
read_only = true

[logging]
level = "debug"

[script]
timeout = "250ms"
`), "test.toml")
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	if cfg.Editor.LineEnding != "crlf" {
		t.Errorf("LineEnding = %q, want crlf", cfg.Editor.LineEnding)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Errorf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.Encoding != "windows-1252" {
		t.Errorf("Encoding = %q", cfg.Editor.Encoding)
	}
	if !cfg.Editor.ReadOnly {
		t.Error("ReadOnly should be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Script.Timeout.Duration != 250*time.Millisecond {
		t.Errorf("Timeout = %v, want 250ms", cfg.Script.Timeout)
	}
}

func TestLoadFromReaderKeepsDefaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader("[editor]\ntab_width = 2\n"), "partial.toml")
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if cfg.Editor.TabWidth != 2 {
		t.Errorf("TabWidth = %d, want 2", cfg.Editor.TabWidth)
	}
	if cfg.Editor.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, want default utf-8", cfg.Editor.Encoding)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q, want default info", cfg.Logging.Level)
	}
}

func TestLoadFromReaderErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantParse bool
	}{
		{"syntax", "[editor\ntab_width = 2", true},
		{"unknown key", "[editor]\ntab_size = 2\n", true},
		{"unknown section", "[ui]\ntheme = \"dark\"\n", true},
		{"bad duration", "[script]\ntimeout = \"soon\"\n", true},
		{"bad line ending", "[editor]\nline_ending = \"mac\"\n", false},
		{"tab width zero", "[editor]\ntab_width = 0\n", false},
		{"tab width large", "[editor]\ntab_width = 64\n", false},
		{"bad encoding", "[editor]\nencoding = \"klingon\"\n", false},
		{"bad level", "[logging]\nlevel = \"loud\"\n", false},
		{"negative timeout", "[script]\ntimeout = \"-1s\"\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.input), "bad.toml")
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *ParseError
			if got := errors.As(err, &pe); got != tt.wantParse {
				t.Fatalf("errors.As(ParseError) = %v, want %v (err: %v)", got, tt.wantParse, err)
			}
			if !tt.wantParse && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
			if tt.wantParse && pe.Path != "bad.toml" {
				t.Errorf("ParseError.Path = %q, want bad.toml", pe.Path)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if cfg.Editor.LineEnding != "auto" {
		t.Errorf("LineEnding = %q, want auto", cfg.Editor.LineEnding)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vix.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntab_width = 2\nencoding = \"utf-8\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VIX_TAB_WIDTH", "3")
	t.Setenv("VIX_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Editor.TabWidth != 3 {
		t.Errorf("TabWidth = %d, want env override 3", cfg.Editor.TabWidth)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Message: "bad"}, "parse error in a.toml: bad"},
		{&ParseError{Path: "a.toml", Line: 3, Message: "bad"}, "parse error in a.toml at line 3: bad"},
		{&ParseError{Path: "a.toml", Line: 3, Column: 7, Message: "bad"}, "parse error in a.toml at line 3, column 7: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Editor.TabWidth = 6
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := LoadFromReader(strings.NewReader(string(data)), "marshal.toml")
	if err != nil {
		t.Fatalf("reload failed: %v\n%s", err, data)
	}
	if *back != *cfg {
		t.Errorf("round trip = %+v, want %+v", back, cfg)
	}
}
