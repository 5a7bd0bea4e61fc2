package config

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "VIX_"

// EnvLoader turns environment variables into configuration overrides.
//
// Short names listed in the mapping (VIX_LOG_LEVEL) are honored first. Any
// other variable of the form VIX_<SECTION>_<KEY> whose section exists is
// mapped to section.key, so VIX_EDITOR_TAB_WIDTH sets editor.tab_width.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "VIX_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a loader reading the process environment.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// NewEnvLoaderFrom creates a loader over a fixed KEY=VALUE list.
func NewEnvLoaderFrom(prefix string, env []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return env }
	return l
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":      "logging.level",
		prefix + "LOG_FILE":       "logging.file",
		prefix + "TAB_WIDTH":      "editor.tab_width",
		prefix + "ENCODING":       "editor.encoding",
		prefix + "LINE_ENDING":    "editor.line_ending",
		prefix + "READ_ONLY":      "editor.read_only",
		prefix + "SCRIPT_TIMEOUT": "script.timeout",
	}
}

var sections = map[string]bool{"editor": true, "logging": true, "script": true}

// Load returns the overrides as a nested map keyed by section.
func (l *EnvLoader) Load() map[string]any {
	config := make(map[string]any)

	vars := l.environ()
	sort.Strings(vars)
	for _, kv := range vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, ok := l.mapping[name]
		if !ok {
			path, ok = l.envToPath(name)
			if !ok {
				continue
			}
		}
		setByPath(config, path, parseValue(value))
	}
	return config
}

// Apply decodes the overrides onto cfg.
func (l *EnvLoader) Apply(cfg *Config) error {
	data := l.Load()
	if len(data) == 0 {
		return nil
	}
	b, err := toml.Marshal(data)
	if err != nil {
		return &ParseError{Path: "<env>", Message: err.Error(), Err: err}
	}
	return decode(cfg, "<env>", b)
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// envToPath converts VIX_EDITOR_TAB_WIDTH to editor.tab_width.
func (l *EnvLoader) envToPath(env string) (string, bool) {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok || key == "" || !sections[section] {
		return "", false
	}
	return section + "." + key, true
}

// parseValue converts booleans and integers; everything else stays a string
// and is interpreted by the target field.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
