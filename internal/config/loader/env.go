package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of the environment variables read as settings.
const EnvPrefix = "PROMPTLINE_"

// EnvLoader loads configuration from environment variables.
//
// Variables listed in the mapping go to their mapped path. Any other
// variable carrying the prefix maps by convention: the first word names
// the section and the rest, joined with underscores, the setting, so
// PROMPTLINE_EDITING_AMBIGUITY_TIMEOUT sets editing.ambiguity_timeout.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
	ignore  map[string]bool
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "PROMPTLINE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		ignore:  map[string]bool{prefix + "CONFIG": true},
		environ: os.Environ,
	}
}

// NewEnvLoaderFrom creates a loader reading the given KEY=value list
// instead of the process environment.
func NewEnvLoaderFrom(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return environ }
	return l
}

// defaultEnvMapping returns the shorthand variables.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "MODE":  "editing.mode",
		prefix + "COLOR": "render.color_mode",
		prefix + "LOG":   "log.file",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty values are treated as set, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) || l.ignore[name] {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		SetByPath(config, path, parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Ignore skips the named variables.
func (l *EnvLoader) Ignore(names ...string) {
	for _, n := range names {
		l.ignore[n] = true
	}
}

// envToPath converts PROMPTLINE_EDITING_TAB_WIDTH to editing.tab_width.
// A variable without a setting part maps to nothing.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, setting, ok := strings.Cut(name, "_")
	if !ok || section == "" || setting == "" {
		return ""
	}
	return section + "." + setting
}

// parseValue attempts to parse the string value into an appropriate type.
// Durations stay strings; settings parse them when decoded.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	return s
}
