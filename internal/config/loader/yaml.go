package loader

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct {
	fileSource
}

// NewYAMLLoader creates a YAML loader for path on the OS file system.
func NewYAMLLoader(path string) *YAMLLoader {
	return NewYAMLLoaderWithFS(DefaultFS(), path)
}

// NewYAMLLoaderWithFS creates a YAML loader reading from fsys.
func NewYAMLLoaderWithFS(fsys FileSystem, path string) *YAMLLoader {
	return &YAMLLoader{fileSource{fs: fsys, path: path, decode: decodeYAML}}
}

func decodeYAML(source string, data []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{
			Path:    source,
			Line:    yamlLine(err.Error()),
			Message: strings.TrimPrefix(err.Error(), "yaml: "),
			Err:     err,
		}
	}
	if m == nil {
		return nil, nil
	}
	return normalize(m).(map[string]any), nil
}

// yamlLine extracts the line number from messages such as
// "yaml: line 3: mapping values are not allowed in this context".
func yamlLine(msg string) int {
	i := strings.Index(msg, "line ")
	if i < 0 {
		return 0
	}
	var line int
	if _, err := fmt.Sscanf(msg[i:], "line %d", &line); err != nil {
		return 0
	}
	return line
}

// normalize turns the map[any]any values YAML produces for mappings with
// non-string keys into map[string]any, so YAML and TOML maps merge alike.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
