package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct {
	fileSource
}

// NewTOMLLoader creates a TOML loader for path on the OS file system.
func NewTOMLLoader(path string) *TOMLLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS creates a TOML loader reading from fsys.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fileSource{fs: fsys, path: path, decode: decodeTOML}}
}

func decodeTOML(source string, data []byte) (map[string]any, error) {
	var m map[string]any
	err := toml.Unmarshal(data, &m)
	if err == nil {
		return m, nil
	}
	perr := &ParseError{Path: source, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
	}
	return nil, perr
}
