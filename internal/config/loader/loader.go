// Package loader reads configuration sources into plain maps.
//
// Files are parsed by format (TOML or YAML, chosen by extension) and
// environment variables are mapped onto dotted setting paths. The
// resulting maps are layered with DeepMerge before they are decoded into
// typed settings.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files whose extension names no
// known format.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]any, error)
}

// FileLoader is the interface for loaders that read from files.
type FileLoader interface {
	Loader
	// LoadFrom reads configuration from a specific path.
	LoadFrom(path string) (map[string]any, error)
	// LoadFromReader reads configuration from a reader.
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem is an abstraction for file system operations.
// fstest.MapFS satisfies it, which keeps tests off the disk.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format is a configuration file format.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ForPath returns a loader for path, picked by its extension.
func ForPath(fsys FileSystem, path string) (FileLoader, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		fsys = DefaultFS()
	}
	if format == FormatYAML {
		return NewYAMLLoaderWithFS(fsys, path), nil
	}
	return NewTOMLLoaderWithFS(fsys, path), nil
}

// fileSource holds what the file loaders share: where to read and how
// to decode. An empty document decodes to an empty map.
type fileSource struct {
	fs     FileSystem
	path   string
	decode func(source string, data []byte) (map[string]any, error)
}

// Load reads configuration from the configured path.
func (s *fileSource) Load() (map[string]any, error) {
	return s.LoadFrom(s.path)
}

// LoadFrom reads configuration from a specific path.
func (s *fileSource) LoadFrom(path string) (map[string]any, error) {
	data, err := readFile(s.fs, path)
	if data == nil || err != nil {
		return nil, err
	}
	return s.parse(path, data)
}

// LoadFromReader reads configuration from r.
func (s *fileSource) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return s.parse("<reader>", data)
}

func (s *fileSource) parse(source string, data []byte) (map[string]any, error) {
	m, err := s.decode(source, data)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// readFile returns nil, nil when path does not exist.
func readFile(fsys FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
