package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/promptline/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates the settings fail validation.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the dotted setting path, such as "editing.mode" or
	// "bindings.2.keys".
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every failure found in one pass.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Is matches ErrValidationFailed.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

// Has reports whether any failure is for path.
func (e ValidationErrors) Has(path string) bool {
	for _, ve := range e {
		if ve.Path == path {
			return true
		}
	}
	return false
}
