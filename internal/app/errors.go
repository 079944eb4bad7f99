package app

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrAborted is returned by Prompt when the user aborts input (Ctrl-C).
	ErrAborted = errors.New("input aborted")

	// ErrEOF is returned by Prompt at end of input, or when the user
	// exits on an empty line (Ctrl-D).
	ErrEOF = errors.New("end of input")

	// ErrTerminal wraps terminal I/O failures. The terminal has been
	// restored when it is returned.
	ErrTerminal = errors.New("terminal failure")

	// ErrClosed is returned by Prompt after Close.
	ErrClosed = errors.New("session closed")

	// ErrBusy is returned when Prompt is called while another prompt of
	// the same session runs.
	ErrBusy = errors.New("prompt already running")

	// ErrTerminated is returned by Prompt when SIGTERM or SIGHUP arrives
	// while it runs.
	ErrTerminated = errors.New("terminated by signal")
)

// InitError is returned by New when a component cannot be set up.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// OperationError reports a failed operation on an optional target.
type OperationError struct {
	Op     string // e.g. "read input", "raw mode"
	Target string // e.g. a log file path
	Err    error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OperationError.
// Matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// terminalError reports a failed terminal operation. The result matches
// both ErrTerminal and err.
func terminalError(op string, err error) error {
	return NewOperationError(op, "", fmt.Errorf("%w: %w", ErrTerminal, err))
}

// RecoveredPanicError wraps a panic value as an error.
type RecoveredPanicError struct {
	Value any
	Stack string
}

// NewRecoveredPanicError creates a new RecoveredPanicError.
func NewRecoveredPanicError(value any, stack string) *RecoveredPanicError {
	return &RecoveredPanicError{
		Value: value,
		Stack: stack,
	}
}

func (e *RecoveredPanicError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}
