package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoAction is raised when a buffer function is called outside an
	// action.
	ErrNoAction = errors.New("no action is running")
)
