package input

import (
	"errors"
	"slices"
	"sync"
)

// ErrUnknownAction is returned when an action name is not registered.
var ErrUnknownAction = errors.New("unknown action")

// ActionFunc performs an editor action. Returned errors are logged; they
// never stop the session.
type ActionFunc func(ev *Event) error

// Actions maps action names to functions.
type Actions struct {
	mu sync.RWMutex
	m  map[string]ActionFunc
}

// NewActions creates an empty action table.
func NewActions() *Actions {
	return &Actions{m: make(map[string]ActionFunc)}
}

// Register adds or replaces the action called name.
func (a *Actions) Register(name string, fn ActionFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.m[name] = fn
}

// Lookup returns the action called name.
func (a *Actions) Lookup(name string) (ActionFunc, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	fn, ok := a.m[name]
	return fn, ok
}

// Has reports whether name is registered.
func (a *Actions) Has(name string) bool {
	_, ok := a.Lookup(name)
	return ok
}

// Names returns the registered names in sorted order.
func (a *Actions) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.m))
	for name := range a.m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered actions.
func (a *Actions) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.m)
}
