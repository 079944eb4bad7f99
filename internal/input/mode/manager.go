package mode

import "sync"

// ChangeCallback is called when the mode changes.
type ChangeCallback func(from, to Mode)

// Manager holds the active mode and notifies listeners of transitions.
type Manager struct {
	mu sync.RWMutex

	current  Mode
	previous Mode

	callbacks []ChangeCallback
}

// NewManager creates a manager starting in initial.
func NewManager(initial Mode) *Manager {
	return &Manager{current: initial, previous: initial}
}

// Current returns the active mode.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous returns the mode active before the last switch.
func (m *Manager) Previous() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// OnChange registers a callback notified after every switch.
func (m *Manager) OnChange(cb ChangeCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// Switch makes to the active mode. Switching to the active mode is a no-op.
func (m *Manager) Switch(to Mode) {
	m.mu.Lock()
	from := m.current
	if from == to {
		m.mu.Unlock()
		return
	}
	m.previous = from
	m.current = to
	callbacks := append([]ChangeCallback(nil), m.callbacks...)
	m.mu.Unlock()

	// Notify callbacks outside of lock
	for _, cb := range callbacks {
		cb(from, to)
	}
}
