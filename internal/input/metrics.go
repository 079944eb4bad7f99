package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const latencySamples = 512

// Metrics counts what the processor did with its keys.
type Metrics struct {
	keysTotal      atomic.Uint64
	pasteTotal     atomic.Uint64
	actionsTotal   atomic.Uint64
	fallbackTotal  atomic.Uint64
	droppedKeys    atomic.Uint64
	timeouts       atomic.Uint64
	actionErrors   atomic.Uint64
	actionPanics   atomic.Uint64
	unknownActions atomic.Uint64

	mu        sync.Mutex
	latencies []time.Duration
	next      int
	peak      atomic.Int64

	enabled atomic.Bool
}

// NewMetrics creates an enabled metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{latencies: make([]time.Duration, latencySamples)}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables collection.
func (m *Metrics) SetEnabled(enabled bool) { m.enabled.Store(enabled) }

func (m *Metrics) on() bool { return m != nil && m.enabled.Load() }

func (m *Metrics) recordKey(paste bool) {
	if !m.on() {
		return
	}
	m.keysTotal.Add(1)
	if paste {
		m.pasteTotal.Add(1)
	}
}

func (m *Metrics) recordAction(latency time.Duration, fallback bool) {
	if !m.on() {
		return
	}
	m.actionsTotal.Add(1)
	if fallback {
		m.fallbackTotal.Add(1)
	}

	ns := latency.Nanoseconds()
	for {
		current := m.peak.Load()
		if ns <= current || m.peak.CompareAndSwap(current, ns) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.next] = latency
	m.next = (m.next + 1) % len(m.latencies)
	m.mu.Unlock()
}

func (m *Metrics) count(c *atomic.Uint64) {
	if m.on() {
		c.Add(1)
	}
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Keys           uint64
	Pastes         uint64
	Actions        uint64
	Fallbacks      uint64
	DroppedKeys    uint64
	Timeouts       uint64
	ActionErrors   uint64
	ActionPanics   uint64
	UnknownActions uint64

	AvgActionLatency  time.Duration
	P99ActionLatency  time.Duration
	PeakActionLatency time.Duration
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.Lock()
	samples := make([]time.Duration, 0, len(m.latencies))
	for _, l := range m.latencies {
		if l > 0 {
			samples = append(samples, l)
		}
	}
	m.mu.Unlock()

	snap := MetricsSnapshot{
		Keys:              m.keysTotal.Load(),
		Pastes:            m.pasteTotal.Load(),
		Actions:           m.actionsTotal.Load(),
		Fallbacks:         m.fallbackTotal.Load(),
		DroppedKeys:       m.droppedKeys.Load(),
		Timeouts:          m.timeouts.Load(),
		ActionErrors:      m.actionErrors.Load(),
		ActionPanics:      m.actionPanics.Load(),
		UnknownActions:    m.unknownActions.Load(),
		PeakActionLatency: time.Duration(m.peak.Load()),
	}
	snap.AvgActionLatency, snap.P99ActionLatency = latencyStats(samples)
	return snap
}

func latencyStats(samples []time.Duration) (avg, p99 time.Duration) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum time.Duration
	for _, l := range samples {
		sum += l
	}
	slices.Sort(samples)
	idx := min(int(float64(len(samples))*0.99), len(samples)-1)
	return sum / time.Duration(len(samples)), samples[idx]
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Uint64{
		&m.keysTotal, &m.pasteTotal, &m.actionsTotal, &m.fallbackTotal,
		&m.droppedKeys, &m.timeouts, &m.actionErrors, &m.actionPanics,
		&m.unknownActions,
	} {
		c.Store(0)
	}
	m.peak.Store(0)

	m.mu.Lock()
	clear(m.latencies)
	m.next = 0
	m.mu.Unlock()
}
