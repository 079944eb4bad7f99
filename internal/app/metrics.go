package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks session performance: frames drawn, input handled and
// completion requests.
type Metrics struct {
	// Frame timing covers layout, diff and writing to the terminal.
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Input handling, per chunk read from the terminal.
	inputCount   atomic.Uint64
	inputTotalNs atomic.Int64
	inputBytes   atomic.Uint64

	// Completion requests.
	completions       atomic.Uint64
	completionsFailed atomic.Uint64
	completionsStale  atomic.Uint64

	// Prompts finished.
	prompts atomic.Uint64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records frame timing.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordInput records the handling of one input chunk.
func (m *Metrics) RecordInput(bytes int, duration time.Duration) {
	m.inputCount.Add(1)
	m.inputBytes.Add(uint64(bytes))
	m.inputTotalNs.Add(duration.Nanoseconds())
}

// RecordCompletion records a finished completion request.
func (m *Metrics) RecordCompletion(failed, stale bool) {
	m.completions.Add(1)
	if failed {
		m.completionsFailed.Add(1)
	}
	if stale {
		m.completionsStale.Add(1)
	}
}

// RecordPrompt records a finished prompt.
func (m *Metrics) RecordPrompt() {
	m.prompts.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()
	inputCount := m.inputCount.Load()

	var avgFrameNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}
	var avgInputNs int64
	if inputCount > 0 {
		avgInputNs = m.inputTotalNs.Load() / int64(inputCount)
	}
	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	return MetricsSnapshot{
		FrameCount:        frameCount,
		AvgFrameTimeNs:    avgFrameNs,
		MinFrameTimeNs:    minFrameNs,
		MaxFrameTimeNs:    m.frameMaxNs.Load(),
		LastFrameNs:       m.lastFrameNs.Load(),
		InputCount:        inputCount,
		InputBytes:        m.inputBytes.Load(),
		AvgInputTimeNs:    avgInputNs,
		Completions:       m.completions.Load(),
		CompletionsFailed: m.completionsFailed.Load(),
		CompletionsStale:  m.completionsStale.Load(),
		Prompts:           m.prompts.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	FrameCount        uint64
	AvgFrameTimeNs    int64
	MinFrameTimeNs    int64
	MaxFrameTimeNs    int64
	LastFrameNs       int64
	InputCount        uint64
	InputBytes        uint64
	AvgInputTimeNs    int64
	Completions       uint64
	CompletionsFailed uint64
	CompletionsStale  uint64
	Prompts           uint64
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
