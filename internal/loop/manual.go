package loop

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"
)

// Manual is a Scheduler driven by the caller. Nothing runs until
// RunPending or Advance is called, and time only moves through Advance.
// Offloaded work runs synchronously inside RunInExecutor.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	queue  []func()
	timers []*manualTimer
	seq    uint64
}

// NewManual creates a manual scheduler with its clock at the zero time.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns the fake clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// CallSoon implements Scheduler.
func (m *Manual) CallSoon(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// CallLater implements Scheduler.
func (m *Manual) CallLater(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, at: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// RunInExecutor implements Scheduler. work runs immediately; its
// continuation is queued.
func (m *Manual) RunInExecutor(ctx context.Context, work func(ctx context.Context) func()) {
	if ctx.Err() != nil {
		return
	}
	cont := work(ctx)
	if cont == nil {
		return
	}
	m.CallSoon(func() {
		if ctx.Err() == nil {
			cont()
		}
	})
}

// AddReader implements Scheduler by draining r immediately and queueing
// one callback per chunk read.
func (m *Manual) AddReader(r io.Reader, fn func(chunk []byte, err error)) {
	buf := make([]byte, readChunk)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			m.CallSoon(func() { fn(chunk, nil) })
		}
		if err != nil {
			m.CallSoon(func() { fn(nil, err) })
			return
		}
	}
}

// Pending returns the number of queued callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// ActiveTimers returns the number of timers that have not fired or been
// stopped.
func (m *Manual) ActiveTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// RunPending runs queued callbacks, including ones they queue, and
// returns how many ran.
func (m *Manual) RunPending() int {
	ran := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return ran
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		fn()
		ran++
	}
}

// Advance moves the clock forward by d, firing due timers in deadline
// order, then runs pending callbacks.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.RunPending()
		t := m.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
	m.RunPending()
}

// nextDue removes and returns the earliest timer due by target, moving the
// clock to its deadline.
func (m *Manual) nextDue(target time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.timers) == 0 {
		return nil
	}
	i := 0
	for j, t := range m.timers {
		if t.at.Before(m.timers[i].at) || (t.at.Equal(m.timers[i].at) && t.seq < m.timers[i].seq) {
			i = j
		}
	}
	t := m.timers[i]
	if t.at.After(target) {
		return nil
	}
	m.timers = slices.Delete(m.timers, i, i+1)
	if t.at.After(m.now) {
		m.now = t.at
	}
	return t
}

type manualTimer struct {
	m   *Manual
	at  time.Time
	seq uint64
	fn  func()
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for i, other := range t.m.timers {
		if other == t {
			t.m.timers = slices.Delete(t.m.timers, i, i+1)
			return true
		}
	}
	return false
}
