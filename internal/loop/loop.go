package loop

import (
	"context"
	"io"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultWorkers bounds concurrent RunInExecutor work.
const DefaultWorkers = 4

// readChunk is the buffer size used by AddReader.
const readChunk = 4096

// Loop runs callbacks on the goroutine that calls Run.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
	stop  chan struct{}

	running atomic.Bool
	stopped atomic.Bool

	workers chan struct{}
	wg      sync.WaitGroup

	panicHandler PanicHandler

	executed atomic.Uint64
	panicked atomic.Uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithWorkers sets how many offloaded tasks may run at once.
func WithWorkers(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.workers = make(chan struct{}, n)
		}
	}
}

// WithPanicHandler sets the handler for panics in callbacks and workers.
func WithPanicHandler(h PanicHandler) Option {
	return func(l *Loop) {
		if h != nil {
			l.panicHandler = h
		}
	}
}

// New creates a loop. Callbacks queued before Run are kept.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		workers:      make(chan struct{}, DefaultWorkers),
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes queued callbacks until ctx is done or Stop is called.
// It returns ctx.Err() on cancellation and nil after Stop.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer l.running.Store(false)
	if l.stopped.Load() {
		return ErrStopped
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		default:
		}

		if batch := l.take(); len(batch) > 0 {
			for _, fn := range batch {
				l.execute(fn)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		case <-l.wake:
		}
	}
}

// Stop makes Run return after the current callback. Queued callbacks are
// dropped. Stop is idempotent.
func (l *Loop) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stop)
	}
}

// Wait blocks until offloaded work has finished or ctx is done.
func (l *Loop) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats reports how many callbacks ran and how many panicked.
func (l *Loop) Stats() (executed, panicked uint64) {
	return l.executed.Load(), l.panicked.Load()
}

// CallSoon implements Scheduler. It is safe from any goroutine.
func (l *Loop) CallSoon(fn func()) {
	if fn == nil || l.stopped.Load() {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// CallLater implements Scheduler.
func (l *Loop) CallLater(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.CallSoon(func() {
			if t.fire() {
				fn()
			}
		})
	})
	return t
}

// RunInExecutor implements Scheduler.
func (l *Loop) RunInExecutor(ctx context.Context, work func(ctx context.Context) func()) {
	if l.stopped.Load() {
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		select {
		case l.workers <- struct{}{}:
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		}
		defer func() { <-l.workers }()

		if ctx.Err() != nil {
			return
		}
		var cont func()
		func() {
			defer l.recoverPanic()
			cont = work(ctx)
		}()
		if cont == nil {
			return
		}
		l.CallSoon(func() {
			if ctx.Err() == nil {
				cont()
			}
		})
	}()
}

// AddReader implements Scheduler. Reading stops at the first error.
func (l *Loop) AddReader(r io.Reader, fn func(chunk []byte, err error)) {
	go func() {
		buf := make([]byte, readChunk)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				l.CallSoon(func() { fn(chunk, nil) })
			}
			if err != nil {
				l.CallSoon(func() { fn(nil, err) })
				return
			}
			if l.stopped.Load() {
				return
			}
		}
	}()
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch
}

func (l *Loop) execute(fn func()) {
	defer l.recoverPanic()
	l.executed.Add(1)
	fn()
}

func (l *Loop) recoverPanic() {
	if r := recover(); r != nil {
		l.panicked.Add(1)
		stack := debug.Stack()
		func() {
			defer func() { _ = recover() }()
			l.panicHandler(r, stack)
		}()
	}
}

// loopTimer guards against a fired timer whose callback is still queued
// when Stop is called.
type loopTimer struct {
	timer *time.Timer
	done  atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if !t.done.CompareAndSwap(false, true) {
		return false
	}
	t.timer.Stop()
	return true
}

func (t *loopTimer) fire() bool {
	return t.done.CompareAndSwap(false, true)
}
