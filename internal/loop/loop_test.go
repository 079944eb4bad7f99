package loop

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLoop(t *testing.T, l *Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Run(ctx))
}

func TestLoopRunsCallbacksInOrder(t *testing.T) {
	l := New()
	var got []int
	for i := range 3 {
		l.CallSoon(func() { got = append(got, i) })
	}
	l.CallSoon(func() {
		l.CallSoon(func() {
			got = append(got, 3)
			l.Stop()
		})
	})

	runLoop(t, l)
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestLoopRunAfterStop(t *testing.T) {
	l := New()
	l.Stop()
	l.Stop()
	assert.ErrorIs(t, l.Run(context.Background()), ErrStopped)
}

func TestLoopContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	l.CallSoon(cancel)
	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
}

func TestLoopTimers(t *testing.T) {
	l := New()
	var stoppedRan atomic.Bool
	stopped := l.CallLater(20*time.Millisecond, func() { stoppedRan.Store(true) })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	fired := false
	timer := l.CallLater(time.Millisecond, func() {
		fired = true
		l.CallLater(40*time.Millisecond, l.Stop)
	})

	runLoop(t, l)
	assert.True(t, fired)
	assert.False(t, timer.Stop(), "Stop after firing")
	assert.False(t, stoppedRan.Load())
}

func TestLoopRecoversPanics(t *testing.T) {
	var recovered any
	l := New(WithPanicHandler(func(r any, stack []byte) {
		recovered = r
		assert.NotEmpty(t, stack)
	}))
	l.CallSoon(func() { panic("boom") })
	l.CallSoon(l.Stop)

	runLoop(t, l)
	assert.Equal(t, "boom", recovered)
	executed, panicked := l.Stats()
	assert.Equal(t, uint64(2), executed)
	assert.Equal(t, uint64(1), panicked)
}

func TestLoopOffload(t *testing.T) {
	l := New(WithWorkers(2))
	var result string
	var resultErr error

	Offload(l, context.Background(), func(context.Context) (string, error) {
		return "done", nil
	}, func(s string, err error) {
		result = s
		Offload(l, context.Background(), func(context.Context) (int, error) {
			panic("worker failed")
		}, func(_ int, err error) {
			resultErr = err
			l.Stop()
		})
	})

	runLoop(t, l)
	require.NoError(t, l.Wait(context.Background()))
	assert.Equal(t, "done", result)
	assert.ErrorIs(t, resultErr, ErrPanic)
}

func TestLoopCancelledWorkIsNotDelivered(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	delivered := false
	release := make(chan struct{})

	l.RunInExecutor(ctx, func(context.Context) func() {
		<-release
		return func() { delivered = true }
	})
	l.CallSoon(func() {
		cancel()
		close(release)
		l.CallLater(30*time.Millisecond, l.Stop)
	})

	runLoop(t, l)
	assert.False(t, delivered)
}

func TestLoopAddReader(t *testing.T) {
	l := New()
	var data strings.Builder
	var final error
	l.AddReader(strings.NewReader("abc"), func(chunk []byte, err error) {
		data.Write(chunk)
		if err != nil {
			final = err
			l.Stop()
		}
	})

	runLoop(t, l)
	assert.Equal(t, "abc", data.String())
	assert.True(t, errors.Is(final, io.EOF))
}

func TestManualTimersFireInOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.CallLater(300*time.Millisecond, func() { got = append(got, "c") })
	m.CallLater(100*time.Millisecond, func() {
		got = append(got, "a")
		m.CallLater(100*time.Millisecond, func() { got = append(got, "b") })
	})
	cancelled := m.CallLater(150*time.Millisecond, func() { got = append(got, "x") })
	assert.True(t, cancelled.Stop())
	assert.Equal(t, 2, m.ActiveTimers())

	m.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, time.Time{}.Add(250*time.Millisecond), m.Now())

	m.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Zero(t, m.ActiveTimers())
}

func TestManualOffload(t *testing.T) {
	m := NewManual()
	var got int
	Offload(m, context.Background(), func(context.Context) (int, error) { return 42, nil },
		func(v int, err error) { got = v })
	assert.Zero(t, got, "delivery waits for the loop")
	assert.Equal(t, 1, m.RunPending())
	assert.Equal(t, 42, got)

	ctx, cancel := context.WithCancel(context.Background())
	Offload(m, ctx, func(context.Context) (int, error) { return 7, nil },
		func(v int, err error) { got = v })
	cancel()
	m.RunPending()
	assert.Equal(t, 42, got)
}
