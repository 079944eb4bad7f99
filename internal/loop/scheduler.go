package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Errors returned by the loop package.
var (
	ErrRunning = errors.New("loop already running")
	ErrStopped = errors.New("loop stopped")
	ErrPanic   = errors.New("panic in offloaded work")
)

// Timer is a pending delayed call.
type Timer interface {
	// Stop cancels the call. It returns false if the call already ran or
	// was already stopped.
	Stop() bool
}

// Scheduler is the host capability the editor core depends on.
type Scheduler interface {
	// CallSoon runs fn on the loop after the current callback returns.
	CallSoon(fn func())

	// CallLater runs fn on the loop once d has elapsed.
	CallLater(d time.Duration, fn func()) Timer

	// RunInExecutor runs work off the loop. The function work returns is
	// run on the loop unless ctx is done by then.
	RunInExecutor(ctx context.Context, work func(ctx context.Context) func())

	// AddReader reads r until it fails and delivers each chunk on the loop.
	// The final call carries the read error and a nil chunk.
	AddReader(r io.Reader, fn func(chunk []byte, err error))
}

// Offload runs work off the loop and delivers its result on the loop.
// A panic in work is delivered as an error wrapping ErrPanic. Nothing is
// delivered once ctx is cancelled.
func Offload[T any](s Scheduler, ctx context.Context, work func(context.Context) (T, error), deliver func(T, error)) {
	s.RunInExecutor(ctx, func(ctx context.Context) func() {
		v, err := protect(ctx, work)
		return func() { deliver(v, err) }
	})
}

func protect[T any](ctx context.Context, work func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return work(ctx)
}

// PanicHandler is called with a recovered panic and its stack.
type PanicHandler func(recovered any, stack []byte)

func defaultPanicHandler(any, []byte) {}
