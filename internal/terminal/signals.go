package terminal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// SignalKind classifies the signals a session reacts to.
type SignalKind int

const (
	// SignalResize reports a window size change.
	SignalResize SignalKind = iota
	// SignalContinue reports that the process was continued after a stop.
	SignalContinue
	// SignalTerminate asks the session to restore the terminal and end.
	SignalTerminate
)

var signalKinds = map[os.Signal]SignalKind{
	syscall.SIGWINCH: SignalResize,
	syscall.SIGCONT:  SignalContinue,
	syscall.SIGTERM:  SignalTerminate,
	syscall.SIGHUP:   SignalTerminate,
}

// Signals delivers terminal related signals to a handler until stopped.
type Signals struct {
	ch   chan os.Signal
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// WatchSignals calls fn from a separate goroutine for every resize,
// continue and termination signal. Callers usually forward to their
// event loop.
func WatchSignals(fn func(SignalKind, os.Signal)) *Signals {
	s := &Signals{
		ch:   make(chan os.Signal, 4),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	sigs := make([]os.Signal, 0, len(signalKinds))
	for sig := range signalKinds {
		sigs = append(sigs, sig)
	}
	signal.Notify(s.ch, sigs...)
	go func() {
		defer close(s.done)
		for {
			select {
			case <-s.stop:
				return
			case sig := <-s.ch:
				fn(signalKinds[sig], sig)
			}
		}
	}()
	return s
}

// Stop stops delivery and waits for the handler goroutine to exit.
func (s *Signals) Stop() {
	s.once.Do(func() {
		signal.Stop(s.ch)
		close(s.stop)
		<-s.done
	})
}

// Suspend releases raw mode, stops the process with SIGTSTP as the shell
// expects from Ctrl-Z, and reacquires raw mode once the process is
// continued. raw may be nil when the terminal is not in raw mode.
func Suspend(raw *RawMode) error {
	if raw != nil {
		if err := raw.Restore(); err != nil {
			return err
		}
	}
	// Stop the whole process group, like the terminal driver would.
	if err := unix.Kill(0, unix.SIGTSTP); err != nil {
		return err
	}
	if raw != nil {
		return raw.Reacquire()
	}
	return nil
}
