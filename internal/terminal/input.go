package terminal

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// pollTimeout bounds how long a read waits before checking for pause
// and close requests, in milliseconds.
const pollTimeout = 50

// Input reads raw bytes from a file without ever blocking in read(2).
type Input struct {
	fd int

	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
	closed bool
}

// NewInput returns a reader for f.
func NewInput(f *os.File) *Input {
	in := &Input{fd: int(f.Fd())}
	in.cond = sync.NewCond(&in.mu)
	return in
}

// Read waits until input is available and reads it. It returns io.EOF
// at end of input and ErrClosed after Close.
func (in *Input) Read(p []byte) (int, error) {
	for {
		if err := in.wait(); err != nil {
			return 0, err
		}
		fds := []unix.PollFd{{Fd: int32(in.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, pollTimeout)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 0, err
		}
		if n == 0 {
			continue
		}
		rn, err := unix.Read(in.fd, p)
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return 0, err
		}
		if rn == 0 {
			return 0, io.EOF
		}
		return rn, nil
	}
}

// wait blocks while paused.
func (in *Input) wait() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	for in.paused && !in.closed {
		in.cond.Wait()
	}
	if in.closed {
		return ErrClosed
	}
	return nil
}

// Pause stops reading until Resume. A read in progress finishes first.
func (in *Input) Pause() {
	in.mu.Lock()
	in.paused = true
	in.mu.Unlock()
}

// Resume continues reading after Pause.
func (in *Input) Resume() {
	in.mu.Lock()
	in.paused = false
	in.mu.Unlock()
	in.cond.Broadcast()
}

// Close makes pending and future reads return ErrClosed within one poll
// interval. It does not close the file.
func (in *Input) Close() error {
	in.mu.Lock()
	in.closed = true
	in.mu.Unlock()
	in.cond.Broadcast()
	return nil
}
