package terminal

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var (
	// ErrNotTerminal is returned when raw mode is requested on a file
	// that is not a terminal.
	ErrNotTerminal = errors.New("not a terminal")

	// ErrClosed is returned by reads after Close.
	ErrClosed = errors.New("terminal input closed")
)

// Terminal is a pair of input and output files, usually stdin and stdout.
type Terminal struct {
	In  *os.File
	Out *os.File
}

// Stdio returns the process's standard input and output.
func Stdio() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout}
}

// IsTerminal reports whether both input and output are terminals.
func (t *Terminal) IsTerminal() bool {
	return term.IsTerminal(int(t.In.Fd())) && term.IsTerminal(int(t.Out.Fd()))
}

// Size returns the output's width and height in cells.
func (t *Terminal) Size() (cols, rows int, err error) {
	ws, err := unix.IoctlGetWinsize(int(t.Out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("get window size: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}

// RawMode is an acquired raw mode. The zero value is not usable.
type RawMode struct {
	fd    int
	mu    sync.Mutex
	state *term.State
}

// EnterRaw puts the input terminal into raw mode.
func (t *Terminal) EnterRaw() (*RawMode, error) {
	fd := int(t.In.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	return &RawMode{fd: fd, state: state}, nil
}

// Restore returns the terminal to the mode it had before EnterRaw.
// Calls after the first are no-ops.
func (r *RawMode) Restore() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return nil
	}
	err := term.Restore(r.fd, r.state)
	r.state = nil
	return err
}

// Active reports whether raw mode is still held.
func (r *RawMode) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state != nil
}

// Reacquire enters raw mode again after Restore, as after a suspend.
func (r *RawMode) Reacquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != nil {
		return nil
	}
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	r.state = state
	return nil
}
