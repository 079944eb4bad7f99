package macro

import (
	"errors"
	"fmt"
	"sync"
	"unicode"

	"github.com/dshills/promptline/internal/input/key"
)

// KeyboardRegister holds the Emacs keyboard macro.
const KeyboardRegister = '0'

// Errors returned by the recorder and player.
var (
	ErrInvalidRegister = errors.New("invalid register")
	ErrRecording       = errors.New("already recording")
	ErrEmptyRegister   = errors.New("empty register")
	ErrNested          = errors.New("macro replay nested too deeply")
)

// IsValidRegister reports whether r names a register: a-z, A-Z (append to
// the lowercase register) or 0-9.
func IsValidRegister(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Recorder captures key events into registers.
type Recorder struct {
	mu         sync.Mutex
	recording  bool
	register   rune
	appending  bool
	events     key.Sequence
	registers  map[rune]key.Sequence
	lastPlayed rune
}

// NewRecorder creates a recorder with empty registers.
func NewRecorder() *Recorder {
	return &Recorder{registers: make(map[rune]key.Sequence)}
}

// Start begins recording into register. An uppercase register appends to
// its lowercase counterpart.
func (r *Recorder) Start(register rune) error {
	if !IsValidRegister(register) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, register)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return fmt.Errorf("%w to register %c", ErrRecording, r.register)
	}
	r.recording = true
	r.appending = unicode.IsUpper(register)
	r.register = unicode.ToLower(register)
	r.events = nil
	return nil
}

// Stop ends recording and stores the events, minus the last trim events
// (the keys that stopped the recording). It returns the stored events.
func (r *Recorder) Stop(trim int) key.Sequence {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return nil
	}
	r.recording = false
	events := r.events[:max(len(r.events)-trim, 0)]
	r.events = nil

	if r.appending {
		events = append(r.registers[r.register].Clone(), events...)
	}
	if len(events) == 0 {
		delete(r.registers, r.register)
		return nil
	}
	r.registers[r.register] = events.Clone()
	return events
}

// Recording returns the register being recorded and whether a recording
// is in progress.
func (r *Recorder) Recording() (rune, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register, r.recording
}

// Record adds ev to the recording in progress.
func (r *Recorder) Record(ev key.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		r.events = append(r.events, ev)
	}
}

// Get returns a copy of the events in register.
func (r *Recorder) Get(register rune) key.Sequence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registers[unicode.ToLower(register)].Clone()
}

// Set replaces the contents of register. Empty events clear it.
func (r *Recorder) Set(register rune, events key.Sequence) error {
	if !IsValidRegister(register) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, register)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	register = unicode.ToLower(register)
	if len(events) == 0 {
		delete(r.registers, register)
		return nil
	}
	r.registers[register] = events.Clone()
	return nil
}

// LastPlayed returns the register replayed most recently, for "@@".
func (r *Recorder) LastPlayed() rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPlayed
}

func (r *Recorder) setLastPlayed(register rune) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPlayed = register
}
