package macro

import (
	"fmt"
	"unicode"

	"github.com/dshills/promptline/internal/input/key"
)

// MaxDepth bounds macros that replay other macros.
const MaxDepth = 16

// Player replays registers through a feed function.
type Player struct {
	recorder *Recorder
	depth    int
}

// NewPlayer creates a player reading registers from recorder.
func NewPlayer(recorder *Recorder) *Player {
	return &Player{recorder: recorder}
}

// Playing reports whether a replay is in progress.
func (p *Player) Playing() bool { return p.depth > 0 }

// Play feeds the events in register count times. The register '@' stands
// for the last register played.
func (p *Player) Play(register rune, count int, feed func(key.Event)) error {
	if register == '@' {
		register = p.recorder.LastPlayed()
	}
	if !IsValidRegister(register) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, register)
	}
	events := p.recorder.Get(register)
	if len(events) == 0 {
		return fmt.Errorf("%w: %c", ErrEmptyRegister, register)
	}
	if p.depth >= MaxDepth {
		return ErrNested
	}

	p.depth++
	defer func() { p.depth-- }()
	for range max(count, 1) {
		for _, ev := range events {
			feed(ev)
		}
	}
	p.recorder.setLastPlayed(unicode.ToLower(register))
	return nil
}
