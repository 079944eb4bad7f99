package bindings

import (
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/macro"
)

func (h *handlers) registerMacros(acts *input.Actions) {
	acts.Register(ActionMacroStart, func(ev *input.Event) error {
		if ev.Macros == nil {
			return input.ErrNoRecorder
		}
		return ev.Macros.Start(macro.KeyboardRegister)
	})
	// C-x ) is two keys long.
	acts.Register(ActionMacroStop, stopRecording(2))
	acts.Register(ActionMacroPlay, func(ev *input.Event) error {
		return ev.Processor.Replay(macro.KeyboardRegister, ev.Count)
	})

	acts.Register(ActionViMacroRecord, func(ev *input.Event) error {
		if ev.Macros == nil {
			return input.ErrNoRecorder
		}
		return ev.Macros.Start(ev.Last().Rune)
	})
	acts.Register(ActionViMacroStop, stopRecording(1))
	acts.Register(ActionViMacroPlay, func(ev *input.Event) error {
		return ev.Processor.Replay(ev.Last().Rune, ev.Count)
	})
}

// stopRecording ends a recording, dropping the trim keys that stopped it.
func stopRecording(trim int) input.ActionFunc {
	return func(ev *input.Event) error {
		if ev.Macros == nil {
			return input.ErrNoRecorder
		}
		ev.Macros.Stop(trim)
		return nil
	}
}
