package bindings

import (
	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/keymap"
)

// completionPriority lets menu keys win over their plain meanings while
// the menu is open.
const completionPriority = 10

// Completion returns the bindings that drive the completion menu.
func Completion() []keymap.Binding {
	menu := func(keys, action string) keymap.Binding {
		return bind(keys, action, inserting).WithWhen(completing).WithPriority(completionPriority)
	}
	return []keymap.Binding{
		bind("<Tab>", ActionCompleteNext, inserting),
		bind("<BackTab>", ActionCompletePrev, inserting),
		menu("<Down>", ActionCompleteNext),
		menu("<C-n>", ActionCompleteNext),
		menu("<Up>", ActionCompletePrev),
		menu("<C-p>", ActionCompletePrev),
		menu("<Enter>", ActionCompleteAccept),
		menu("<Esc>", ActionCompleteCancel),
	}
}

func (h *handlers) registerCompletion(acts *input.Actions) {
	acts.Register(ActionCompleteNext, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		if b.Completion() == nil {
			ev.Host.Complete(true)
			return nil
		}
		b.CompleteNext(ev.Count)
		return nil
	}))
	acts.Register(ActionCompletePrev, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		if b.Completion() == nil {
			ev.Host.Complete(false)
			return nil
		}
		b.CompletePrev(ev.Count)
		return nil
	}))
	acts.Register(ActionCompleteAccept, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		if c, ok := b.Completion().Current(); ok {
			return b.ApplyCompletion(c)
		}
		b.CancelCompletion(false)
		return acceptLine(ev, b)
	}))
	acts.Register(ActionCompleteCancel, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		b.CancelCompletion(true)
		return nil
	}))
}
