package keymap

import (
	"fmt"

	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/mode"
)

// Binding represents a single key-to-action mapping.
type Binding struct {
	// Keys is the key sequence that triggers this binding.
	Keys key.Sequence

	// Action names the handler in the action registry.
	// Examples: "cursor-left", "vi-delete-line", "accept-line"
	Action string

	// Args are fixed arguments for the action.
	Args map[string]any

	// Modes limits the binding to these modes. Zero means all modes.
	Modes mode.Set

	// When must be true for the binding to be active. Nil means always.
	When Filter

	// Eager bindings run as soon as they match, even when a longer
	// binding could still match.
	Eager bool

	// Priority determines precedence when multiple bindings match.
	// Higher priority wins. Default is 0.
	Priority int

	// Description provides documentation for the binding.
	Description string
}

// New creates a binding from a key sequence string.
// Formats: "j", "g g", "gg", "C-x C-e", "<C-x><C-e>", "f<Any>"
func New(keys, action string, modes mode.Set) (Binding, error) {
	seq, err := key.ParseSequence(keys)
	if err != nil {
		return Binding{}, fmt.Errorf("binding %q for %s: %w", keys, action, err)
	}
	return Binding{Keys: seq, Action: action, Modes: modes}, nil
}

// MustBind is New for known-valid bindings in initialization code.
func MustBind(keys, action string, modes mode.Set) Binding {
	b, err := New(keys, action, modes)
	if err != nil {
		panic(err)
	}
	return b
}

// WithArgs sets arguments for this binding.
func (b Binding) WithArgs(args map[string]any) Binding {
	b.Args = args
	return b
}

// WithWhen sets the filter for this binding.
func (b Binding) WithWhen(f Filter) Binding {
	b.When = f
	return b
}

// WithPriority sets the priority for this binding.
func (b Binding) WithPriority(priority int) Binding {
	b.Priority = priority
	return b
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// AsEager marks the binding eager.
func (b Binding) AsEager() Binding {
	b.Eager = true
	return b
}

// Active reports whether the binding applies in mode m under ctx.
func (b *Binding) Active(m mode.Mode, ctx *LookupContext) bool {
	if b.Modes != 0 && !b.Modes.Has(m) {
		return false
	}
	return b.When == nil || b.When.Eval(m, ctx)
}

// Arg returns the named argument.
func (b *Binding) Arg(name string) (any, bool) {
	v, ok := b.Args[name]
	return v, ok
}

// String describes the binding for logs.
func (b *Binding) String() string {
	return fmt.Sprintf("%s -> %s", b.Keys.VimString(), b.Action)
}
