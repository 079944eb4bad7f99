package input

import (
	"fmt"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/macro"
	"github.com/dshills/promptline/internal/input/mode"
)

// Host is the session an action can ask to end input, suspend the process
// or repaint.
type Host interface {
	// Accept submits the current input.
	Accept()
	// Abort discards the current input.
	Abort()
	// Exit ends the session as if input hit end of file.
	Exit()
	// Suspend stops the process until it is continued.
	Suspend()
	// Complete starts completion, or cycles it when it is already shown.
	Complete(forward bool)
	// Invalidate requests a repaint.
	Invalidate()
	// ClearScreen erases the terminal and repaints from the top.
	ClearScreen()
}

// NopHost ignores every request.
type NopHost struct{}

func (NopHost) Accept()       {}
func (NopHost) Abort()        {}
func (NopHost) Exit()         {}
func (NopHost) Suspend()      {}
func (NopHost) Complete(bool) {}
func (NopHost) Invalidate()   {}
func (NopHost) ClearScreen()  {}

// Env is the editing state actions work on.
type Env struct {
	Buffer    *buffer.Buffer
	Clipboard buffer.Clipboard
	Host      Host
	Macros    *macro.Recorder
}

// Event describes one action invocation.
type Event struct {
	// Keys is the sequence that triggered the action.
	Keys key.Sequence

	// Count is the repeat count, at least 1.
	Count int

	// HasCount is set when a count was typed.
	HasCount bool

	// Binding is the matched binding, or nil for the fallback action.
	Binding *keymap.Binding

	Buffer    *buffer.Buffer
	Clipboard buffer.Clipboard
	Modes     *mode.Manager
	Host      Host
	Macros    *macro.Recorder

	// Processor fed the keys. Actions use it to replay macros.
	Processor *Processor
}

// Mode returns the active mode.
func (e *Event) Mode() mode.Mode { return e.Modes.Current() }

// SwitchMode changes the active mode.
func (e *Event) SwitchMode(m mode.Mode) { e.Modes.Switch(m) }

// RawCount returns the typed count, or 0 when none was typed.
func (e *Event) RawCount() int {
	if !e.HasCount {
		return 0
	}
	return e.Count
}

// Last returns the final key of the sequence.
func (e *Event) Last() key.Event {
	if len(e.Keys) == 0 {
		return key.Event{}
	}
	return e.Keys[len(e.Keys)-1]
}

// Arg returns a binding argument.
func (e *Event) Arg(name string) (any, bool) {
	if e.Binding == nil {
		return nil, false
	}
	return e.Binding.Arg(name)
}

// StringArg returns a binding argument formatted as a string, or def.
func (e *Event) StringArg(name, def string) string {
	v, ok := e.Arg(name)
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Condition names set in every lookup context.
const (
	CondCompleting   = "completing"
	CondHasSelection = "has_selection"
	CondMultiline    = "multiline"
	CondReadOnly     = "read_only"
	CondRecording    = "recording"
	CondInvalid      = "invalid"
	CondEmpty        = "empty"
	CondReturnable   = "returnable"
)

// Conditions fills ctx with the buffer state bindings can test.
func (env Env) Conditions(ctx *keymap.LookupContext) {
	if b := env.Buffer; b != nil {
		doc := b.Document()
		ctx.Conditions[CondCompleting] = b.Completion() != nil
		ctx.Conditions[CondHasSelection] = doc.HasSelection()
		ctx.Conditions[CondMultiline] = b.Multiline()
		ctx.Conditions[CondReadOnly] = b.ReadOnly()
		ctx.Conditions[CondInvalid] = b.ValidationError() != nil
		ctx.Conditions[CondEmpty] = doc.IsEmpty()
		ctx.Conditions[CondReturnable] = !b.ReadOnly()
	}
	if env.Macros != nil {
		_, recording := env.Macros.Recording()
		ctx.Conditions[CondRecording] = recording
	}
}
