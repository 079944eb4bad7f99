package bindings

import (
	"errors"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/input/mouse"
	"github.com/dshills/promptline/internal/input/vim"
)

// ErrNoBuffer is returned by actions run without a buffer.
var ErrNoBuffer = errors.New("action needs a buffer")

// Mode groups used by the default tables.
var (
	inserting  = mode.Of(mode.Emacs, mode.ViInsert, mode.ViReplace)
	typing     = mode.Of(mode.Emacs, mode.ViInsert)
	emacs      = mode.Of(mode.Emacs)
	viInsert   = mode.Of(mode.ViInsert, mode.ViReplace)
	navigation = mode.Of(mode.ViNavigation)
	visual     = mode.Visual
	moving     = navigation | visual
)

// Defaults returns every default binding: basic, Emacs, Vi and completion.
func Defaults() []keymap.Binding {
	var all []keymap.Binding
	all = append(all, Basic()...)
	all = append(all, Emacs()...)
	all = append(all, Vi()...)
	all = append(all, Completion()...)
	return all
}

// Install registers the default actions in acts and the default bindings
// in reg.
func Install(reg *keymap.Registry, acts *input.Actions) error {
	Register(acts)
	return reg.Add(Defaults()...)
}

// handlers holds the state some actions keep between invocations. One
// instance serves one action table.
type handlers struct {
	lastFind *findState
	yank     yankState
	mouse    *mouse.Tracker
}

type findState struct {
	motion vim.Motion
	char   rune
}

// yankState remembers the text the last yank inserted, for yank-pop.
type yankState struct {
	start, end int
	text       string
}

// Register adds the default actions to acts.
func Register(acts *input.Actions) {
	h := &handlers{mouse: mouse.NewTracker(mouse.DefaultConfig())}
	h.registerBasic(acts)
	h.registerEmacs(acts)
	h.registerVi(acts)
	h.registerCompletion(acts)
	h.registerMacros(acts)
}

func bufferOf(ev *input.Event) (*buffer.Buffer, error) {
	if ev.Buffer == nil {
		return nil, ErrNoBuffer
	}
	return ev.Buffer, nil
}

// withBuffer adapts a buffer action to input.ActionFunc.
func withBuffer(fn func(ev *input.Event, b *buffer.Buffer) error) input.ActionFunc {
	return func(ev *input.Event) error {
		b, err := bufferOf(ev)
		if err != nil {
			return err
		}
		return fn(ev, b)
	}
}

// moveTo places the cursor, keeping it on a character outside the modes
// that insert text.
func moveTo(ev *input.Event, b *buffer.Buffer, index int) {
	b.SetCursor(index)
	if !ev.Mode().Inserts() {
		clamp(b)
	}
}

func clamp(b *buffer.Buffer) {
	if doc := vim.ClampNormal(b.Document()); doc.Cursor() != b.Cursor() {
		b.SetCursor(doc.Cursor())
	}
}

func clip(ev *input.Event) buffer.Clipboard {
	if ev.Clipboard == nil {
		return nopClipboard{}
	}
	return ev.Clipboard
}

type nopClipboard struct{}

func (nopClipboard) Set(buffer.ClipboardData)     {}
func (nopClipboard) Get() buffer.ClipboardData    { return buffer.ClipboardData{} }
func (nopClipboard) Rotate() buffer.ClipboardData { return buffer.ClipboardData{} }

func bind(keys, action string, modes mode.Set) keymap.Binding {
	return keymap.MustBind(keys, action, modes)
}

// seq builds a binding from key events directly, for keys that are awkward
// to spell in binding strings.
func seq(action string, modes mode.Set, keys ...key.Event) keymap.Binding {
	return keymap.Binding{Keys: key.Sequence(keys), Action: action, Modes: modes}
}

func char(r rune) key.Event { return key.NewRuneEvent(r, key.ModNone) }

var (
	completing    = keymap.Condition(input.CondCompleting)
	notCompleting = keymap.Not(completing)
	recording     = keymap.Condition(input.CondRecording)
)
