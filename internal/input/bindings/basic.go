package bindings

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/mode"
)

// Basic returns the bindings shared by every mode.
func Basic() []keymap.Binding {
	return []keymap.Binding{
		bind("<Paste>", ActionPaste, mode.All),
		bind("<C-c>", ActionAbort, mode.All),
		bind("<C-z>", ActionSuspend, mode.All),
		bind("<C-l>", ActionClearScreen, mode.All),
		bind("<Mouse>", ActionMouse, mode.All),

		bind("<Left>", ActionLeft, mode.All),
		bind("<Right>", ActionRight, mode.All),
		bind("<Up>", ActionUp, mode.All),
		bind("<Down>", ActionDown, mode.All),
		bind("<Home>", ActionLineStart, mode.All),
		bind("<End>", ActionLineEnd, mode.All),

		bind("<Backspace>", ActionDeleteBefore, typing),
		bind("<C-h>", ActionDeleteBefore, typing),
		bind("<Backspace>", ActionLeft, mode.Of(mode.ViReplace)),
		bind("<Delete>", ActionDelete, inserting),
		bind("<Enter>", ActionAccept, inserting|navigation),
	}
}

func (h *handlers) registerBasic(acts *input.Actions) {
	acts.Register(ActionSelfInsert, withBuffer(selfInsert))
	acts.Register(ActionPaste, withBuffer(paste))

	acts.Register(ActionLeft, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		moveTo(ev, b, max(b.Cursor()-ev.Count, doc.LineStart(doc.CursorRow())))
		return nil
	}))
	acts.Register(ActionRight, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		moveTo(ev, b, min(b.Cursor()+ev.Count, doc.LineEnd(doc.CursorRow())))
		return nil
	}))
	acts.Register(ActionUp, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		if b.CursorUp(ev.Count) && !ev.Mode().Inserts() {
			clamp(b)
		}
		return nil
	}))
	acts.Register(ActionDown, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		if b.CursorDown(ev.Count) && !ev.Mode().Inserts() {
			clamp(b)
		}
		return nil
	}))
	acts.Register(ActionLineStart, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		moveTo(ev, b, doc.LineStart(doc.CursorRow()))
		return nil
	}))
	acts.Register(ActionLineEnd, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		moveTo(ev, b, doc.LineEnd(doc.CursorRow()))
		return nil
	}))

	acts.Register(ActionDeleteBefore, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		_, err := b.DeleteBefore(ev.Count)
		return err
	}))
	acts.Register(ActionDelete, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		_, err := b.DeleteAfter(ev.Count)
		return err
	}))

	acts.Register(ActionAccept, withBuffer(acceptLine))
	acts.Register(ActionAbort, func(ev *input.Event) error {
		ev.Host.Abort()
		return nil
	})
	acts.Register(ActionSuspend, func(ev *input.Event) error {
		ev.Host.Suspend()
		return nil
	})
	acts.Register(ActionClearScreen, func(ev *input.Event) error {
		ev.Host.ClearScreen()
		return nil
	})
	acts.Register(ActionMouse, withBuffer(h.mouseEvent))
}

// selfInsert types the key, overwriting in replace mode.
func selfInsert(ev *input.Event, b *buffer.Buffer) error {
	last := ev.Last()
	if !last.IsChar() {
		return nil
	}
	text := strings.Repeat(string(last.Rune), ev.Count)
	if ev.Mode() == mode.ViReplace {
		return b.Overwrite(text)
	}
	return b.Insert(text)
}

// paste inserts bracketed-paste text with line endings unified and
// composed characters normalized.
func paste(ev *input.Event, b *buffer.Buffer) error {
	text := NormalizePaste(ev.Last().Data)
	if text == "" {
		return nil
	}
	if ev.Mode() == mode.ViReplace {
		return b.Overwrite(text)
	}
	if err := b.Insert(text); err != nil {
		return err
	}
	if !ev.Mode().Inserts() {
		clamp(b)
	}
	return nil
}

// NormalizePaste converts CR LF and lone CR line endings to LF and returns
// the text in Unicode normalization form C.
func NormalizePaste(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return norm.NFC.String(text)
}

// acceptLine submits the input, or inserts a newline when a multiline
// buffer is not complete. A failed validation stays in the buffer.
func acceptLine(ev *input.Event, b *buffer.Buffer) error {
	accepted, err := b.HandleEnter()
	var verr *buffer.ValidationError
	switch {
	case errors.As(err, &verr):
		ev.Host.Invalidate()
		return nil
	case err != nil:
		return err
	case accepted:
		ev.Host.Accept()
	}
	return nil
}
