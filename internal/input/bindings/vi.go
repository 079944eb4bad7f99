package bindings

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/document"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/input/vim"
)

// Vi returns the Vi bindings for insert, navigation and visual modes.
func Vi() []keymap.Binding {
	bs := []keymap.Binding{
		bind("<Esc>", ActionViEscape, viInsert),
		bind("<Esc>", ActionViCancel, navigation),

		bind("i", ActionViInsert, navigation),
		bind("a", ActionViAppend, navigation),
		bind("I", ActionViInsertLineStart, navigation),
		bind("A", ActionViAppendLineEnd, navigation),
		bind("o", ActionViOpenBelow, navigation),
		bind("O", ActionViOpenAbove, navigation),
		bind("R", ActionViReplaceMode, navigation),
		bind("r <Any>", ActionViReplaceChar, navigation),

		bind("x", ActionViDeleteChar, navigation),
		bind("<Del>", ActionViDeleteChar, navigation),
		bind("X", ActionViDeleteBefore, navigation),
		bind("s", ActionViSubstitute, navigation),
		bind("S", ActionViSubstituteLine, navigation),
		bind("D", ActionViDeleteToEnd, navigation),
		bind("C", ActionViChangeToEnd, navigation),
		bind("Y", ActionViYankLine, navigation),
		bind("p", ActionViPasteAfter, navigation),
		bind("P", ActionViPasteBefore, navigation),
		bind("J", ActionViJoinLines, navigation),
		bind("~", ActionViSwapCase, navigation),
		bind("u", ActionUndo, navigation),
		bind("<C-r>", ActionRedo, navigation),
		bind(";", ActionViRepeatFind, moving),
		bind(",", ActionViRepeatFindBack, moving),

		bind("q", ActionViMacroStop, navigation).WithWhen(recording),
		bind("q <Any>", ActionViMacroRecord, navigation).WithWhen(keymap.Not(recording)),
		bind("@ <Any>", ActionViMacroPlay, navigation),
	}
	bs = append(bs, viMotions()...)
	bs = append(bs, viOperators()...)
	bs = append(bs, viVisual()...)
	return bs
}

func (h *handlers) registerVi(acts *input.Actions) {
	acts.Register(ActionViEscape, withBuffer(viEscape))
	acts.Register(ActionViCancel, func(*input.Event) error { return nil })

	acts.Register(ActionViInsert, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		ev.SwitchMode(mode.ViInsert)
		return nil
	}))
	acts.Register(ActionViAppend, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		if !b.Document().AtLineEnd() {
			b.SetCursor(b.Cursor() + 1)
		}
		ev.SwitchMode(mode.ViInsert)
		return nil
	}))
	acts.Register(ActionViInsertLineStart, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		b.SetCursor(doc.FirstNonBlank(doc.CursorRow()))
		ev.SwitchMode(mode.ViInsert)
		return nil
	}))
	acts.Register(ActionViAppendLineEnd, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		b.SetCursor(doc.LineEnd(doc.CursorRow()))
		ev.SwitchMode(mode.ViInsert)
		return nil
	}))
	acts.Register(ActionViOpenBelow, withBuffer(openLine(true)))
	acts.Register(ActionViOpenAbove, withBuffer(openLine(false)))
	acts.Register(ActionViReplaceMode, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		ev.SwitchMode(mode.ViReplace)
		return nil
	}))
	acts.Register(ActionViReplaceChar, withBuffer(replaceChar))

	acts.Register(ActionViDeleteChar, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		end := min(doc.Cursor()+ev.Count, doc.LineEnd(doc.CursorRow()))
		return viEdit(ev, b, vim.OpDelete, vim.Region{Start: doc.Cursor(), End: end})
	}))
	acts.Register(ActionViDeleteBefore, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		start := max(doc.Cursor()-ev.Count, doc.LineStart(doc.CursorRow()))
		return viEdit(ev, b, vim.OpDelete, vim.Region{Start: start, End: doc.Cursor()})
	}))
	acts.Register(ActionViSubstitute, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		end := min(doc.Cursor()+ev.Count, doc.LineEnd(doc.CursorRow()))
		return viEdit(ev, b, vim.OpChange, vim.Region{Start: doc.Cursor(), End: end})
	}))
	acts.Register(ActionViSubstituteLine, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		return viEdit(ev, b, vim.OpChange, vim.CurrentLines(b.Document(), ev.Count))
	}))
	acts.Register(ActionViDeleteToEnd, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		r, _ := vim.MotionRegion(b.Document(), vim.MotionLineEnd, ev.RawCount(), 0, false)
		return viEdit(ev, b, vim.OpDelete, r)
	}))
	acts.Register(ActionViChangeToEnd, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		r, _ := vim.MotionRegion(b.Document(), vim.MotionLineEnd, ev.RawCount(), 0, true)
		return viEdit(ev, b, vim.OpChange, r)
	}))
	acts.Register(ActionViYankLine, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		return viEdit(ev, b, vim.OpYank, vim.CurrentLines(b.Document(), ev.Count))
	}))
	acts.Register(ActionViPasteAfter, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		return b.Paste(clip(ev).Get(), buffer.PasteViAfter, ev.Count)
	}))
	acts.Register(ActionViPasteBefore, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		return b.Paste(clip(ev).Get(), buffer.PasteViBefore, ev.Count)
	}))
	acts.Register(ActionViJoinLines, withBuffer(joinLines))
	acts.Register(ActionViSwapCase, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		cur, end := doc.Cursor(), doc.LineEnd(doc.CursorRow())
		next := min(cur+ev.Count, end)
		if next > cur {
			if err := b.Replace(cur, next, vim.SwapCase(doc.Slice(cur, next))); err != nil {
				return err
			}
		}
		moveTo(ev, b, next)
		return nil
	}))

	acts.Register(ActionViMotion, withBuffer(h.motion))
	acts.Register(ActionViRepeatFind, withBuffer(h.repeatFind(false)))
	acts.Register(ActionViRepeatFindBack, withBuffer(h.repeatFind(true)))
	acts.Register(ActionViOperator, withBuffer(operatorMotion))
	acts.Register(ActionViOperatorLine, withBuffer(operatorLines))
	acts.Register(ActionViTextObject, withBuffer(operatorObject))

	h.registerVisual(acts)
}

// viEscape leaves insert or replace mode. The cursor steps back onto the
// last typed rune.
func viEscape(ev *input.Event, b *buffer.Buffer) error {
	b.CancelCompletion(false)
	ev.SwitchMode(mode.ViNavigation)
	doc := b.Document()
	if doc.Cursor() > doc.LineStart(doc.CursorRow()) {
		b.SetCursor(doc.Cursor() - 1)
	}
	clamp(b)
	return nil
}

// viEdit applies op to r and settles the mode and cursor afterwards.
func viEdit(ev *input.Event, b *buffer.Buffer, op vim.Operator, r vim.Region) error {
	if op.EntersInsert {
		// The change and the typing after it undo together.
		b.BeginEditGroup()
		defer b.EndEditGroup()
	}
	if err := op.Apply(b, clip(ev), r); err != nil {
		return err
	}
	if op.EntersInsert {
		ev.SwitchMode(mode.ViInsert)
		return nil
	}
	clamp(b)
	return nil
}

// openLine starts a new line below or above the cursor row, indented like
// the current one.
func openLine(below bool) func(*input.Event, *buffer.Buffer) error {
	return func(ev *input.Event, b *buffer.Buffer) error {
		b.BeginEditGroup()
		defer b.EndEditGroup()
		doc := b.Document()
		row := doc.CursorRow()
		indent := doc.LeadingWhitespace(row)
		if below {
			end := doc.LineEnd(row)
			if err := b.Replace(end, end, "\n"+indent); err != nil {
				return err
			}
		} else {
			start := doc.LineStart(row)
			if err := b.Replace(start, start, indent+"\n"); err != nil {
				return err
			}
			b.SetCursor(start + utf8.RuneCountInString(indent))
		}
		ev.SwitchMode(mode.ViInsert)
		return nil
	}
}

// replaceChar overwrites count runes with the typed character. It fails
// silently when the line is too short, like Vi.
func replaceChar(ev *input.Event, b *buffer.Buffer) error {
	last := ev.Last()
	if !last.IsChar() {
		return nil
	}
	doc := b.Document()
	cur := doc.Cursor()
	if cur+ev.Count > doc.LineEnd(doc.CursorRow()) {
		return nil
	}
	if err := b.Replace(cur, cur+ev.Count, strings.Repeat(string(last.Rune), ev.Count)); err != nil {
		return err
	}
	b.SetCursor(cur + ev.Count - 1)
	return nil
}

// joinLines joins count lines (at least two) into one, separating them
// with a single space. It is one undo step.
func joinLines(ev *input.Event, b *buffer.Buffer) error {
	joins := max(ev.Count-1, 1)
	err := b.Transform(func(d document.Document) document.Document {
		for range joins {
			row := d.CursorRow()
			if row >= d.LineCount()-1 {
				break
			}
			end := d.LineEnd(row)
			next := d.FirstNonBlank(row + 1)
			sep := " "
			if end == d.LineStart(row) || d.CharAt(end-1) == ' ' || next == d.LineEnd(row+1) || d.CharAt(next) == ')' {
				sep = ""
			}
			d = d.Replace(end, next, sep).WithCursor(end)
		}
		return d
	})
	if err != nil {
		return err
	}
	clamp(b)
	return nil
}
