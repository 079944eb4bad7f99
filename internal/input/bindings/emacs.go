package bindings

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/document"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/keymap"
)

// metaKeys maps meta-prefixed keys to their actions. Each entry is bound
// both as an Alt chord and as Escape followed by the key, since terminals
// send either.
var metaKeys = []struct {
	key    key.Event
	action string
}{
	{char('f'), ActionWordForward},
	{char('b'), ActionWordBackward},
	{char('d'), ActionKillWord},
	{key.NewSpecialEvent(key.KeyBackspace, key.ModNone), ActionKillWordBefore},
	{char('y'), ActionYankPop},
	{char('u'), ActionUpcaseWord},
	{char('l'), ActionDowncaseWord},
	{char('c'), ActionCapitalizeWord},
	{char('<'), ActionBufferStart},
	{char('>'), ActionBufferEnd},
	{key.NewSpecialEvent(key.KeyEnter, key.ModNone), ActionNewline},
}

// Emacs returns the Emacs mode bindings.
func Emacs() []keymap.Binding {
	bs := []keymap.Binding{
		bind("<C-a>", ActionLineStart, emacs),
		bind("<C-e>", ActionLineEnd, emacs),
		bind("<C-b>", ActionLeft, emacs),
		bind("<C-f>", ActionRight, emacs),
		bind("<C-p>", ActionUp, emacs),
		bind("<C-n>", ActionDown, emacs),

		bind("<C-d>", ActionDeleteOrExit, emacs),
		bind("<C-k>", ActionKillLine, emacs),
		bind("<C-u>", ActionKillLineBefore, typing),
		bind("<C-w>", ActionUnixWordRubout, typing),
		bind("<C-y>", ActionYank, emacs),
		bind("<C-t>", ActionTransposeChars, emacs),
		bind("<C-_>", ActionUndo, emacs),
		bind("<C-x><C-u>", ActionUndo, emacs),
		bind("<C-j>", ActionNewline, emacs),

		bind("<C-x> (", ActionMacroStart, emacs).WithWhen(keymap.Not(recording)),
		bind("<C-x> )", ActionMacroStop, emacs).WithWhen(recording),
		bind("<C-x> e", ActionMacroPlay, emacs),
	}
	for _, m := range metaKeys {
		alt := m.key
		alt.Modifiers = alt.Modifiers.With(key.ModAlt)
		bs = append(bs,
			seq(m.action, emacs, alt),
			seq(m.action, emacs, key.NewSpecialEvent(key.KeyEscape, key.ModNone), m.key),
		)
	}
	return bs
}

func (h *handlers) registerEmacs(acts *input.Actions) {
	acts.Register(ActionWordForward, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		b.SetCursor(wordEnd(b.Document(), b.Cursor(), ev.Count))
		return nil
	}))
	acts.Register(ActionWordBackward, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		b.SetCursor(doc.FindPrevWordStart(doc.Cursor(), ev.Count, false))
		return nil
	}))
	acts.Register(ActionBufferStart, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		b.SetCursor(0)
		return nil
	}))
	acts.Register(ActionBufferEnd, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		b.SetCursor(b.Document().Len())
		return nil
	}))

	acts.Register(ActionNewline, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		return b.Newline()
	}))
	acts.Register(ActionDeleteOrExit, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		if b.Document().IsEmpty() {
			ev.Host.Exit()
			return nil
		}
		_, err := b.DeleteAfter(ev.Count)
		return err
	}))

	acts.Register(ActionKillLine, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		end := doc.LineEnd(doc.CursorRow())
		if doc.Cursor() == end {
			end = min(end+1, doc.Len())
		}
		return kill(ev, b, doc.Cursor(), end)
	}))
	acts.Register(ActionKillLineBefore, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		return kill(ev, b, doc.LineStart(doc.CursorRow()), doc.Cursor())
	}))
	acts.Register(ActionKillWord, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		return kill(ev, b, doc.Cursor(), wordEnd(doc, doc.Cursor(), ev.Count))
	}))
	acts.Register(ActionKillWordBefore, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		return kill(ev, b, doc.FindPrevWordStart(doc.Cursor(), ev.Count, false), doc.Cursor())
	}))
	acts.Register(ActionUnixWordRubout, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		return kill(ev, b, doc.FindPrevWordStart(doc.Cursor(), ev.Count, true), doc.Cursor())
	}))

	acts.Register(ActionYank, withBuffer(h.yankText))
	acts.Register(ActionYankPop, withBuffer(h.yankPop))
	acts.Register(ActionTransposeChars, withBuffer(transposeChars))

	acts.Register(ActionUpcaseWord, withBuffer(caseWord(cases.Upper(language.Und).String)))
	acts.Register(ActionDowncaseWord, withBuffer(caseWord(cases.Lower(language.Und).String)))
	acts.Register(ActionCapitalizeWord, withBuffer(caseWord(cases.Title(language.Und).String)))

	acts.Register(ActionUndo, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		for range ev.Count {
			if !b.Undo() {
				break
			}
		}
		if !ev.Mode().Inserts() {
			clamp(b)
		}
		return nil
	}))
	acts.Register(ActionRedo, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		for range ev.Count {
			if !b.Redo() {
				break
			}
		}
		if !ev.Mode().Inserts() {
			clamp(b)
		}
		return nil
	}))
}

// wordEnd returns the offset just past the count-th word at or after from.
func wordEnd(doc document.Document, from, count int) int {
	i, n := from, doc.Len()
	for ; count > 0; count-- {
		for i < n && !isWordRune(doc.CharAt(i)) {
			i++
		}
		for i < n && isWordRune(doc.CharAt(i)) {
			i++
		}
	}
	return i
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// kill removes [start, end) and stores it in the kill ring.
func kill(ev *input.Event, b *buffer.Buffer, start, end int) error {
	if end <= start {
		return nil
	}
	text, err := b.DeleteRange(start, end)
	if err != nil {
		return err
	}
	clip(ev).Set(buffer.ClipboardData{Text: text, Type: document.SelectCharacters})
	return nil
}

func (h *handlers) yankText(ev *input.Event, b *buffer.Buffer) error {
	data := clip(ev).Get()
	if data.Text == "" {
		return nil
	}
	start := b.Cursor()
	if err := b.Paste(data, buffer.PasteEmacs, ev.Count); err != nil {
		return err
	}
	h.yank = yankState{start: start, end: b.Cursor(), text: b.Document().Slice(start, b.Cursor())}
	return nil
}

// yankPop replaces the text the previous yank inserted with the next
// older kill ring entry. It does nothing unless the yanked text is still
// in place before the cursor.
func (h *handlers) yankPop(ev *input.Event, b *buffer.Buffer) error {
	y := h.yank
	doc := b.Document()
	if y.text == "" || y.end != doc.Cursor() || doc.Slice(y.start, y.end) != y.text {
		return nil
	}
	data := clip(ev).Rotate()
	if data.Text == "" {
		return nil
	}
	if err := b.Replace(y.start, y.end, data.Text); err != nil {
		return err
	}
	h.yank = yankState{start: y.start, end: b.Cursor(), text: data.Text}
	return nil
}

// transposeChars swaps the two runes before the cursor, or around it when
// the cursor is inside a line.
func transposeChars(ev *input.Event, b *buffer.Buffer) error {
	doc := b.Document()
	cur := doc.Cursor()
	if !doc.AtLineEnd() {
		cur++
	}
	if cur < 2 || doc.CharAt(cur-1) == '\n' || doc.CharAt(cur-2) == '\n' {
		return nil
	}
	swapped := string([]rune{doc.CharAt(cur - 1), doc.CharAt(cur - 2)})
	return b.Transform(func(d document.Document) document.Document {
		return d.Replace(cur-2, cur, swapped)
	})
}

// caseWord maps the text from the cursor to the end of the count-th word
// and moves past it.
func caseWord(fn func(string) string) func(*input.Event, *buffer.Buffer) error {
	return func(ev *input.Event, b *buffer.Buffer) error {
		doc := b.Document()
		cur := doc.Cursor()
		end := wordEnd(doc, cur, ev.Count)
		if end <= cur {
			return nil
		}
		return b.Replace(cur, end, fn(doc.Slice(cur, end)))
	}
}
