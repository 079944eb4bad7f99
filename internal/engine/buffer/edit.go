package buffer

import (
	"strings"

	"github.com/dshills/promptline/internal/engine/document"
)

// Insert inserts s at the cursor.
func (b *Buffer) Insert(s string) error {
	return b.apply(b.doc.Insert(s), true)
}

// Overwrite writes s over the runes under the cursor, as in replace mode.
func (b *Buffer) Overwrite(s string) error {
	return b.apply(b.doc.Overwrite(s), true)
}

// DeleteBefore removes up to n runes left of the cursor and returns them.
func (b *Buffer) DeleteBefore(n int) (string, error) {
	doc, deleted := b.doc.DeleteBefore(n)
	return deleted, b.apply(doc, true)
}

// DeleteAfter removes up to n runes from the cursor and returns them.
func (b *Buffer) DeleteAfter(n int) (string, error) {
	doc, deleted := b.doc.DeleteAfter(n)
	return deleted, b.apply(doc, true)
}

// DeleteRange removes [start, end) and returns the removed text.
func (b *Buffer) DeleteRange(start, end int) (string, error) {
	doc, deleted := b.doc.DeleteRange(start, end)
	return deleted, b.apply(doc, true)
}

// Replace substitutes [start, end) with s.
func (b *Buffer) Replace(start, end int, s string) error {
	return b.apply(b.doc.Replace(start, end, s), true)
}

// Transform applies a pure document edit and records it as one undo step.
func (b *Buffer) Transform(fn func(document.Document) document.Document) error {
	return b.apply(fn(b.doc), true)
}

// Newline inserts a line break, copying the current indentation when
// auto-indent is on.
func (b *Buffer) Newline() error {
	indent := ""
	if b.autoIndent {
		before := b.doc.CurrentLineBeforeCursor()
		indent = before[:len(before)-len(strings.TrimLeft(before, " \t"))]
	}
	return b.Insert("\n" + indent)
}

// CursorUp moves count rows up, keeping the column the cursor had when
// vertical movement started. It reports whether the cursor moved.
func (b *Buffer) CursorUp(count int) bool {
	return b.moveVertical(b.doc.CursorUpIndex(count, b.stickyCol()))
}

// CursorDown moves count rows down. See CursorUp.
func (b *Buffer) CursorDown(count int) bool {
	return b.moveVertical(b.doc.CursorDownIndex(count, b.stickyCol()))
}

func (b *Buffer) stickyCol() int {
	if b.preferredCol < 0 {
		b.preferredCol = b.doc.CursorCol()
	}
	return b.preferredCol
}

func (b *Buffer) moveVertical(index int) bool {
	if index == b.doc.Cursor() {
		return false
	}
	col := b.preferredCol
	b.doc = b.doc.WithCursor(index)
	b.preferredCol = col
	return true
}

// StartSelection anchors a selection of type t at the cursor.
func (b *Buffer) StartSelection(t document.SelectionType) {
	b.doc = b.doc.WithSelection(b.doc.Cursor(), t)
}

// ExitSelection drops the selection.
func (b *Buffer) ExitSelection() {
	b.doc = b.doc.WithoutSelection()
}

// CopySelection returns the selected text as clipboard data.
func (b *Buffer) CopySelection(inclusive bool) ClipboardData {
	sel, ok := b.doc.Selection()
	if !ok {
		return ClipboardData{}
	}
	text := b.doc.SelectedText(inclusive)
	if sel.Type == document.SelectLines {
		text = strings.TrimSuffix(text, "\n")
	}
	return ClipboardData{Text: text, Type: sel.Type}
}

// CutSelection removes the selected text and returns it.
func (b *Buffer) CutSelection(inclusive bool) (ClipboardData, error) {
	data := b.CopySelection(inclusive)
	ranges := b.doc.SelectionRanges(inclusive)
	if len(ranges) == 0 {
		return data, nil
	}
	doc, _ := b.doc.WithoutSelection().DeleteRanges(ranges)
	if data.Type == document.SelectLines {
		// Removing the last lines leaves a dangling newline before them.
		if r := ranges[0]; r.Start > 0 && r.End == b.doc.Len() && b.doc.CharAt(r.End-1) != '\n' {
			doc, _ = doc.DeleteBefore(1)
		}
		doc = doc.WithCursor(doc.FirstNonBlank(doc.CursorRow()))
	}
	return data, b.apply(doc, true)
}

// PasteMode selects where clipboard text goes relative to the cursor.
type PasteMode uint8

const (
	// PasteEmacs inserts at the cursor and leaves the cursor after the text.
	PasteEmacs PasteMode = iota
	// PasteViAfter inserts after the cursor, or below the line for line data.
	PasteViAfter
	// PasteViBefore inserts at the cursor, or above the line for line data.
	PasteViBefore
)

// Paste inserts clipboard data count times.
func (b *Buffer) Paste(data ClipboardData, mode PasteMode, count int) error {
	if data.Text == "" {
		return nil
	}
	count = max(count, 1)
	doc := b.doc.WithoutSelection()

	if data.Type == document.SelectLines && mode != PasteEmacs {
		lines := strings.TrimSuffix(strings.Repeat(data.Text+"\n", count), "\n")
		row := doc.CursorRow()
		if mode == PasteViAfter {
			doc = doc.Replace(doc.LineEnd(row), doc.LineEnd(row), "\n"+lines)
			row++
		} else {
			doc = doc.Replace(doc.LineStart(row), doc.LineStart(row), lines+"\n")
		}
		return b.apply(doc.WithCursor(doc.FirstNonBlank(row)), true)
	}

	text := strings.Repeat(data.Text, count)
	switch mode {
	case PasteEmacs:
		return b.apply(doc.Insert(text), true)
	case PasteViAfter:
		if !doc.AtLineEnd() {
			doc = doc.WithCursor(doc.Cursor() + 1)
		}
	}
	doc = doc.Insert(text)
	return b.apply(doc.WithCursor(doc.Cursor()-1), true)
}
