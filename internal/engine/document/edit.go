package document

import "unicode/utf8"

// WithCursor returns a copy with the cursor moved to index (clamped).
func (d Document) WithCursor(index int) Document {
	d.cursor = clamp(index, 0, len(d.runes))
	return d
}

// WithSelection returns a copy with a selection anchored at anchor.
func (d Document) WithSelection(anchor int, t SelectionType) Document {
	d.selection = &Selection{Anchor: clamp(anchor, 0, len(d.runes)), Type: t}
	return d
}

// WithSelectionType returns a copy whose selection uses type t. Without an
// active selection the document is returned unchanged.
func (d Document) WithSelectionType(t SelectionType) Document {
	if d.selection == nil {
		return d
	}
	return d.WithSelection(d.selection.Anchor, t)
}

// WithoutSelection returns a copy with no selection.
func (d Document) WithoutSelection() Document {
	d.selection = nil
	return d
}

// Insert inserts s at the cursor and places the cursor after it.
// The selection is dropped.
func (d Document) Insert(s string) Document {
	return d.Replace(d.cursor, d.cursor, s)
}

// InsertAfter inserts s at the cursor but leaves the cursor in place.
func (d Document) InsertAfter(s string) Document {
	return d.Replace(d.cursor, d.cursor, s).WithCursor(d.cursor)
}

// Overwrite replaces runes under the cursor with s, up to the end of the
// current line, and places the cursor after the written text.
func (d Document) Overwrite(s string) Document {
	n := utf8.RuneCountInString(s)
	end := min(d.cursor+n, d.LineEnd(d.CursorRow()))
	return d.Replace(d.cursor, end, s)
}

// Replace substitutes [start, end) with s and places the cursor after the
// inserted text. The selection is dropped.
func (d Document) Replace(start, end int, s string) Document {
	start = clamp(start, 0, len(d.runes))
	end = clamp(end, start, len(d.runes))
	ins := []rune(s)
	runes := make([]rune, 0, len(d.runes)-(end-start)+len(ins))
	runes = append(runes, d.runes[:start]...)
	runes = append(runes, ins...)
	runes = append(runes, d.runes[end:]...)
	return fromRunes(runes, start+len(ins))
}

// DeleteRange removes [start, end) and returns the new document with the
// cursor at start, plus the removed text.
func (d Document) DeleteRange(start, end int) (Document, string) {
	start = clamp(start, 0, len(d.runes))
	end = clamp(end, start, len(d.runes))
	return d.Replace(start, end, ""), string(d.runes[start:end])
}

// DeleteBefore removes up to n runes left of the cursor.
func (d Document) DeleteBefore(n int) (Document, string) {
	return d.DeleteRange(d.cursor-n, d.cursor)
}

// DeleteAfter removes up to n runes from the cursor.
func (d Document) DeleteAfter(n int) (Document, string) {
	return d.DeleteRange(d.cursor, d.cursor+n)
}

// DeleteRanges removes several non-overlapping ranges given in document
// order. The cursor lands on the start of the first range.
func (d Document) DeleteRanges(ranges []Range) (Document, []string) {
	if len(ranges) == 0 {
		return d, nil
	}
	removed := make([]string, len(ranges))
	out := d
	for i := len(ranges) - 1; i >= 0; i-- {
		out, removed[i] = out.DeleteRange(ranges[i].Start, ranges[i].End)
	}
	return out.WithCursor(ranges[0].Start), removed
}
