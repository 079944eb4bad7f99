// Package document provides Document, an immutable snapshot of editable
// text together with a cursor and an optional selection.
//
// All positions are rune offsets into the text. A Document is a value:
// every edit returns a new Document and leaves the receiver untouched, so
// snapshots can be kept in undo history without copying.
package document

import (
	"fmt"
	"slices"
	"strings"
)

// SelectionType describes how a selection extends from its anchor.
type SelectionType uint8

const (
	// SelectCharacters selects the runes between anchor and cursor.
	SelectCharacters SelectionType = iota
	// SelectLines selects whole lines from the anchor row to the cursor row.
	SelectLines
	// SelectBlock selects a rectangle spanning both corners.
	SelectBlock
)

func (t SelectionType) String() string {
	switch t {
	case SelectLines:
		return "lines"
	case SelectBlock:
		return "block"
	default:
		return "characters"
	}
}

// Selection marks the fixed end of a selection. The other end is the cursor.
type Selection struct {
	Anchor int
	Type   SelectionType
}

// Range is a half-open rune interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes in the range.
func (r Range) Len() int { return r.End - r.Start }

// Document is an immutable text buffer snapshot.
type Document struct {
	text       string
	runes      []rune
	lineStarts []int
	cursor     int
	selection  *Selection
}

// New creates a document. The cursor is clamped to [0, len].
func New(text string, cursor int) Document {
	d := Document{text: text, runes: []rune(text)}
	d.lineStarts = lineStarts(d.runes)
	d.cursor = clamp(cursor, 0, len(d.runes))
	return d
}

// NewAtEnd creates a document with the cursor after the last rune.
func NewAtEnd(text string) Document {
	return New(text, len([]rune(text)))
}

func fromRunes(runes []rune, cursor int) Document {
	d := Document{text: string(runes), runes: runes}
	d.lineStarts = lineStarts(runes)
	d.cursor = clamp(cursor, 0, len(runes))
	return d
}

func lineStarts(runes []rune) []int {
	starts := []int{0}
	for i, r := range runes {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

var zeroStarts = []int{0}

// starts returns the line start table, valid for the zero Document too.
func (d Document) starts() []int {
	if d.lineStarts == nil {
		return zeroStarts
	}
	return d.lineStarts
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Text returns the full text.
func (d Document) Text() string { return d.text }

// Len returns the length of the text in runes.
func (d Document) Len() int { return len(d.runes) }

// Cursor returns the cursor offset.
func (d Document) Cursor() int { return d.cursor }

// IsEmpty returns true if the document has no text.
func (d Document) IsEmpty() bool { return len(d.runes) == 0 }

// TextBeforeCursor returns the text from the start up to the cursor.
func (d Document) TextBeforeCursor() string { return string(d.runes[:d.cursor]) }

// TextAfterCursor returns the text from the cursor to the end.
func (d Document) TextAfterCursor() string { return string(d.runes[d.cursor:]) }

// Slice returns the text in [start, end), clamped to the document.
func (d Document) Slice(start, end int) string {
	start = clamp(start, 0, len(d.runes))
	end = clamp(end, start, len(d.runes))
	return string(d.runes[start:end])
}

// CharAt returns the rune at index, or 0 when out of range.
func (d Document) CharAt(index int) rune {
	if index < 0 || index >= len(d.runes) {
		return 0
	}
	return d.runes[index]
}

// CharUnderCursor returns the rune at the cursor, or 0 at the end.
func (d Document) CharUnderCursor() rune { return d.CharAt(d.cursor) }

// CharBeforeCursor returns the rune left of the cursor, or 0 at the start.
func (d Document) CharBeforeCursor() rune { return d.CharAt(d.cursor - 1) }

// Lines returns the text split on newlines. An empty document has one line.
func (d Document) Lines() []string {
	return strings.Split(d.text, "\n")
}

// LineCount returns the number of lines.
func (d Document) LineCount() int { return len(d.starts()) }

// Line returns the text of row without its newline.
func (d Document) Line(row int) string {
	if row < 0 || row >= len(d.starts()) {
		return ""
	}
	return string(d.runes[d.starts()[row]:d.LineEnd(row)])
}

// LineStart returns the offset of the first rune of row.
func (d Document) LineStart(row int) int {
	return d.starts()[clamp(row, 0, len(d.starts())-1)]
}

// LineEnd returns the offset of the newline ending row, or the text length
// for the last row.
func (d Document) LineEnd(row int) int {
	row = clamp(row, 0, len(d.starts())-1)
	if row+1 < len(d.starts()) {
		return d.starts()[row+1] - 1
	}
	return len(d.runes)
}

// LineLen returns the number of runes on row.
func (d Document) LineLen(row int) int {
	return d.LineEnd(row) - d.LineStart(row)
}

// Position translates an offset into a zero-based (row, col) pair.
func (d Document) Position(index int) (row, col int) {
	index = clamp(index, 0, len(d.runes))
	row, found := slices.BinarySearch(d.starts(), index)
	if !found {
		row--
	}
	return row, index - d.starts()[row]
}

// Index translates (row, col) into an offset. Both are clamped, so a column
// past the line end maps to the line end.
func (d Document) Index(row, col int) int {
	row = clamp(row, 0, len(d.starts())-1)
	return d.LineStart(row) + clamp(col, 0, d.LineLen(row))
}

// CursorRow returns the row holding the cursor.
func (d Document) CursorRow() int {
	row, _ := d.Position(d.cursor)
	return row
}

// CursorCol returns the cursor column in runes.
func (d Document) CursorCol() int {
	_, col := d.Position(d.cursor)
	return col
}

// CurrentLine returns the line holding the cursor.
func (d Document) CurrentLine() string { return d.Line(d.CursorRow()) }

// CurrentLineBeforeCursor returns the part of the current line left of the cursor.
func (d Document) CurrentLineBeforeCursor() string {
	return string(d.runes[d.LineStart(d.CursorRow()):d.cursor])
}

// CurrentLineAfterCursor returns the part of the current line from the cursor.
func (d Document) CurrentLineAfterCursor() string {
	return string(d.runes[d.cursor:d.LineEnd(d.CursorRow())])
}

// OnFirstLine reports whether the cursor is on the first row.
func (d Document) OnFirstLine() bool { return d.CursorRow() == 0 }

// OnLastLine reports whether the cursor is on the last row.
func (d Document) OnLastLine() bool { return d.CursorRow() == len(d.starts())-1 }

// AtLineEnd reports whether the cursor sits on a newline or at the end.
func (d Document) AtLineEnd() bool {
	return d.cursor == d.LineEnd(d.CursorRow())
}

// LeadingWhitespace returns the indentation of row.
func (d Document) LeadingWhitespace(row int) string {
	line := d.Line(row)
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// FirstNonBlank returns the offset of the first non-blank rune on row, or the
// line end if the row is blank.
func (d Document) FirstNonBlank(row int) int {
	start, end := d.LineStart(row), d.LineEnd(row)
	for i := start; i < end; i++ {
		if d.runes[i] != ' ' && d.runes[i] != '\t' {
			return i
		}
	}
	return end
}

// CursorUpIndex returns the offset count rows up, keeping column col
// (or the current column when col < 0).
func (d Document) CursorUpIndex(count, col int) int {
	if col < 0 {
		col = d.CursorCol()
	}
	return d.Index(d.CursorRow()-max(count, 1), col)
}

// CursorDownIndex returns the offset count rows down, keeping column col
// (or the current column when col < 0).
func (d Document) CursorDownIndex(count, col int) int {
	if col < 0 {
		col = d.CursorCol()
	}
	return d.Index(d.CursorRow()+max(count, 1), col)
}

// Selection returns the active selection, if any.
func (d Document) Selection() (Selection, bool) {
	if d.selection == nil {
		return Selection{}, false
	}
	return *d.selection, true
}

// HasSelection reports whether a selection is active.
func (d Document) HasSelection() bool { return d.selection != nil }

// SelectionRanges returns the selected intervals in document order. With
// inclusive set, the rune under the later end is part of the selection, as
// in Vi visual mode. Line selections include the trailing newline except
// on the last line. Block selections yield one range per row.
func (d Document) SelectionRanges(inclusive bool) []Range {
	if d.selection == nil {
		return nil
	}
	from, to := d.selection.Anchor, d.cursor
	if from > to {
		from, to = to, from
	}

	switch d.selection.Type {
	case SelectLines:
		fromRow, _ := d.Position(from)
		toRow, _ := d.Position(to)
		start, end := d.LineStart(fromRow), d.LineEnd(toRow)
		if end < len(d.runes) {
			end++
		}
		return []Range{{start, end}}
	case SelectBlock:
		aRow, aCol := d.Position(d.selection.Anchor)
		cRow, cCol := d.Position(d.cursor)
		fromRow, toRow := min(aRow, cRow), max(aRow, cRow)
		fromCol, toCol := min(aCol, cCol), max(aCol, cCol)
		if inclusive {
			toCol++
		}
		ranges := make([]Range, 0, toRow-fromRow+1)
		for row := fromRow; row <= toRow; row++ {
			ranges = append(ranges, Range{d.Index(row, fromCol), d.Index(row, toCol)})
		}
		return ranges
	default:
		if inclusive {
			to = min(to+1, len(d.runes))
		}
		return []Range{{from, to}}
	}
}

// SelectedText returns the selected text, joining block rows with newlines.
func (d Document) SelectedText(inclusive bool) string {
	ranges := d.SelectionRanges(inclusive)
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = d.Slice(r.Start, r.End)
	}
	return strings.Join(parts, "\n")
}

// Equal reports whether both documents hold the same text, cursor and selection.
func (d Document) Equal(other Document) bool {
	if d.text != other.text || d.cursor != other.cursor {
		return false
	}
	a, okA := d.Selection()
	b, okB := other.Selection()
	return okA == okB && a == b
}

// String implements fmt.Stringer for debugging.
func (d Document) String() string {
	return fmt.Sprintf("Document{%q, cursor=%d}", d.text, d.cursor)
}
