package vim

import (
	"github.com/dshills/promptline/internal/engine/document"
)

// Kind describes how an operator treats the range a motion covers.
type Kind uint8

const (
	// Exclusive ranges stop before the target.
	Exclusive Kind = iota
	// Inclusive ranges include the rune at the target.
	Inclusive
	// Linewise ranges cover whole lines.
	Linewise
)

func (k Kind) String() string {
	switch k {
	case Inclusive:
		return "inclusive"
	case Linewise:
		return "linewise"
	default:
		return "exclusive"
	}
}

// TargetFunc computes where a motion moves the cursor. count is the typed
// count, or 0 when none was given. arg is the character argument of f, t
// and friends. ok is false when the motion cannot move.
type TargetFunc func(doc document.Document, count int, arg rune) (target int, ok bool)

// Motion is a cursor movement that can also supply an operator range.
type Motion struct {
	// Name identifies the motion in action names ("vi.motion.<Name>").
	Name string

	// Keys is the key sequence that triggers the motion.
	Keys string

	// Kind selects exclusive, inclusive or linewise ranges.
	Kind Kind

	// TakesChar is set for motions followed by a character (f, t).
	TakesChar bool

	Target TargetFunc
}

// Standard motions.
var (
	MotionLeft  = Motion{Name: "left", Keys: "h", Target: left}
	MotionRight = Motion{Name: "right", Keys: "l", Target: right}
	MotionUp    = Motion{Name: "up", Keys: "k", Kind: Linewise, Target: up}
	MotionDown  = Motion{Name: "down", Keys: "j", Kind: Linewise, Target: down}

	MotionWordForward  = Motion{Name: "word-forward", Keys: "w", Target: wordForward(false)}
	MotionWORDForward  = Motion{Name: "WORD-forward", Keys: "W", Target: wordForward(true)}
	MotionWordBackward = Motion{Name: "word-backward", Keys: "b", Target: wordBackward(false)}
	MotionWORDBackward = Motion{Name: "WORD-backward", Keys: "B", Target: wordBackward(true)}
	MotionWordEnd      = Motion{Name: "word-end", Keys: "e", Kind: Inclusive, Target: wordEnd(false)}
	MotionWORDEnd      = Motion{Name: "WORD-end", Keys: "E", Kind: Inclusive, Target: wordEnd(true)}

	MotionLineStart     = Motion{Name: "line-start", Keys: "0", Target: lineStart}
	MotionFirstNonBlank = Motion{Name: "first-non-blank", Keys: "^", Target: firstNonBlank}
	MotionLineEnd       = Motion{Name: "line-end", Keys: "$", Kind: Inclusive, Target: lineEnd}
	MotionColumn        = Motion{Name: "column", Keys: "|", Target: column}
	MotionFirstLine     = Motion{Name: "first-line", Keys: "g g", Kind: Linewise, Target: gotoLine(true)}
	MotionLastLine      = Motion{Name: "last-line", Keys: "G", Kind: Linewise, Target: gotoLine(false)}
	MotionMatchBracket  = Motion{Name: "match-bracket", Keys: "%", Kind: Inclusive, Target: matchBracket}
	MotionFindForward   = Motion{Name: "find-forward", Keys: "f <Any>", Kind: Inclusive, TakesChar: true, Target: find(true, false)}
	MotionFindBackward  = Motion{Name: "find-backward", Keys: "F <Any>", TakesChar: true, Target: find(false, false)}
	MotionTillForward   = Motion{Name: "till-forward", Keys: "t <Any>", Kind: Inclusive, TakesChar: true, Target: find(true, true)}
	MotionTillBackward  = Motion{Name: "till-backward", Keys: "T <Any>", TakesChar: true, Target: find(false, true)}
)

// Motions lists every standard motion.
var Motions = []Motion{
	MotionLeft, MotionRight, MotionUp, MotionDown,
	MotionWordForward, MotionWORDForward, MotionWordBackward, MotionWORDBackward,
	MotionWordEnd, MotionWORDEnd,
	MotionLineStart, MotionFirstNonBlank, MotionLineEnd, MotionColumn,
	MotionFirstLine, MotionLastLine, MotionMatchBracket,
	MotionFindForward, MotionFindBackward, MotionTillForward, MotionTillBackward,
}

func left(doc document.Document, count int, _ rune) (int, bool) {
	start := doc.LineStart(doc.CursorRow())
	target := max(doc.Cursor()-max(count, 1), start)
	return target, target != doc.Cursor()
}

func right(doc document.Document, count int, _ rune) (int, bool) {
	end := doc.LineEnd(doc.CursorRow())
	target := min(doc.Cursor()+max(count, 1), end)
	return target, target != doc.Cursor()
}

func up(doc document.Document, count int, _ rune) (int, bool) {
	if doc.OnFirstLine() {
		return doc.Cursor(), false
	}
	return doc.CursorUpIndex(count, -1), true
}

func down(doc document.Document, count int, _ rune) (int, bool) {
	if doc.OnLastLine() {
		return doc.Cursor(), false
	}
	return doc.CursorDownIndex(count, -1), true
}

func wordForward(big bool) TargetFunc {
	return func(doc document.Document, count int, _ rune) (int, bool) {
		target := doc.FindNextWordStart(doc.Cursor(), max(count, 1), big)
		return target, target != doc.Cursor()
	}
}

func wordBackward(big bool) TargetFunc {
	return func(doc document.Document, count int, _ rune) (int, bool) {
		target := doc.FindPrevWordStart(doc.Cursor(), max(count, 1), big)
		return target, target != doc.Cursor()
	}
}

func wordEnd(big bool) TargetFunc {
	return func(doc document.Document, count int, _ rune) (int, bool) {
		target := doc.FindNextWordEnd(doc.Cursor(), max(count, 1), big)
		return target, target != doc.Cursor()
	}
}

func lineStart(doc document.Document, _ int, _ rune) (int, bool) {
	return doc.LineStart(doc.CursorRow()), true
}

func firstNonBlank(doc document.Document, _ int, _ rune) (int, bool) {
	return doc.FirstNonBlank(doc.CursorRow()), true
}

func lineEnd(doc document.Document, count int, _ rune) (int, bool) {
	row := min(doc.CursorRow()+max(count, 1)-1, doc.LineCount()-1)
	return max(doc.LineEnd(row)-1, doc.LineStart(row)), true
}

func column(doc document.Document, count int, _ rune) (int, bool) {
	return doc.Index(doc.CursorRow(), max(count, 1)-1), true
}

// gotoLine moves to row count (1-based) or, without a count, to the first
// or last line.
func gotoLine(first bool) TargetFunc {
	return func(doc document.Document, count int, _ rune) (int, bool) {
		row := doc.LineCount() - 1
		switch {
		case count > 0:
			row = min(count-1, doc.LineCount()-1)
		case first:
			row = 0
		}
		return doc.FirstNonBlank(row), true
	}
}

// matchBracket jumps to the partner of the first bracket at or after the
// cursor on the current line.
func matchBracket(doc document.Document, _ int, _ rune) (int, bool) {
	end := doc.LineEnd(doc.CursorRow())
	for i := doc.Cursor(); i < end; i++ {
		switch doc.CharAt(i) {
		case '(', ')', '[', ']', '{', '}':
			return doc.MatchingBracket(i, nil)
		}
	}
	return doc.Cursor(), false
}

func find(forward, till bool) TargetFunc {
	return func(doc document.Document, count int, arg rune) (int, bool) {
		target, ok := doc.FindInLine(arg, forward, count, till)
		if !ok {
			return doc.Cursor(), false
		}
		return target, true
	}
}

// Region is the text an operator acts on.
type Region struct {
	Start, End int
	Linewise   bool
}

// Empty reports whether the region covers no text.
func (r Region) Empty() bool { return r.End <= r.Start && !r.Linewise }

// MotionRegion returns the region between the cursor and the motion's
// target, adjusted for the motion kind. forChange applies the "cw"
// rule: on a non-blank, w behaves like e.
func MotionRegion(doc document.Document, m Motion, count int, arg rune, forChange bool) (Region, bool) {
	cur := doc.Cursor()
	if forChange && (m.Name == MotionWordForward.Name || m.Name == MotionWORDForward.Name) {
		if r := doc.CharUnderCursor(); r != 0 && r != ' ' && r != '\t' && r != '\n' {
			big := m.Name == MotionWORDForward.Name
			n := max(count, 1)
			target := doc.FindNextWordEnd(cur, n, big)
			// A single "cw" stops at the end of the word under the cursor.
			if word := doc.WordBounds(cur, big, false); n == 1 {
				target = word.End - 1
			}
			return Region{Start: cur, End: target + 1}, true
		}
	}

	target, ok := m.Target(doc, count, arg)
	if !ok {
		return Region{}, false
	}

	switch m.Kind {
	case Linewise:
		fromRow, _ := doc.Position(min(cur, target))
		toRow, _ := doc.Position(max(cur, target))
		return LineRegion(doc, fromRow, toRow), true
	case Inclusive:
		start, end := min(cur, target), max(cur, target)
		if doc.CharAt(end) != '\n' {
			end = min(end+1, doc.Len())
		}
		return Region{Start: start, End: end}, true
	}

	start, end := min(cur, target), max(cur, target)
	// An exclusive motion that lands in a later line stops at the end
	// of the cursor's line, so "dw" on the last word keeps the newline.
	if target > cur {
		row := doc.CursorRow()
		if targetRow, _ := doc.Position(target); targetRow > row {
			lineEnd := doc.LineEnd(row)
			if start < lineEnd {
				end = lineEnd
			}
		}
	}
	return Region{Start: start, End: end}, true
}

// LineRegion covers the text of rows fromRow..toRow. The separating
// newline is handled by the operator.
func LineRegion(doc document.Document, fromRow, toRow int) Region {
	last := doc.LineCount() - 1
	fromRow = max(0, min(fromRow, last))
	toRow = max(fromRow, min(toRow, last))
	return Region{Start: doc.LineStart(fromRow), End: doc.LineEnd(toRow), Linewise: true}
}

// CurrentLines returns the region for a doubled operator such as "dd":
// count lines starting at the cursor row.
func CurrentLines(doc document.Document, count int) Region {
	row := doc.CursorRow()
	return LineRegion(doc, row, row+max(count, 1)-1)
}

// ClampNormal keeps the cursor off the line terminator, as navigation mode
// requires. Empty lines keep the cursor at their start.
func ClampNormal(doc document.Document) document.Document {
	row := doc.CursorRow()
	start, end := doc.LineStart(row), doc.LineEnd(row)
	if end > start && doc.Cursor() >= end {
		return doc.WithCursor(end - 1)
	}
	return doc
}
