package document

import "unicode"

// charClass groups runes for word motions: blanks, punctuation and
// keyword characters. For WORD motions every non-blank is one class.
func charClass(r rune, bigWord bool) int {
	switch {
	case unicode.IsSpace(r):
		return 0
	case bigWord:
		return 1
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return 2
	default:
		return 1
	}
}

// FindNextWordStart returns the offset of the start of the count-th word
// after from. Empty lines count as words. Returns the text length when
// there are no more words.
func (d Document) FindNextWordStart(from, count int, bigWord bool) int {
	n := len(d.runes)
	i := clamp(from, 0, n)
	for ; count > 0 && i < n; count-- {
		if cls := charClass(d.runes[i], bigWord); cls != 0 {
			for i < n && charClass(d.runes[i], bigWord) == cls {
				i++
			}
		}
		for i < n && charClass(d.runes[i], bigWord) == 0 {
			if d.runes[i] == '\n' && i+1 < n && d.runes[i+1] == '\n' {
				i++
				break
			}
			i++
		}
	}
	return i
}

// FindNextWordEnd returns the offset of the last rune of the count-th word
// ending after from.
func (d Document) FindNextWordEnd(from, count int, bigWord bool) int {
	n := len(d.runes)
	i := clamp(from, 0, n)
	for ; count > 0 && i < n-1; count-- {
		i++
		for i < n-1 && charClass(d.runes[i], bigWord) == 0 {
			i++
		}
		cls := charClass(d.runes[i], bigWord)
		for i+1 < n && charClass(d.runes[i+1], bigWord) == cls {
			i++
		}
	}
	return min(i, max(n-1, 0))
}

// FindPrevWordStart returns the offset of the start of the count-th word
// before from.
func (d Document) FindPrevWordStart(from, count int, bigWord bool) int {
	i := clamp(from, 0, len(d.runes))
	for ; count > 0 && i > 0; count-- {
		i--
		for i > 0 && charClass(d.runes[i], bigWord) == 0 {
			i--
		}
		cls := charClass(d.runes[i], bigWord)
		for i > 0 && charClass(d.runes[i-1], bigWord) == cls {
			i--
		}
	}
	return i
}

// WordBounds returns the range of the word under index. A blank under
// index selects the run of blanks on that line. With around set, trailing
// blanks are included, or leading blanks when there are none after.
func (d Document) WordBounds(index int, bigWord, around bool) Range {
	n := len(d.runes)
	if n == 0 {
		return Range{}
	}
	index = clamp(index, 0, n-1)
	row, _ := d.Position(index)
	lineStart, lineEnd := d.LineStart(row), d.LineEnd(row)
	if index >= lineEnd {
		return Range{index, index}
	}

	sameRun := func(i, cls int) bool {
		return i >= lineStart && i < lineEnd && charClass(d.runes[i], bigWord) == cls
	}
	cls := charClass(d.runes[index], bigWord)
	start, end := index, index+1
	for sameRun(start-1, cls) {
		start--
	}
	for sameRun(end, cls) {
		end++
	}
	if !around || cls == 0 {
		return Range{start, end}
	}

	trail := end
	for sameRun(trail, 0) {
		trail++
	}
	if trail > end {
		return Range{start, trail}
	}
	for sameRun(start-1, 0) {
		start--
	}
	return Range{start, end}
}

var bracketPairs = map[rune]rune{
	'(': ')', '[': ']', '{': '}', '<': '>',
	')': '(', ']': '[', '}': '{', '>': '<',
}

func isOpenBracket(r rune) bool {
	return r == '(' || r == '[' || r == '{' || r == '<'
}

// MatchingBracket returns the offset of the bracket matching the one at
// index. Offsets for which skip returns true (strings, comments) are
// ignored; skip may be nil.
func (d Document) MatchingBracket(index int, skip func(int) bool) (int, bool) {
	r := d.CharAt(index)
	partner, ok := bracketPairs[r]
	if !ok {
		return 0, false
	}
	step := 1
	if !isOpenBracket(r) {
		step = -1
	}
	depth := 0
	for i := index; i >= 0 && i < len(d.runes); i += step {
		if skip != nil && i != index && skip(i) {
			continue
		}
		switch d.runes[i] {
		case r:
			depth++
		case partner:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// EnclosingBrackets returns the offsets of the innermost pair of open and
// close brackets surrounding index.
func (d Document) EnclosingBrackets(index int, open, close rune) (int, int, bool) {
	depth := 0
	start := -1
	for i := clamp(index, 0, len(d.runes)-1); i >= 0; i-- {
		switch d.runes[i] {
		case close:
			if i != index {
				depth++
			}
		case open:
			if depth == 0 {
				start = i
			} else {
				depth--
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	end, ok := d.MatchingBracket(start, nil)
	if !ok || end < index {
		return 0, 0, false
	}
	return start, end, true
}

// EnclosingQuotes returns the offsets of the quote pair around index on
// the same line.
func (d Document) EnclosingQuotes(index int, quote rune) (int, int, bool) {
	row, _ := d.Position(index)
	start, end := d.LineStart(row), d.LineEnd(row)
	var marks []int
	for i := start; i < end; i++ {
		if d.runes[i] == quote && (i == start || d.runes[i-1] != '\\') {
			marks = append(marks, i)
		}
	}
	for j := 0; j+1 < len(marks); j += 2 {
		if index >= marks[j] && index <= marks[j+1] {
			return marks[j], marks[j+1], true
		}
	}
	return 0, 0, false
}

// FindInLine searches the current line for the count-th occurrence of ch
// after (forward) or before the cursor. With till set, the result stops one
// rune short of the match.
func (d Document) FindInLine(ch rune, forward bool, count int, till bool) (int, bool) {
	row := d.CursorRow()
	start, end := d.LineStart(row), d.LineEnd(row)
	count = max(count, 1)
	if forward {
		for i := d.cursor + 1; i < end; i++ {
			if d.runes[i] == ch {
				if count--; count == 0 {
					if till {
						return i - 1, true
					}
					return i, true
				}
			}
		}
		return 0, false
	}
	for i := d.cursor - 1; i >= start; i-- {
		if d.runes[i] == ch {
			if count--; count == 0 {
				if till {
					return i + 1, true
				}
				return i, true
			}
		}
	}
	return 0, false
}
