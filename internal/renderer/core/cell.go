package core

import (
	"iter"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cell represents a single terminal cell.
type Cell struct {
	// Text is the grapheme cluster shown in the cell. Empty for the
	// continuation cell right of a wide character.
	Text string

	// Width is the display width of this cell.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// EmptyCell returns an empty cell with default style.
func EmptyCell() Cell {
	return Cell{Text: " ", Width: 1, Style: DefaultStyle()}
}

// NewCell creates a cell for a grapheme cluster.
func NewCell(text string, style Style) Cell {
	return Cell{Text: text, Width: CellWidth(text), Style: style}
}

// ContinuationCell returns the filler cell right of a wide character.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style}
}

// IsContinuation returns true if this is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Text == ""
}

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c.Text == other.Text &&
		c.Width == other.Width &&
		c.Style.Equals(other.Style)
}

var widthCache sync.Map

// CellWidth returns the number of columns a grapheme cluster occupies.
// Results for multi-byte clusters are cached.
func CellWidth(text string) int {
	if len(text) == 1 {
		if text[0] < 0x20 || text[0] == 0x7f {
			return 0
		}
		return 1
	}
	if w, ok := widthCache.Load(text); ok {
		return w.(int)
	}
	w := runewidth.StringWidth(text)
	widthCache.Store(text, w)
	return w
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	w := 0
	for cluster := range Clusters(s) {
		w += CellWidth(cluster)
	}
	return w
}

// Clusters yields the grapheme clusters of s.
func Clusters(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		g := uniseg.NewGraphemes(s)
		for g.Next() {
			if !yield(g.Str()) {
				return
			}
		}
	}
}

// Truncate cuts s to at most width columns, appending tail when it had
// to cut. The tail counts toward the width.
func Truncate(s string, width int, tail string) string {
	if StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, tail)
}
