package layout

import (
	"github.com/dshills/promptline/internal/renderer/core"
)

// PlacedCell is a cell at a position relative to the line's first row.
type PlacedCell struct {
	Pos  core.Point
	Cell core.Cell
}

// LineLayout represents the visual layout of a single line of text.
type LineLayout struct {
	Cells []PlacedCell
	// Positions holds where each rune starts, plus the position just past
	// the last rune.
	Positions []core.Point
	// Rows is the number of screen rows the line occupies.
	Rows int
}

// LayoutEngine computes line layouts.
type LayoutEngine struct {
	tabWidth  int
	wrapWidth int // 0 = no wrap
}

// NewLayoutEngine creates a layout engine with the given tab width.
func NewLayoutEngine(tabWidth int) *LayoutEngine {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return &LayoutEngine{tabWidth: tabWidth}
}

// SetWrap sets the column at which lines wrap. 0 disables wrapping.
func (e *LayoutEngine) SetWrap(width int) {
	e.wrapWidth = max(width, 0)
}

// NextTabStop returns the next tab stop column after col.
func (e *LayoutEngine) NextTabStop(col int) int {
	return col + e.tabWidth - col%e.tabWidth
}

// Layout places runes, styled by styles, starting at column startCol.
// Tabs expand to the next tab stop, control characters show as ^X in
// the control style, and zero-width runes join the preceding cell.
func (e *LayoutEngine) Layout(runes []rune, styles []core.Style, startCol int, control core.Style) *LineLayout {
	l := &LineLayout{
		Cells:     make([]PlacedCell, 0, len(runes)),
		Positions: make([]core.Point, 0, len(runes)+1),
	}
	row, col := 0, startCol
	joinable := -1

	fit := func(w int) {
		if e.wrapWidth > 0 && col > 0 && col+w > e.wrapWidth {
			row++
			col = 0
		}
	}
	put := func(text string, w int, style core.Style) {
		l.Cells = append(l.Cells, PlacedCell{Pos: core.Point{Row: row, Col: col}, Cell: core.Cell{Text: text, Width: w, Style: style}})
		col += w
	}

	for i, r := range runes {
		style := styles[i]
		switch {
		case r == '\t':
			fit(1)
			l.Positions = append(l.Positions, core.Point{Row: row, Col: col})
			n := e.NextTabStop(col) - col
			if e.wrapWidth > 0 {
				n = min(n, e.wrapWidth-col)
			}
			for range n {
				put(" ", 1, style)
			}
			joinable = -1
		case r < 0x20 || r == 0x7f:
			fit(2)
			l.Positions = append(l.Positions, core.Point{Row: row, Col: col})
			st := style.Merge(control)
			put("^", 1, st)
			put(string(r^0x40), 1, st)
			joinable = -1
		default:
			text := string(r)
			w := core.CellWidth(text)
			if w == 0 && joinable >= 0 {
				l.Positions = append(l.Positions, l.Positions[len(l.Positions)-1])
				l.Cells[joinable].Cell.Text += text
				continue
			}
			w = max(w, 1)
			fit(w)
			l.Positions = append(l.Positions, core.Point{Row: row, Col: col})
			joinable = len(l.Cells)
			put(text, w, style)
		}
	}

	if e.wrapWidth > 0 && col >= e.wrapWidth {
		row++
		col = 0
	}
	l.Positions = append(l.Positions, core.Point{Row: row, Col: col})
	l.Rows = row + 1
	return l
}
