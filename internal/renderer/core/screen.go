package core

import (
	"strings"
)

// Screen is a grid of cells plus a cursor. A bounded screen has a fixed
// height; an unbounded one grows as rows are written, which lets a
// window paint its whole content before scrolling it into place.
//
// The cursor starts hidden. Screen also records which text offset each
// painted cell shows, so mouse positions can be mapped back to the
// document.
type Screen struct {
	width   int
	height  int
	rows    [][]Cell
	cursor  Point
	visible bool
	offsets map[Point]int
}

// NewScreen creates a screen. A negative height makes it unbounded.
func NewScreen(width, height int) *Screen {
	s := &Screen{width: max(width, 0), height: height}
	if height > 0 {
		s.grow(height)
	}
	return s
}

// Width returns the number of columns.
func (s *Screen) Width() int { return s.width }

// Height returns the number of rows. For an unbounded screen this is
// the number of rows written so far.
func (s *Screen) Height() int { return len(s.rows) }

// Bounded returns true if the screen has a fixed height.
func (s *Screen) Bounded() bool { return s.height >= 0 }

// Size returns the screen's dimensions.
func (s *Screen) Size() Size { return Size{Rows: s.Height(), Cols: s.width} }

func (s *Screen) grow(rows int) {
	for len(s.rows) < rows {
		row := make([]Cell, s.width)
		for i := range row {
			row[i] = EmptyCell()
		}
		s.rows = append(s.rows, row)
	}
}

func (s *Screen) inside(row, col int) bool {
	if row < 0 || col < 0 || col >= s.width {
		return false
	}
	if s.Bounded() && row >= s.height {
		return false
	}
	s.grow(row + 1)
	return true
}

// Cell returns the cell at (row, col). Positions off the grid read as
// empty cells.
func (s *Screen) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= s.width {
		return EmptyCell()
	}
	return s.rows[row][col]
}

// Row returns the cells of a row. The slice must not be modified.
func (s *Screen) Row(row int) []Cell {
	if row < 0 || row >= len(s.rows) {
		return nil
	}
	return s.rows[row]
}

// Set stores c at (row, col). A wide cell also claims the column to its
// right; one that does not fit is replaced by a space. Writes off the
// grid are dropped.
func (s *Screen) Set(row, col int, c Cell) {
	if !s.inside(row, col) {
		return
	}
	if c.Width > 1 && col+c.Width > s.width {
		c = Cell{Text: " ", Width: 1, Style: c.Style}
	}
	line := s.rows[row]
	for i := range max(c.Width, 1) {
		s.breakWide(line, col+i)
	}
	line[col] = c
	for i := 1; i < c.Width; i++ {
		line[col+i] = ContinuationCell(c.Style)
	}
}

// breakWide blanks the other half of a wide character about to be
// partly overwritten at col.
func (s *Screen) breakWide(line []Cell, col int) {
	cur := line[col]
	if cur.IsContinuation() {
		for i := col - 1; i >= 0; i-- {
			if !line[i].IsContinuation() {
				line[i] = Cell{Text: " ", Width: 1, Style: line[i].Style}
				break
			}
			line[i] = Cell{Text: " ", Width: 1, Style: line[i].Style}
		}
	}
	for i := col + 1; i < len(line) && cur.Width > 1 && line[i].IsContinuation(); i++ {
		line[i] = Cell{Text: " ", Width: 1, Style: line[i].Style}
	}
}

// WriteString paints s starting at (row, col) and returns the number of
// columns used. Painting stops at the right edge.
func (s *Screen) WriteString(row, col int, text string, style Style) int {
	start := col
	for cluster := range Clusters(text) {
		w := CellWidth(cluster)
		if w == 0 {
			continue
		}
		if col+w > s.width {
			break
		}
		s.Set(row, col, Cell{Text: cluster, Width: w, Style: style})
		col += w
	}
	return col - start
}

// Fill sets every cell of r to c.
func (s *Screen) Fill(r Rect, c Cell) {
	for row := r.Row; row < r.Row+r.Height; row++ {
		for col := r.Col; col < r.Col+r.Width; col++ {
			s.Set(row, col, c)
		}
	}
}

// Underlay merges style under the cells of r: colors the cells already
// carry win.
func (s *Screen) Underlay(r Rect, style Style) {
	for row := r.Row; row < r.Row+r.Height; row++ {
		if !s.inside(row, max(r.Col, 0)) {
			continue
		}
		line := s.rows[row]
		for col := max(r.Col, 0); col < min(r.Col+r.Width, s.width); col++ {
			line[col].Style = style.Merge(line[col].Style)
		}
	}
}

// Cursor returns the cursor position.
func (s *Screen) Cursor() Point { return s.cursor }

// SetCursor moves the cursor.
func (s *Screen) SetCursor(p Point) { s.cursor = p }

// CursorVisible reports whether the cursor is shown.
func (s *Screen) CursorVisible() bool { return s.visible }

// SetCursorVisible shows or hides the cursor.
func (s *Screen) SetCursorVisible(on bool) { s.visible = on }

// MarkOffset records that the cell at p shows text offset index.
func (s *Screen) MarkOffset(p Point, index int) {
	if s.offsets == nil {
		s.offsets = make(map[Point]int)
	}
	s.offsets[p] = index
}

// OffsetAt maps a cell to a text offset. Clicking right of a line's end
// maps to the nearest marked cell on its left.
func (s *Screen) OffsetAt(row, col int) (int, bool) {
	for c := min(col, s.width-1); c >= 0; c-- {
		if idx, ok := s.offsets[Point{Row: row, Col: c}]; ok {
			return idx, true
		}
	}
	return 0, false
}

// Blit copies rows of src starting at srcRow into dst, together with
// their text offsets. Cells outside dst or s are dropped.
func (s *Screen) Blit(src *Screen, srcRow int, dst Rect) {
	for r := 0; r < dst.Height; r++ {
		line := src.Row(srcRow + r)
		if line == nil {
			continue
		}
		for c := 0; c < dst.Width && c < len(line); c++ {
			cell := line[c]
			if cell.IsContinuation() {
				continue
			}
			if c+cell.Width > dst.Width {
				cell = Cell{Text: " ", Width: 1, Style: cell.Style}
			}
			s.Set(dst.Row+r, dst.Col+c, cell)
		}
	}
	for p, idx := range src.offsets {
		row, col := p.Row-srcRow, p.Col
		if row >= 0 && row < dst.Height && col >= 0 && col < dst.Width {
			s.MarkOffset(Point{Row: dst.Row + row, Col: dst.Col + col}, idx)
		}
	}
}

// Equal returns true if both screens hold the same cells, cursor and
// cursor visibility.
func (s *Screen) Equal(other *Screen) bool {
	if other == nil || s.width != other.width || len(s.rows) != len(other.rows) {
		return false
	}
	if s.cursor != other.cursor || s.visible != other.visible {
		return false
	}
	for r, line := range s.rows {
		for c, cell := range line {
			if !cell.Equals(other.rows[r][c]) {
				return false
			}
		}
	}
	return true
}

// String returns the screen text, one line per row, with trailing
// spaces removed.
func (s *Screen) String() string {
	var sb strings.Builder
	for r, line := range s.rows {
		if r > 0 {
			sb.WriteByte('\n')
		}
		var row strings.Builder
		for _, c := range line {
			row.WriteString(c.Text)
		}
		sb.WriteString(strings.TrimRight(row.String(), " "))
	}
	return sb.String()
}
