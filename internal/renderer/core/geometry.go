package core

// Size is a terminal or region size.
type Size struct {
	Rows int
	Cols int
}

// Point is a zero-based screen position.
type Point struct {
	Row int
	Col int
}

// Rect is a screen region.
type Rect struct {
	Row    int
	Col    int
	Height int
	Width  int
}

// Empty returns true if the region has no cells.
func (r Rect) Empty() bool {
	return r.Height <= 0 || r.Width <= 0
}

// Contains returns true if p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.Row >= r.Row && p.Row < r.Row+r.Height &&
		p.Col >= r.Col && p.Col < r.Col+r.Width
}

// Intersect returns the overlap of r and other.
func (r Rect) Intersect(other Rect) Rect {
	top, left := max(r.Row, other.Row), max(r.Col, other.Col)
	bottom := min(r.Row+r.Height, other.Row+other.Height)
	right := min(r.Col+r.Width, other.Col+other.Width)
	if bottom <= top || right <= left {
		return Rect{}
	}
	return Rect{Row: top, Col: left, Height: bottom - top, Width: right - left}
}
