package backend

import (
	"fmt"
	"sync"

	"github.com/dshills/promptline/internal/renderer/core"
)

// Recorder is an Output backed by an in-memory grid. It keeps a log of
// the operations it received, which makes it useful in tests.
type Recorder struct {
	mu      sync.Mutex
	screen  *core.Screen
	row     int
	col     int
	visible bool
	ops     []string
	flushes int
}

// NewRecorder creates a recorder with a blank grid of the given size.
func NewRecorder(size core.Size) *Recorder {
	return &Recorder{screen: core.NewScreen(size.Cols, size.Rows)}
}

// MoveCursor places the cursor.
func (r *Recorder) MoveCursor(row, col int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.row, r.col = row, col
	r.ops = append(r.ops, fmt.Sprintf("move %d,%d", row, col))
}

// WriteStyled writes text into the grid.
func (r *Recorder) WriteStyled(text string, style core.Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.col += r.screen.WriteString(r.row, r.col, text, style)
	r.ops = append(r.ops, fmt.Sprintf("write %q", text))
}

// ClearRegion blanks a region of the grid.
func (r *Recorder) ClearRegion(rect core.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screen.Fill(rect, core.EmptyCell())
	r.ops = append(r.ops, fmt.Sprintf("clear %d,%d %dx%d", rect.Row, rect.Col, rect.Height, rect.Width))
}

// ShowCursor makes the cursor visible.
func (r *Recorder) ShowCursor() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = true
	r.ops = append(r.ops, "show")
}

// HideCursor hides the cursor.
func (r *Recorder) HideCursor() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = false
	r.ops = append(r.ops, "hide")
}

// Flush counts the flush.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
	return nil
}

// Resize replaces the grid with a blank one of the new size.
func (r *Recorder) Resize(size core.Size) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screen = core.NewScreen(size.Cols, size.Rows)
}

// String returns the grid contents with trailing blanks trimmed.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.screen.String()
}

// Cell returns the cell at row, col.
func (r *Recorder) Cell(row, col int) core.Cell {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.screen.Cell(row, col)
}

// Cursor returns the cursor position and whether it is visible.
func (r *Recorder) Cursor() (core.Point, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return core.Point{Row: r.row, Col: r.col}, r.visible
}

// Ops returns and clears the operation log.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := r.ops
	r.ops = nil
	return ops
}

// Flushes returns how many times Flush was called.
func (r *Recorder) Flushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}
