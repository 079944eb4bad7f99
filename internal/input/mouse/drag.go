package mouse

// dragTracker follows a held left button.
type dragTracker struct {
	active  bool
	moved   bool
	start   Position
	current Position
}

func (t *dragTracker) begin(pos Position) {
	t.active = true
	t.moved = false
	t.start = pos
	t.current = pos
}

// update moves the drag to pos and reports whether it changed cells.
func (t *dragTracker) update(pos Position) bool {
	if !t.active || pos.Equal(t.current) {
		return false
	}
	t.current = pos
	t.moved = true
	return true
}

func (t *dragTracker) end() {
	*t = dragTracker{}
}

// DragState describes a drag in progress.
type DragState struct {
	Active  bool
	Moved   bool
	Start   Position
	Current Position
}

func (t *dragTracker) state() DragState {
	return DragState{Active: t.active, Moved: t.moved, Start: t.start, Current: t.current}
}
