package mouse

import (
	"sync"
	"time"

	"github.com/dshills/promptline/internal/input/key"
)

// Position is a zero based screen cell.
type Position struct {
	X int // column
	Y int // row
}

// Equal returns true if two positions are equal.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Distance returns the Manhattan distance (|dx| + |dy|) between two positions.
func (p Position) Distance(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Pointer maps screen cells to buffer offsets. The layout that drew the
// input implements it.
type Pointer interface {
	OffsetAt(row, col int) (offset int, ok bool)
}

// GestureKind classifies what a mouse report means to the editor.
type GestureKind uint8

const (
	// GestureNone means the report needs no action.
	GestureNone GestureKind = iota
	// GestureClick places the cursor.
	GestureClick
	// GestureDoubleClick selects a word.
	GestureDoubleClick
	// GestureTripleClick selects a line.
	GestureTripleClick
	// GestureDrag extends a selection from the press position.
	GestureDrag
	// GestureScrollUp and GestureScrollDown move by Lines rows.
	GestureScrollUp
	GestureScrollDown
)

// String returns a string representation of the gesture kind.
func (g GestureKind) String() string {
	switch g {
	case GestureClick:
		return "click"
	case GestureDoubleClick:
		return "double-click"
	case GestureTripleClick:
		return "triple-click"
	case GestureDrag:
		return "drag"
	case GestureScrollUp:
		return "scroll-up"
	case GestureScrollDown:
		return "scroll-down"
	default:
		return "none"
	}
}

// Gesture is the result of tracking one mouse report.
type Gesture struct {
	Kind GestureKind

	// Pos is where the report happened.
	Pos Position

	// Start is the press position of a drag.
	Start Position

	// Lines is the scroll distance.
	Lines int
}

// Config configures gesture detection.
type Config struct {
	// DoubleClickTime is the maximum time between clicks of a sequence.
	DoubleClickTime time.Duration

	// DoubleClickDistance is the maximum distance between clicks of a sequence.
	DoubleClickDistance int

	// ScrollLines is the number of rows per wheel tick.
	ScrollLines int

	// ScrollLinesShift is the number of rows when Shift is held.
	ScrollLinesShift int

	// EnableDragSelection turns drags into selections.
	EnableDragSelection bool
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DoubleClickTime:     400 * time.Millisecond,
		DoubleClickDistance: 2,
		ScrollLines:         1,
		ScrollLinesShift:    3,
		EnableDragSelection: true,
	}
}

// Tracker turns mouse reports into gestures. It is safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	config Config
	clicks clickSeq
	drag   dragTracker
}

// NewTracker creates a tracker with the given configuration.
func NewTracker(config Config) *Tracker {
	return &Tracker{config: config}
}

// Handle interprets m, received at the given time.
func (t *Tracker) Handle(m key.Mouse, at time.Time) Gesture {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos := Position{X: m.Col, Y: m.Row}
	switch m.Button {
	case key.MouseWheelUp, key.MouseWheelDown:
		return t.scroll(m, pos)
	}

	switch m.Action {
	case key.MousePress:
		if m.Button != key.MouseLeft {
			return Gesture{Pos: pos}
		}
		t.drag.begin(pos)
		switch t.press(pos, at) {
		case 2:
			return Gesture{Kind: GestureDoubleClick, Pos: pos}
		case 3:
			return Gesture{Kind: GestureTripleClick, Pos: pos}
		}
		return Gesture{Kind: GestureClick, Pos: pos}
	case key.MouseMove:
		if !t.config.EnableDragSelection || !t.drag.update(pos) {
			return Gesture{Pos: pos}
		}
		// Moving away ends any click sequence.
		t.clicks = clickSeq{}
		return Gesture{Kind: GestureDrag, Pos: pos, Start: t.drag.start}
	case key.MouseRelease:
		t.drag.end()
	}
	return Gesture{Pos: pos}
}

func (t *Tracker) scroll(m key.Mouse, pos Position) Gesture {
	if m.Action != key.MousePress {
		return Gesture{Pos: pos}
	}
	kind := GestureScrollDown
	if m.Button == key.MouseWheelUp {
		kind = GestureScrollUp
	}
	return Gesture{Kind: kind, Pos: pos, Lines: max(t.config.ScrollLines, 1)}
}

// HandleEvent interprets a KeyMouse event, taking Shift into account for
// scroll distance.
func (t *Tracker) HandleEvent(ev key.Event, at time.Time) Gesture {
	if ev.Key != key.KeyMouse {
		return Gesture{}
	}
	g := t.Handle(ev.Mouse, at)
	if g.Lines > 0 && ev.Modifiers.Has(key.ModShift) {
		g.Lines = max(t.config.ScrollLinesShift, 1)
	}
	return g
}

// Dragging returns the state of the drag in progress.
func (t *Tracker) Dragging() DragState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drag.state()
}

// Reset forgets click sequences and drags.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clicks = clickSeq{}
	t.drag.end()
}
