package renderer

import (
	"github.com/dshills/promptline/internal/renderer/backend"
	"github.com/dshills/promptline/internal/renderer/core"
)

// Command is one step of drawing a frame.
type Command interface {
	apply(out backend.Output)
}

// MoveCursor places the terminal cursor.
type MoveCursor struct {
	Row, Col int
}

// Write writes text in one style at the cursor.
type Write struct {
	Text  string
	Style core.Style
}

// Clear blanks a region.
type Clear struct {
	Rect core.Rect
}

// ShowCursor makes the cursor visible.
type ShowCursor struct{}

// HideCursor hides the cursor.
type HideCursor struct{}

func (c MoveCursor) apply(out backend.Output) { out.MoveCursor(c.Row, c.Col) }
func (c Write) apply(out backend.Output)      { out.WriteStyled(c.Text, c.Style) }
func (c Clear) apply(out backend.Output)      { out.ClearRegion(c.Rect) }
func (ShowCursor) apply(out backend.Output)   { out.ShowCursor() }
func (HideCursor) apply(out backend.Output)   { out.HideCursor() }

// Apply sends cmds to out and flushes it.
func Apply(out backend.Output, cmds []Command) error {
	for _, c := range cmds {
		c.apply(out)
	}
	return out.Flush()
}

// Apply sends cmds to out and flushes it.
func (r *Renderer) Apply(out backend.Output, cmds []Command) error {
	return Apply(out, cmds)
}
