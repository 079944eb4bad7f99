package layout

import (
	"github.com/dshills/promptline/internal/renderer/core"
)

// Control paints content inside a Window.
type Control interface {
	// PreferredWidth returns the width the content wants, or 0 for none.
	PreferredWidth(ctx *Context, maxAvailable int) int
	// Paint draws the whole content on s, an unbounded screen as wide as
	// the window. A control that owns the cursor places it on s and
	// makes it visible.
	Paint(ctx *Context, s *core.Screen)
}

// Window shows a control, scrolled vertically so the cursor stays in
// view.
type Window struct {
	Content Control
	// Width and Height override the content's preferences when set.
	Width  *Dimension
	Height *Dimension
	// Style is applied under the content.
	Style string
	// Tildes marks rows below the content with "~".
	Tildes bool
	// DontExtendHeight keeps the window from growing past its content.
	DontExtendHeight bool

	scroll int
}

// NewWindow returns a window showing content.
func NewWindow(content Control) *Window {
	return &Window{Content: content}
}

// Scroll returns the first content row shown.
func (w *Window) Scroll() int { return w.scroll }

// PreferredWidth implements Container.
func (w *Window) PreferredWidth(ctx *Context, maxAvailable int) Dimension {
	if w.Width != nil {
		return *w.Width
	}
	return Flexible(0, w.Content.PreferredWidth(ctx, maxAvailable))
}

// PreferredHeight implements Container.
func (w *Window) PreferredHeight(ctx *Context, width, maxAvailable int) Dimension {
	if w.Height != nil {
		return *w.Height
	}
	rows := min(w.paint(ctx, width).Height(), maxAvailable)
	if w.DontExtendHeight {
		return Exact(rows)
	}
	return Flexible(0, rows)
}

func (w *Window) paint(ctx *Context, width int) *core.Screen {
	temp := core.NewScreen(width, -1)
	w.Content.Paint(ctx, temp)
	return temp
}

// WriteTo implements Container.
func (w *Window) WriteTo(ctx *Context, s *core.Screen, r core.Rect) {
	if r.Empty() {
		return
	}
	temp := w.paint(ctx, r.Width)
	w.scrollTo(temp, r.Height)

	s.Fill(r, core.EmptyCell())
	s.Blit(temp, w.scroll, r)
	if w.Tildes {
		tilde := ctx.Styles.Resolve("class:tilde")
		for row := temp.Height() - w.scroll; row < r.Height; row++ {
			s.WriteString(r.Row+row, r.Col, "~", tilde)
		}
	}
	if w.Style != "" {
		s.Underlay(r, ctx.Styles.Resolve(w.Style))
	}
	if temp.CursorVisible() {
		c := temp.Cursor()
		s.SetCursor(core.Point{Row: r.Row + c.Row - w.scroll, Col: r.Col + min(c.Col, r.Width-1)})
		s.SetCursorVisible(true)
	}
}

// scrollTo adjusts the scroll offset so the cursor row is shown and no
// more empty rows than needed appear below the content.
func (w *Window) scrollTo(temp *core.Screen, height int) {
	if temp.CursorVisible() {
		row := temp.Cursor().Row
		if row < w.scroll {
			w.scroll = row
		}
		if row >= w.scroll+height {
			w.scroll = row - height + 1
		}
	}
	w.scroll = max(min(w.scroll, temp.Height()-height), 0)
}
