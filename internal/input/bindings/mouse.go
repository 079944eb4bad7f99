package bindings

import (
	"time"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/document"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/input/mouse"
)

// mouseEvent applies a mouse gesture. Hosts that cannot map screen cells
// to offsets get no mouse support.
func (h *handlers) mouseEvent(ev *input.Event, b *buffer.Buffer) error {
	g := h.mouse.HandleEvent(ev.Last(), time.Now())
	if g.Kind == mouse.GestureNone {
		return nil
	}
	ptr, ok := ev.Host.(mouse.Pointer)
	if !ok {
		return nil
	}

	switch g.Kind {
	case mouse.GestureScrollUp:
		b.CursorUp(g.Lines)
	case mouse.GestureScrollDown:
		b.CursorDown(g.Lines)
	}
	if g.Kind == mouse.GestureScrollUp || g.Kind == mouse.GestureScrollDown {
		if !ev.Mode().Inserts() {
			clamp(b)
		}
		return nil
	}

	idx, ok := ptr.OffsetAt(g.Pos.Y, g.Pos.X)
	if !ok {
		return nil
	}
	vi := ev.Mode().IsVi()
	doc := b.Document()

	switch g.Kind {
	case mouse.GestureClick:
		b.ExitSelection()
		if ev.Mode().IsVisual() {
			ev.SwitchMode(mode.ViNavigation)
		}
		moveTo(ev, b, idx)
	case mouse.GestureDoubleClick:
		r := doc.WordBounds(idx, false, false)
		if r.Len() == 0 {
			return nil
		}
		selectSpan(ev, b, r.Start, r.End, document.SelectCharacters, vi)
	case mouse.GestureTripleClick:
		row, _ := doc.Position(idx)
		selectSpan(ev, b, doc.LineStart(row), doc.LineEnd(row), document.SelectLines, vi)
	case mouse.GestureDrag:
		start, ok := ptr.OffsetAt(g.Start.Y, g.Start.X)
		if !ok {
			return nil
		}
		if !doc.HasSelection() {
			_ = b.Transform(func(d document.Document) document.Document {
				return d.WithSelection(start, document.SelectCharacters)
			})
			if vi && !ev.Mode().IsVisual() {
				ev.SwitchMode(mode.ViVisualChar)
			}
		}
		b.SetCursor(idx)
	}
	return nil
}

// selectSpan selects [start, end). Vi selections include the cursor rune,
// so the cursor goes on the last selected rune and a visual mode starts.
func selectSpan(ev *input.Event, b *buffer.Buffer, start, end int, t document.SelectionType, vi bool) {
	cursor := end
	if vi {
		cursor = max(start, end-1)
	}
	_ = b.Transform(func(d document.Document) document.Document {
		return d.WithCursor(cursor).WithSelection(start, t)
	})
	if vi {
		ev.SwitchMode(visualModeFor(t))
	}
}
