package bindings

import (
	"slices"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/document"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/input/vim"
)

// visualKeys maps the keys that act on a visual selection to operators.
var visualKeys = []struct {
	keys string
	op   vim.Operator
}{
	{"d", vim.OpDelete},
	{"x", vim.OpDelete},
	{"<Del>", vim.OpDelete},
	{"c", vim.OpChange},
	{"s", vim.OpChange},
	{"y", vim.OpYank},
	{">", vim.OpIndent},
	{"<lt>", vim.OpDedent},
	{"~", vim.OpSwapCase},
	{"u", vim.OpLowerCase},
	{"U", vim.OpUpperCase},
}

func viVisual() []keymap.Binding {
	bs := []keymap.Binding{
		bind("v", ActionViVisual, moving),
		bind("V", ActionViVisualLine, moving),
		bind("<C-v>", ActionViVisualBlock, moving),
		bind("<Esc>", ActionViVisualExit, visual),
		bind("o", ActionViVisualSwap, visual),
	}
	for _, vk := range visualKeys {
		bs = append(bs, bind(vk.keys, ActionViVisualOperator, visual).
			WithArgs(map[string]any{argOperator: vk.op.Name}))
	}
	for _, obj := range vim.TextObjects {
		for _, around := range []bool{false, true} {
			sel := 'i'
			if around {
				sel = 'a'
			}
			for _, r := range obj.Keys {
				bs = append(bs, seq(ActionViVisualObject, visual, char(sel), char(r)).
					WithArgs(map[string]any{argObject: obj.Name, argAround: around}))
			}
		}
	}
	return bs
}

// visualModeFor returns the visual mode showing selections of type t.
func visualModeFor(t document.SelectionType) mode.Mode {
	switch t {
	case document.SelectLines:
		return mode.ViVisualLine
	case document.SelectBlock:
		return mode.ViVisualBlock
	default:
		return mode.ViVisualChar
	}
}

func (h *handlers) registerVisual(acts *input.Actions) {
	acts.Register(ActionViVisual, withBuffer(toggleVisual(document.SelectCharacters)))
	acts.Register(ActionViVisualLine, withBuffer(toggleVisual(document.SelectLines)))
	acts.Register(ActionViVisualBlock, withBuffer(toggleVisual(document.SelectBlock)))
	acts.Register(ActionViVisualExit, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		exitVisual(ev, b)
		return nil
	}))
	acts.Register(ActionViVisualSwap, withBuffer(func(ev *input.Event, b *buffer.Buffer) error {
		sel, ok := b.Document().Selection()
		if !ok {
			return nil
		}
		cur := b.Cursor()
		return b.Transform(func(d document.Document) document.Document {
			return d.WithCursor(sel.Anchor).WithSelection(cur, sel.Type)
		})
	}))
	acts.Register(ActionViVisualOperator, withBuffer(visualOperator))
	acts.Register(ActionViVisualObject, withBuffer(visualObject))
}

// toggleVisual starts a visual selection of type t, switches an active
// selection to t, or ends the selection when it already has type t.
func toggleVisual(t document.SelectionType) func(*input.Event, *buffer.Buffer) error {
	return func(ev *input.Event, b *buffer.Buffer) error {
		sel, ok := b.Document().Selection()
		switch {
		case !ok || !ev.Mode().IsVisual():
			b.StartSelection(t)
		case sel.Type == t:
			exitVisual(ev, b)
			return nil
		default:
			if err := b.Transform(func(d document.Document) document.Document {
				return d.WithSelectionType(t)
			}); err != nil {
				return err
			}
		}
		ev.SwitchMode(visualModeFor(t))
		return nil
	}
}

func exitVisual(ev *input.Event, b *buffer.Buffer) {
	b.ExitSelection()
	ev.SwitchMode(mode.ViNavigation)
	clamp(b)
}

// visualOperator applies an operator to the selection and returns to
// navigation mode, or to insert mode for change.
func visualOperator(ev *input.Event, b *buffer.Buffer) error {
	op, err := operatorNamed(ev.StringArg(argOperator, ""))
	if err != nil {
		return err
	}
	doc := b.Document()
	sel, ok := doc.Selection()
	if !ok {
		exitVisual(ev, b)
		return nil
	}
	if op.EntersInsert {
		b.BeginEditGroup()
		defer b.EndEditGroup()
	}

	if sel.Type == document.SelectBlock {
		err = blockOperator(ev, b, op, doc)
	} else {
		r := selectionRegion(doc, sel)
		b.ExitSelection()
		err = op.Apply(b, clip(ev), r)
	}
	b.ExitSelection()
	if err != nil {
		ev.SwitchMode(mode.ViNavigation)
		return err
	}
	if op.EntersInsert {
		ev.SwitchMode(mode.ViInsert)
		return nil
	}
	ev.SwitchMode(mode.ViNavigation)
	clamp(b)
	return nil
}

// selectionRegion converts a character or line selection into an
// operator region. Character selections include the rune under the cursor.
func selectionRegion(doc document.Document, sel document.Selection) vim.Region {
	from, to := min(sel.Anchor, doc.Cursor()), max(sel.Anchor, doc.Cursor())
	if sel.Type == document.SelectLines {
		fromRow, _ := doc.Position(from)
		toRow, _ := doc.Position(to)
		return vim.LineRegion(doc, fromRow, toRow)
	}
	return vim.Region{Start: from, End: min(to+1, doc.Len())}
}

// blockOperator applies op to each row of a block selection. Clipboard
// operators take the block as a whole.
func blockOperator(ev *input.Event, b *buffer.Buffer, op vim.Operator, doc document.Document) error {
	switch op.Name {
	case vim.OpYank.Name:
		clip(ev).Set(b.CopySelection(true))
		from := min(doc.Cursor(), doc.SelectionRanges(true)[0].Start)
		b.SetCursor(from)
		return nil
	case vim.OpDelete.Name, vim.OpChange.Name:
		data, err := b.CutSelection(true)
		if err != nil {
			return err
		}
		clip(ev).Set(data)
		return nil
	case vim.OpIndent.Name, vim.OpDedent.Name:
		sel, _ := doc.Selection()
		fromRow, _ := doc.Position(min(sel.Anchor, doc.Cursor()))
		toRow, _ := doc.Position(max(sel.Anchor, doc.Cursor()))
		b.ExitSelection()
		return op.Apply(b, nil, vim.LineRegion(doc, fromRow, toRow))
	}

	ranges := doc.SelectionRanges(true)
	b.ExitSelection()
	b.BeginEditGroup()
	defer b.EndEditGroup()
	// Later rows first, so earlier offsets stay valid.
	for _, r := range slices.Backward(ranges) {
		if err := op.Apply(b, nil, vim.Region{Start: r.Start, End: r.End}); err != nil {
			return err
		}
	}
	return nil
}

// visualObject selects a text object around the cursor.
func visualObject(ev *input.Event, b *buffer.Buffer) error {
	obj, err := textObjectNamed(ev.StringArg(argObject, ""))
	if err != nil {
		return err
	}
	doc := b.Document()
	r, ok := obj.Select(doc.WithoutSelection(), boolArg(ev, argAround))
	if !ok || r.End <= r.Start {
		return nil
	}
	if err := b.Transform(func(d document.Document) document.Document {
		return d.WithCursor(r.End-1).WithSelection(r.Start, document.SelectCharacters)
	}); err != nil {
		return err
	}
	ev.SwitchMode(mode.ViVisualChar)
	return nil
}
