package bindings

import (
	"fmt"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/vim"
)

// Binding argument names.
const (
	argMotion   = "motion"
	argOperator = "operator"
	argObject   = "object"
	argAround   = "around"
	argType     = "type"
)

// viMotions binds every motion on its own, moving the cursor in
// navigation and visual modes.
func viMotions() []keymap.Binding {
	bs := make([]keymap.Binding, 0, len(vim.Motions))
	for _, m := range vim.Motions {
		bs = append(bs, bind(m.Keys, ActionViMotion, moving).
			WithArgs(map[string]any{argMotion: m.Name}))
	}
	return bs
}

// viOperators binds each operator followed by every motion, its doubled
// line form, and every text object.
func viOperators() []keymap.Binding {
	var bs []keymap.Binding
	for _, op := range vim.Operators {
		for _, m := range vim.Motions {
			bs = append(bs, bind(op.Keys+" "+m.Keys, ActionViOperator, navigation).
				WithArgs(map[string]any{argOperator: op.Name, argMotion: m.Name}))
		}
		bs = append(bs, bind(op.LineKeys, ActionViOperatorLine, navigation).
			WithArgs(map[string]any{argOperator: op.Name}))

		prefix := key.MustParseSequence(op.Keys)
		for _, obj := range vim.TextObjects {
			for _, around := range []bool{false, true} {
				sel := 'i'
				if around {
					sel = 'a'
				}
				for _, r := range obj.Keys {
					keys := append(prefix.Clone(), char(sel), char(r))
					bs = append(bs, seq(ActionViTextObject, navigation, keys...).
						WithArgs(map[string]any{argOperator: op.Name, argObject: obj.Name, argAround: around}))
				}
			}
		}
	}
	return bs
}

func motionNamed(name string) (vim.Motion, error) {
	for _, m := range vim.Motions {
		if m.Name == name {
			return m, nil
		}
	}
	return vim.Motion{}, fmt.Errorf("unknown motion %q", name)
}

func operatorNamed(name string) (vim.Operator, error) {
	for _, op := range vim.Operators {
		if op.Name == name {
			return op, nil
		}
	}
	return vim.Operator{}, fmt.Errorf("unknown operator %q", name)
}

func textObjectNamed(name string) (vim.TextObject, error) {
	for _, obj := range vim.TextObjects {
		if obj.Name == name {
			return obj, nil
		}
	}
	return vim.TextObject{}, fmt.Errorf("unknown text object %q", name)
}

func boolArg(ev *input.Event, name string) bool {
	v, _ := ev.Arg(name)
	on, _ := v.(bool)
	return on
}

// motionArg returns the character argument of f, t and friends.
func motionArg(ev *input.Event, m vim.Motion) (rune, bool) {
	if !m.TakesChar {
		return 0, true
	}
	last := ev.Last()
	return last.Rune, last.IsChar()
}

// motion moves the cursor. Vertical motions keep the column the cursor
// had when vertical movement started.
func (h *handlers) motion(ev *input.Event, b *buffer.Buffer) error {
	m, err := motionNamed(ev.StringArg(argMotion, ""))
	if err != nil {
		return err
	}
	arg, ok := motionArg(ev, m)
	if !ok {
		return nil
	}
	if m.TakesChar {
		h.lastFind = &findState{motion: m, char: arg}
	}
	return h.moveBy(ev, b, m, arg)
}

func (h *handlers) moveBy(ev *input.Event, b *buffer.Buffer, m vim.Motion, arg rune) error {
	switch m.Name {
	case vim.MotionUp.Name:
		b.CursorUp(ev.Count)
		clamp(b)
		return nil
	case vim.MotionDown.Name:
		b.CursorDown(ev.Count)
		clamp(b)
		return nil
	}
	target, ok := m.Target(b.Document(), ev.RawCount(), arg)
	if ok {
		moveTo(ev, b, target)
	}
	return nil
}

var reversedFind = map[string]vim.Motion{
	vim.MotionFindForward.Name:  vim.MotionFindBackward,
	vim.MotionFindBackward.Name: vim.MotionFindForward,
	vim.MotionTillForward.Name:  vim.MotionTillBackward,
	vim.MotionTillBackward.Name: vim.MotionTillForward,
}

// repeatFind repeats the last f, F, t or T, optionally in the other
// direction.
func (h *handlers) repeatFind(reverse bool) func(*input.Event, *buffer.Buffer) error {
	return func(ev *input.Event, b *buffer.Buffer) error {
		if h.lastFind == nil {
			return nil
		}
		m := h.lastFind.motion
		if reverse {
			m = reversedFind[m.Name]
		}
		return h.moveBy(ev, b, m, h.lastFind.char)
	}
}

// operatorMotion applies an operator over the text a motion covers.
func operatorMotion(ev *input.Event, b *buffer.Buffer) error {
	op, err := operatorNamed(ev.StringArg(argOperator, ""))
	if err != nil {
		return err
	}
	m, err := motionNamed(ev.StringArg(argMotion, ""))
	if err != nil {
		return err
	}
	arg, ok := motionArg(ev, m)
	if !ok {
		return nil
	}
	r, ok := vim.MotionRegion(b.Document(), m, ev.RawCount(), arg, op.EntersInsert)
	if !ok {
		return nil
	}
	return viEdit(ev, b, op, r)
}

// operatorLines applies a doubled operator ("dd", "3>>") to count lines.
func operatorLines(ev *input.Event, b *buffer.Buffer) error {
	op, err := operatorNamed(ev.StringArg(argOperator, ""))
	if err != nil {
		return err
	}
	return viEdit(ev, b, op, vim.CurrentLines(b.Document(), ev.Count))
}

// operatorObject applies an operator to a text object around the cursor.
func operatorObject(ev *input.Event, b *buffer.Buffer) error {
	op, err := operatorNamed(ev.StringArg(argOperator, ""))
	if err != nil {
		return err
	}
	obj, err := textObjectNamed(ev.StringArg(argObject, ""))
	if err != nil {
		return err
	}
	r, ok := obj.Select(b.Document(), boolArg(ev, argAround))
	if !ok {
		return nil
	}
	return viEdit(ev, b, op, r)
}
