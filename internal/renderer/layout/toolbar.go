package layout

import (
	"fmt"

	"github.com/dshills/promptline/internal/engine/buffer"
)

func toolbar(visible func() bool, style string, fn func() Fragments) Container {
	h := Exact(1)
	w := NewWindow(NewTokensControl(fn))
	w.Height = &h
	w.Style = style
	return When(visible, w)
}

// ValidationToolbar shows the buffer's validation error while there is
// one.
func ValidationToolbar(b *buffer.Buffer) Container {
	return toolbar(
		func() bool { return b.ValidationError() != nil },
		"class:validation-toolbar",
		func() Fragments {
			e := b.ValidationError()
			if e == nil {
				return nil
			}
			row, col := b.Document().Position(e.Position)
			return Fragments{{
				Style: "class:validation-toolbar",
				Text:  fmt.Sprintf("%s (line %d column %d)", e.Message, row+1, col+1),
			}}
		})
}

// ModeToolbar shows the label label returns, such as "-- INSERT --",
// while it is not empty.
func ModeToolbar(label func() string) Container {
	return toolbar(
		func() bool { return label() != "" },
		"",
		func() Fragments {
			return Fragments{{Style: "class:mode-toolbar", Text: label()}}
		})
}

// ArgToolbar shows the pending repeat count while one is being typed.
func ArgToolbar(count func() int) Container {
	return toolbar(
		func() bool { return count() > 0 },
		"",
		func() Fragments {
			return Fragments{{Style: "class:arg-toolbar", Text: fmt.Sprintf("Repeat: %d", count())}}
		})
}
