package layout

import (
	"github.com/dshills/promptline/internal/renderer/core"
)

// TokensControl shows styled text. Lines longer than the window are
// cut at its edge.
type TokensControl struct {
	Fragments func() Fragments
}

// NewTokensControl returns a control showing what fn returns at paint
// time.
func NewTokensControl(fn func() Fragments) *TokensControl {
	return &TokensControl{Fragments: fn}
}

// Text returns a control showing fixed text in one style.
func Text(style, text string) *TokensControl {
	fs := Fragments{{Style: style, Text: text}}
	return NewTokensControl(func() Fragments { return fs })
}

// PreferredWidth implements Control.
func (c *TokensControl) PreferredWidth(_ *Context, maxAvailable int) int {
	return min(c.Fragments().Width(), maxAvailable)
}

// Paint implements Control. Empty text paints no rows.
func (c *TokensControl) Paint(ctx *Context, s *core.Screen) {
	fs := c.Fragments()
	if fs.Plain() == "" {
		return
	}
	for row, line := range fs.Lines() {
		s.Set(row, 0, core.EmptyCell())
		writeFragments(ctx, s, row, 0, line)
	}
}
