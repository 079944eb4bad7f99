package layout

import (
	"strings"

	"github.com/dshills/promptline/internal/renderer/core"
)

// Fragment is a piece of text with a style string, such as
// "class:prompt" or "bold fg:ansired".
type Fragment struct {
	Style string
	Text  string
}

// Fragments is a sequence of styled text.
type Fragments []Fragment

// Plain returns the text of all fragments.
func (fs Fragments) Plain() string {
	var sb strings.Builder
	for _, f := range fs {
		sb.WriteString(f.Text)
	}
	return sb.String()
}

// Width returns the display width of the longest line.
func (fs Fragments) Width() int {
	w := 0
	for _, line := range fs.Lines() {
		w = max(w, core.StringWidth(line.Plain()))
	}
	return w
}

// Lines splits the fragments at newlines.
func (fs Fragments) Lines() []Fragments {
	lines := []Fragments{nil}
	for _, f := range fs {
		parts := strings.Split(f.Text, "\n")
		for i, p := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if p != "" {
				lines[len(lines)-1] = append(lines[len(lines)-1], Fragment{Style: f.Style, Text: p})
			}
		}
	}
	return lines
}

// Lexer splits a line of input into styled fragments. The fragments'
// text must add up to the line.
type Lexer interface {
	Lex(line string) Fragments
}

// LexerFunc adapts a function to Lexer.
type LexerFunc func(line string) Fragments

// Lex implements Lexer.
func (f LexerFunc) Lex(line string) Fragments { return f(line) }

// writeFragments paints fs from (row, col) without wrapping and returns
// the column after the last cell.
func writeFragments(ctx *Context, s *core.Screen, row, col int, fs Fragments) int {
	for _, f := range fs {
		col += s.WriteString(row, col, f.Text, ctx.Styles.Resolve(f.Style))
	}
	return col
}
