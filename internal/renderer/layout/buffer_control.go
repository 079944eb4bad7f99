package layout

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/document"
	"github.com/dshills/promptline/internal/renderer/core"
)

// BufferControl shows a buffer's document: an optional prompt before
// the first line, continuation prefixes before the others, the text
// itself with lexer, selection and search styling, and optional
// fragments after the last line.
type BufferControl struct {
	Buffer *buffer.Buffer
	// Before returns the prompt painted before the first line.
	Before func() Fragments
	// Continuation returns the prefix painted before line row (row > 0),
	// given the prompt width.
	Continuation func(width, row int) Fragments
	// After returns fragments painted after the last line.
	After func() Fragments
	// Lexer styles each line. Results are cached per line.
	Lexer Lexer
	// Search returns text whose occurrences are highlighted.
	Search func() string
	// InclusiveSelection reports whether the rune under the cursor is
	// part of the selection, as in Vi visual modes.
	InclusiveSelection func() bool
	// Focused shows the cursor.
	Focused bool

	engine *LayoutEngine
	cache  *LexCache
}

// BufferControlOption configures a BufferControl.
type BufferControlOption func(*BufferControl)

// WithPrompt sets a fixed prompt.
func WithPrompt(fs ...Fragment) BufferControlOption {
	return func(c *BufferControl) {
		c.Before = func() Fragments { return fs }
	}
}

// WithLexer sets the lexer and the size of its line cache.
func WithLexer(l Lexer, cacheSize int) BufferControlOption {
	return func(c *BufferControl) {
		c.Lexer = l
		c.cache = NewLexCache(l, cacheSize)
	}
}

// WithTabWidth sets the tab width.
func WithTabWidth(n int) BufferControlOption {
	return func(c *BufferControl) {
		c.engine = NewLayoutEngine(n)
	}
}

// NewBufferControl returns a focused control showing b.
func NewBufferControl(b *buffer.Buffer, opts ...BufferControlOption) *BufferControl {
	c := &BufferControl{Buffer: b, Focused: true, engine: NewLayoutEngine(4)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PreferredWidth implements Control.
func (c *BufferControl) PreferredWidth(ctx *Context, maxAvailable int) int {
	w := 0
	doc := c.Buffer.Document()
	for _, line := range doc.Lines() {
		w = max(w, core.StringWidth(line))
	}
	return min(w+c.prompt().Width()+1, maxAvailable)
}

func (c *BufferControl) prompt() Fragments {
	if c.Before == nil {
		return nil
	}
	return c.Before()
}

// Paint implements Control.
func (c *BufferControl) Paint(ctx *Context, s *core.Screen) {
	doc := c.Buffer.Document()
	lines := doc.Lines()
	styles := c.runeStyles(ctx, doc, lines)
	control := ctx.Styles.Resolve("class:control-character")
	c.engine.SetWrap(s.Width())

	prompt := c.prompt()
	promptWidth := prompt.Width()
	row, offset := 0, 0
	var cursor core.Point
	var end core.Point

	for i, line := range lines {
		col := 0
		if i == 0 {
			for j, pl := range prompt.Lines() {
				if j > 0 {
					row++
				}
				col = writeFragments(ctx, s, row, 0, pl)
			}
		} else if c.Continuation != nil {
			col = writeFragments(ctx, s, row, 0, c.Continuation(promptWidth, i))
		}

		runes := []rune(line)
		ll := c.engine.Layout(runes, styles[offset:offset+len(runes)], col, control)
		for _, pc := range ll.Cells {
			s.Set(row+pc.Pos.Row, pc.Pos.Col, pc.Cell)
		}
		for j, p := range ll.Positions {
			at := core.Point{Row: row + p.Row, Col: p.Col}
			s.MarkOffset(at, offset+j)
			if offset+j == doc.Cursor() {
				cursor = at
			}
		}
		end = ll.Positions[len(ll.Positions)-1]
		end.Row += row
		s.Set(end.Row, end.Col, core.EmptyCell())

		row += ll.Rows
		offset += len(runes) + 1
	}

	if c.After != nil {
		for j, al := range c.After().Lines() {
			if j > 0 {
				end = core.Point{Row: end.Row + 1}
			}
			end.Col = writeFragments(ctx, s, end.Row, end.Col, al)
		}
	}

	s.SetCursor(cursor)
	s.SetCursorVisible(c.Focused)
}

// runeStyles resolves the style of every rune of the document. Line
// breaks get an entry too, so offsets line up with document indexes.
func (c *BufferControl) runeStyles(ctx *Context, doc document.Document, lines []string) []core.Style {
	specs := make([]string, 0, doc.Len()+1)
	for _, line := range lines {
		count := utf8.RuneCountInString(line)
		n := 0
		if c.Lexer != nil {
			lex := c.Lexer.Lex
			if c.cache != nil {
				lex = c.cache.Lex
			}
			for _, f := range lex(line) {
				for range f.Text {
					if n < count {
						specs = append(specs, f.Style)
						n++
					}
				}
			}
		}
		for ; n < count; n++ {
			specs = append(specs, "")
		}
		specs = append(specs, "")
	}

	mark := func(start, end int, class string) {
		for i := max(start, 0); i < min(end, len(specs)); i++ {
			specs[i] += " " + class
		}
	}
	inclusive := c.InclusiveSelection != nil && c.InclusiveSelection()
	for _, r := range doc.SelectionRanges(inclusive) {
		mark(r.Start, r.End, "class:selected")
	}
	if c.Search != nil {
		if q := []rune(c.Search()); len(q) > 0 {
			text := []rune(doc.Text())
			for i := 0; i+len(q) <= len(text); i++ {
				if slices.Equal(text[i:i+len(q)], q) {
					mark(i, i+len(q), "class:search")
				}
			}
		}
	}

	styles := make([]core.Style, len(specs))
	for i, spec := range specs {
		styles[i] = ctx.Styles.Resolve(strings.TrimSpace(spec))
	}
	return styles
}
