package renderer

import (
	"sync"

	"github.com/dshills/promptline/internal/renderer/backend"
	"github.com/dshills/promptline/internal/renderer/core"
	"github.com/dshills/promptline/internal/renderer/layout"
)

// Options configures a Renderer.
type Options struct {
	// Fullscreen paints every row of the terminal. Otherwise the frame
	// is as tall as the layout prefers, capped at the terminal height.
	Fullscreen bool

	// Styles resolves style classes. Nil means the default style sheet.
	Styles *core.StyleSheet
}

// Renderer paints layout trees and diffs them against the last frame.
type Renderer struct {
	mu   sync.Mutex
	opts Options
	ctx  *layout.Context

	prev *core.Screen
	size core.Size

	// cursorKnown is false until the terminal's cursor visibility has
	// been set by a frame.
	cursorKnown   bool
	cursorVisible bool
	cursor        core.Point

	frames uint64
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts, ctx: layout.NewContext(opts.Styles)}
}

// SetStyles replaces the style sheet and forces a full repaint.
func (r *Renderer) SetStyles(styles *core.StyleSheet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.Styles = styles
	r.ctx = layout.NewContext(styles)
	r.prev = nil
}

// Context returns the paint context used for layout.
func (r *Renderer) Context() *layout.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx
}

// Render paints tree for a terminal of the given size and returns the
// commands that bring the terminal from the previous frame to this one.
// The first frame, and the first after a resize or Invalidate, clears
// the drawing area and paints everything.
func (r *Renderer) Render(tree layout.Container, size core.Size) []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	if size.Rows <= 0 || size.Cols <= 0 {
		return nil
	}

	height := size.Rows
	if !r.opts.Fullscreen {
		height = min(tree.PreferredHeight(r.ctx, size.Cols, size.Rows).Preferred, size.Rows)
	}
	cur := core.NewScreen(size.Cols, height)
	tree.WriteTo(r.ctx, cur, core.Rect{Height: height, Width: size.Cols})

	cmds := r.diff(cur, size)
	r.prev = cur
	r.size = size
	r.frames++
	return cmds
}

func (r *Renderer) diff(cur *core.Screen, size core.Size) []Command {
	var cmds []Command
	prev := r.prev
	if prev == nil || r.size != size {
		rows := cur.Height()
		if prev != nil {
			rows = min(max(rows, prev.Height()), size.Rows)
		}
		if rows > 0 {
			cmds = append(cmds, Clear{Rect: core.Rect{Height: rows, Width: size.Cols}})
		}
		prev = core.NewScreen(size.Cols, cur.Height())
	}

	for row := range cur.Height() {
		cmds = diffRow(cmds, row, prev.Row(row), cur.Row(row))
	}
	if prev.Height() > cur.Height() {
		cmds = append(cmds, Clear{Rect: core.Rect{
			Row:    cur.Height(),
			Height: prev.Height() - cur.Height(),
			Width:  size.Cols,
		}})
	}
	return r.cursorCommands(cmds, cur)
}

// cursorCommands appends cursor placement and visibility changes. The
// cursor is placed again after any write, since writing moves it.
func (r *Renderer) cursorCommands(cmds []Command, cur *core.Screen) []Command {
	wrote := len(cmds) > 0
	pos := cur.Cursor()
	if cur.CursorVisible() {
		if wrote || !r.cursorKnown || !r.cursorVisible || pos != r.cursor {
			cmds = append(cmds, MoveCursor{Row: pos.Row, Col: pos.Col})
		}
		if !r.cursorKnown || !r.cursorVisible {
			cmds = append(cmds, ShowCursor{})
		}
	} else if !r.cursorKnown || r.cursorVisible {
		cmds = append(cmds, HideCursor{})
	}
	r.cursorKnown = true
	r.cursorVisible = cur.CursorVisible()
	r.cursor = pos
	return cmds
}

// diffRow appends the commands that turn old into cur. Each maximal span
// of differing cells gets one cursor move and one write per style run.
func diffRow(cmds []Command, row int, old, cur []core.Cell) []Command {
	same := func(col int) bool {
		return col < len(old) && old[col].Equals(cur[col])
	}
	for col := 0; col < len(cur); {
		if same(col) {
			col++
			continue
		}
		start := col
		for col < len(cur) && !same(col) {
			col++
		}
		// A span must begin at the left half of a wide character.
		for start > 0 && cur[start].IsContinuation() {
			start--
		}
		cmds = append(cmds, MoveCursor{Row: row, Col: start})
		cmds = appendRuns(cmds, cur[start:col])
	}
	return cmds
}

// appendRuns appends one Write per run of equally styled cells.
func appendRuns(cmds []Command, cells []core.Cell) []Command {
	var (
		text  []byte
		style core.Style
		open  bool
	)
	for _, c := range cells {
		if c.IsContinuation() {
			continue
		}
		if open && !c.Style.Equals(style) {
			cmds = append(cmds, Write{Text: string(text), Style: style})
			text = text[:0]
		}
		text = append(text, c.Text...)
		style = c.Style
		open = true
	}
	if open {
		cmds = append(cmds, Write{Text: string(text), Style: style})
	}
	return cmds
}

// Invalidate forgets the previous frame so the next Render repaints
// everything.
func (r *Renderer) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prev = nil
}

// Reset forgets the previous frame and the cursor state, for when the
// terminal was used by something else in between.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prev = nil
	r.cursorKnown = false
}

// Finish moves an inline output below the last frame and resets the
// renderer so the next frame starts on a fresh line.
func (r *Renderer) Finish(out backend.Output) error {
	r.mu.Lock()
	rows := 0
	if r.prev != nil {
		rows = r.prev.Height()
	}
	r.mu.Unlock()

	var err error
	if f, ok := out.(backend.Finisher); ok {
		err = f.Finish(rows)
	} else {
		err = out.Flush()
	}
	r.Reset()
	return err
}

// Screen returns the last painted frame, or nil before the first.
func (r *Renderer) Screen() *core.Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prev
}

// Height returns the number of rows of the last frame.
func (r *Renderer) Height() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prev == nil {
		return 0
	}
	return r.prev.Height()
}

// Frames returns the number of frames rendered.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}
