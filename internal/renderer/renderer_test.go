package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/promptline/internal/renderer/backend"
	"github.com/dshills/promptline/internal/renderer/core"
	"github.com/dshills/promptline/internal/renderer/layout"
)

// frame is a container painting fixed lines and a cursor.
type frame struct {
	lines  []string
	style  core.Style
	cursor core.Point
	hidden bool
}

func (f *frame) PreferredWidth(*layout.Context, int) layout.Dimension {
	return layout.Exact(10)
}

func (f *frame) PreferredHeight(*layout.Context, int, int) layout.Dimension {
	return layout.Exact(len(f.lines))
}

func (f *frame) WriteTo(_ *layout.Context, s *core.Screen, r core.Rect) {
	for i, line := range f.lines {
		if i >= r.Height {
			break
		}
		s.WriteString(r.Row+i, r.Col, line, f.style)
	}
	s.SetCursor(f.cursor)
	s.SetCursorVisible(!f.hidden)
}

func newFrame(cursor core.Point, lines ...string) *frame {
	return &frame{lines: lines, style: core.DefaultStyle(), cursor: cursor}
}

var size = core.Size{Rows: 5, Cols: 10}

func TestRenderFirstFrame(t *testing.T) {
	r := New(Options{})
	cmds := r.Render(newFrame(core.Point{Row: 1, Col: 2}, "ab", "cd"), size)

	def := core.DefaultStyle()
	assert.Equal(t, []Command{
		Clear{Rect: core.Rect{Height: 2, Width: 10}},
		MoveCursor{Row: 0, Col: 0},
		Write{Text: "ab", Style: def},
		MoveCursor{Row: 1, Col: 0},
		Write{Text: "cd", Style: def},
		MoveCursor{Row: 1, Col: 2},
		ShowCursor{},
	}, cmds)
	assert.Equal(t, 2, r.Height())
}

func TestRenderUnchangedIsEmpty(t *testing.T) {
	r := New(Options{})
	f := newFrame(core.Point{Col: 2}, "ab")
	r.Render(f, size)
	assert.Empty(t, r.Render(f, size))
	assert.Empty(t, r.Render(f, size))
	assert.Equal(t, uint64(3), r.Frames())
}

func TestRenderChangedCell(t *testing.T) {
	r := New(Options{})
	r.Render(newFrame(core.Point{Row: 1, Col: 2}, "ab", "cd"), size)
	cmds := r.Render(newFrame(core.Point{Row: 1, Col: 2}, "aX", "cd"), size)
	assert.Equal(t, []Command{
		MoveCursor{Row: 0, Col: 1},
		Write{Text: "X", Style: core.DefaultStyle()},
		MoveCursor{Row: 1, Col: 2},
	}, cmds)
}

func TestRenderCursorOnly(t *testing.T) {
	r := New(Options{})
	r.Render(newFrame(core.Point{Col: 2}, "ab"), size)
	cmds := r.Render(newFrame(core.Point{Col: 1}, "ab"), size)
	assert.Equal(t, []Command{MoveCursor{Row: 0, Col: 1}}, cmds)

	f := newFrame(core.Point{Col: 1}, "ab")
	f.hidden = true
	assert.Equal(t, []Command{HideCursor{}}, r.Render(f, size))
	f.hidden = false
	assert.Equal(t, []Command{MoveCursor{Row: 0, Col: 1}, ShowCursor{}}, r.Render(f, size))
}

func TestRenderHiddenCursorFirstFrame(t *testing.T) {
	r := New(Options{})
	f := newFrame(core.Point{}, "ab")
	f.hidden = true
	cmds := r.Render(f, size)
	require.NotEmpty(t, cmds)
	assert.Equal(t, HideCursor{}, cmds[len(cmds)-1])
}

func TestRenderStyleRuns(t *testing.T) {
	bold := core.DefaultStyle().With(core.AttrBold)
	tree := layout.NewWindow(layout.NewTokensControl(func() layout.Fragments {
		return layout.Fragments{{Style: "bold", Text: "ab"}, {Text: "cd"}}
	}))
	r := New(Options{})
	cmds := r.Render(tree, size)
	require.Len(t, cmds, 5)
	assert.Equal(t, MoveCursor{Row: 0, Col: 0}, cmds[1])
	assert.Equal(t, Write{Text: "ab", Style: bold}, cmds[2])
	assert.Equal(t, Write{Text: "cd", Style: core.DefaultStyle()}, cmds[3])
	assert.Equal(t, HideCursor{}, cmds[4])
}

func TestRenderWideCharacters(t *testing.T) {
	r := New(Options{})
	r.Render(newFrame(core.Point{Col: 4}, "ab"), size)
	cmds := r.Render(newFrame(core.Point{Col: 4}, "中"), size)
	assert.Equal(t, []Command{
		MoveCursor{Row: 0, Col: 0},
		Write{Text: "中", Style: core.DefaultStyle()},
		MoveCursor{Row: 0, Col: 4},
	}, cmds)

	cmds = r.Render(newFrame(core.Point{Col: 4}, "中x"), size)
	assert.Equal(t, []Command{
		MoveCursor{Row: 0, Col: 2},
		Write{Text: "x", Style: core.DefaultStyle()},
		MoveCursor{Row: 0, Col: 4},
	}, cmds)
}

func TestRenderShrinkClearsRows(t *testing.T) {
	r := New(Options{})
	r.Render(newFrame(core.Point{}, "ab", "cd", "ef"), size)
	cmds := r.Render(newFrame(core.Point{}, "ab"), size)
	assert.Equal(t, []Command{
		Clear{Rect: core.Rect{Row: 1, Height: 2, Width: 10}},
		MoveCursor{Row: 0, Col: 0},
	}, cmds)
	assert.Equal(t, 1, r.Height())
}

func TestRenderResizeRepaints(t *testing.T) {
	r := New(Options{})
	f := newFrame(core.Point{}, "ab")
	r.Render(f, size)
	cmds := r.Render(f, core.Size{Rows: 5, Cols: 20})
	require.NotEmpty(t, cmds)
	assert.Equal(t, Clear{Rect: core.Rect{Height: 1, Width: 20}}, cmds[0])

	r.Invalidate()
	cmds = r.Render(f, core.Size{Rows: 5, Cols: 20})
	require.NotEmpty(t, cmds)
	assert.IsType(t, Clear{}, cmds[0])
}

func TestRenderFullscreen(t *testing.T) {
	r := New(Options{Fullscreen: true})
	r.Render(newFrame(core.Point{}, "ab"), size)
	assert.Equal(t, size.Rows, r.Height())
}

func TestRenderZeroSize(t *testing.T) {
	r := New(Options{})
	assert.Nil(t, r.Render(newFrame(core.Point{}, "ab"), core.Size{}))
}

func TestApplyToRecorder(t *testing.T) {
	rec := backend.NewRecorder(size)
	r := New(Options{})

	require.NoError(t, Apply(rec, r.Render(newFrame(core.Point{Row: 1, Col: 1}, "hello", "world"), size)))
	assert.Equal(t, "hello\nworld\n\n\n", rec.String())

	require.NoError(t, Apply(rec, r.Render(newFrame(core.Point{Row: 0, Col: 3}, "help"), size)))
	assert.Equal(t, "help\n\n\n\n", rec.String())
	pos, visible := rec.Cursor()
	assert.Equal(t, core.Point{Row: 0, Col: 3}, pos)
	assert.True(t, visible)
	assert.Equal(t, 2, rec.Flushes())
}

func TestFinishResets(t *testing.T) {
	rec := backend.NewRecorder(size)
	r := New(Options{})
	f := newFrame(core.Point{}, "ab")
	require.NoError(t, Apply(rec, r.Render(f, size)))
	require.NoError(t, r.Finish(rec))
	assert.Nil(t, r.Screen())

	cmds := r.Render(f, size)
	require.NotEmpty(t, cmds)
	assert.IsType(t, Clear{}, cmds[0])
	assert.Equal(t, ShowCursor{}, cmds[len(cmds)-1])
}
