package bindings

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/document"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/decode"
	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/macro"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/loop"
)

// testHost records session requests and maps screen cells to offsets as if
// the buffer were drawn at the top left corner.
type testHost struct {
	buf         *buffer.Buffer
	accepted    int
	aborted     int
	exited      int
	invalidated int
	completes   []bool
}

func (h *testHost) Accept()           { h.accepted++ }
func (h *testHost) Abort()            { h.aborted++ }
func (h *testHost) Exit()             { h.exited++ }
func (h *testHost) Suspend()          {}
func (h *testHost) Complete(fwd bool) { h.completes = append(h.completes, fwd) }
func (h *testHost) Invalidate()       { h.invalidated++ }
func (h *testHost) ClearScreen()      {}
func (h *testHost) OffsetAt(row, col int) (int, bool) {
	doc := h.buf.Document()
	if row >= doc.LineCount() {
		return 0, false
	}
	return doc.Index(row, col), true
}

type session struct {
	buf   *buffer.Buffer
	clip  *buffer.MemoryClipboard
	macro *macro.Recorder
	modes *mode.Manager
	sched *loop.Manual
	host  *testHost
	reg   *keymap.Registry
	acts  *input.Actions
	undo  *InsertUndo
	p     *input.Processor
}

func newSession(t *testing.T, m mode.Mode, text string, cursor int, opts ...buffer.Option) *session {
	t.Helper()
	s := &session{
		buf:   buffer.New(append([]buffer.Option{buffer.WithText(text)}, opts...)...),
		clip:  buffer.NewMemoryClipboard(0),
		macro: macro.NewRecorder(),
		modes: mode.NewManager(m),
		sched: loop.NewManual(),
		reg:   keymap.NewRegistry(),
		acts:  input.NewActions(),
	}
	s.buf.SetCursor(cursor)
	s.host = &testHost{buf: s.buf}
	require.NoError(t, Install(s.reg, s.acts))
	s.undo = TrackInsertUndo(s.modes, s.buf)
	s.p = input.New(s.reg, s.acts, s.modes,
		input.WithScheduler(s.sched),
		input.WithEnv(input.Env{Buffer: s.buf, Clipboard: s.clip, Host: s.host, Macros: s.macro}),
	)
	return s
}

func (s *session) feed(keys string) input.Outcome {
	return s.p.FeedAll(key.MustParseSequence(keys)...)
}

func (s *session) state() (string, int) {
	return s.buf.Text(), s.buf.Cursor()
}

func TestDecodedViScenario(t *testing.T) {
	s := newSession(t, mode.ViNavigation, "", 0)
	d := decode.New()

	s.p.FeedAll(d.Feed([]byte("\x1b[A"))...)
	s.p.FeedAll(d.Feed([]byte("ihello"))...)
	// A lone ESC is held until the decoder times out.
	s.p.FeedAll(d.Feed([]byte("\x1b"))...)
	s.p.FeedAll(d.Flush()...)
	s.p.FeedAll(d.Feed([]byte("0"))...)

	text, cursor := s.state()
	assert.Equal(t, "hello", text)
	assert.Equal(t, 0, cursor)
	assert.Equal(t, mode.ViNavigation, s.modes.Current())
}

func TestEscapeDigitInOneChunk(t *testing.T) {
	s := newSession(t, mode.ViInsert, "", 0)
	d := decode.New()

	// ESC 0 in one read decodes as Alt-0, which insert mode splits again.
	s.p.FeedAll(d.Feed([]byte("hello\x1b0"))...)
	s.p.FeedAll(d.Flush()...)

	text, cursor := s.state()
	assert.Equal(t, "hello", text)
	assert.Equal(t, 0, cursor)
	assert.Equal(t, mode.ViNavigation, s.modes.Current())
}

func TestDeleteThreeLines(t *testing.T) {
	s := newSession(t, mode.ViNavigation, "one\ntwo\nthree\nfour\nfive", 0)

	out := s.feed("3 d d")
	require.Equal(t, input.Executed, out.Kind)
	assert.Equal(t, 3, out.Count)

	text, cursor := s.state()
	assert.Equal(t, "four\nfive", text)
	assert.Equal(t, 0, cursor)
	assert.Equal(t, buffer.ClipboardData{Text: "one\ntwo\nthree", Type: document.SelectLines}, s.clip.Get())

	s.feed("u")
	assert.Equal(t, "one\ntwo\nthree\nfour\nfive", s.buf.Text())
	s.feed("<C-r>")
	assert.Equal(t, "four\nfive", s.buf.Text())
}

func TestFirstLineAmbiguity(t *testing.T) {
	s := newSession(t, mode.ViNavigation, "a\nb\nc", 4)
	var ran int
	s.acts.Register("test.g", func(*input.Event) error {
		ran++
		return nil
	})
	require.NoError(t, s.reg.Add(bind("g", "test.g", navigation)))

	assert.Equal(t, input.Pending, s.feed("g").Kind)
	s.sched.Advance(499 * time.Millisecond)
	assert.Equal(t, 0, ran)
	s.sched.Advance(time.Millisecond)
	assert.Equal(t, 1, ran)
	assert.Equal(t, 4, s.buf.Cursor())

	s.feed("g")
	s.sched.Advance(100 * time.Millisecond)
	out := s.feed("g")
	require.Equal(t, input.Executed, out.Kind)
	assert.Equal(t, ActionViMotion, out.Binding.Action)
	assert.Equal(t, 0, s.buf.Cursor())

	s.sched.Advance(time.Second)
	assert.Equal(t, 1, ran)
}

func TestOperatorWaitsForMotion(t *testing.T) {
	s := newSession(t, mode.ViNavigation, "one two", 0)

	assert.Equal(t, input.Pending, s.feed("d").Kind)
	assert.Equal(t, 0, s.sched.ActiveTimers())
	s.sched.Advance(time.Hour)
	s.feed("w")
	assert.Equal(t, "two", s.buf.Text())
}

func TestEmacsEditing(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     int
		keys       string
		wantText   string
		wantCursor int
	}{
		{"self insert", "", 0, "h i", "hi", 2},
		{"line start", "abc", 3, "<C-a>", "abc", 0},
		{"line end", "abc", 0, "<C-e>", "abc", 3},
		{"back and forward", "abc", 1, "<C-b> <C-f> <C-f>", "abc", 2},
		{"backspace", "abc", 3, "<BS>", "ab", 2},
		{"delete", "abc", 0, "<C-d>", "bc", 0},
		{"kill line", "hello world", 5, "<C-k>", "hello", 5},
		{"kill newline at line end", "ab\ncd", 2, "<C-k>", "abcd", 2},
		{"kill line before", "hello world", 6, "<C-u>", "world", 0},
		{"unix word rubout", "foo-bar baz", 11, "<C-w> <C-w>", "", 0},
		{"kill word before", "foo-bar", 7, "<A-BS>", "foo-", 4},
		{"kill word", "hello world", 0, "<A-d>", " world", 0},
		{"word forward", "hello world", 0, "<A-f>", "hello world", 5},
		{"escape word forward", "hello world", 0, "<Esc> f", "hello world", 5},
		{"word backward", "hello world", 11, "<A-b>", "hello world", 6},
		{"upcase word", "hello world", 0, "<A-u>", "HELLO world", 5},
		{"downcase word", "HELLO", 0, "<Esc> l", "hello", 5},
		{"capitalize word", "hello world", 6, "<A-c>", "hello World", 11},
		{"transpose", "ab", 2, "<C-t>", "ba", 2},
		{"transpose inside", "abc", 1, "<C-t>", "bac", 2},
		{"kill and yank", "foo bar", 7, "<C-w> <C-y>", "foo bar", 7},
		{"yank pop", "one two", 7, "<C-w> <C-w> <C-y> <A-y>", "two", 3},
		{"buffer start and end", "a\nb", 1, "<Esc> <lt> x <Esc> > y", "xa\nby", 5},
		{"undo", "abc", 3, "d <C-_>", "abc", 3},
		{"newline", "ab", 1, "<C-j>", "a\nb", 2},
		{"unbound control key", "ab", 2, "<C-g>", "ab", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, mode.Emacs, tt.text, tt.cursor)
			s.feed(tt.keys)
			text, cursor := s.state()
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantCursor, cursor)
		})
	}
}

func TestViEditing(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     int
		keys       string
		wantText   string
		wantCursor int
		wantMode   mode.Mode
	}{
		{"delete word", "hello world", 0, "d w", "world", 0, mode.ViNavigation},
		{"change word", "hello world", 0, "c w b y e <Esc>", "bye world", 2, mode.ViNavigation},
		{"change word stays in insert", "hello world", 0, "c w", " world", 0, mode.ViInsert},
		{"delete char", "hello", 0, "x", "ello", 0, mode.ViNavigation},
		{"delete chars with count", "hello", 0, "3 x", "lo", 0, mode.ViNavigation},
		{"delete char before", "hello", 4, "X", "helo", 3, mode.ViNavigation},
		{"delete to end", "hello world", 6, "D", "hello ", 5, mode.ViNavigation},
		{"delete to line end", "hello world", 0, "d $", "", 0, mode.ViNavigation},
		{"substitute", "abc", 0, "s x <Esc>", "xbc", 0, mode.ViNavigation},
		{"join", "a\nb\nc", 0, "J", "a b\nc", 1, mode.ViNavigation},
		{"join count", "a\nb\nc", 0, "3 J", "a b c", 3, mode.ViNavigation},
		{"swap case", "hello", 0, "~ ~", "HEllo", 2, mode.ViNavigation},
		{"replace char", "abc", 0, "r x", "xbc", 0, mode.ViNavigation},
		{"replace mode", "abc", 0, "R x y <Esc>", "xyc", 1, mode.ViNavigation},
		{"append", "ab", 0, "a x <Esc>", "axb", 1, mode.ViNavigation},
		{"append line end", "ab", 0, "A x <Esc>", "abx", 2, mode.ViNavigation},
		{"insert line start", "  ab", 3, "I x", "  xab", 3, mode.ViInsert},
		{"open below", "  foo", 0, "o x <Esc>", "  foo\n  x", 8, mode.ViNavigation},
		{"open above", "foo", 0, "O x <Esc>", "x\nfoo", 0, mode.ViNavigation},
		{"word motion count", "one two", 0, "2 w", "one two", 6, mode.ViNavigation},
		{"find and repeat", "hello", 0, "f l ;", "hello", 3, mode.ViNavigation},
		{"find and reverse", "hello", 0, "f l ; ,", "hello", 2, mode.ViNavigation},
		{"delete to found char", "a,b,c", 0, "d f ,", "b,c", 0, mode.ViNavigation},
		{"delete with two counts", "a b c d e f g", 0, "2 d 2 w", "e f g", 0, mode.ViNavigation},
		{"delete inner parens", "foo(bar)", 5, "d i (", "foo()", 4, mode.ViNavigation},
		{"yank and put before", "one two", 0, "y w P", "one one two", 3, mode.ViNavigation},
		{"yank line and put", "a\nb", 0, "Y p", "a\na\nb", 2, mode.ViNavigation},
		{"indent lines", "a\nb", 0, "2 > >", "    a\n    b", 4, mode.ViNavigation},
		{"upper case word", "abc def", 0, "g U w", "ABC def", 0, mode.ViNavigation},
		{"last line", "a\nb\nc", 0, "G", "a\nb\nc", 4, mode.ViNavigation},
		{"escape at line start", "ab", 0, "i <Esc>", "ab", 0, mode.ViNavigation},
		{"unbound key is dropped", "ab", 0, "Z", "ab", 0, mode.ViNavigation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, mode.ViNavigation, tt.text, tt.cursor)
			s.feed(tt.keys)
			text, cursor := s.state()
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantCursor, cursor)
			assert.Equal(t, tt.wantMode, s.modes.Current())
		})
	}
}

func TestInsertSessionUndoesAsOne(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		keys   string
		want   string
	}{
		{"insert", "", 0, "i a b c <Esc> u", ""},
		{"second session only", "", 0, "i a <Esc> a b c <Esc> u", "a"},
		{"both sessions", "", 0, "i a <Esc> a b c <Esc> u u", ""},
		{"change word", "hello world", 0, "c w b y e <Esc> u", "hello world"},
		{"substitute", "abc", 0, "s x y <Esc> u", "abc"},
		{"open below", "foo", 0, "o b a r <Esc> u", "foo"},
		{"replace mode", "abc", 0, "R x y <Esc> u", "abc"},
		{"visual change", "hello", 0, "v l c x y <Esc> u", "hello"},
		{"redo", "", 0, "i a b <Esc> u <C-r>", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, mode.ViNavigation, tt.text, tt.cursor)
			s.feed(tt.keys)
			assert.Equal(t, tt.want, s.buf.Text())
			assert.Equal(t, mode.ViNavigation, s.modes.Current())
			assert.False(t, s.buf.History().IsGrouping())
		})
	}
}

func TestInsertUndoRestartsAfterReset(t *testing.T) {
	s := newSession(t, mode.ViInsert, "", 0)
	s.feed("a b")
	s.buf.Reset("")
	s.undo.Restart()

	s.feed("x y z <Esc> u")
	assert.Equal(t, "", s.buf.Text())
}

func TestVisualMode(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     int
		keys       string
		wantText   string
		wantCursor int
		wantMode   mode.Mode
	}{
		{"delete characters", "hello", 0, "v l l d", "lo", 0, mode.ViNavigation},
		{"delete lines", "one\ntwo\nthree", 0, "V j d", "three", 0, mode.ViNavigation},
		{"upper case", "hello", 0, "v l U", "HEllo", 0, mode.ViNavigation},
		{"change", "hello", 0, "v l c", "llo", 0, mode.ViInsert},
		{"exit", "hello", 0, "v l <Esc>", "hello", 1, mode.ViNavigation},
		{"toggle off", "hello", 0, "v v", "hello", 0, mode.ViNavigation},
		{"switch to lines", "a\nb", 0, "v V d", "b", 0, mode.ViNavigation},
		{"swap ends", "hello", 0, "v l l o", "hello", 0, mode.ViVisualChar},
		{"inner word", "foo bar", 5, "v i w d", "foo ", 3, mode.ViNavigation},
		{"block delete", "abc\ndef", 0, "<C-v> j l d", "c\nf", 0, mode.ViNavigation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, mode.ViNavigation, tt.text, tt.cursor)
			s.feed(tt.keys)
			text, cursor := s.state()
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantCursor, cursor)
			assert.Equal(t, tt.wantMode, s.modes.Current())
		})
	}
}

func TestVisualYank(t *testing.T) {
	s := newSession(t, mode.ViNavigation, "hello world", 6)
	s.feed("v e y")
	assert.Equal(t, "world", s.clip.Get().Text)
	assert.False(t, s.buf.Document().HasSelection())
	assert.Equal(t, mode.ViNavigation, s.modes.Current())
	assert.Equal(t, 6, s.buf.Cursor())
}

func TestViMacro(t *testing.T) {
	s := newSession(t, mode.ViNavigation, "1\n2\n3\n4", 0)

	s.feed("q a d d q")
	assert.Equal(t, "2\n3\n4", s.buf.Text())
	assert.Equal(t, key.MustParseSequence("d d"), s.macro.Get('a'))

	s.feed("@ a")
	assert.Equal(t, "3\n4", s.buf.Text())
	s.feed("@ @")
	assert.Equal(t, "4", s.buf.Text())
}

func TestEmacsKeyboardMacro(t *testing.T) {
	s := newSession(t, mode.Emacs, "", 0)

	s.feed("<C-x> ( a b <C-x> )")
	assert.Equal(t, "ab", s.buf.Text())
	s.feed("<C-x> e")
	assert.Equal(t, "abab", s.buf.Text())
}

func TestMacroWithoutRecorder(t *testing.T) {
	reg, acts := keymap.NewRegistry(), input.NewActions()
	require.NoError(t, Install(reg, acts))
	buf := buffer.New()
	p := input.New(reg, acts, mode.NewManager(mode.Emacs), input.WithEnv(input.Env{Buffer: buf}))

	p.FeedAll(key.MustParseSequence("<C-x> ( a")...)
	assert.Equal(t, "a", buf.Text())
	assert.Equal(t, uint64(1), p.Metrics().Snapshot().ActionErrors)
}

func TestAcceptAndValidation(t *testing.T) {
	s := newSession(t, mode.Emacs, "ok", 2)
	s.feed("<Enter>")
	assert.Equal(t, 1, s.host.accepted)

	failing := buffer.ValidatorFunc(func(document.Document) error {
		return errors.New("nope")
	})
	s = newSession(t, mode.Emacs, "bad", 3, buffer.WithValidator(failing))
	s.feed("<Enter>")
	assert.Equal(t, 0, s.host.accepted)
	assert.Equal(t, 1, s.host.invalidated)
	assert.Equal(t, "bad", s.buf.Text())

	s = newSession(t, mode.Emacs, "if", 2, buffer.WithMultiline(true),
		buffer.WithCompletenessChecker(buffer.CompletenessFunc(func(string) bool { return false })))
	s.feed("<Enter>")
	assert.Equal(t, 0, s.host.accepted)
	assert.Equal(t, "if\n", s.buf.Text())
}

func TestSessionKeys(t *testing.T) {
	s := newSession(t, mode.ViInsert, "", 0)
	s.feed("<C-d> <C-c>")
	assert.Equal(t, 0, s.host.exited, "C-d is Emacs only")
	assert.Equal(t, 1, s.host.aborted)

	s = newSession(t, mode.Emacs, "", 0)
	s.feed("<C-d>")
	assert.Equal(t, 1, s.host.exited)
}

func TestPasteNormalizes(t *testing.T) {
	s := newSession(t, mode.Emacs, "", 0)
	s.p.Feed(key.NewPasteEvent("a\r\nb\rc e\u0301"))
	assert.Equal(t, "a\nb\nc \u00e9", s.buf.Text())

	s = newSession(t, mode.ViNavigation, "", 0)
	s.p.Feed(key.NewPasteEvent("xyz"))
	text, cursor := s.state()
	assert.Equal(t, "xyz", text)
	assert.Equal(t, 2, cursor)
}

func TestCompletionMenu(t *testing.T) {
	s := newSession(t, mode.Emacs, "f", 1)

	s.feed("<Tab>")
	assert.Equal(t, []bool{true}, s.host.completes)

	s.buf.SetCompletions([]buffer.Completion{
		{Text: "foo", StartPosition: -1},
		{Text: "far", StartPosition: -1},
	})
	s.feed("<Tab>")
	assert.Equal(t, "foo", s.buf.Text())
	s.feed("<Down>")
	assert.Equal(t, "far", s.buf.Text())
	s.feed("<C-p>")
	assert.Equal(t, "foo", s.buf.Text())

	s.feed("<Enter>")
	assert.Equal(t, "foo", s.buf.Text())
	assert.Nil(t, s.buf.Completion())
	assert.Equal(t, 0, s.host.accepted)

	s.buf.SetCompletions([]buffer.Completion{{Text: "foobar", StartPosition: -3}})
	s.feed("<Tab>")
	assert.Equal(t, "foobar", s.buf.Text())
	// Esc also starts meta sequences, so it waits for the ambiguity timer.
	assert.Equal(t, input.Pending, s.feed("<Esc>").Kind)
	s.sched.Advance(500 * time.Millisecond)
	assert.Equal(t, "foo", s.buf.Text())
	assert.Nil(t, s.buf.Completion())
}

func TestMouseGestures(t *testing.T) {
	s := newSession(t, mode.Emacs, "hello world", 0)
	press := key.Event{Key: key.KeyMouse, Mouse: key.Mouse{Button: key.MouseLeft, Action: key.MousePress, Col: 1}}
	release := key.Event{Key: key.KeyMouse, Mouse: key.Mouse{Button: key.MouseLeft, Action: key.MouseRelease, Col: 1}}

	s.p.Feed(press)
	assert.Equal(t, 1, s.buf.Cursor())
	s.p.Feed(release)

	s.p.Feed(press)
	sel, ok := s.buf.Document().Selection()
	require.True(t, ok)
	assert.Equal(t, 0, sel.Anchor)
	assert.Equal(t, 5, s.buf.Cursor())
}

func TestMouseSelectsInVi(t *testing.T) {
	s := newSession(t, mode.ViNavigation, "hello world", 0)
	s.p.Feed(key.Event{Key: key.KeyMouse, Mouse: key.Mouse{Button: key.MouseLeft, Action: key.MousePress, Col: 2}})
	s.p.Feed(key.Event{Key: key.KeyMouse, Mouse: key.Mouse{Button: key.MouseLeft, Action: key.MouseMove, Col: 7}})

	assert.Equal(t, mode.ViVisualChar, s.modes.Current())
	assert.Equal(t, 7, s.buf.Cursor())
	s.feed("d")
	assert.Equal(t, "herld", s.buf.Text())
}

func TestDefaultsHaveActions(t *testing.T) {
	acts := input.NewActions()
	Register(acts)
	for _, b := range Defaults() {
		assert.True(t, acts.Has(b.Action), "no action for %s", b.Action)
	}
	assert.True(t, acts.Has(input.FallbackAction))
}
