package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/promptline/internal/config"
	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/document"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/bindings"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/renderer/core"
)

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	s, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func prompt(t *testing.T, s *Session) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Prompt(ctx)
}

func TestPromptAccept(t *testing.T) {
	var out bytes.Buffer
	s := newSession(t, Options{
		Input:  strings.NewReader("hello\r"),
		Output: &out,
		Prompt: "> ",
	})

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Contains(t, out.String(), "> ")
	assert.Contains(t, out.String(), "hello")
	assert.Equal(t, uint64(1), s.Metrics().Snapshot().Prompts)
	assert.NotZero(t, s.Metrics().Snapshot().FrameCount)
}

func TestPromptOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"abort", "abc\x03", "", ErrAborted},
		{"end of input", "", "", ErrEOF},
		{"exit on empty line", "\x04", "", ErrEOF},
		{"partial line then end of input", "abc", "", ErrEOF},
		{"backspace", "abx\x7fc\r", "abc", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, Options{Input: strings.NewReader(tt.input)})
			got, err := prompt(t, s)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptTypeahead(t *testing.T) {
	s := newSession(t, Options{Input: strings.NewReader("one\rtwo\r")})

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "one", got)

	got, err = prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "two", got)

	_, err = prompt(t, s)
	assert.ErrorIs(t, err, ErrEOF)
}

func TestPromptDefault(t *testing.T) {
	s := newSession(t, Options{Input: strings.NewReader("!\r"), Default: "hi"})
	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "hi!", got)
}

func TestPromptViMode(t *testing.T) {
	cfg := config.Default()
	cfg.Editing.Mode = "vi"
	s := newSession(t, Options{Config: cfg, Input: strings.NewReader("hello\x1b0iX\r")})

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "Xhello", got)
}

func TestPromptViUndoInsertSession(t *testing.T) {
	cfg := config.Default()
	cfg.Editing.Mode = "vi"
	s := newSession(t, Options{Config: cfg, Input: strings.NewReader("x\rab\x1buAq\rab\x1bAcd\x1bu\r")})

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	got, err = prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "q", got)

	got, err = prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
}

func TestPromptValidation(t *testing.T) {
	validator := buffer.ValidatorFunc(func(doc document.Document) error {
		if doc.Text() == "bad" {
			return errors.New("not allowed")
		}
		return nil
	})
	s := newSession(t, Options{
		Input:     strings.NewReader("bad\r\x7f\x7f\x7fok\r"),
		Validator: validator,
	})

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestPromptCompletion(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	completer := buffer.CompleterFunc(func(ctx context.Context, doc document.Document, ev buffer.CompleteEvent) iter.Seq2[buffer.Completion, error] {
		if doc.TextBeforeCursor() != "he" || !ev.CompletionRequested {
			return buffer.Candidates()
		}
		return buffer.Candidates(buffer.Completion{Text: "hello", StartPosition: -2})
	})
	s := newSession(t, Options{Input: r, Completer: completer})

	applied := make(chan struct{})
	var once sync.Once
	s.Buffer().OnChange(func(b *buffer.Buffer) {
		if b.Text() == "hello" {
			once.Do(func() { close(applied) })
		}
	})

	go func() {
		_, _ = w.Write([]byte("he\t"))
		select {
		case <-applied:
			_, _ = w.Write([]byte("\r"))
		case <-time.After(5 * time.Second):
		}
	}()

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, uint64(1), s.Metrics().Snapshot().Completions)
}

// typeUntil writes first, waits for ready, then writes rest.
func typeUntil(w io.Writer, first string, ready func() bool, rest string) {
	_, _ = w.Write([]byte(first))
	deadline := time.Now().Add(5 * time.Second)
	for !ready() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	_, _ = w.Write([]byte(rest))
}

func TestPromptCompletionFailures(t *testing.T) {
	tests := []struct {
		name      string
		completer buffer.CompleterFunc
	}{
		{"error", func(context.Context, document.Document, buffer.CompleteEvent) iter.Seq2[buffer.Completion, error] {
			return buffer.Failed(errors.New("backend down"))
		}},
		{"panic", func(context.Context, document.Document, buffer.CompleteEvent) iter.Seq2[buffer.Completion, error] {
			panic("completer bug")
		}},
		{"panic while iterating", func(context.Context, document.Document, buffer.CompleteEvent) iter.Seq2[buffer.Completion, error] {
			return func(yield func(buffer.Completion, error) bool) {
				if yield(buffer.Completion{Text: "hello", StartPosition: -2}, nil) {
					panic("completer bug")
				}
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, w := io.Pipe()
			defer w.Close()
			s := newSession(t, Options{Input: r, Completer: tt.completer})

			go typeUntil(w, "he\t", func() bool {
				return s.Metrics().Snapshot().CompletionsFailed == 1
			}, "y\r")

			got, err := prompt(t, s)
			require.NoError(t, err)
			assert.Equal(t, "hey", got)
			snap := s.Metrics().Snapshot()
			assert.Equal(t, uint64(1), snap.CompletionsFailed)
			assert.Zero(t, snap.CompletionsStale)
		})
	}
}

func TestPromptStaleCompletionDropped(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	release := make(chan struct{})
	completer := buffer.CompleterFunc(func(ctx context.Context, _ document.Document, _ buffer.CompleteEvent) iter.Seq2[buffer.Completion, error] {
		return func(yield func(buffer.Completion, error) bool) {
			select {
			case <-release:
			case <-ctx.Done():
				return
			}
			yield(buffer.Completion{Text: "hello", StartPosition: -2}, nil)
		}
	})
	s := newSession(t, Options{Input: r, Completer: completer})

	var once sync.Once
	s.Buffer().OnChange(func(b *buffer.Buffer) {
		if b.Text() == "hey" {
			once.Do(func() { close(release) })
		}
	})

	go typeUntil(w, "he\ty", func() bool {
		return s.Metrics().Snapshot().CompletionsStale == 1
	}, "\r")

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "hey", got)
	snap := s.Metrics().Snapshot()
	assert.Equal(t, uint64(1), snap.CompletionsStale)
	assert.Zero(t, snap.CompletionsFailed)
	assert.Nil(t, s.Buffer().Completion())
}

func TestPromptCompletionInfiniteSource(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	completer := buffer.CompleterFunc(func(ctx context.Context, _ document.Document, _ buffer.CompleteEvent) iter.Seq2[buffer.Completion, error] {
		return func(yield func(buffer.Completion, error) bool) {
			for i := 0; ; i++ {
				if !yield(buffer.Completion{Text: fmt.Sprintf("he%d", i), StartPosition: -2}, nil) {
					return
				}
			}
		}
	})
	s := newSession(t, Options{Input: r, Completer: completer, MaxCompletions: 3})

	go typeUntil(w, "he\t", func() bool {
		return s.Metrics().Snapshot().Completions == 1
	}, "\r\r")

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "he0", got)
}

func TestPromptContextCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	s := newSession(t, Options{Input: r})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Prompt(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPromptAfterClose(t *testing.T) {
	s := newSession(t, Options{Input: strings.NewReader("x\r")})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := prompt(t, s)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPromptCustomBindingAndAction(t *testing.T) {
	kb, err := keymap.New("<C-t>", "test.shout", 0)
	require.NoError(t, err)
	s := newSession(t, Options{
		Input:    strings.NewReader("abc\x14\r"),
		Bindings: []keymap.Binding{kb.WithPriority(10)},
		Actions: map[string]input.ActionFunc{
			"test.shout": func(ev *input.Event) error {
				return ev.Buffer.Insert("!")
			},
		},
	})

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "abc!", got)
}

func TestPromptLuaPlugin(t *testing.T) {
	s := newSession(t, Options{Input: strings.NewReader("abc\x18u\r")})
	require.NoError(t, s.Plugins().LoadString("shout", `
local pl = require("promptline")
pl.action("shout", function(ev)
  pl.set_text(string.upper(pl.text()))
end)
pl.bind("C-x u", "shout", { mode = "emacs", priority = 10 })
`))

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "ABC", got)
}

func TestPromptFullscreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(20, 5)

	s := newSession(t, Options{Screen: screen, Prompt: "$ "})
	screen.InjectKey(tcell.KeyRune, 'h', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'i', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	got, err := prompt(t, s)
	require.NoError(t, err)
	assert.Equal(t, "hi", got)

	cells, _, _ := screen.GetContents()
	var row strings.Builder
	for _, c := range cells[:4] {
		row.WriteString(string(c.Runes))
	}
	assert.Equal(t, "$ hi", row.String())
}

func hasBinding(reg *keymap.Registry, keys, action string) bool {
	for _, b := range reg.Bindings() {
		if b.Action == action && b.Keys.String() == keys {
			return true
		}
	}
	return false
}

func TestApplyConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Bindings = []config.BindingConfig{{Keys: "C-x a", Action: bindings.ActionAbort, Mode: "emacs"}}
	s := newSession(t, Options{Config: cfg})

	first, err := cfg.Bindings[0].Compile()
	require.NoError(t, err)
	keys := first.Keys.String()
	require.True(t, hasBinding(s.Registry(), keys, bindings.ActionAbort))
	before := len(s.Registry().Bindings())

	next := config.Default()
	next.Styles = map[string]string{"prompt": "italic"}
	next.Bindings = []config.BindingConfig{{Keys: "C-x a", Action: bindings.ActionAccept, Mode: "emacs"}}
	require.NoError(t, s.applyConfig(next))

	assert.False(t, hasBinding(s.Registry(), keys, bindings.ActionAbort))
	assert.True(t, hasBinding(s.Registry(), keys, bindings.ActionAccept))
	assert.Len(t, s.Registry().Bindings(), before)

	want, err := core.NewStyleSheet(map[string]string{"prompt": "italic"})
	require.NoError(t, err)
	assert.Equal(t, want.Resolve("class:prompt"), s.styles.Resolve("class:prompt"))
}

func TestApplyConfigRejectsBadStyles(t *testing.T) {
	s := newSession(t, Options{})
	before := s.styles.Resolve("class:prompt")

	next := config.Default()
	next.Styles = map[string]string{"prompt": "fg:nosuchcolor"}
	assert.Error(t, s.applyConfig(next))
	assert.Equal(t, before, s.styles.Resolve("class:prompt"))
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Editing.Mode = "ed"
	_, err := New(Options{Config: cfg})
	var ierr *InitError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "mode", ierr.Component)
}

func TestTerminalError(t *testing.T) {
	cause := errors.New("broken pipe")
	err := terminalError("write output", cause)
	assert.ErrorIs(t, err, ErrTerminal)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "write output")

	sig := NewOperationError("signal", "terminated", ErrTerminated)
	assert.ErrorIs(t, sig, ErrTerminated)
	assert.NotErrorIs(t, sig, ErrTerminal)
	assert.Equal(t, "signal terminated: terminated by signal", sig.Error())
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "promptline.log")
	logger, closeLog, err := NewLogger(cfg)
	require.NoError(t, err)
	logger.Info("hello %s", "log")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello log")
}
