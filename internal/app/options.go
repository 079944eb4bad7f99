package app

import (
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/promptline/internal/config"
	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/logging"
	"github.com/dshills/promptline/internal/renderer/core"
	"github.com/dshills/promptline/internal/renderer/layout"
	"github.com/dshills/promptline/internal/terminal"
)

// DefaultSize is used when the terminal size cannot be read.
var DefaultSize = core.Size{Rows: 24, Cols: 80}

// Options configures a Session.
type Options struct {
	// Config holds the settings. Nil means config.Default().
	Config *config.Config

	// ConfigOptions are passed to config.Load when the watched file is
	// reloaded.
	ConfigOptions []config.Option

	// WatchConfig reloads styles, timeouts and bindings when the config
	// file changes. It needs a Config loaded from a file.
	WatchConfig bool

	// Prompt is shown before the first line.
	Prompt string

	// Continuation is shown before the other lines. Empty means blanks
	// as wide as the prompt.
	Continuation string

	// Default is the text each prompt starts with.
	Default string

	Completer buffer.Completer
	// MaxCompletions caps the candidates pulled from Completer per
	// request. Zero means DefaultMaxCompletions.
	MaxCompletions int

	Validator buffer.Validator
	Checker   buffer.CompletenessChecker
	Lexer     layout.Lexer

	// BottomToolbar, when set, is drawn below the input.
	BottomToolbar func() layout.Fragments

	// Terminal is the controlling terminal. When set the session reads
	// from and draws on it, enters raw mode and watches signals.
	Terminal *terminal.Terminal

	// Input and Output are used instead of a terminal, as in tests and
	// when stdin is a pipe.
	Input  io.Reader
	Output io.Writer

	// Screen draws through tcell instead of escape sequences. When nil
	// a tcell screen is opened for fullscreen configs with a Terminal.
	Screen tcell.Screen

	// Size is the terminal size when it cannot be queried.
	Size core.Size

	// Bindings and Actions extend the defaults. Later bindings win.
	Bindings []keymap.Binding
	Actions  map[string]input.ActionFunc

	Logger *logging.Logger
}

func (o Options) continuation(promptWidth int) layout.Fragments {
	if o.Continuation != "" {
		return layout.Fragments{{Style: "class:continuation", Text: o.Continuation}}
	}
	if promptWidth == 0 {
		return nil
	}
	return layout.Fragments{{Style: "class:continuation", Text: strings.Repeat(" ", promptWidth)}}
}
