package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/promptline/internal/config"
	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/bindings"
	"github.com/dshills/promptline/internal/input/decode"
	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/macro"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/logging"
	"github.com/dshills/promptline/internal/loop"
	"github.com/dshills/promptline/internal/plugin/lua"
	"github.com/dshills/promptline/internal/renderer"
	"github.com/dshills/promptline/internal/renderer/backend"
	"github.com/dshills/promptline/internal/renderer/core"
	"github.com/dshills/promptline/internal/renderer/layout"
	"github.com/dshills/promptline/internal/terminal"
)

// clipboardSize is the number of kills kept for yank-pop.
const clipboardSize = 16

// promptState tracks one Prompt call.
type promptState struct {
	ctx    context.Context
	cancel context.CancelFunc
	begun  bool
	done   bool
	result string
	err    error
}

// Session reads lines from a terminal. A session is reused for any
// number of prompts; each keeps the buffer, bindings and styles of the
// previous one but starts with fresh text.
type Session struct {
	id      string
	opts    Options
	cfg     *config.Config
	logger  *logging.Logger
	metrics *Metrics

	loop      *loop.Loop
	registry  *keymap.Registry
	actions   *input.Actions
	modes     *mode.Manager
	buffer    *buffer.Buffer
	undo      *bindings.InsertUndo
	clipboard *buffer.MemoryClipboard
	macros    *macro.Recorder
	proc      *input.Processor
	decoder   *decode.Decoder

	styles   *core.StyleSheet
	renderer *renderer.Renderer
	plugins  *lua.Host
	layout   layout.Container
	control  *layout.BufferControl

	term    *terminal.Terminal
	raw     *terminal.RawMode
	in      *terminal.Input
	out     backend.Output
	vt      *backend.VT100
	tcell   *backend.Tcell
	signals *terminal.Signals
	watcher *config.Watcher

	// Input read while no prompt runs, replayed by the next prompt.
	readerStarted bool
	backlog       [][]byte
	backlogKeys   []key.Event
	inputErr      error

	active      *promptState
	finishing   bool
	escTimer    loop.Timer
	escGen      uint64
	cancelComp  context.CancelFunc
	cfgBindings []keymap.Binding
	originRow   int
	pasteOn     bool
	mouseOn     bool
	shape       backend.CursorStyle
	shapeKnown  bool

	invalidating atomic.Bool
	closed       atomic.Bool
	busy         atomic.Bool
}

// New creates a session. Plugins that fail to load are logged and
// skipped.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	id := uuid.NewString()
	s := &Session{
		id:        id,
		opts:      opts,
		cfg:       cfg,
		logger:    logger.WithField("session", id),
		metrics:   NewMetrics(),
		registry:  keymap.NewRegistry(),
		actions:   input.NewActions(),
		clipboard: buffer.NewMemoryClipboard(clipboardSize),
		macros:    macro.NewRecorder(),
		decoder:   decode.New(),
		term:      opts.Terminal,
	}
	s.loop = loop.New(loop.WithPanicHandler(func(r any, stack []byte) {
		s.logger.Error("%v", NewRecoveredPanicError(r, string(stack)))
	}))

	styles, err := cfg.StyleSheet()
	if err != nil {
		return nil, &InitError{Component: "styles", Err: err}
	}
	s.styles = styles

	initial, err := cfg.InitialMode()
	if err != nil {
		return nil, &InitError{Component: "mode", Err: err}
	}
	s.modes = mode.NewManager(initial)

	if err := bindings.Install(s.registry, s.actions); err != nil {
		return nil, &InitError{Component: "bindings", Err: err}
	}
	if err := s.installConfigBindings(cfg); err != nil {
		return nil, &InitError{Component: "bindings", Err: err}
	}
	for name, fn := range opts.Actions {
		s.actions.Register(name, fn)
	}
	if err := s.registry.Add(opts.Bindings...); err != nil {
		return nil, &InitError{Component: "bindings", Err: err}
	}

	bopts := cfg.BufferOptions()
	if opts.Validator != nil {
		bopts = append(bopts, buffer.WithValidator(opts.Validator))
	}
	if opts.Checker != nil {
		bopts = append(bopts, buffer.WithCompletenessChecker(opts.Checker))
	}
	s.buffer = buffer.New(bopts...)
	s.buffer.Failure = func(what string, recovered any) {
		s.logger.Warn("%s panicked: %v", what, recovered)
	}
	s.undo = bindings.TrackInsertUndo(s.modes, s.buffer)

	s.proc = input.New(s.registry, s.actions, s.modes,
		input.WithConfig(cfg.InputConfig()),
		input.WithScheduler(s.loop),
		input.WithLogger(s.logger),
		input.WithEnv(input.Env{
			Buffer:    s.buffer,
			Clipboard: s.clipboard,
			Host:      s,
			Macros:    s.macros,
		}),
		input.WithTimeoutHook(func(input.Outcome) { s.render() }),
	)

	s.plugins = lua.NewHost(s.actions, s.registry, s.styles, s.logger)
	if err := s.plugins.LoadAll(cfg.PluginFiles()); err != nil {
		s.logger.Warn("plugins: %v", err)
	}

	if err := s.openOutput(); err != nil {
		s.plugins.Close()
		return nil, &InitError{Component: "output", Err: err}
	}
	s.renderer = renderer.New(renderer.Options{Fullscreen: s.tcell != nil, Styles: s.styles})
	s.layout = s.buildLayout()

	if opts.WatchConfig {
		if err := s.watch(); err != nil {
			s.logger.Warn("config watch: %v", err)
		}
	}
	s.logger.Debug("session started")
	return s, nil
}

func (s *Session) openOutput() error {
	switch {
	case s.opts.Screen != nil:
		s.tcell = backend.NewTcell(s.opts.Screen)
	case s.cfg.Render.Fullscreen && s.term != nil:
		t, err := backend.OpenTcell()
		if err != nil {
			return err
		}
		s.tcell = t
	}
	if s.tcell != nil {
		s.out = s.tcell
		if s.cfg.Render.Mouse {
			s.tcell.EnableMouse()
		}
		go s.pollTcell()
		return nil
	}

	var w io.Writer = io.Discard
	switch {
	case s.opts.Output != nil:
		w = s.opts.Output
	case s.term != nil:
		w = s.term.Out
	}
	s.vt = backend.NewVT100(w, backend.WithColorMode(s.cfg.ColorMode()))
	s.out = s.vt
	return nil
}

// ID returns the session id used in log lines.
func (s *Session) ID() string { return s.id }

// Buffer returns the input buffer.
func (s *Session) Buffer() *buffer.Buffer { return s.buffer }

// Registry returns the key bindings.
func (s *Session) Registry() *keymap.Registry { return s.registry }

// Actions returns the action table.
func (s *Session) Actions() *input.Actions { return s.actions }

// Plugins returns the Lua plugin host.
func (s *Session) Plugins() *lua.Host { return s.plugins }

// Metrics returns the session metrics.
func (s *Session) Metrics() *Metrics { return s.metrics }

// InputMetrics returns the key processor metrics.
func (s *Session) InputMetrics() input.MetricsSnapshot { return s.proc.Metrics().Snapshot() }

// Prompt reads one line. It returns the accepted text, ErrAborted,
// ErrEOF, ErrTerminated, an error matching ErrTerminal, or ctx.Err().
// The terminal is restored before it returns.
func (s *Session) Prompt(ctx context.Context) (string, error) {
	if s.closed.Load() {
		return "", ErrClosed
	}
	if !s.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer s.busy.Store(false)

	if s.inputErr != nil && len(s.backlog) == 0 && len(s.backlogKeys) == 0 {
		return "", s.inputErr
	}

	if err := s.acquire(); err != nil {
		return "", err
	}
	defer s.release()

	pctx, cancel := context.WithCancel(ctx)
	defer cancel()
	st := &promptState{ctx: pctx, cancel: cancel}
	s.loop.CallSoon(func() { s.begin(st) })

	runErr := s.loop.Run(pctx)
	s.end(st)
	if !st.done {
		switch {
		case runErr == nil, errors.Is(runErr, loop.ErrStopped):
			st.err = ErrClosed
		case ctx.Err() != nil:
			st.err = ctx.Err()
		default:
			st.err = runErr
		}
	}
	s.metrics.RecordPrompt()
	return st.result, st.err
}

// begin starts a prompt on the loop.
func (s *Session) begin(st *promptState) {
	if st.ctx.Err() != nil {
		return
	}
	st.begun = true
	s.active = st
	s.finishing = false
	s.buffer.Reset(s.opts.Default)
	if m, err := s.cfg.InitialMode(); err == nil {
		s.modes.Switch(m)
	}
	s.undo.Restart()
	s.proc.Cancel()
	s.control.Focused = true
	s.originRow = 0
	s.enableModes()
	s.render()

	if keys := s.backlogKeys; len(keys) > 0 {
		s.backlogKeys = nil
		s.feedEvents(keys)
	}
	for len(s.backlog) > 0 && s.active == st {
		chunk := s.backlog[0]
		s.backlog = s.backlog[1:]
		s.onInput(chunk, nil)
	}
	if s.active == st && s.inputErr != nil {
		s.feedEvents(s.decoder.Flush())
		s.finish("", s.inputErr)
		return
	}
	s.render()
}

// finish ends the active prompt with a result.
func (s *Session) finish(result string, err error) {
	st := s.active
	if st == nil || st.done {
		return
	}
	st.done = true
	st.result, st.err = result, err
	s.active = nil
	st.cancel()
}

// end draws the final frame and leaves the terminal ready for other
// output.
func (s *Session) end(st *promptState) {
	if s.active == st {
		s.active = nil
	}
	s.stopEscape()
	s.cancelCompletion()
	s.proc.Cancel()
	if !st.begun {
		return
	}

	s.buffer.CancelCompletion(false)
	s.control.Focused = false
	s.finishing = true
	err := s.draw()
	s.finishing = false
	if err == nil {
		err = s.renderer.Finish(s.out)
	}
	s.disableModes()
	if err != nil {
		s.logger.Warn("final frame: %v", err)
		if !st.done {
			st.done = true
			st.err = terminalError("write output", err)
		}
	}
}

// acquire takes the terminal for a prompt.
func (s *Session) acquire() error {
	if s.term != nil && s.tcell == nil {
		if s.raw == nil {
			raw, err := s.term.EnterRaw()
			switch {
			case errors.Is(err, terminal.ErrNotTerminal):
				s.logger.Debug("input is not a terminal, reading cooked")
			case err != nil:
				return terminalError("raw mode", err)
			default:
				s.raw = raw
			}
		} else if err := s.raw.Reacquire(); err != nil {
			return terminalError("raw mode", err)
		}
		s.signals = terminal.WatchSignals(func(kind terminal.SignalKind, sig os.Signal) {
			s.loop.CallSoon(func() { s.onSignal(kind, sig) })
		})
	}
	s.startReader()
	return nil
}

// release gives the terminal back between prompts.
func (s *Session) release() {
	if s.signals != nil {
		s.signals.Stop()
		s.signals = nil
	}
	if s.in != nil {
		s.in.Pause()
	}
	if s.raw != nil {
		if err := s.raw.Restore(); err != nil {
			s.logger.Warn("restore terminal: %v", err)
		}
	}
}

func (s *Session) startReader() {
	if s.in != nil {
		s.in.Resume()
	}
	if s.readerStarted || s.tcell != nil {
		return
	}
	var r io.Reader
	switch {
	case s.opts.Input != nil:
		r = s.opts.Input
	case s.term != nil:
		s.in = terminal.NewInput(s.term.In)
		r = s.in
	default:
		return
	}
	s.readerStarted = true
	s.loop.AddReader(r, s.onInput)
}

// Close stops the session. A running Prompt returns ErrClosed.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.in != nil {
		_ = s.in.Close()
	}
	s.loop.Stop()
	err := s.plugins.Close()
	if s.tcell != nil {
		s.tcell.Close()
	}
	s.logger.Debug("session closed")
	return err
}
