package input

import (
	"errors"
	"runtime/debug"
	"time"

	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/macro"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/input/vim"
	"github.com/dshills/promptline/internal/logging"
	"github.com/dshills/promptline/internal/loop"
)

// ErrNoRecorder is returned by Replay when the processor has no macro
// recorder.
var ErrNoRecorder = errors.New("macro recording not enabled")

// OutcomeKind classifies the result of feeding a key.
type OutcomeKind uint8

const (
	// Executed means an action ran.
	Executed OutcomeKind = iota
	// Pending means more keys are needed.
	Pending
	// NoMatch means the keys were discarded.
	NoMatch
)

func (k OutcomeKind) String() string {
	switch k {
	case Executed:
		return "executed"
	case Pending:
		return "pending"
	default:
		return "no-match"
	}
}

// Outcome reports what Feed did.
type Outcome struct {
	Kind OutcomeKind

	// Binding is the binding that ran, or nil.
	Binding *keymap.Binding

	// Keys is the sequence that ran, or the pending sequence.
	Keys key.Sequence

	// Count is the repeat count the action received.
	Count int

	// Fallback is set when the fallback action handled an unbound key.
	Fallback bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithConfig sets the processor configuration.
func WithConfig(cfg Config) Option {
	return func(p *Processor) { p.cfg = cfg.normalized() }
}

// WithScheduler sets the scheduler that runs the ambiguity timer. Without
// one the host must call Flush.
func WithScheduler(s loop.Scheduler) Option {
	return func(p *Processor) { p.sched = s }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Processor) { p.log = l.WithComponent("input") }
}

// WithEnv sets the editing state passed to actions.
func WithEnv(env Env) Option {
	return func(p *Processor) { p.env = env }
}

// WithConditions adds a function that sets extra lookup conditions and
// variables before every lookup.
func WithConditions(fill func(*keymap.LookupContext)) Option {
	return func(p *Processor) { p.fill = fill }
}

// WithMetrics shares a metrics tracker.
func WithMetrics(m *Metrics) Option {
	return func(p *Processor) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithTimeoutHook sets a function called with the outcome each time the
// ambiguity timer resolves a pending sequence. Hosts use it to repaint.
func WithTimeoutHook(fn func(Outcome)) Option {
	return func(p *Processor) { p.onTimeout = fn }
}

// Processor matches key events against bindings and runs actions.
type Processor struct {
	cfg       Config
	registry  *keymap.Registry
	actions   *Actions
	modes     *mode.Manager
	sched     loop.Scheduler
	log       *logging.Logger
	metrics   *Metrics
	env       Env
	fill      func(*keymap.LookupContext)
	player    *macro.Player
	onTimeout func(Outcome)

	pending key.Sequence
	count   vim.Count
	after   vim.Count
	timer   loop.Timer
	gen     uint64
}

// New creates a processor dispatching through registry and actions in the
// modes tracked by modes.
func New(registry *keymap.Registry, actions *Actions, modes *mode.Manager, opts ...Option) *Processor {
	p := &Processor{
		cfg:      DefaultConfig(),
		registry: registry,
		actions:  actions,
		modes:    modes,
		log:      logging.Nop(),
		metrics:  NewMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.env.Host == nil {
		p.env.Host = NopHost{}
	}
	if p.env.Macros != nil {
		p.player = macro.NewPlayer(p.env.Macros)
	}
	return p
}

// Env returns the editing state passed to actions.
func (p *Processor) Env() Env { return p.env }

// SetConfig replaces the configuration. Pending keys are kept; a new
// timeout applies from the next key.
func (p *Processor) SetConfig(cfg Config) { p.cfg = cfg.normalized() }

// Modes returns the mode manager.
func (p *Processor) Modes() *mode.Manager { return p.modes }

// Metrics returns the metrics tracker.
func (p *Processor) Metrics() *Metrics { return p.metrics }

// Pending returns a copy of the keys waiting for resolution.
func (p *Processor) Pending() key.Sequence { return p.pending.Clone() }

// PendingCount returns the count typed so far, or 0.
func (p *Processor) PendingCount() int {
	if !p.count.Active() && !p.after.Active() {
		return 0
	}
	return vim.Combine(p.count.Raw(), p.after.Raw())
}

// Feed processes one key event.
func (p *Processor) Feed(ev key.Event) Outcome {
	p.metrics.recordKey(ev.Key == key.KeyPaste)
	if p.env.Macros != nil && (p.player == nil || !p.player.Playing()) {
		p.env.Macros.Record(ev)
	}
	return p.process(ev)
}

// FeedAll feeds events in order and returns the last outcome.
func (p *Processor) FeedAll(events ...key.Event) Outcome {
	out := Outcome{Kind: NoMatch}
	for _, ev := range events {
		out = p.Feed(ev)
	}
	return out
}

// Flush resolves the pending sequence as if the ambiguity timer fired.
func (p *Processor) Flush() Outcome {
	p.stopTimer()
	if len(p.pending) == 0 {
		return Outcome{Kind: NoMatch}
	}
	return p.settle(true)
}

// Cancel discards pending keys and counts.
func (p *Processor) Cancel() {
	p.stopTimer()
	p.pending = nil
	p.count.Reset()
	p.after.Reset()
}

// Replay feeds the events stored in register count times.
func (p *Processor) Replay(register rune, count int) error {
	if p.player == nil {
		return ErrNoRecorder
	}
	return p.player.Play(register, count, func(ev key.Event) { p.Feed(ev) })
}

func (p *Processor) process(ev key.Event) Outcome {
	p.stopTimer()
	if p.takeCount(ev) {
		p.arm()
		return Outcome{Kind: Pending, Keys: p.pending.Clone(), Count: p.PendingCount()}
	}
	p.pending = append(p.pending, ev)
	return p.resolve()
}

// takeCount adds ev to the repeat count when it is a count digit.
func (p *Processor) takeCount(ev key.Event) bool {
	if !p.modes.Current().AcceptsCount() || ev.Key != key.KeyRune || ev.Modifiers != key.ModNone {
		return false
	}
	if ev.Rune < '0' || ev.Rune > '9' {
		return false
	}
	if len(p.pending) == 0 {
		return p.count.Push(ev.Rune)
	}
	if p.after.Active() {
		return p.after.Push(ev.Rune)
	}
	// Bindings such as "f3" or "r5" take the digit as an argument.
	next := append(p.pending.Clone(), ev)
	exact, longer := p.registry.Lookup(next, p.modes.Current(), p.lookupContext())
	if len(exact) > 0 || longer {
		return false
	}
	return p.after.Push(ev.Rune)
}

func (p *Processor) resolve() Outcome {
	exact, longer := p.registry.Lookup(p.pending, p.modes.Current(), p.lookupContext())
	if len(exact) > 0 && (!longer || exact[0].Eager) {
		keys := p.pending
		p.pending = nil
		return p.execute(keys, exact[0])
	}
	if longer && len(p.pending) <= p.cfg.MaxPendingKeys {
		p.arm()
		return Outcome{Kind: Pending, Keys: p.pending.Clone(), Count: p.PendingCount()}
	}
	return p.settle(false)
}

// settle resolves a sequence that cannot grow into a longer binding, or
// that timed out. It runs the longest (or, on timeout, the shortest)
// prefix that has a binding and feeds the remaining keys again.
func (p *Processor) settle(shortest bool) Outcome {
	keys := p.pending
	p.pending = nil
	if len(keys) == 0 {
		return Outcome{Kind: NoMatch}
	}

	if n, b := p.matchPrefix(keys, shortest); b != nil {
		out := p.execute(keys[:n], b)
		return p.refeed(out, keys[n:])
	}

	first := keys[0]
	if first.EscapePrefixed() {
		esc := key.Event{Key: key.KeyEscape, Data: first.Data[:1]}
		p.log.Debug("splitting %s into Esc and %s", first.String(), first.WithoutAlt().String())
		rest := append(key.Sequence{esc, first.WithoutAlt()}, keys[1:]...)
		return p.refeed(Outcome{Kind: NoMatch}, rest)
	}

	if len(keys) == 1 {
		if p.modes.Current().Inserts() && first.IsChar() {
			return p.execute(keys, nil)
		}
		p.discard(first)
		return Outcome{Kind: NoMatch, Keys: keys}
	}

	p.discard(first)
	return p.refeed(Outcome{Kind: NoMatch, Keys: keys[:1]}, keys[1:])
}

func (p *Processor) discard(ev key.Event) {
	p.metrics.count(&p.metrics.droppedKeys)
	p.log.Debug("no binding for %s in %s", ev.VimString(), p.modes.Current())
	p.count.Reset()
	p.after.Reset()
}

func (p *Processor) refeed(out Outcome, rest key.Sequence) Outcome {
	for _, ev := range rest {
		out = p.process(ev)
	}
	return out
}

// matchPrefix returns the length and best binding of the longest or
// shortest prefix of keys with an exact match.
func (p *Processor) matchPrefix(keys key.Sequence, shortest bool) (int, *keymap.Binding) {
	m := p.modes.Current()
	ctx := p.lookupContext()
	for i := range keys {
		n := len(keys) - i
		if shortest {
			n = i + 1
		}
		if b := p.registry.Exact(keys[:n], m, ctx); b != nil {
			return n, b
		}
	}
	return 0, nil
}

func (p *Processor) execute(keys key.Sequence, b *keymap.Binding) Outcome {
	name := p.cfg.Fallback
	if b != nil {
		name = b.Action
	}
	hasCount := p.count.Active() || p.after.Active()
	count := vim.Combine(p.count.Raw(), p.after.Raw())
	p.count.Reset()
	p.after.Reset()

	out := Outcome{Kind: Executed, Binding: b, Keys: keys, Count: count, Fallback: b == nil}
	fn, ok := p.actions.Lookup(name)
	if !ok {
		p.metrics.count(&p.metrics.unknownActions)
		p.log.Warn("%v %q bound to %s", ErrUnknownAction, name, keys.VimString())
		return out
	}

	ev := &Event{
		Keys:      keys,
		Count:     count,
		HasCount:  hasCount,
		Binding:   b,
		Buffer:    p.env.Buffer,
		Clipboard: p.env.Clipboard,
		Modes:     p.modes,
		Host:      p.env.Host,
		Macros:    p.env.Macros,
		Processor: p,
	}
	start := time.Now()
	p.run(name, fn, ev)
	p.metrics.recordAction(time.Since(start), b == nil)
	return out
}

func (p *Processor) run(name string, fn ActionFunc, ev *Event) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.count(&p.metrics.actionPanics)
			p.log.Error("action %s panicked: %v\n%s", name, r, debug.Stack())
		}
	}()
	if err := fn(ev); err != nil {
		p.metrics.count(&p.metrics.actionErrors)
		p.log.Warn("action %s: %v", name, err)
	}
}

func (p *Processor) lookupContext() *keymap.LookupContext {
	ctx := keymap.NewLookupContext()
	p.env.Conditions(ctx)
	if p.fill != nil {
		p.fill(ctx)
	}
	return ctx
}

// arm starts the ambiguity timer when a prefix of the pending keys could
// run on timeout. An operator waiting for its motion waits indefinitely.
func (p *Processor) arm() {
	if p.sched == nil || p.cfg.AmbiguityTimeout <= 0 || len(p.pending) == 0 {
		return
	}
	if _, b := p.matchPrefix(p.pending, true); b == nil {
		return
	}
	p.gen++
	gen := p.gen
	p.timer = p.sched.CallLater(p.cfg.AmbiguityTimeout, func() {
		if gen != p.gen || len(p.pending) == 0 {
			return
		}
		p.timer = nil
		p.metrics.count(&p.metrics.timeouts)
		out := p.settle(true)
		if p.onTimeout != nil {
			p.onTimeout(out)
		}
	})
}

func (p *Processor) stopTimer() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
