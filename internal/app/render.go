package app

import (
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/renderer"
	"github.com/dshills/promptline/internal/renderer/backend"
	"github.com/dshills/promptline/internal/renderer/core"
	"github.com/dshills/promptline/internal/renderer/layout"
)

// lexCacheSize bounds the lexed lines kept per session.
const lexCacheSize = 256

func (s *Session) buildLayout() layout.Container {
	opts := []layout.BufferControlOption{layout.WithTabWidth(s.cfg.Editing.TabWidth)}
	if s.opts.Lexer != nil {
		opts = append(opts, layout.WithLexer(s.opts.Lexer, lexCacheSize))
	}
	if s.opts.Prompt != "" {
		opts = append(opts, layout.WithPrompt(layout.Fragment{Style: "class:prompt", Text: s.opts.Prompt}))
	}
	s.control = layout.NewBufferControl(s.buffer, opts...)
	s.control.Continuation = func(width, _ int) layout.Fragments {
		return s.opts.continuation(width)
	}
	s.control.InclusiveSelection = func() bool {
		return s.modes.Current().IsVisual()
	}

	input := layout.NewWindow(s.control)
	input.DontExtendHeight = s.tcell == nil

	live := func() bool { return !s.finishing }
	children := []layout.Container{
		input,
		layout.When(func() bool { return live() && s.buffer.Completion() != nil },
			layout.NewCompletionMenu(s.buffer, s.cfg.Render.CompletionRows)),
		layout.When(live, layout.ValidationToolbar(s.buffer)),
		layout.When(live, layout.ArgToolbar(s.proc.PendingCount)),
		layout.When(live, layout.ModeToolbar(func() string { return s.modes.Current().Label() })),
	}
	if s.opts.BottomToolbar != nil {
		one := layout.Exact(1)
		bar := layout.NewWindow(layout.NewTokensControl(s.opts.BottomToolbar))
		bar.Height = &one
		bar.Style = "class:bottom-toolbar"
		children = append(children, layout.When(live, bar))
	}
	return layout.NewHSplit(children...)
}

// render draws the active prompt. A write failure ends it.
func (s *Session) render() {
	if s.active == nil {
		return
	}
	if err := s.draw(); err != nil {
		s.finish("", terminalError("write output", err))
	}
}

func (s *Session) draw() error {
	timer := StartTimer()
	size := s.size()
	if s.vt != nil {
		s.vt.SetWidth(size.Cols)
	}
	s.updateCursorShape()
	if err := renderer.Apply(s.out, s.renderer.Render(s.layout, size)); err != nil {
		return err
	}
	s.metrics.RecordFrame(timer.Elapsed())
	return nil
}

func (s *Session) size() core.Size {
	if s.tcell != nil {
		if sz := s.tcell.Size(); sz.Rows > 0 && sz.Cols > 0 {
			return sz
		}
	}
	if s.term != nil {
		if cols, rows, err := s.term.Size(); err == nil && cols > 0 && rows > 0 {
			return core.Size{Rows: rows, Cols: cols}
		}
	}
	if s.opts.Size.Rows > 0 && s.opts.Size.Cols > 0 {
		return s.opts.Size
	}
	return DefaultSize
}

func cursorShape(m mode.Mode) backend.CursorStyle {
	switch m.CursorStyle() {
	case mode.CursorBar:
		return backend.CursorBar
	case mode.CursorUnderline:
		return backend.CursorUnderline
	default:
		return backend.CursorBlock
	}
}

func (s *Session) updateCursorShape() {
	shaper, ok := s.out.(backend.CursorShaper)
	if !ok {
		return
	}
	shape := cursorShape(s.modes.Current())
	if s.shapeKnown && shape == s.shape {
		return
	}
	shaper.SetCursorStyle(shape)
	s.shape, s.shapeKnown = shape, true
}

// enableModes turns on the terminal reports the config asks for.
func (s *Session) enableModes() {
	if s.vt == nil {
		return
	}
	if s.cfg.Render.BracketedPaste {
		s.vt.EnableBracketedPaste()
		s.pasteOn = true
	}
	if s.cfg.Render.Mouse {
		s.vt.EnableMouse()
		s.vt.RequestCursorPosition()
		s.mouseOn = true
	}
}

func (s *Session) disableModes() {
	if s.vt == nil {
		return
	}
	if s.pasteOn {
		s.vt.DisableBracketedPaste()
		s.pasteOn = false
	}
	if s.mouseOn {
		s.vt.DisableMouse()
		s.mouseOn = false
	}
	if s.shapeKnown {
		s.vt.ResetCursorStyle()
		s.shapeKnown = false
	}
	if err := s.vt.Flush(); err != nil {
		s.logger.Warn("reset terminal modes: %v", err)
	}
}
