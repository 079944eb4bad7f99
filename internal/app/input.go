package app

import (
	"errors"
	"io"
	"os"

	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/renderer/backend"
	"github.com/dshills/promptline/internal/terminal"
)

// onInput handles a chunk read from the terminal, or the read error that
// ended input.
func (s *Session) onInput(chunk []byte, err error) {
	if err != nil {
		s.inputDone(err)
		return
	}
	if s.active == nil {
		s.backlog = append(s.backlog, chunk)
		return
	}

	timer := StartTimer()
	s.stopEscape()
	s.feedEvents(s.decoder.Feed(chunk))
	s.armEscape()
	s.render()
	s.metrics.RecordInput(len(chunk), timer.Elapsed())
}

// inputDone records the end of input. The active prompt, if any, ends
// with it once the bytes already read are processed.
func (s *Session) inputDone(err error) {
	if errors.Is(err, terminal.ErrClosed) {
		return
	}
	if errors.Is(err, io.EOF) {
		err = ErrEOF
	} else {
		err = terminalError("read input", err)
	}
	s.inputErr = err
	s.logger.Debug("input ended: %v", err)
	if s.active == nil {
		return
	}
	s.stopEscape()
	s.feedEvents(s.decoder.Flush())
	s.finish("", err)
}

// feedEvents dispatches events until a prompt ends. The rest wait for
// the next prompt.
func (s *Session) feedEvents(events []key.Event) {
	for i, ev := range events {
		if s.active == nil {
			s.backlogKeys = append(s.backlogKeys, events[i:]...)
			return
		}
		s.feedKey(ev)
	}
}

func (s *Session) feedKey(ev key.Event) {
	switch ev.Key {
	case key.KeyCPR:
		s.originRow = max(ev.Report.Row-1, 0)
		return
	case key.KeyMouse:
		if s.tcell == nil {
			ev.Mouse.Row -= s.originRow
			if ev.Mouse.Row < 0 {
				return
			}
		}
	}
	s.proc.Feed(ev)
}

// armEscape starts the timer that decides a lone ESC, or an unfinished
// sequence, was typed as is. A bracketed paste waits for its end marker.
func (s *Session) armEscape() {
	if !s.decoder.Pending() || s.decoder.InPaste() {
		return
	}
	d := s.cfg.Editing.EscapeTimeout.Std()
	if d <= 0 {
		s.feedEvents(s.decoder.Flush())
		return
	}
	s.escGen++
	gen := s.escGen
	s.escTimer = s.loop.CallLater(d, func() {
		if gen != s.escGen || s.active == nil {
			return
		}
		s.escTimer = nil
		s.feedEvents(s.decoder.Flush())
		s.render()
	})
}

func (s *Session) stopEscape() {
	s.escGen++
	if s.escTimer != nil {
		s.escTimer.Stop()
		s.escTimer = nil
	}
}

// pollTcell forwards tcell events to the loop until the screen closes.
func (s *Session) pollTcell() {
	for {
		ev := s.tcell.PollEvent()
		if ev.Closed {
			return
		}
		s.loop.CallSoon(func() { s.onTcellEvent(ev) })
	}
}

func (s *Session) onTcellEvent(ev backend.Event) {
	switch {
	case ev.Resized:
		s.renderer.Invalidate()
		s.render()
	case ev.HasKey:
		if s.active == nil {
			s.backlogKeys = append(s.backlogKeys, ev.Key)
			return
		}
		timer := StartTimer()
		s.feedKey(ev.Key)
		s.render()
		s.metrics.RecordInput(len(ev.Key.Data), timer.Elapsed())
	}
}

func (s *Session) onSignal(kind terminal.SignalKind, sig os.Signal) {
	if s.active == nil {
		return
	}
	switch kind {
	case terminal.SignalResize:
		s.logger.Debug("terminal resized")
		s.renderer.Invalidate()
		s.render()
	case terminal.SignalContinue:
		if s.raw != nil {
			if err := s.raw.Reacquire(); err != nil {
				s.finish("", terminalError("raw mode", err))
				return
			}
		}
		s.renderer.Reset()
		s.enableModes()
		s.render()
	case terminal.SignalTerminate:
		s.logger.Info("terminating on %v", sig)
		s.finish("", NewOperationError("signal", sig.String(), ErrTerminated))
	}
}
