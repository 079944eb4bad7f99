package app

import (
	"github.com/dshills/promptline/internal/terminal"
)

// Accept ends the prompt with the buffer text. It implements input.Host.
func (s *Session) Accept() {
	s.finish(s.buffer.Text(), nil)
}

// Abort ends the prompt with ErrAborted.
func (s *Session) Abort() {
	s.finish("", ErrAborted)
}

// Exit ends the prompt with ErrEOF.
func (s *Session) Exit() {
	s.finish("", ErrEOF)
}

// Invalidate schedules a repaint. It is safe from any goroutine, and
// calls made before the repaint runs are merged.
func (s *Session) Invalidate() {
	if !s.invalidating.CompareAndSwap(false, true) {
		return
	}
	s.loop.CallSoon(func() {
		s.invalidating.Store(false)
		s.render()
	})
}

// ClearScreen erases the terminal and repaints the prompt at the top.
func (s *Session) ClearScreen() {
	switch {
	case s.vt != nil:
		s.vt.ClearScreen()
		s.renderer.Reset()
		s.originRow = 0
	case s.tcell != nil:
		s.tcell.Sync()
		s.renderer.Invalidate()
	}
}

// Suspend stops the process as Ctrl-Z does in a shell and redraws the
// prompt once it is continued.
func (s *Session) Suspend() {
	if s.active == nil {
		return
	}
	if s.tcell != nil {
		s.suspendTcell()
		return
	}
	if s.term == nil {
		return
	}

	if err := s.renderer.Finish(s.out); err != nil {
		s.finish("", terminalError("write output", err))
		return
	}
	s.disableModes()
	if s.in != nil {
		s.in.Pause()
	}
	err := terminal.Suspend(s.raw)
	if s.in != nil {
		s.in.Resume()
	}
	if err != nil {
		s.finish("", terminalError("suspend", err))
		return
	}
	s.enableModes()
	s.renderer.Reset()
}

func (s *Session) suspendTcell() {
	if err := s.tcell.Suspend(); err != nil {
		s.logger.Warn("suspend screen: %v", err)
		return
	}
	serr := terminal.Suspend(nil)
	if err := s.tcell.Resume(); err != nil {
		s.finish("", terminalError("resume screen", err))
		return
	}
	if serr != nil {
		s.logger.Warn("suspend: %v", serr)
	}
	s.renderer.Invalidate()
}

// OffsetAt maps a cell of the last frame to a text offset. It lets the
// mouse bindings place the cursor.
func (s *Session) OffsetAt(row, col int) (int, bool) {
	screen := s.renderer.Screen()
	if screen == nil {
		return 0, false
	}
	return screen.OffsetAt(row, col)
}
