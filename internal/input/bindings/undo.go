package bindings

import (
	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/input/mode"
)

// InsertUndo makes each Vi insert or replace session one undo step: the
// buffer's edit group opens when the session starts and closes on the
// switch back to navigation.
type InsertUndo struct {
	modes *mode.Manager
	buf   *buffer.Buffer
}

// TrackInsertUndo starts grouping b's edits by the insert sessions of
// modes.
func TrackInsertUndo(modes *mode.Manager, b *buffer.Buffer) *InsertUndo {
	u := &InsertUndo{modes: modes, buf: b}
	modes.OnChange(u.switched)
	u.Restart()
	return u
}

// Restart reopens the group after the buffer was reset in the middle of
// an insert session.
func (u *InsertUndo) Restart() {
	if inInsertSession(u.modes.Current()) && !u.buf.History().IsGrouping() {
		u.buf.BeginEditGroup()
	}
}

func (u *InsertUndo) switched(from, to mode.Mode) {
	switch was, is := inInsertSession(from), inInsertSession(to); {
	case is && !was:
		u.buf.BeginEditGroup()
	case was && !is:
		u.buf.EndEditGroup()
	}
}

func inInsertSession(m mode.Mode) bool {
	return m == mode.ViInsert || m == mode.ViReplace
}
