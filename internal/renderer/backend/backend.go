// Package backend writes rendered frames to a terminal.
//
// An Output receives the commands the renderer produces: cursor moves,
// styled text and region clears. VT100 writes escape sequences to any
// io.Writer and keeps the prompt inline with the shell. Tcell drives a
// full screen through tcell. Recorder keeps a virtual grid for tests.
package backend

import "github.com/dshills/promptline/internal/renderer/core"

// Output is a terminal the renderer can draw on. Rows and columns are
// relative to the top left corner of the drawing area. Commands may be
// buffered until Flush.
type Output interface {
	// MoveCursor places the cursor.
	MoveCursor(row, col int)

	// WriteStyled writes text at the cursor and advances it by the
	// text's display width. The text never contains line breaks.
	WriteStyled(text string, style core.Style)

	// ClearRegion resets every cell in r to a blank default cell.
	ClearRegion(r core.Rect)

	// ShowCursor makes the cursor visible.
	ShowCursor()

	// HideCursor hides the cursor.
	HideCursor()

	// Flush sends buffered output to the terminal.
	Flush() error
}

// CursorStyle defines how the cursor appears.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
)

// CursorShaper is implemented by outputs that can change the cursor shape.
type CursorShaper interface {
	SetCursorStyle(style CursorStyle)
}

// Finisher is implemented by outputs that draw inline. Finish moves the
// cursor below a drawing area of the given height so the next output
// starts on a fresh line.
type Finisher interface {
	Finish(rows int) error
}
