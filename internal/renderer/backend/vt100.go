package backend

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/promptline/internal/renderer/core"
)

const csi = "\x1b["

// VT100 writes frames as ANSI escape sequences. It draws inline: row 0
// is the line the cursor was on when drawing started, and rows below the
// furthest one drawn so far are created with line feeds so the terminal
// scrolls as needed.
type VT100 struct {
	w    *bufio.Writer
	mode ColorMode
	cols int

	row, col int
	// maxRow is the furthest row that exists below the origin.
	maxRow int
	// colKnown is false after a write reached the last column and the
	// terminal may have deferred the wrap.
	colKnown bool

	style      core.Style
	styleKnown bool
}

// VT100Option configures a VT100 output.
type VT100Option func(*VT100)

// WithColorMode sets the color depth. The default is ColorTrue.
// ColorAuto is detected from the process environment.
func WithColorMode(m ColorMode) VT100Option {
	return func(v *VT100) { v.mode = m.Resolve(os.Getenv) }
}

// WithWidth sets the terminal width.
func WithWidth(cols int) VT100Option {
	return func(v *VT100) { v.cols = cols }
}

// NewVT100 creates an output writing to w.
func NewVT100(w io.Writer, opts ...VT100Option) *VT100 {
	v := &VT100{w: bufio.NewWriterSize(w, 16*1024), colKnown: true}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetWidth records a new terminal width. Zero means unknown.
func (v *VT100) SetWidth(cols int) { v.cols = cols }

// ColorMode returns the color depth in use.
func (v *VT100) ColorMode() ColorMode { return v.mode }

func (v *VT100) seq(n int, final byte) {
	v.w.WriteString(csi)
	if n != 1 {
		v.w.WriteString(strconv.Itoa(n))
	}
	v.w.WriteByte(final)
}

// MoveCursor places the cursor using relative movement only.
func (v *VT100) MoveCursor(row, col int) {
	row, col = max(row, 0), max(col, 0)
	switch {
	case row > v.row:
		if existing := min(row, v.maxRow) - v.row; existing > 0 {
			v.seq(existing, 'B')
		}
		if fresh := row - max(v.row, v.maxRow); fresh > 0 {
			v.resetStyle()
			v.w.WriteString(strings.Repeat("\n", fresh))
			// Cooked output turns LF into CRLF, so the column is unknown.
			v.colKnown = false
		}
	case row < v.row:
		v.seq(v.row-row, 'A')
	}
	v.row = row
	v.maxRow = max(v.maxRow, row)

	if v.colKnown && col == v.col {
		return
	}
	v.w.WriteByte('\r')
	if col > 0 {
		v.seq(col, 'C')
	}
	v.col = col
	v.colKnown = true
}

// WriteStyled writes text in the given style.
func (v *VT100) WriteStyled(text string, style core.Style) {
	if text == "" {
		return
	}
	if !v.styleKnown || !v.style.Equals(style) {
		v.w.WriteString(v.sgr(style))
		v.style = style
		v.styleKnown = true
	}
	v.w.WriteString(text)
	v.col += core.StringWidth(text)
	if v.cols > 0 && v.col >= v.cols {
		v.colKnown = false
	}
}

// ClearRegion blanks r. Regions reaching the right edge are erased with
// EL; others are overwritten with spaces.
func (v *VT100) ClearRegion(r core.Rect) {
	if r.Empty() {
		return
	}
	toEdge := v.cols <= 0 || r.Col+r.Width >= v.cols
	for row := r.Row; row < r.Row+r.Height; row++ {
		v.MoveCursor(row, r.Col)
		v.resetStyle()
		if toEdge {
			v.w.WriteString(csi + "K")
			continue
		}
		v.w.WriteString(strings.Repeat(" ", r.Width))
		v.col += r.Width
	}
}

// ShowCursor makes the cursor visible.
func (v *VT100) ShowCursor() { v.w.WriteString(csi + "?25h") }

// HideCursor hides the cursor.
func (v *VT100) HideCursor() { v.w.WriteString(csi + "?25l") }

// SetCursorStyle selects a steady cursor shape with DECSCUSR.
func (v *VT100) SetCursorStyle(style CursorStyle) {
	switch style {
	case CursorUnderline:
		v.w.WriteString(csi + "4 q")
	case CursorBar:
		v.w.WriteString(csi + "6 q")
	default:
		v.w.WriteString(csi + "2 q")
	}
}

// ResetCursorStyle restores the terminal's default cursor shape.
func (v *VT100) ResetCursorStyle() { v.w.WriteString(csi + "0 q") }

// Finish moves below a drawing area of the given height and makes the
// line after it the origin for the next frame.
func (v *VT100) Finish(rows int) error {
	v.MoveCursor(max(rows, 1), 0)
	v.resetStyle()
	v.row, v.col, v.maxRow = 0, 0, 0
	v.colKnown = true
	return v.Flush()
}

// Flush writes buffered output.
func (v *VT100) Flush() error { return v.w.Flush() }

// EnableBracketedPaste asks the terminal to bracket pasted text.
func (v *VT100) EnableBracketedPaste() { v.w.WriteString(csi + "?2004h") }

// DisableBracketedPaste turns bracketed paste off.
func (v *VT100) DisableBracketedPaste() { v.w.WriteString(csi + "?2004l") }

// EnableMouse turns on button reporting in SGR encoding.
func (v *VT100) EnableMouse() { v.w.WriteString(csi + "?1000h" + csi + "?1002h" + csi + "?1006h") }

// DisableMouse turns mouse reporting off.
func (v *VT100) DisableMouse() { v.w.WriteString(csi + "?1006l" + csi + "?1002l" + csi + "?1000l") }

// RequestCursorPosition asks the terminal for a cursor position report.
func (v *VT100) RequestCursorPosition() { v.w.WriteString(csi + "6n") }

// ClearScreen erases the whole terminal and moves the cursor home.
func (v *VT100) ClearScreen() {
	v.w.WriteString(csi + "H" + csi + "2J")
	v.row, v.col, v.maxRow = 0, 0, 0
	v.colKnown = true
}

// Bell rings the terminal bell.
func (v *VT100) Bell() { v.w.WriteByte('\a') }

// SetTitle sets the window title.
func (v *VT100) SetTitle(title string) {
	title = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, title)
	v.w.WriteString("\x1b]2;" + title + "\a")
}

func (v *VT100) resetStyle() {
	if v.styleKnown && v.style.IsDefault() {
		return
	}
	v.w.WriteString(csi + "0m")
	v.style = core.DefaultStyle()
	v.styleKnown = true
}

var attrCodes = []struct {
	attr core.Attribute
	code string
}{
	{core.AttrBold, "1"},
	{core.AttrDim, "2"},
	{core.AttrItalic, "3"},
	{core.AttrUnderline, "4"},
	{core.AttrBlink, "5"},
	{core.AttrReverse, "7"},
	{core.AttrHidden, "8"},
	{core.AttrStrikethrough, "9"},
}

// sgr returns the sequence selecting style, starting from a reset.
func (v *VT100) sgr(style core.Style) string {
	params := []string{"0"}
	for _, a := range attrCodes {
		if style.Attributes.Has(a.attr) {
			params = append(params, a.code)
		}
	}
	params = append(params, v.colorParams(style.Foreground, false)...)
	params = append(params, v.colorParams(style.Background, true)...)
	return csi + strings.Join(params, ";") + "m"
}

func (v *VT100) colorParams(c core.Color, bg bool) []string {
	if c.IsDefault() || v.mode == ColorNone {
		return nil
	}
	switch v.mode {
	case Color256:
		c = c.Palette256()
	case Color16:
		c = c.Palette16()
	}
	base := 30
	if bg {
		base = 40
	}
	if !c.Indexed {
		return []string{strconv.Itoa(base + 8), "2", strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B))}
	}
	switch idx := int(c.R); {
	case idx < 8:
		return []string{strconv.Itoa(base + idx)}
	case idx < 16:
		return []string{strconv.Itoa(base + 60 + idx - 8)}
	default:
		return []string{strconv.Itoa(base + 8), "5", strconv.Itoa(idx)}
	}
}
