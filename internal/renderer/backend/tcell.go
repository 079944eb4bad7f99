package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/renderer/core"
)

// Tcell draws full screen frames through a tcell.Screen. tcell owns the
// terminal in this mode, so input is read back through PollEvent.
type Tcell struct {
	mu     sync.Mutex
	screen tcell.Screen

	row, col int
	cursor   bool

	// Bracketed paste arrives as key events between two paste events.
	pasting bool
	paste   strings.Builder
	buttons tcell.ButtonMask
}

// NewTcell wraps an initialized screen.
func NewTcell(screen tcell.Screen) *Tcell {
	return &Tcell{screen: screen}
}

// OpenTcell creates and initializes a screen for the controlling terminal.
func OpenTcell() (*Tcell, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnablePaste()
	return NewTcell(screen), nil
}

// Screen returns the underlying screen.
func (t *Tcell) Screen() tcell.Screen { return t.screen }

// Close restores the terminal.
func (t *Tcell) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

// Size returns the terminal size.
func (t *Tcell) Size() core.Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, h := t.screen.Size()
	return core.Size{Rows: h, Cols: w}
}

// MoveCursor places the cursor.
func (t *Tcell) MoveCursor(row, col int) {
	t.mu.Lock()
	t.row, t.col = row, col
	t.mu.Unlock()
}

// WriteStyled writes text one grapheme cluster per cell.
func (t *Tcell) WriteStyled(text string, style core.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := convertStyle(style)
	for cluster := range core.Clusters(text) {
		runes := []rune(cluster)
		t.screen.SetContent(t.col, t.row, runes[0], runes[1:], st)
		t.col += max(core.CellWidth(cluster), 1)
	}
}

// ClearRegion blanks every cell in r.
func (t *Tcell) ClearRegion(r core.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for row := r.Row; row < r.Row+r.Height; row++ {
		for col := r.Col; col < r.Col+r.Width; col++ {
			t.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
}

// ShowCursor makes the cursor visible at the last position moved to.
func (t *Tcell) ShowCursor() {
	t.mu.Lock()
	t.cursor = true
	t.mu.Unlock()
}

// HideCursor hides the cursor.
func (t *Tcell) HideCursor() {
	t.mu.Lock()
	t.cursor = false
	t.mu.Unlock()
}

// SetCursorStyle sets the cursor shape.
func (t *Tcell) SetCursorStyle(style CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch style {
	case CursorUnderline:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyUnderline)
	case CursorBar:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	default:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	}
}

// Flush shows the frame.
func (t *Tcell) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cursor {
		t.screen.ShowCursor(t.col, t.row)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
	return nil
}

// Sync repaints the whole terminal from tcell's copy of the screen.
func (t *Tcell) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Sync()
}

// EnableMouse turns mouse reporting on.
func (t *Tcell) EnableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
}

// DisableMouse turns mouse reporting off.
func (t *Tcell) DisableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.DisableMouse()
}

// Suspend gives the terminal back, for running a shell command or
// stopping the process.
func (t *Tcell) Suspend() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Suspend()
}

// Resume takes the terminal back after Suspend.
func (t *Tcell) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Resume()
}

// Event is an input event read from tcell.
type Event struct {
	// Key is set when HasKey is true.
	Key    key.Event
	HasKey bool

	// Resized reports a new terminal size.
	Resized bool
	Size    core.Size

	// Closed means the screen was finalized and no more events follow.
	Closed bool
}

// PollEvent blocks until tcell reports something the editor cares about.
func (t *Tcell) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Closed: true}
		}
		if out, ok := t.convertEvent(ev); ok {
			return out
		}
	}
}

func (t *Tcell) convertEvent(ev tcell.Event) (Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Resized: true, Size: core.Size{Rows: h, Cols: w}}, true
	case *tcell.EventPaste:
		if e.Start() {
			t.pasting = true
			t.paste.Reset()
			return Event{}, false
		}
		t.pasting = false
		return Event{Key: key.NewPasteEvent(t.paste.String()), HasKey: true}, true
	case *tcell.EventKey:
		k := convertKey(e)
		if t.pasting {
			switch {
			case k.Key == key.KeyRune && k.Modifiers == key.ModNone:
				t.paste.WriteRune(k.Rune)
			case k.Key == key.KeyEnter:
				t.paste.WriteByte('\n')
			case k.Key == key.KeyTab:
				t.paste.WriteByte('\t')
			}
			return Event{}, false
		}
		return Event{Key: k, HasKey: true}, true
	case *tcell.EventMouse:
		m, ok := t.convertMouse(e)
		if !ok {
			return Event{}, false
		}
		return Event{Key: m, HasKey: true}, true
	}
	return Event{}, false
}

var tcellKeys = map[tcell.Key]key.Key{
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBacktab:    key.KeyBackTab,
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// convertKey maps a tcell key the way the byte decoder would have
// decoded the same keystroke.
func convertKey(e *tcell.EventKey) key.Event {
	mods := convertMod(e.Modifiers())
	k := e.Key()
	switch {
	case k == tcell.KeyRune:
		return key.Event{Key: key.KeyRune, Rune: e.Rune(), Modifiers: mods.Without(key.ModShift)}
	case k == tcell.KeyBackspace:
		// BS (0x08) is what Ctrl+H sends.
		return key.Event{Key: key.KeyRune, Rune: 'h', Modifiers: mods.With(key.ModCtrl)}
	case k == tcell.KeyNUL:
		return key.Event{Key: key.KeyRune, Rune: ' ', Modifiers: mods.With(key.ModCtrl)}
	}
	if sk, ok := tcellKeys[k]; ok {
		return key.Event{Key: sk, Modifiers: mods}
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.Event{Key: key.KeyRune, Rune: 'a' + rune(k-tcell.KeyCtrlA), Modifiers: mods.With(key.ModCtrl).Without(key.ModShift)}
	}
	if k >= tcell.KeyCtrlBackslash && k <= tcell.KeyCtrlUnderscore {
		return key.Event{Key: key.KeyRune, Rune: rune(k) + 0x40, Modifiers: mods.With(key.ModCtrl)}
	}
	return key.Event{Key: key.KeyNone, Modifiers: mods}
}

func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= key.ModMeta
	}
	return mods
}

// convertMouse turns tcell's button state into press, release and move
// reports.
func (t *Tcell) convertMouse(e *tcell.EventMouse) (key.Event, bool) {
	x, y := e.Position()
	buttons := e.Buttons()
	prev := t.buttons
	t.buttons = buttons & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle)

	m := key.Mouse{Row: y, Col: x}
	switch {
	case buttons&tcell.WheelUp != 0:
		m.Button, m.Action = key.MouseWheelUp, key.MousePress
	case buttons&tcell.WheelDown != 0:
		m.Button, m.Action = key.MouseWheelDown, key.MousePress
	case buttons&tcell.ButtonPrimary != 0:
		m.Button, m.Action = key.MouseLeft, pressOrMove(prev, tcell.ButtonPrimary)
	case buttons&tcell.ButtonSecondary != 0:
		m.Button, m.Action = key.MouseRight, pressOrMove(prev, tcell.ButtonSecondary)
	case buttons&tcell.ButtonMiddle != 0:
		m.Button, m.Action = key.MouseMiddle, pressOrMove(prev, tcell.ButtonMiddle)
	case prev != tcell.ButtonNone:
		m.Button, m.Action = releasedButton(prev), key.MouseRelease
	default:
		return key.Event{}, false
	}
	return key.Event{Key: key.KeyMouse, Mouse: m, Modifiers: convertMod(e.Modifiers())}, true
}

func pressOrMove(prev, b tcell.ButtonMask) key.MouseAction {
	if prev&b != 0 {
		return key.MouseMove
	}
	return key.MousePress
}

func releasedButton(prev tcell.ButtonMask) key.MouseButton {
	switch {
	case prev&tcell.ButtonPrimary != 0:
		return key.MouseLeft
	case prev&tcell.ButtonSecondary != 0:
		return key.MouseRight
	case prev&tcell.ButtonMiddle != 0:
		return key.MouseMiddle
	}
	return key.MouseNone
}

func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}
	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrBlink) {
		style = style.Blink(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

func convertColor(c core.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
