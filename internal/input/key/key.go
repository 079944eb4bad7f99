package key

import (
	"fmt"
	"strings"
)

// Key represents a keyboard key or a synthetic terminal report.
// For character keys, use KeyRune and set the Rune field in Event.
type Key uint8

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// KeyRune is used for character keys. The character is stored in Event.Rune.
	KeyRune

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// KeyPaste carries a complete bracketed paste in Event.Data.
	KeyPaste

	// KeyCPR is a cursor position report. The position is in Event.Report.
	KeyCPR

	// KeyMouse is a mouse report. The details are in Event.Mouse.
	KeyMouse

	// KeyAny only appears in binding patterns. It matches any single
	// printable character key.
	KeyAny
)

var keyNames = [...]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEscape:    "Esc",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackTab:   "BackTab",
	KeyBackspace: "BS",
	KeyDelete:    "Del",
	KeyInsert:    "Ins",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PgUp",
	KeyPageDown:  "PgDn",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
	KeyPaste:     "Paste",
	KeyCPR:       "CPR",
	KeyMouse:     "Mouse",
	KeyAny:       "Any",
}

// String returns the canonical short name of the key.
func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsSpecial returns true if this is a special (non-character) key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsReport returns true for keys synthesized from terminal replies
// rather than typed by the user.
func (k Key) IsReport() bool {
	return k == KeyCPR || k == KeyMouse
}

// keyNameMap maps key names (lowercase) to Key values.
var keyNameMap = map[string]Key{
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"cr":        KeyEnter,
	"tab":       KeyTab,
	"backtab":   KeyBackTab,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"insert":    KeyInsert,
	"ins":       KeyInsert,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pgup":      KeyPageUp,
	"pagedown":  KeyPageDown,
	"pgdn":      KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"f1":        KeyF1,
	"f2":        KeyF2,
	"f3":        KeyF3,
	"f4":        KeyF4,
	"f5":        KeyF5,
	"f6":        KeyF6,
	"f7":        KeyF7,
	"f8":        KeyF8,
	"f9":        KeyF9,
	"f10":       KeyF10,
	"f11":       KeyF11,
	"f12":       KeyF12,
	"paste":     KeyPaste,
	"cpr":       KeyCPR,
	"mouse":     KeyMouse,
	"any":       KeyAny,
}

// KeyFromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func KeyFromName(name string) Key {
	if k, ok := keyNameMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}
	return KeyNone
}

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key. Character keys never carry it;
	// the shifted character is the rune itself.
	ModShift Modifier = 1 << (iota - 1)

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates Alt, or an ESC prefix sent by the terminal.
	ModAlt

	// ModMeta indicates the Meta key.
	ModMeta
)

// Has returns true if m contains all bits of mod.
func (m Modifier) Has(mod Modifier) bool {
	return mod != ModNone && m&mod == mod
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// Without returns m with mod removed.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// String returns a compact representation like "C-A".
func (m Modifier) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "C")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "A")
	}
	if m.Has(ModShift) {
		parts = append(parts, "S")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "M")
	}
	return strings.Join(parts, "-")
}

var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"m":       ModMeta,
	"d":       ModMeta,
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	return modifierNameMap[strings.ToLower(strings.TrimSpace(name))]
}

// XtermModifiers decodes the modifier parameter of an xterm CSI sequence
// ("1;5A" is Ctrl+Up). The parameter is one plus a bit mask.
func XtermModifiers(param int) Modifier {
	if param < 2 {
		return ModNone
	}
	bits := param - 1
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	if bits&8 != 0 {
		m |= ModMeta
	}
	return m
}
