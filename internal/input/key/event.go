package key

import (
	"fmt"
	"strings"
	"unicode"
)

// MouseButton identifies the button in a mouse report.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction identifies what happened to the button.
type MouseAction uint8

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMove
)

// Mouse is the payload of a KeyMouse event. Row and Col are zero based.
type Mouse struct {
	Button MouseButton
	Action MouseAction
	Row    int
	Col    int
}

// Position is the payload of a KeyCPR event, as reported by the terminal
// (one based).
type Position struct {
	Row int
	Col int
}

// Event represents a single decoded key press.
//
// Events are plain values: two events decoded from the same bytes compare
// equal with ==.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Data holds the raw bytes the event was decoded from, or the pasted
	// text for KeyPaste.
	Data string

	// Mouse is set for KeyMouse events.
	Mouse Mouse

	// Report is set for KeyCPR events.
	Report Position
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// NewPasteEvent creates the event for a completed bracketed paste.
func NewPasteEvent(text string) Event {
	return Event{Key: KeyPaste, Data: text}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character without Ctrl, Alt or Meta.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && !e.IsModified()
}

// IsModified returns true if Ctrl, Alt or Meta is held.
func (e Event) IsModified() bool {
	return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
}

// IsEscape returns true if this is the Escape key with no modifiers.
func (e Event) IsEscape() bool {
	return e.Key == KeyEscape && e.Modifiers == ModNone
}

// EscapePrefixed reports whether the terminal produced this Alt combination
// by sending ESC followed by a single byte. Such events can be split back
// into Escape and the unmodified key.
func (e Event) EscapePrefixed() bool {
	return e.Modifiers == ModAlt && len(e.Data) >= 2 && e.Data[0] == 0x1b && e.Data[1] != '[' && e.Data[1] != 'O'
}

// WithoutAlt returns the event the byte after the ESC prefix decodes to.
func (e Event) WithoutAlt() Event {
	out := e
	out.Modifiers = out.Modifiers.Without(ModAlt)
	if len(out.Data) > 0 {
		out.Data = out.Data[1:]
	}
	return out
}

// Equals returns true if two events name the same key. Raw bytes are not
// compared, except for pastes where the text is the payload.
func (e Event) Equals(other Event) bool {
	if e.Key != other.Key || e.Rune != other.Rune || e.Modifiers != other.Modifiers {
		return false
	}
	switch e.Key {
	case KeyPaste:
		return e.Data == other.Data
	case KeyMouse:
		return e.Mouse == other.Mouse
	case KeyCPR:
		return e.Report == other.Report
	}
	return true
}

// Matches reports whether the event satisfies a binding pattern event.
// The KeyAny pattern matches any printable character.
func (e Event) Matches(pattern Event) bool {
	if pattern.Key == KeyAny {
		return e.IsChar()
	}
	return e.Key == pattern.Key && e.Rune == pattern.Rune && e.Modifiers == pattern.Modifiers
}

// String returns the canonical name used in binding tables and logs.
// Examples: "a", "C-x", "A-f", "S-Up", "Esc", "Space".
func (e Event) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		switch e.Rune {
		case ' ':
			name = "Space"
		case '-':
			name = "Minus"
		default:
			name = string(e.Rune)
		}
	}
	if mods := e.Modifiers.String(); mods != "" {
		return mods + "-" + name
	}
	return name
}

// VimString returns a Vim-style representation such as "<C-s>" or "a".
func (e Event) VimString() string {
	if e.Key == KeyRune && e.Modifiers == ModNone && e.Rune != ' ' && e.Rune != '<' {
		return string(e.Rune)
	}
	var sb strings.Builder
	sb.WriteByte('<')
	if mods := e.Modifiers.String(); mods != "" {
		sb.WriteString(mods)
		sb.WriteByte('-')
	}
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		sb.WriteString("Space")
	case e.Key == KeyRune && e.Rune == '<':
		sb.WriteString("lt")
	case e.Key == KeyRune:
		sb.WriteRune(e.Rune)
	case e.Key == KeyEnter:
		sb.WriteString("CR")
	default:
		sb.WriteString(e.Key.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("key.Event{Key: %s, Rune: %q, Modifiers: %q, Data: %q}",
		e.Key, e.Rune, e.Modifiers.String(), e.Data)
}
