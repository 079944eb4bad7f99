package mode

import (
	"fmt"
	"strings"
)

// Mode is an editing mode.
type Mode uint8

const (
	// Emacs is modeless editing: every printable key inserts.
	Emacs Mode = iota
	// ViInsert inserts typed characters.
	ViInsert
	// ViNavigation interprets keys as motions and operators.
	ViNavigation
	// ViReplace overwrites the characters under the cursor.
	ViReplace
	// ViVisualChar selects characters.
	ViVisualChar
	// ViVisualLine selects whole lines.
	ViVisualLine
	// ViVisualBlock selects a rectangle.
	ViVisualBlock

	modeCount
)

var modeNames = [...]string{
	Emacs:         "emacs",
	ViInsert:      "vi-insert",
	ViNavigation:  "vi-navigation",
	ViReplace:     "vi-replace",
	ViVisualChar:  "vi-visual",
	ViVisualLine:  "vi-visual-line",
	ViVisualBlock: "vi-visual-block",
}

// String returns the mode's configuration name.
func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Label returns the short indicator shown in the mode toolbar.
func (m Mode) Label() string {
	switch m {
	case ViInsert:
		return "-- INSERT --"
	case ViReplace:
		return "-- REPLACE --"
	case ViVisualChar:
		return "-- VISUAL --"
	case ViVisualLine:
		return "-- VISUAL LINE --"
	case ViVisualBlock:
		return "-- VISUAL BLOCK --"
	default:
		return ""
	}
}

// Parse returns the mode with the given configuration name.
func Parse(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m := Mode(0); m < modeCount; m++ {
		if modeNames[m] == name {
			return m, nil
		}
	}
	switch name {
	case "vi", "vi-normal", "normal":
		return ViNavigation, nil
	case "insert":
		return ViInsert, nil
	case "visual":
		return ViVisualChar, nil
	}
	return Emacs, fmt.Errorf("unknown mode %q", name)
}

// IsVi reports whether m is one of the Vi modes.
func (m Mode) IsVi() bool { return m != Emacs && m < modeCount }

// IsVisual reports whether m is a Vi visual mode.
func (m Mode) IsVisual() bool {
	return m == ViVisualChar || m == ViVisualLine || m == ViVisualBlock
}

// Inserts reports whether unbound printable keys insert text in m.
func (m Mode) Inserts() bool {
	return m == Emacs || m == ViInsert || m == ViReplace
}

// AcceptsCount reports whether digit keys build a repeat count in m.
func (m Mode) AcceptsCount() bool {
	return m == ViNavigation || m.IsVisual()
}

// CursorStyle is the terminal cursor shape requested by a mode.
type CursorStyle uint8

const (
	CursorBlock CursorStyle = iota
	CursorBar
	CursorUnderline
)

func (c CursorStyle) String() string {
	switch c {
	case CursorBar:
		return "bar"
	case CursorUnderline:
		return "underline"
	default:
		return "block"
	}
}

// CursorStyle returns the cursor shape for m.
func (m Mode) CursorStyle() CursorStyle {
	switch m {
	case Emacs, ViInsert:
		return CursorBar
	case ViReplace:
		return CursorUnderline
	default:
		return CursorBlock
	}
}

// Set is a bit set of modes used to scope bindings.
type Set uint16

// All contains every mode.
const All Set = 1<<modeCount - 1

// Vi contains every Vi mode.
const Vi = All &^ (1 << Emacs)

// Visual contains the three visual modes.
const Visual Set = 1<<ViVisualChar | 1<<ViVisualLine | 1<<ViVisualBlock

// Of builds a set from modes.
func Of(modes ...Mode) Set {
	var s Set
	for _, m := range modes {
		s |= 1 << m
	}
	return s
}

// Has reports whether m is in s.
func (s Set) Has(m Mode) bool { return s&(1<<m) != 0 }

// String lists the modes in s.
func (s Set) String() string {
	if s == All {
		return "all"
	}
	var names []string
	for m := Mode(0); m < modeCount; m++ {
		if s.Has(m) {
			names = append(names, m.String())
		}
	}
	return strings.Join(names, ",")
}

// ParseSet parses a comma separated list of mode names. The names "all",
// "vi" and "visual" expand to groups.
func ParseSet(spec string) (Set, error) {
	var s Set
	for _, part := range strings.Split(spec, ",") {
		switch p := strings.ToLower(strings.TrimSpace(part)); p {
		case "":
		case "all":
			s |= All
		case "vi":
			s |= Vi
		case "visual":
			s |= Visual
		default:
			m, err := Parse(p)
			if err != nil {
				return 0, err
			}
			s |= Of(m)
		}
	}
	if s == 0 {
		return 0, fmt.Errorf("empty mode set %q", spec)
	}
	return s, nil
}
