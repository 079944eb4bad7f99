package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Special keys: "Enter", "Escape", "Tab", "Backspace", "Space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "c-x", "s-tab"
//   - Vim-style: "<C-s>", "<A-f>", "<S-Tab>", "<CR>", "<Esc>", "<Any>"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseCombo(spec[1:len(spec)-1], "-")
	}
	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return NewRuneEvent(r, ModNone), nil
	}
	if strings.Contains(spec, "+") {
		return parseCombo(spec, "+")
	}
	return parseCombo(spec, "-")
}

// parseCombo parses "mod<sep>mod<sep>key" where the key part is last.
func parseCombo(spec, sep string) (Event, error) {
	parts := strings.Split(spec, sep)
	// A trailing empty part means the key itself is the separator ("C--").
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = append(parts[:len(parts)-2], sep)
	}
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		m := ModifierFromName(p)
		if m == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, p, spec)
		}
		mods = mods.With(m)
	}
	return parseKey(parts[len(parts)-1], mods)
}

func parseKey(name string, mods Modifier) (Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Event{}, ErrInvalidSpec
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if mods.Has(ModCtrl) {
			r = unicode.ToLower(r)
		}
		return NewRuneEvent(r, mods), nil
	}

	switch strings.ToLower(name) {
	case "space":
		return NewRuneEvent(' ', mods), nil
	case "lt":
		return NewRuneEvent('<', mods), nil
	case "gt":
		return NewRuneEvent('>', mods), nil
	case "bar":
		return NewRuneEvent('|', mods), nil
	case "minus":
		return NewRuneEvent('-', mods), nil
	case "bslash":
		return NewRuneEvent('\\', mods), nil
	}

	k := KeyFromName(name)
	if k == KeyNone {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
	}
	// Shift+Tab is reported by terminals as its own key.
	if k == KeyTab && mods.Has(ModShift) {
		return NewSpecialEvent(KeyBackTab, mods.Without(ModShift)), nil
	}
	return NewSpecialEvent(k, mods), nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	e, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return e
}

// ParseSequence parses a key sequence string into a Sequence.
// The string can contain space-separated keys or a continuous Vim-style sequence.
// Examples: "g g", "d i w", "<C-x><C-e>", "dd"
func ParseSequence(s string) (Sequence, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptySpec
	}

	var seq Sequence
	if strings.Contains(s, " ") {
		for _, part := range strings.Fields(s) {
			e, err := Parse(part)
			if err != nil {
				return nil, err
			}
			seq = append(seq, e)
		}
		return seq, nil
	}

	for i := 0; i < len(s); {
		if s[i] == '<' {
			if end := strings.IndexByte(s[i:], '>'); end > 1 {
				e, err := Parse(s[i : i+end+1])
				if err != nil {
					return nil, err
				}
				seq = append(seq, e)
				i += end + 1
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		seq = append(seq, NewRuneEvent(r, ModNone))
		i += size
	}
	return seq, nil
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(s string) Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
