package key

import "strings"

// Sequence is an ordered list of key events forming a command,
// for example "g g" or "C-x C-e".
type Sequence []Event

// Len returns the number of events in the sequence.
func (s Sequence) Len() int { return len(s) }

// Clone returns a copy that shares no storage with s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Equals returns true if both sequences hold equal events.
func (s Sequence) Equals(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equals(other[i]) {
			return false
		}
	}
	return true
}

// HasPrefix returns true if s starts with prefix.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)].Equals(prefix)
}

// Head returns the first n events.
func (s Sequence) Head(n int) Sequence {
	n = min(max(n, 0), len(s))
	return s[:n].Clone()
}

// Tail returns the sequence without its first n events.
func (s Sequence) Tail(n int) Sequence {
	n = min(max(n, 0), len(s))
	return s[n:].Clone()
}

// String returns the events joined by spaces, e.g. "g g".
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// VimString returns a Vim-style representation, e.g. "gg" or "<C-x><C-e>".
func (s Sequence) VimString() string {
	var sb strings.Builder
	for _, e := range s {
		sb.WriteString(e.VimString())
	}
	return sb.String()
}

// Text returns the characters of a sequence made only of plain characters.
func (s Sequence) Text() (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	var sb strings.Builder
	for _, e := range s {
		if !e.IsChar() {
			return "", false
		}
		sb.WriteRune(e.Rune)
	}
	return sb.String(), true
}
