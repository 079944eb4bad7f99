// Package keymap holds the key-binding table.
//
// A Binding maps a key sequence to a named action, scoped to a set of
// modes and guarded by a Filter. The Registry indexes bindings in a prefix
// tree so the dispatcher can ask two questions about a pending sequence:
// which bindings match it exactly, and whether any active binding is
// strictly longer.
//
// Patterns may contain the <Any> wildcard, which matches any printable
// character. Exact keys win over wildcards when both match.
package keymap
