// Package input turns key events into editor actions.
//
// A Processor accumulates key events into a pending sequence and looks it
// up in a keymap.Registry for the active mode. Each Feed returns an
// Outcome:
//
//   - Executed: a binding matched and its action ran.
//   - Pending: the sequence is a prefix of a longer binding. The processor
//     waits for more keys or for the ambiguity timeout.
//   - NoMatch: nothing matched. The longest matching prefix runs and the
//     remaining keys are fed again; a lone printable key in an inserting
//     mode goes to the fallback action instead.
//
// Actions are plain functions registered by name in an Actions table and
// receive an *Event describing the keys, the repeat count and the editing
// environment.
//
// The processor is owned by the session loop and is not safe for
// concurrent use.
package input
