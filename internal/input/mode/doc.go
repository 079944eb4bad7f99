// Package mode defines the editing modes a session can be in and the
// Manager that switches between them.
//
// Exactly one Mode is active at a time. Modes only change through
// Manager.Switch, which actions call; the dispatcher itself never changes
// mode.
package mode
