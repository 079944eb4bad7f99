// Package history keeps the undo/redo list of a buffer.
//
// History stores whole document snapshots rather than reversible commands.
// Entries form a single list with a current index: undo and redo move the
// index, and pushing a new snapshot discards everything after it. Snapshots
// pushed inside a group replace each other, so a burst of edits such as one
// Vi insert session undoes as a single step.
package history
