package history

import (
	"errors"
	"sync"

	"github.com/dshills/promptline/internal/engine/document"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultLimit is the number of entries kept when no limit is given.
const DefaultLimit = 1000

// History manages undo/redo state for a buffer.
type History struct {
	mu sync.Mutex

	entries []document.Document
	index   int

	// Grouping state
	grouping   bool
	groupDepth int
	groupOpen  bool

	limit int
}

// New creates a history whose only entry is initial.
func New(initial document.Document, limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{
		entries: []document.Document{initial},
		limit:   limit,
	}
}

// Current returns the snapshot at the current index.
func (h *History) Current() document.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Index returns the current position in the entry list.
func (h *History) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Push records doc as the newest snapshot and clears the redo tail.
// A snapshot whose text equals the current entry only updates its cursor.
// Inside a group, every push after the first replaces the group's entry.
func (h *History) Push(doc document.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = h.entries[:h.index+1]
	if h.entries[h.index].Text() == doc.Text() {
		h.entries[h.index] = doc
		return
	}
	if h.grouping && h.groupOpen {
		h.entries[h.index] = doc
		return
	}

	h.entries = append(h.entries, doc)
	h.index++
	if h.grouping {
		h.groupOpen = true
	}

	if excess := len(h.entries) - h.limit; excess > 0 {
		h.entries = append(h.entries[:0:0], h.entries[excess:]...)
		h.index -= excess
	}
}

// Replace overwrites the current entry without creating an undo step.
func (h *History) Replace(doc document.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = doc
}

// Undo moves back one entry and returns it.
func (h *History) Undo() (document.Document, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == 0 {
		return h.entries[0], ErrNothingToUndo
	}
	h.closeGroupLocked()
	h.index--
	return h.entries[h.index], nil
}

// Redo moves forward one entry and returns it.
func (h *History) Redo() (document.Document, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index+1 >= len(h.entries) {
		return h.entries[h.index], ErrNothingToRedo
	}
	h.closeGroupLocked()
	h.index++
	return h.entries[h.index], nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index+1 < len(h.entries)
}

// BeginGroup starts coalescing pushes into one entry. Groups nest; only
// the outermost EndGroup closes the group.
func (h *History) BeginGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.groupDepth++
	if h.groupDepth == 1 {
		h.grouping = true
		h.groupOpen = false
	}
}

// EndGroup finishes the group started by BeginGroup.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groupDepth == 0 {
		return
	}
	h.groupDepth--
	if h.groupDepth == 0 {
		h.grouping = false
		h.groupOpen = false
	}
}

// IsGrouping returns true if currently in a group.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// closeGroupLocked makes the next push inside a group start a new entry,
// so undoing mid-group never merges into an older snapshot.
func (h *History) closeGroupLocked() {
	h.groupOpen = false
}

// Reset discards all entries and starts over from doc.
func (h *History) Reset(doc document.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = []document.Document{doc}
	h.index = 0
	h.grouping = false
	h.groupDepth = 0
	h.groupOpen = false
}
