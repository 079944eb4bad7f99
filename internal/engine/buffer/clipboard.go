package buffer

import (
	"sync"

	"github.com/dshills/promptline/internal/engine/document"
)

// ClipboardData is text cut or copied from a buffer.
type ClipboardData struct {
	Text string
	Type document.SelectionType
}

// Clipboard stores cut text between edits.
type Clipboard interface {
	Set(data ClipboardData)
	Get() ClipboardData
	// Rotate moves to the previous entry, for Emacs yank-pop.
	Rotate() ClipboardData
}

// DefaultRingSize is the number of entries kept by a MemoryClipboard.
const DefaultRingSize = 60

// MemoryClipboard is a process-local kill ring.
type MemoryClipboard struct {
	mu   sync.Mutex
	ring []ClipboardData
	max  int
}

// NewMemoryClipboard creates a kill ring holding up to size entries.
func NewMemoryClipboard(size int) *MemoryClipboard {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &MemoryClipboard{max: size}
}

// Set pushes data onto the ring.
func (c *MemoryClipboard) Set(data ClipboardData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ring = append(c.ring, data)
	if len(c.ring) > c.max {
		c.ring = c.ring[len(c.ring)-c.max:]
	}
}

// Get returns the newest entry.
func (c *MemoryClipboard) Get() ClipboardData {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.ring) == 0 {
		return ClipboardData{}
	}
	return c.ring[len(c.ring)-1]
}

// Rotate moves the newest entry to the back and returns the new newest.
func (c *MemoryClipboard) Rotate() ClipboardData {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.ring) == 0 {
		return ClipboardData{}
	}
	last := c.ring[len(c.ring)-1]
	copy(c.ring[1:], c.ring[:len(c.ring)-1])
	c.ring[0] = last
	return c.ring[len(c.ring)-1]
}
