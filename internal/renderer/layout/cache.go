package layout

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// LexCache caches lexed lines with LRU eviction. Entries are keyed by
// line content, so an edited line is simply a miss.
type LexCache struct {
	mu        sync.Mutex
	entries   map[uint64]*cacheEntry
	lexer     Lexer
	maxSize   int
	clock     uint64
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	line       string
	fragments  Fragments
	lastAccess uint64
}

// NewLexCache creates a cache in front of lexer.
// maxSize is the maximum number of lines to cache (0 = unlimited, not recommended).
func NewLexCache(lexer Lexer, maxSize int) *LexCache {
	return &LexCache{
		entries: make(map[uint64]*cacheEntry),
		lexer:   lexer,
		maxSize: max(maxSize, 0),
	}
}

// Lex returns the fragments for line, lexing it on a miss.
func (c *LexCache) Lex(line string) Fragments {
	key := hashLine(line)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.line == line {
		c.clock++
		e.lastAccess = c.clock
		c.mu.Unlock()
		c.hits.Add(1)
		return e.fragments
	}
	c.mu.Unlock()

	c.misses.Add(1)
	fragments := c.lexer.Lex(line)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock++
	c.entries[key] = &cacheEntry{line: line, fragments: fragments, lastAccess: c.clock}
	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evict()
	}
	return fragments
}

// evict removes the least recently used entries until under maxSize.
// Must be called with the lock held.
func (c *LexCache) evict() {
	for len(c.entries) > c.maxSize {
		var oldest uint64
		oldestTime := ^uint64(0)
		for key, e := range c.entries {
			if e.lastAccess < oldestTime {
				oldest, oldestTime = key, e.lastAccess
			}
		}
		delete(c.entries, oldest)
		c.evictions.Add(1)
	}
}

// Clear empties the cache.
func (c *LexCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cacheEntry)
}

// Size returns the number of cached entries.
func (c *LexCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *LexCache) Stats() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Size:      c.Size(),
		MaxSize:   c.maxSize,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int     // Current number of entries
	MaxSize   int     // Maximum entries allowed
	Hits      uint64  // Number of cache hits
	Misses    uint64  // Number of cache misses
	Evictions uint64  // Number of evicted entries
	HitRate   float64 // Hit rate (0.0 - 1.0)
}

// hashLine computes a hash of line content using FNV-1a.
func hashLine(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
