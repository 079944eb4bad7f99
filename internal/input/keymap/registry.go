package keymap

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/mode"
)

// anyKey is the tree edge used by <Any> patterns.
var anyKey = key.NewSpecialEvent(key.KeyAny, key.ModNone).String()

// Registry indexes bindings for lookup by key sequence.
// It is populated at startup and read during dispatch; it is safe for
// concurrent use so configuration reloads can replace bindings.
type Registry struct {
	mu    sync.RWMutex
	root  *prefixNode
	order int
	count int
}

// prefixNode is a node in the prefix tree.
type prefixNode struct {
	children map[string]*prefixNode
	entries  []*entry
}

type entry struct {
	binding   Binding
	order     int
	wildcards int
}

func newNode() *prefixNode {
	return &prefixNode{children: make(map[string]*prefixNode)}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{root: newNode()}
}

// Add registers bindings. Later bindings win ties against earlier ones
// with the same priority, so user bindings added last override defaults.
func (r *Registry) Add(bindings ...Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range bindings {
		if len(b.Keys) == 0 {
			return fmt.Errorf("binding for %q has no keys", b.Action)
		}
		if b.Action == "" {
			return fmt.Errorf("binding %s has no action", b.Keys.VimString())
		}
		node := r.root
		wildcards := 0
		for _, ev := range b.Keys {
			edge := ev.String()
			if ev.Key == key.KeyAny {
				edge = anyKey
				wildcards++
			}
			child, ok := node.children[edge]
			if !ok {
				child = newNode()
				node.children[edge] = child
			}
			node = child
		}
		r.order++
		r.count++
		node.entries = append(node.entries, &entry{binding: b, order: r.order, wildcards: wildcards})
	}
	return nil
}

// RemoveAction drops every binding for action and returns how many were removed.
func (r *Registry) RemoveAction(action string) int {
	return r.RemoveFunc(func(b Binding) bool { return b.Action == action })
}

// RemoveFunc drops every binding for which drop returns true and returns
// how many were removed.
func (r *Registry) RemoveFunc(drop func(Binding) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := removeFrom(r.root, drop)
	r.count -= removed
	return removed
}

func removeFrom(node *prefixNode, drop func(Binding) bool) int {
	removed := 0
	kept := node.entries[:0]
	for _, e := range node.entries {
		if drop(e.binding) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	node.entries = kept
	for edge, child := range node.children {
		removed += removeFrom(child, drop)
		// Prune empty nodes
		if len(child.entries) == 0 && len(child.children) == 0 {
			delete(node.children, edge)
		}
	}
	return removed
}

// Len returns the number of registered bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// walk returns every node reached by seq, following exact edges and
// wildcard edges for printable characters.
func (r *Registry) walk(seq key.Sequence) []*prefixNode {
	nodes := []*prefixNode{r.root}
	for _, ev := range seq {
		var next []*prefixNode
		for _, n := range nodes {
			if child, ok := n.children[ev.String()]; ok && ev.Key != key.KeyAny {
				next = append(next, child)
			}
			if ev.IsChar() {
				if child, ok := n.children[anyKey]; ok {
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		nodes = next
	}
	return nodes
}

// Lookup returns the active bindings matching seq exactly, best first, and
// whether an active binding strictly longer than seq exists.
func (r *Registry) Lookup(seq key.Sequence, m mode.Mode, ctx *LookupContext) (exact []*Binding, longer bool) {
	if len(seq) == 0 {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*entry
	for _, n := range r.walk(seq) {
		for _, e := range n.entries {
			if e.binding.Active(m, ctx) {
				matches = append(matches, e)
			}
		}
		if !longer {
			for _, child := range n.children {
				if hasActive(child, m, ctx) {
					longer = true
					break
				}
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.binding.Priority != b.binding.Priority {
			return a.binding.Priority > b.binding.Priority
		}
		if a.wildcards != b.wildcards {
			return a.wildcards < b.wildcards
		}
		return a.order > b.order
	})
	exact = make([]*Binding, len(matches))
	for i, e := range matches {
		b := e.binding
		exact[i] = &b
	}
	return exact, longer
}

// Exact returns the best active binding for seq, or nil.
func (r *Registry) Exact(seq key.Sequence, m mode.Mode, ctx *LookupContext) *Binding {
	exact, _ := r.Lookup(seq, m, ctx)
	if len(exact) == 0 {
		return nil
	}
	return exact[0]
}

func hasActive(node *prefixNode, m mode.Mode, ctx *LookupContext) bool {
	for _, e := range node.entries {
		if e.binding.Active(m, ctx) {
			return true
		}
	}
	for _, child := range node.children {
		if hasActive(child, m, ctx) {
			return true
		}
	}
	return false
}

// Bindings returns every registered binding in registration order.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*entry
	var collect func(*prefixNode)
	collect = func(n *prefixNode) {
		all = append(all, n.entries...)
		for _, child := range n.children {
			collect(child)
		}
	}
	collect(r.root)
	sort.Slice(all, func(i, j int) bool { return all[i].order < all[j].order })

	out := make([]Binding, len(all))
	for i, e := range all {
		out[i] = e.binding
	}
	return out
}
