package history

// GroupScope provides a convenient way to group pushes using defer.
// Usage:
//
//	func insertSession(h *History) {
//	    defer h.GroupScope().End()
//	    // ... multiple edits ...
//	}
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
func (h *History) GroupScope() *GroupScope {
	h.BeginGroup()
	return &GroupScope{history: h, active: true}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}
