package mouse

import "time"

// clickSeq is a run of presses landing close together in time and space.
// The zero value means no run is in progress.
type clickSeq struct {
	at    time.Time
	pos   Position
	count int
}

// continues reports whether a press at pos and at extends s. A press
// that arrives before the previous one never does.
func (s clickSeq) continues(pos Position, at time.Time, window time.Duration, slop int) bool {
	if s.count == 0 {
		return false
	}
	gap := at.Sub(s.at)
	return gap >= 0 && gap <= window && pos.Distance(s.pos) <= slop
}

// next returns the run after a press at pos. Counts cycle 1, 2, 3, 1.
func (s clickSeq) next(pos Position, at time.Time, window time.Duration, slop int) clickSeq {
	n := 1
	if s.continues(pos, at, window, slop) {
		n = s.count%3 + 1
	}
	return clickSeq{at: at, pos: pos, count: n}
}

// press records a left press and returns its position in the click run.
// A zero time stands for now.
func (t *Tracker) press(pos Position, at time.Time) int {
	if at.IsZero() {
		at = time.Now()
	}
	t.clicks = t.clicks.next(pos, at, t.config.DoubleClickTime, t.config.DoubleClickDistance)
	return t.clicks.count
}
