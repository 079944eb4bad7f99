package vim

// MaxCount caps an accumulated repeat count.
const MaxCount = 99999

// Count accumulates a numeric prefix typed before a command.
type Count struct {
	value  int
	active bool
}

// Reset clears the count.
func (c *Count) Reset() {
	c.value = 0
	c.active = false
}

// Push adds a digit to the count and reports whether it was taken.
// A leading '0' is not a count digit; it is the line-start motion.
func (c *Count) Push(r rune) bool {
	if r < '0' || r > '9' {
		return false
	}
	digit := int(r - '0')
	if !c.active && digit == 0 {
		return false
	}
	c.active = true
	c.value = min(c.value*10+digit, MaxCount)
	return true
}

// Active reports whether any digit has been pushed.
func (c *Count) Active() bool { return c.active }

// Raw returns the typed value, or 0 when no count was given.
func (c *Count) Raw() int { return c.value }

// Value returns the effective count (1 if no count was typed).
func (c *Count) Value() int {
	if c.value <= 0 {
		return 1
	}
	return c.value
}

// IsCountStart reports whether r can begin a count.
func IsCountStart(r rune) bool {
	return r >= '1' && r <= '9'
}

// Combine multiplies a count typed before an operator with one typed
// before its motion, so "2d3w" deletes six words.
func Combine(before, after int) int {
	before = max(before, 1)
	after = max(after, 1)
	if before > MaxCount/after {
		return MaxCount
	}
	return before * after
}
