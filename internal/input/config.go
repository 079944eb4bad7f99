package input

import "time"

// FallbackAction is the action run for unbound printable keys in modes
// that insert text.
const FallbackAction = "edit.selfInsert"

// Config configures a Processor.
type Config struct {
	// AmbiguityTimeout is how long a pending sequence that is both a
	// binding and a prefix of a longer one waits for more keys. Zero
	// disables the timer; the host must then call Flush.
	AmbiguityTimeout time.Duration

	// MaxPendingKeys forces resolution once the pending sequence grows
	// beyond this many keys.
	MaxPendingKeys int

	// Fallback names the action for unbound printable keys.
	Fallback string
}

// DefaultConfig returns the default processor configuration.
func DefaultConfig() Config {
	return Config{
		AmbiguityTimeout: 500 * time.Millisecond,
		MaxPendingKeys:   8,
		Fallback:         FallbackAction,
	}
}

func (c Config) normalized() Config {
	if c.MaxPendingKeys <= 0 {
		c.MaxPendingKeys = DefaultConfig().MaxPendingKeys
	}
	if c.Fallback == "" {
		c.Fallback = FallbackAction
	}
	return c
}
