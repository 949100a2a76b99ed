// Package retry reconnects transient model-provider failures with
// exponential backoff. Errors categorized via pal.CategorizedError are
// classified directly; everything else falls back to status-code and
// network heuristics.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config shapes the backoff schedule.
type Config struct {
	// MaxAttempts is the total number of attempts, counting the first
	// call. Values below 1 are treated as 1.
	MaxAttempts int

	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the wait between retries.
	MaxDelay time.Duration

	// Multiplier grows the delay per attempt.
	Multiplier float64

	// Jitter randomizes each delay by up to the given fraction in either
	// direction, spreading reconnects from concurrent threads.
	Jitter float64
}

// DefaultConfig suits interactive runs: 5 attempts, 500ms initial
// delay doubling to a 30s cap, 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled makes a single attempt with no retries.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay returns the backoff before retry number attempt (0-indexed):
// min(MaxDelay, InitialDelay * Multiplier^attempt), jittered.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	if c.Jitter > 0 {
		delay *= 1.0 + (rand.Float64()*2-1)*c.Jitter
	}
	return time.Duration(delay)
}
