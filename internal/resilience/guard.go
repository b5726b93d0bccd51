package resilience

import (
	"context"
	"strings"
	"time"

	"companion_bot/pkg"
)

// User-facing fallback messages, surfaced only after every attempt fails.
const (
	MsgOverloaded = "\nPlease, try again later, We are currently under heavy load"
	MsgGeneric    = "\nSomething went wrong, please type \"/start\" to start over"
)

// Operation is any outward call that may fail transiently.
type Operation func(ctx context.Context) error

// Guard retries an operation a fixed number of times with a fixed delay
// between attempts (no exponential growth). Any success is silent to the
// caller; only exhausting every attempt surfaces an error.
type Guard struct {
	Attempts int
	Delay    time.Duration
	// Classify maps the terminal error to a user-facing message. Nil uses
	// the default overloaded/generic split.
	Classify func(error) string
}

// NewGuard builds a guard from configuration.
func NewGuard(cfg pkg.RetryConfig) Guard {
	return Guard{
		Attempts: cfg.Attempts,
		Delay:    time.Duration(cfg.DelaySeconds) * time.Second,
	}
}

// Do runs op up to Attempts times, sleeping Delay between attempts, and
// returns nil on the first success or the last error after exhaustion.
func (g Guard) Do(ctx context.Context, op Operation) error {
	attempts := g.Attempts
	if attempts <= 0 {
		attempts = 4
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && g.Delay > 0 {
			select {
			case <-time.After(g.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr = op(ctx); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// Message classifies a terminal error into the user-facing fallback text.
func (g Guard) Message(err error) string {
	if g.Classify != nil {
		return g.Classify(err)
	}
	return UserMessage(err)
}

// UserMessage is the default classification rule: an "overloaded" signature
// gets the heavy-load variant, anything else the generic restart prompt.
func UserMessage(err error) string {
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "overloaded") {
		return MsgOverloaded
	}
	return MsgGeneric
}
