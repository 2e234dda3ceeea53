package trader

import (
	"fmt"
	"time"
)

// DefaultCooldown is the minimum spacing between executed swaps per account.
const DefaultCooldown = 60 * time.Second

// RateLimiter enforces the per-account cooldown. The window is fixed at
// construction; a zero or negative window falls back to the default.
type RateLimiter struct {
	window time.Duration
}

// NewRateLimiter constructs a limiter with the supplied window.
func NewRateLimiter(window time.Duration) RateLimiter {
	if window <= 0 {
		window = DefaultCooldown
	}
	return RateLimiter{window: window}
}

// Window reports the configured cooldown.
func (r RateLimiter) Window() time.Duration { return r.window }

// Check rejects the attempt when fewer than the window's seconds elapsed since
// lastSwap. An account that never swapped (lastSwap zero) always passes, as
// does an elapsed time exactly equal to the window.
func (r RateLimiter) Check(lastSwap int64, now time.Time) error {
	if lastSwap <= 0 {
		return nil
	}
	elapsed := now.Unix() - lastSwap
	window := int64(r.window / time.Second)
	if elapsed < window {
		return fmt.Errorf("%w: retry in %ds", ErrRateLimited, window-elapsed)
	}
	return nil
}
