package middleware

import "time"

// SetClock replaces the rate limiter's time source in tests.
func (rl *RateLimit) SetClock(now func() time.Time) { rl.now = now }
