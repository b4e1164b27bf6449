package memos

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter gates every outbound request attempt against a per-minute
// ceiling. It is a token bucket (x/time/rate): capacity refills continuously
// at limit/60 per second with a burst of one full minute's quota, so a cold
// process may spend the whole quota at once but sustained throughput never
// exceeds the configured per-minute rate. State is process-local and resets
// on restart; rate.Limiter serializes concurrent callers internally.
type RateLimiter struct {
	lim *rate.Limiter
}

// NewRateLimiter builds a limiter allowing perMinute requests per minute.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		lim: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
	}
}

// Acquire blocks until a request slot is available or ctx is done. The
// caller's deadline bounds the wait, so a rate-limited call times out rather
// than queueing forever.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	return r.lim.Wait(ctx)
}

// Allow reports whether a slot is available right now without waiting.
func (r *RateLimiter) Allow() bool {
	return r.lim.Allow()
}
