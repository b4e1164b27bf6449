package memos

import (
	"context"
	"math/rand"
	"time"
)

const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 10 * time.Second
)

// retryPolicy decides whether and how long to wait before the next attempt.
// maxRetries counts additional attempts beyond the first.
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func defaultRetryPolicy(maxRetries int) retryPolicy {
	return retryPolicy{
		maxRetries: maxRetries,
		baseDelay:  retryBaseDelay,
		maxDelay:   retryMaxDelay,
	}
}

// retryState is the per-call retry context: an attempt counter plus the last
// classified error. Created at call start, discarded at call end.
type retryState struct {
	policy  retryPolicy
	attempt int
	lastErr *APIError
}

func newRetryState(policy retryPolicy) *retryState {
	return &retryState{policy: policy}
}

// attempts returns how many attempts have been made so far.
func (s *retryState) attempts() int {
	return s.attempt
}

// record notes the outcome of the attempt that just finished.
func (s *retryState) record(err *APIError) {
	s.attempt++
	s.lastErr = err
}

// shouldRetry reports whether another attempt is allowed: the last error must
// be transient and the retry budget not yet exhausted.
func (s *retryState) shouldRetry() bool {
	if s.lastErr == nil || !s.lastErr.retryable() {
		return false
	}
	return s.attempt <= s.policy.maxRetries
}

// wait sleeps for the backoff delay of the attempt that just failed, or
// returns early when ctx is cancelled. Cancellation aborts the whole call;
// a partially completed retry sequence is never resumed.
func (s *retryState) wait(ctx context.Context) error {
	delay := s.policy.backoffFor(s.attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// backoffFor computes the delay after a failed attempt (0-based): base delay
// doubling per attempt, capped, plus up to 50% random jitter to avoid
// synchronized retries.
func (p retryPolicy) backoffFor(attempt int) time.Duration {
	delay := p.baseDelay
	for i := 0; i < attempt && delay < p.maxDelay; i++ {
		delay *= 2
	}
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1))
	return delay + jitter
}
