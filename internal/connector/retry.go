package connector

import (
	"context"
	"time"
)

// RetryPolicy controls the retry loop around backend calls.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int
	// InitialDelay is the backoff before the second attempt; it doubles
	// after every failed attempt up to MaxDelay.
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryPolicy matches the backend contract: three attempts,
// exponential backoff from one second capped at sixty.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     60 * time.Second,
	}
}

// sleep is swapped out in tests.
var sleep = time.Sleep

// Retry runs op until it succeeds, the error is not retryable according to
// the predicate, or the attempts are exhausted. The last error is returned
// unmodified, so callers see exactly what the backend raised. Backoff is
// applied only between attempts, never after the final one.
func Retry[T any](ctx context.Context, policy RetryPolicy, retryable func(error) bool, op func(context.Context) (T, error)) (T, error) {
	var zero T

	delay := policy.InitialDelay
	for attempt := 1; ; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}

		if attempt >= policy.MaxAttempts || !retryable(err) {
			return zero, err
		}

		if waitErr := waitFor(ctx, delay); waitErr != nil {
			return zero, waitErr
		}

		delay *= 2
		if delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
}

// waitFor sleeps for d without losing context cancellation.
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
