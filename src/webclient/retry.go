package webclient

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"
)

type AttemptFunc func() (status int, body []byte, err error)

// DefaultInitialDelay is the first backoff used by the model providers.
const DefaultInitialDelay = 2 * time.Second

const maxDoublingDelay = 30 * time.Second

// Retryable reports whether a response status is worth another attempt.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// DoWithRetry runs fn up to attempts times, retrying on transient statuses
// (429/5xx) or transport errors with doubling, jittered delays. attempts <= 1
// means a single call with no retry.
func DoWithRetry(ctx context.Context, attempts int, initialDelay time.Duration, fn AttemptFunc) (int, []byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	delay := initialDelay
	for i := 0; i < attempts; i++ {
		status, body, err := fn()
		if !shouldRetry(status, err) || i == attempts-1 {
			return status, body, err
		}
		t := time.NewTimer(jitter(delay))
		select {
		case <-ctx.Done():
			t.Stop()
			return status, body, ctx.Err()
		case <-t.C:
		}
		delay = nextDelay(delay)
	}
	return 0, nil, context.DeadlineExceeded
}

// MaxBackoff is the longest DoWithRetry can sleep between attempts for the
// given attempts and initialDelay.
func MaxBackoff(attempts int, initialDelay time.Duration) time.Duration {
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	var total time.Duration
	delay := initialDelay
	for i := 1; i < attempts; i++ {
		total += delay
		delay = nextDelay(delay)
	}
	return total
}

func nextDelay(d time.Duration) time.Duration {
	if d < maxDoublingDelay {
		return d * 2
	}
	return d
}

// shouldRetry retries transport failures (no status) and transient statuses.
func shouldRetry(status int, err error) bool {
	if status != 0 {
		return Retryable(status)
	}
	return err != nil
}

// jitter spreads d over [d/2, d).
func jitter(d time.Duration) time.Duration {
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + rand.N(half)
}
