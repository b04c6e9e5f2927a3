package retry

import (
	"context"
	"errors"
	"time"
)

// ErrRetry signals that the attempted operation failed in a way
// that another attempt may recover from.
var ErrRetry = errors.New("retry")

// Backoff blocks until the next attempt should be made.
//
// It returns ctx.Err() when the context is cancelled while waiting,
// and nil when the caller may retry.
type Backoff func(ctx context.Context) error

// StaticBackoff waits a fixed interval between attempts.
func StaticBackoff(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1)
}

// ExponentialBackoff waits initialInterval before the first attempt and
// multiplies the wait by r after each one.
func ExponentialBackoff(initialInterval time.Duration, r float64) Backoff {
	interval := initialInterval
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer func() {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			interval = time.Duration(float64(interval) * r)
			return nil
		}
	}
}

// Blocking calls f until it succeeds, fails with an error other than
// ErrRetry, or ctx is cancelled during backoff.
//
// The backoff b runs before every attempt, including the first.
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	last := *new(T)
	for {
		if err := b(ctx); err != nil {
			return last, err
		}

		var err error
		last, err = f()
		if err == nil {
			return last, nil
		}
		if errors.Is(err, ErrRetry) {
			continue
		}
		return last, err
	}
}
