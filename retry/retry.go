package retry

import (
	"context"
	"errors"
	"time"

	pal "github.com/agenticpal/pal"
)

// Do runs fn until it succeeds, fails permanently, or the attempt
// budget runs out. Only transient errors are retried; backoff waits
// respect context cancellation. Returns the last error on exhaustion.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsTransient(err) || attempt >= max(cfg.MaxAttempts, 1) {
			return zero, lastErr
		}
		if err := wait(ctx, delayFor(err, cfg, attempt)); err != nil {
			return zero, err
		}
	}
}

// DoStream is Do for stream-opening functions. It retries establishing
// the channel; once a channel is handed out, its contents are the
// caller's problem.
func DoStream[T any](ctx context.Context, cfg Config, fn func() (<-chan T, error)) (<-chan T, error) {
	return Do(ctx, cfg, fn)
}

// delayFor prefers the server-suggested delay when the error carries
// one, falling back to the configured backoff.
func delayFor(err error, cfg Config, attempt int) time.Duration {
	var ce pal.CategorizedError
	if errors.As(err, &ce) {
		if d := ce.RetryAfter(); d > 0 {
			return d
		}
	}
	return cfg.Delay(attempt - 1)
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
