package apperr

import (
	"context"
	"time"
)

// RetryConfig bounds Retry.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryConfig allows three retries starting at one second.
var DefaultRetryConfig = RetryConfig{MaxRetries: 3, BaseDelay: time.Second}

// Retry runs fn until it succeeds, fails with a non-retryable error, or runs out of attempts.
// The delay before retry n (0-based) is BaseDelay * 2^n.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(cfg.BaseDelay << attempt)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, lastErr
}
