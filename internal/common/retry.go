// Package common provides shared utilities for Folio
package common

import (
	"context"
	"errors"
	"time"
)

// Retry invokes op up to maxAttempts times, sleeping between attempts with
// the delay doubling each time. The delay is local to this call: concurrent
// and consecutive invocations never share backoff state. A missing API
// key is permanent and never retried. The final attempt's error is
// returned unwrapped.
func Retry(ctx context.Context, maxAttempts int, initialDelay time.Duration, logger *Logger, op func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	delay := initialDelay
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts || errors.Is(lastErr, ErrMissingAPIKey) {
			break
		}

		logger.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("Operation failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return lastErr
}

// RetryValue is Retry for operations that produce a value.
func RetryValue[T any](ctx context.Context, maxAttempts int, initialDelay time.Duration, logger *Logger, op func() (T, error)) (T, error) {
	var result T
	err := Retry(ctx, maxAttempts, initialDelay, logger, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	return result, err
}
