package util

import (
	"context"
	"errors"
	"time"
)

// RetryConfig configures Retry. The zero value polls three times, 100ms
// apart.
type RetryConfig struct {
	// MaxAttempts is the maximum number of calls to fn (default: 3).
	MaxAttempts int

	// Delay is the wait between attempts (default: 100ms).
	Delay time.Duration

	// IsRetryable decides whether an error is worth another attempt.
	// If nil, every error that is not permanent is retried.
	IsRetryable func(error) bool

	// OnRetry, if set, is called after a failed attempt that will be
	// retried.
	OnRetry func(attempt int, err error)
}

// PollConfig returns a config for polling something that is expected to
// appear shortly.
func PollConfig(attempts int, interval time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		Delay:       interval,
	}
}

// Retry calls fn until it succeeds, returns a permanent or non-retryable
// error, runs out of attempts, or ctx is done. It returns fn's result or
// the last error.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 100 * time.Millisecond
	}

	var zero T
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if IsPermanent(err) {
			return zero, err
		}
		if cfg.IsRetryable != nil && !cfg.IsRetryable(err) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.Delay):
		}
	}

	return zero, lastErr
}

// PermanentError wraps an error to indicate it should not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// IsPermanent checks if an error is marked as permanent.
func IsPermanent(err error) bool {
	var permErr *PermanentError
	return errors.As(err, &permErr)
}

// MarkPermanent wraps an error to indicate it should not be retried.
func MarkPermanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}
