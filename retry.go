package lingopress

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries          int           // maximum number of retry attempts
	BaseDelay           time.Duration // initial delay between retries
	MaxDelay            time.Duration // cap on the computed delay
	RateLimitMultiplier int           // extra backoff factor for rate-limit errors
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          3,
		BaseDelay:           1 * time.Second,
		MaxDelay:            30 * time.Second,
		RateLimitMultiplier: 4,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes fn with exponential backoff. Rate-limit-class errors
// back off RateLimitMultiplier times longer than generic retryable errors.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if IsRateLimited(err) && cfg.RateLimitMultiplier > 1 {
				delay *= time.Duration(cfg.RateLimitMultiplier)
			}
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks whether an error is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Retryable
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return false
}

// IsRateLimited checks whether an error is a rate-limit response.
func IsRateLimited(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr) && backendErr.RateLimited
}
