package spotify

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Retry configuration
const (
	MaxRetries        = 3
	InitialBackoffMs  = 250
	MaxBackoffMs      = 5000
	BackoffMultiplier = 2.0
)

// RetryConfig configures exponential backoff retry behavior
type RetryConfig struct {
	MaxRetries int           // Maximum number of attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries, also caps Retry-After
	Multiplier float64       // Exponential backoff multiplier
}

// DefaultRetryConfig returns the retry policy used for Web API calls
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: MaxRetries,
		BaseDelay:  time.Duration(InitialBackoffMs) * time.Millisecond,
		MaxDelay:   time.Duration(MaxBackoffMs) * time.Millisecond,
		Multiplier: BackoffMultiplier,
	}
}

// retryable reports whether a failed request may be sent again, and the
// minimum delay the server asked for.
func retryable(method string, err error) (bool, time.Duration) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false, 0
	}
	switch {
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return true, apiErr.RetryAfter
	case apiErr.StatusCode >= 500 && method == http.MethodGet:
		return true, 0
	}
	return false, 0
}

// retryWithBackoff executes fn with exponential backoff. Only errors accepted
// by retryable are retried; a Retry-After longer than MaxDelay ends the loop.
func retryWithBackoff[T any](ctx context.Context, config RetryConfig, method string, fn func() (T, error)) (T, error) {
	var lastErr error
	var zero T
	backoff := config.BaseDelay
	attempts := max(config.MaxRetries, 1)

	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		ok, wait := retryable(method, err)
		if !ok || attempt == attempts-1 {
			break
		}
		if wait > config.MaxDelay {
			break
		}

		delay := max(backoff, wait)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
			backoff = time.Duration(float64(backoff) * config.Multiplier)
			if backoff > config.MaxDelay {
				backoff = config.MaxDelay
			}
		}
	}

	return zero, lastErr
}
