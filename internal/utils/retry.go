package contextutils

import (
	"context"
	"time"
)

// RetryAttempts is the default number of attempts for store calls made
// outside an interactive request (worker paths).
const RetryAttempts = 3

// RetryBaseDelay is the initial backoff delay; it doubles on each attempt.
const RetryBaseDelay = 100 * time.Millisecond

// Retry runs fn up to attempts times, backing off exponentially between
// attempts. Only errors classified retryable by IsRetryable are retried;
// everything else is returned immediately. When all attempts fail with a
// retryable error, the last error is wrapped as ErrStorageUnavailable so
// callers can distinguish persistent outages from logic failures.
func Retry(ctx context.Context, attempts int, fn func() error) error {
	if attempts <= 0 {
		attempts = RetryAttempts
	}

	delay := RetryBaseDelay
	var lastErr error
	for i := 0; i < attempts; i++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return WrapError(ctx.Err(), "retry canceled")
		case <-time.After(delay):
		}
		delay *= 2
	}

	return &AppError{
		Code:     ErrorCodeStorageUnavailable,
		Severity: SeverityError,
		Message:  "Storage unavailable after retries",
		Details:  lastErr.Error(),
		Cause:    lastErr,
	}
}
