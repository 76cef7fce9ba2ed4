package petcycle

import (
	"context"
	"time"
)

const (
	retryAttempts  = 3
	retryBaseDelay = time.Second
)

// retryWithBackoff retries fn with exponential backoff (1s, 2s, ...). Used
// for ledger reads only; the batched write is submitted exactly once per
// cycle.
func retryWithBackoff[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if attempt == retryAttempts-1 {
			break
		}
		delay := retryBaseDelay << attempt
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
	return zero, lastErr
}
