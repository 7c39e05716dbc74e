package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks backend transport failures such as timeouts and
// refused connections.
var ErrNetwork = errors.New("network error")

// RetryableError marks an error as transient. RetryWithBackoff retries
// only errors carrying this marker; everything else fails fast.
type RetryableError struct{ Err error }

// Retryable wraps err as retryable. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries the retryable marker anywhere
// in its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryBaseDelay is the delay before the first retry; tests shrink it.
var retryBaseDelay = time.Second

// RetryWithBackoff runs fn up to 3 times, doubling the delay between
// attempts starting at retryBaseDelay. Context cancellation aborts the wait.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3

	var lastErr error
	delay := retryBaseDelay
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
