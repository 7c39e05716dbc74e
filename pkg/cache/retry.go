package cache

import (
	"context"
	"time"
)

// retryCache wraps a backend and retries operations that fail with a
// retryable error. Non-retryable failures pass through untouched.
type retryCache struct {
	inner Cache
}

var _ Cache = (*retryCache)(nil)

// WithRetry wraps a backend so that transient failures (those marked
// via Retryable, as the Redis and Mongo backends do) are retried with
// backoff. Backends that never mark errors retryable are unaffected.
func WithRetry(inner Cache) Cache {
	return &retryCache{inner: inner}
}

func (c *retryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var found bool
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, found, err = c.inner.Get(ctx, key)
		return err
	})
	return data, found, err
}

func (c *retryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return c.inner.Set(ctx, key, data, ttl)
	})
}

func (c *retryCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		return c.inner.Delete(ctx, key)
	})
}

func (c *retryCache) Close() error {
	return c.inner.Close()
}
