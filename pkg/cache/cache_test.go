package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fastRetries shrinks the backoff delay for the duration of a test.
func fastRetries(t *testing.T) {
	t.Helper()
	prev := retryBaseDelay
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = prev })
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "value" {
		t.Errorf("Get = (%q, %v), want (value, true)", data, hit)
	}

	// Expired entries are misses
	if err := c.Set(ctx, "expired", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "expired"); hit {
		t.Error("expired entry should be a miss")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted entry should be a miss")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "solve:abc", []byte(`[20,30,50]`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "solve:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != `[20,30,50]` {
		t.Errorf("Get = (%q, %v), want stored data", data, hit)
	}

	// Missing key is a clean miss
	if _, hit, err := c.Get(ctx, "solve:missing"); hit || err != nil {
		t.Errorf("missing key: hit=%v err=%v, want miss with no error", hit, err)
	}

	// Expired entries are misses and get cleaned up
	if err := c.Set(ctx, "solve:old", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "solve:old"); hit {
		t.Error("expired entry should be a miss")
	}

	// Delete of a missing key is not an error
	if err := c.Delete(ctx, "solve:missing"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	rules := []string{"length(20)", "fill(1)"}

	// Same request, same key
	k1 := k.SolveKey(rules, SolveKeyOpts{Total: 100, Spacing: 1, Flex: "stretch"})
	k2 := k.SolveKey(rules, SolveKeyOpts{Total: 100, Spacing: 1, Flex: "stretch"})
	if k1 != k2 {
		t.Error("identical requests should produce identical keys")
	}
	if !strings.HasPrefix(k1, "solve:") {
		t.Errorf("SolveKey should carry the solve prefix: %s", k1)
	}

	// Options are part of the key
	k3 := k.SolveKey(rules, SolveKeyOpts{Total: 101, Spacing: 1, Flex: "stretch"})
	if k1 == k3 {
		t.Error("different totals should produce different keys")
	}
	k4 := k.SolveKey(rules, SolveKeyOpts{Total: 100, Spacing: 1, Flex: "center"})
	if k1 == k4 {
		t.Error("different flex policies should produce different keys")
	}

	// Rule order is part of the key
	k5 := k.SolveKey([]string{"fill(1)", "length(20)"}, SolveKeyOpts{Total: 100, Spacing: 1, Flex: "stretch"})
	if k1 == k5 {
		t.Error("different rule order should produce different keys")
	}

	// Split keys are a distinct namespace
	sk := k.SplitKey("100x40@(0,0)", "horizontal", rules, SolveKeyOpts{Spacing: 1, Flex: "stretch"})
	if !strings.HasPrefix(sk, "split:") {
		t.Errorf("SplitKey should carry the split prefix: %s", sk)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:123:")

	rules := []string{"percent(50)", "percent(50)"}
	key := scoped.SolveKey(rules, SolveKeyOpts{Total: 80})
	if !strings.HasPrefix(key, "tenant:123:solve:") {
		t.Errorf("ScopedKeyer SolveKey should be prefixed: %s", key)
	}
	if strings.TrimPrefix(key, "tenant:123:") != inner.SolveKey(rules, SolveKeyOpts{Total: 80}) {
		t.Error("ScopedKeyer should delegate to the inner keyer")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.SolveKey([]string{"fill(1)"}, SolveKeyOpts{Total: 10})
	if !strings.HasPrefix(key, "prefix:solve:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errors.New("permanent")) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	fastRetries(t)
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	errPermanent := errors.New("permanent")
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errPermanent
	})
	if err != errPermanent {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
