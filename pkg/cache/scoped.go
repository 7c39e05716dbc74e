package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one cache backend serves several API tenants or
// environments that must not share solve results.
//
// Example usage:
//
//	// Tenant-specific keys
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SolveKey generates a prefixed key for a solve result.
func (k *ScopedKeyer) SolveKey(rules []string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(rules, opts)
}

// SplitKey generates a prefixed key for a split result.
func (k *ScopedKeyer) SplitKey(area, direction string, rules []string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SplitKey(area, direction, rules, opts)
}
