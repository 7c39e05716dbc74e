// Package cache provides pluggable result caching for layout solves.
//
// Solving is deterministic, so a solve result is fully determined by its
// request: the rule list, the total extent, spacing, and flex policy. That
// makes solve output safe to cache indefinitely under a content-derived key.
//
// The package ships several backends behind one interface: [FileCache] for
// CLI usage, [MemoryCache] for in-process reuse, [RedisCache] and
// [MongoCache] for shared deployments, and [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized solve results under content-derived keys.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SolveKeyOpts carries the request parameters that affect a solve result
// besides the rules themselves.
type SolveKeyOpts struct {
	Total   int
	Spacing int
	Flex    string
}

// Keyer derives cache keys from solve and split requests. Rules are passed
// in their canonical string form so the key survives struct changes.
type Keyer interface {
	// SolveKey generates a key for a one-dimensional solve result.
	SolveKey(rules []string, opts SolveKeyOpts) string

	// SplitKey generates a key for a rectangle split result.
	SplitKey(area, direction string, rules []string, opts SolveKeyOpts) string
}

// DefaultKeyer derives keys by hashing the canonical request.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SolveKey generates a key for a one-dimensional solve result.
func (*DefaultKeyer) SolveKey(rules []string, opts SolveKeyOpts) string {
	return hashKey("solve", rules, opts)
}

// SplitKey generates a key for a rectangle split result.
func (*DefaultKeyer) SplitKey(area, direction string, rules []string, opts SolveKeyOpts) string {
	return hashKey("split", area, direction, rules, opts)
}
