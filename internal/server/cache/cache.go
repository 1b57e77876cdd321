// Package cache provides a small expiring key/value cache used to reuse
// presigned download URLs. Entries always expire; there is no unbounded
// process-global state.
package cache

import (
	"context"
	"time"
)

// Cache stores string values with a time-to-live.
type Cache interface {
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
