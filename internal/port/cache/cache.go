// Package cache defines the port for short-lived snapshot caching,
// used for the reliability dashboard.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized values under string keys with a TTL.
// Get reports a miss via the bool, not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
