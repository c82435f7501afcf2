// Package ristretto backs the cache port with dgraph-io/ristretto.
// LabelForge uses it for derived read models, currently the
// reliability dashboard snapshot.
package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is an in-process byte cache with per-entry TTLs.
type Cache struct {
	inner *ristretto.Cache[string, []byte]
}

// New sizes the cache by total value bytes. Counter count is derived
// from the cost budget (ristretto wants roughly 10x the expected
// number of items).
func New(maxCostBytes int64) (*Cache, error) {
	inner, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner}, nil
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := c.inner.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores the value under key with the given TTL. The write buffer
// is flushed before returning so a snapshot written by one request is
// visible to the next.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.inner.SetWithTTL(key, value, int64(len(value)), ttl)
	c.inner.Wait()
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.inner.Del(key)
	return nil
}

func (c *Cache) Close() {
	c.inner.Close()
}
