// Package cache stores serialized catalog snapshots between requests.
package cache

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// CatalogKey holds the marshalled catalog snapshot
const CatalogKey = "catalog:games"

// Cache is a byte-value store with per-entry expiry
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Generation counts the invalidations made by this process. A load that
// overlaps an invalidation does not write its result back.
type Generation struct {
	n atomic.Uint64
}

func (g *Generation) current() uint64 {
	if g == nil {
		return 0
	}
	return g.n.Load()
}

// Invalidate bumps the generation and drops key
func (g *Generation) Invalidate(ctx context.Context, c Cache, key string) error {
	g.n.Add(1)
	return c.Delete(ctx, key)
}

// GetOrLoad returns the cached value for key, calling load and storing its
// result on a miss. A failing cache read falls through to load. gen may be
// nil when nothing invalidates the key.
func GetOrLoad(ctx context.Context, c Cache, gen *Generation, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	start := gen.current()
	if value, ok, err := c.Get(ctx, key); err == nil && ok {
		return value, nil
	}
	value, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if gen.current() != start {
		return value, nil
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		log.Printf("Warning: could not cache %s: %v", key, err)
	}
	return value, nil
}
