package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a generic key-value cache with TTL support.
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL
//   - Negative: item never expires
type Cache[K comparable, V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key K) (V, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key K, value V, ttl time.Duration) error

	// Delete removes a key from the cache.
	Delete(ctx context.Context, key K) error

	// Has checks whether a key exists and has not expired.
	Has(ctx context.Context, key K) (bool, error)

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error

	// Close releases resources (stops background goroutines, etc.).
	Close() error
}

// flightKeyer is implemented by caches that hand out collision-free singleflight keys.
type flightKeyer[K comparable] interface {
	FlightKey(key K) string
}

var sfGroup singleflight.Group

type getOrSetResult[V any] struct {
	val V
	ttl time.Duration
}

// GetOrSet retrieves a value from the cache, or calls fn to compute it on a miss.
// Uses singleflight to prevent cache stampedes: if multiple goroutines call
// GetOrSet with the same key concurrently, fn is called only once.
//
// The callback returns the value, a TTL for caching, and an error.
// If fn returns an error, the value is not cached and the error is returned.
// fn must not call GetOrSet for the same cache and key.
func GetOrSet[K comparable, V any](ctx context.Context, c Cache[K, V], key K, fn func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	// Fast path: try cache first.
	v, err := c.Get(ctx, key)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, ErrClosed):
		return v, err
	}

	// Slow path: use singleflight to deduplicate concurrent misses.
	res, err, _ := sfGroup.Do(flightKey(c, key), func() (any, error) {
		// A flight that finished between the fast path and Do already stored the value.
		if v, err := c.Get(ctx, key); err == nil {
			return getOrSetResult[V]{val: v}, nil
		}

		val, ttl, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		// Best-effort cache the result. A closed cache cannot keep it.
		if err := c.Set(ctx, key, val, ttl); errors.Is(err, ErrClosed) {
			return nil, err
		}
		return getOrSetResult[V]{val: val, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return res.(getOrSetResult[V]).val, nil
}

func flightKey[K comparable, V any](c Cache[K, V], key K) string {
	if fk, ok := c.(flightKeyer[K]); ok {
		return fk.FlightKey(key)
	}
	return fmt.Sprintf("%p/%v", c, key)
}
