// Package cache provides a generic in-memory Cache keyed by any comparable type.
//
// # Interface
//
// The [Cache] interface is generic over key type K and value type V:
//
//   - Get(ctx, key) (V, error): retrieve a value
//   - Set(ctx, key, value, ttl) error: store a value with TTL
//   - Delete(ctx, key) error: remove a key
//   - Has(ctx, key) (bool, error): check existence
//   - Clear(ctx) error: remove all entries
//   - Close() error: release resources
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL (no expiry by default)
//   - Negative: item never expires
//
// # In-Memory Cache
//
// [NewMemory] keeps entries in a map with a recency list. By default entries stay until
// deleted, which suits memoization. WithDefaultTTL, WithCleanupInterval and
// WithMaxEntries turn it into an expiring or bounded LRU cache.
// Keys may be any comparable value, including reflect.Type:
//
//	c := cache.NewMemory[reflect.Type, *Metadata](cache.WithCapacity(64))
//	defer c.Close()
//
//	c.Set(ctx, reflect.TypeFor[User](), meta, -1)
//
// # Eviction Callbacks
//
// The callback set with SetEvictCallback is triggered for every entry that leaves
// the cache, including deletion and clearing. It runs with the cache lock
// held and must not call back into the cache.
//
// # Cache Stampede Prevention
//
// Use the standalone [GetOrSet] function to prevent cache stampedes.
// It uses singleflight to ensure only one goroutine computes a missing value:
//
//	meta, err := cache.GetOrSet(ctx, c, typ, func(ctx context.Context) (*Metadata, time.Duration, error) {
//	    m, err := extract(typ)
//	    return m, -1, err
//	})
//
// Flights are keyed per cache instance and per key value, so two caches, or two
// distinct keys with the same string form, never share a computation.
//
// # Error Handling
//
// The package defines sentinel errors:
//
//   - [ErrNotFound]: key does not exist or has expired
//   - [ErrClosed]: operation on a closed cache
package cache
