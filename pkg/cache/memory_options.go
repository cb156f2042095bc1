package cache

import "time"

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
	capacity        int
}

// defaultMemoryOptions suit memoization: entries live until deleted and no janitor runs.
func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		defaultTTL: -1,
	}
}

// WithDefaultTTL sets the lifetime of entries stored with a zero TTL. A negative
// duration keeps them until they are deleted.
// Default: -1.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval starts a janitor that drops expired entries every d.
// Expired entries are otherwise dropped when they are read.
// Default: 0 (no janitor).
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries bounds the cache; the least recently used entry makes room for a new one.
// Default: 0 (unbounded).
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// WithCapacity preallocates room for n entries.
func WithCapacity(n int) MemoryOption {
	return func(o *memoryOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}
