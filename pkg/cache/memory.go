package cache

import (
	"container/list"
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

type entry[K comparable, V any] struct {
	expiresAt time.Time // zero: no expiry
	value     V
	key       K
}

func (e *entry[K, V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

var instances atomic.Uint64

// Memory is a mutex-guarded map cache. Entries may expire, and a bounded cache drops
// the least recently used entry first; the recency list keeps the newest at the front.
type Memory[K comparable, V any] struct {
	items   map[K]*list.Element
	flights map[K]uint64
	recency *list.List
	opts    *memoryOptions
	onEvict func(key K, value V)
	done    chan struct{}
	prefix  string
	nextSeq uint64
	mu      sync.Mutex
	closed  bool
}

// NewMemory creates an in-memory cache.
//
// Example:
//
//	c := cache.NewMemory[reflect.Type, *Metadata](cache.WithCapacity(64))
//	defer c.Close()
func NewMemory[K comparable, V any](opts ...MemoryOption) *Memory[K, V] {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[K, V]{
		items:   make(map[K]*list.Element, o.capacity),
		flights: make(map[K]uint64, o.capacity),
		recency: list.New(),
		opts:    o,
		done:    make(chan struct{}),
		prefix:  strconv.FormatUint(instances.Add(1), 10) + "/",
	}
	if o.cleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

// SetEvictCallback registers fn for every entry leaving the cache, whatever the cause.
// fn runs with the cache lock held and must not call back into the cache.
func (m *Memory[K, V]) SetEvictCallback(fn func(key K, value V)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

// lookup returns the live element of key and marks it recently used.
// Caller must hold the mutex.
func (m *Memory[K, V]) lookup(key K) (*entry[K, V], bool) {
	elem, ok := m.items[key]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*entry[K, V])
	if e.expired(time.Now()) {
		m.drop(elem)
		return nil, false
	}
	m.recency.MoveToFront(elem)
	return e, true
}

// Get returns the value of key, ErrNotFound, or ErrClosed after Close.
func (m *Memory[K, V]) Get(_ context.Context, key K) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		var zero V
		return zero, ErrClosed
	}
	e, ok := m.lookup(key)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Has reports whether key holds a live value.
func (m *Memory[K, V]) Has(_ context.Context, key K) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, ErrClosed
	}
	_, ok := m.lookup(key)
	return ok, nil
}

// Set stores value under key. A zero ttl uses the default TTL; a negative one never expires.
func (m *Memory[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry[K, V])
		e.value, e.expiresAt = value, expiresAt
		m.recency.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if oldest := m.recency.Back(); oldest != nil {
			m.drop(oldest)
		}
	}
	m.items[key] = m.recency.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	return nil
}

// Delete removes key. Missing keys are not an error.
func (m *Memory[K, V]) Delete(_ context.Context, key K) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.drop(elem)
	}
	return nil
}

// Len returns the number of stored entries. Expired entries count until they are dropped.
func (m *Memory[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Clear removes every entry.
func (m *Memory[K, V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	for elem := m.recency.Back(); elem != nil; {
		prev := elem.Prev()
		m.drop(elem)
		elem = prev
	}
	return nil
}

// Close stops the janitor and rejects later reads and writes. It is idempotent.
func (m *Memory[K, V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

// FlightKey returns the singleflight key used by GetOrSet. Keys are unique per cache
// instance and per key value, so keys with equal string forms never share a flight.
func (m *Memory[K, V]) FlightKey(key K) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	seq, ok := m.flights[key]
	if !ok {
		m.nextSeq++
		seq = m.nextSeq
		m.flights[key] = seq
	}
	return m.prefix + strconv.FormatUint(seq, 10)
}

func (m *Memory[K, V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.dropExpired(now)
		}
	}
}

func (m *Memory[K, V]) dropExpired(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for elem := m.recency.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry[K, V]).expired(now) {
			m.drop(elem)
		}
		elem = prev
	}
}

// drop removes elem and reports it to the evict callback.
// Caller must hold the mutex.
func (m *Memory[K, V]) drop(elem *list.Element) {
	e := m.recency.Remove(elem).(*entry[K, V])
	delete(m.items, e.key)
	if m.onEvict != nil {
		m.onEvict(e.key, e.value)
	}
}

var _ Cache[string, any] = (*Memory[string, any])(nil)
