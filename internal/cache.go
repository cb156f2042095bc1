package internal

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/cache"
	"github.com/dmitrymomot/routekit/pkg/typeref"
)

// neverExpire is the TTL metadata is stored with.
const neverExpire = time.Duration(-1)

// MetadataCache memoizes ClassMetadata per type. Get returns the identical pointer
// for a type until it is flushed. Concurrent cold loads of one type run the extractor once.
type MetadataCache struct {
	store     *cache.Memory[reflect.Type, *ClassMetadata]
	extractor *extractor
	logger    *slog.Logger
}

func newMetadataCache(reg *annotation.Registry, resolver *typeref.Resolver, tags annotation.TagParsers, logger *slog.Logger) *MetadataCache {
	c := &MetadataCache{
		store:  cache.NewMemory[reflect.Type, *ClassMetadata](cache.WithCapacity(64)),
		logger: logger,
	}
	c.extractor = &extractor{
		registry: reg,
		resolver: resolver,
		tags:     tags,
		parent:   c.get,
	}
	c.store.SetEvictCallback(func(t reflect.Type, _ *ClassMetadata) {
		logger.Debug("metadata evicted", slog.String("type", t.String()))
	})
	return c
}

// Get returns the metadata of t, extracting it on first use. After Close it returns
// cache.ErrClosed.
func (c *MetadataCache) Get(ctx context.Context, t reflect.Type) (*ClassMetadata, error) {
	t = annotation.Indirect(t)
	if t == nil {
		return nil, &UnresolvedTypeError{Reason: "nil type"}
	}
	// A cyclic embedding chain would re-enter the flight of its own key and block,
	// so it is rejected before any flight starts.
	if err := checkLineage(t); err != nil {
		return nil, err
	}
	return c.get(ctx, t, visiting{})
}

func (c *MetadataCache) get(ctx context.Context, t reflect.Type, chain visiting) (*ClassMetadata, error) {
	t = annotation.Indirect(t)
	if _, ok := chain[t]; ok {
		return nil, &CircularResolutionError{Owner: t}
	}
	return cache.GetOrSet(ctx, c.store, t, func(ctx context.Context) (*ClassMetadata, time.Duration, error) {
		meta, err := c.extractor.extract(ctx, t, chain.with(t))
		if err != nil {
			return nil, 0, err
		}
		c.logger.DebugContext(ctx, "metadata extracted",
			slog.String("type", t.String()),
			slog.Int("properties", len(meta.Properties)),
			slog.Int("methods", len(meta.Methods)),
		)
		return meta, neverExpire, nil
	})
}

// Flush evicts the given types, or everything when none are given.
func (c *MetadataCache) Flush(ctx context.Context, types ...reflect.Type) error {
	if len(types) == 0 {
		return c.store.Clear(ctx)
	}
	for _, t := range types {
		if err := c.store.Delete(ctx, annotation.Indirect(t)); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of cached types.
func (c *MetadataCache) Len() int {
	return c.store.Len()
}

// Close releases the underlying store.
func (c *MetadataCache) Close() error {
	return c.store.Close()
}

// checkLineage follows the parent chain of t by reflection alone and reports a
// type that embeds itself through its ancestors.
func checkLineage(t reflect.Type) error {
	seen := map[reflect.Type]struct{}{}
	for cur := t; !typeref.IsTerminal(cur); {
		seen[cur] = struct{}{}
		f, ok := parentField(cur)
		if !ok {
			return nil
		}
		next := annotation.Indirect(f.Type)
		if _, loop := seen[next]; loop {
			return &CircularResolutionError{Owner: cur, Member: f.Name}
		}
		cur = next
	}
	return nil
}
