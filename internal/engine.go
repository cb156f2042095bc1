package internal

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/authorize"
	"github.com/dmitrymomot/routekit/pkg/bind"
	"github.com/dmitrymomot/routekit/pkg/crud"
	"github.com/dmitrymomot/routekit/pkg/logger"
	"github.com/dmitrymomot/routekit/pkg/typeref"
)

// Boot phases attached to log records.
const (
	PhaseExtract   = "extract"
	PhaseGenerate  = "generate"
	PhaseAuthorize = "authorize"
)

// Engine turns annotated types into route tables.
// Options are applied once in New; the engine is not reconfigured afterwards.
type Engine struct {
	registry *annotation.Registry
	index    *ControllerIndex
	resolver *typeref.Resolver
	cache    *MetadataCache
	logger   *slog.Logger
	fallback *authorize.Rule
	binders  map[string]struct{}
	tags     annotation.TagParsers
	root     string
	// literal keeps absolute paths out of root.
	literal bool
}

// New creates an engine with the given options.
//
// Example:
//
//	engine := routekit.New(
//	    routekit.WithRootPath("/api"),
//	    routekit.WithLogger("routes", slog.LevelInfo),
//	)
//	defer engine.Close()
//
//	table, err := engine.Build(ctx, routekit.Controllers(routekit.TypeOf[AnimalController]()))
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: annotation.DefaultRegistry,
		index:    DefaultIndex,
		logger:   logger.NewNope(),
		binders:  map[string]struct{}{bind.ContextBinder: {}},
		tags: annotation.TagParsers{
			annotation.NamespaceValidate: annotation.ValidateTag,
			authorize.TagKey:             authorize.ParseTag,
		},
		root: "/",
	}

	for _, opt := range opts {
		opt(e)
	}

	crud.Register(e.registry)
	e.resolver = typeref.NewResolver()
	e.cache = newMetadataCache(e.registry, e.resolver, e.tags, e.logger)
	return e
}

// Registry returns the annotation registry the engine reads.
func (e *Engine) Registry() *annotation.Registry {
	return e.registry
}

// Resolver returns the type resolver shared by all extracted metadata.
func (e *Engine) Resolver() *typeref.Resolver {
	return e.resolver
}

// Metadata returns the merged metadata of t. The same pointer is returned until t is flushed.
func (e *Engine) Metadata(ctx context.Context, t reflect.Type) (*ClassMetadata, error) {
	return e.cache.Get(logger.WithPhase(ctx, PhaseExtract), t)
}

// Flush evicts the metadata of the given types, or of every type when none are given.
// The next Metadata call re-extracts from the current registry.
func (e *Engine) Flush(ctx context.Context, types ...reflect.Type) error {
	ctx = logger.WithPhase(ctx, PhaseExtract)
	if err := e.cache.Flush(ctx, types...); err != nil {
		return err
	}
	e.logger.DebugContext(ctx, "metadata flushed", slog.Int("types", len(types)), slog.Int("remaining", e.cache.Len()))
	return nil
}

// Generate compiles the routes of the sources, in source order.
// It stops at the first error.
func (e *Engine) Generate(ctx context.Context, sources ...Source) ([]*RouteInfo, error) {
	ctx = logger.WithPhase(ctx, PhaseGenerate)
	return e.generator().generate(ctx, sources...)
}

// Build compiles the sources into an immutable table.
func (e *Engine) Build(ctx context.Context, sources ...Source) (*Table, error) {
	start := time.Now()
	routes, err := e.Generate(ctx, sources...)
	if err != nil {
		e.logger.ErrorContext(logger.WithPhase(ctx, PhaseGenerate), "route generation failed", slog.Any("error", err))
		return nil, err
	}

	table := newTable(routes)
	e.logger.InfoContext(ctx, "route table built",
		slog.String("table_id", table.ID.String()),
		slog.Int("routes", table.Len()),
		slog.Int("types", e.cache.Len()),
		slog.Duration("took", time.Since(start)),
	)
	return table, nil
}

// Authorize returns the access rule of the named method of t.
func (e *Engine) Authorize(ctx context.Context, t reflect.Type, method string) (authorize.Rule, error) {
	class, err := e.Metadata(ctx, t)
	if err != nil {
		return authorize.Rule{}, err
	}
	m, ok := class.Method(method)
	if !ok {
		return authorize.Rule{}, &InvalidAnnotationPlacementError{
			Type:   class.Type,
			Member: method,
			Kind:   annotation.KindMethod,
			Reason: "no such method",
		}
	}

	rule := e.authorizer().resolve(class, m)
	e.logger.DebugContext(logger.WithPhase(ctx, PhaseAuthorize), "authorization resolved",
		slog.String("action", class.Type.String()+"."+method),
		slog.String("rule", rule.String()),
	)
	return rule, nil
}

// Close releases the metadata cache.
func (e *Engine) Close() error {
	return e.cache.Close()
}

func (e *Engine) generator() *generator {
	return &generator{
		metadata: e.cache.Get,
		binder:   &binder{metadata: e.cache.Get, custom: e.binders},
		auth:     e.authorizer(),
		index:    e.index,
		logger:   e.logger,
		root:     e.root,
		literal:  e.literal,
	}
}

func (e *Engine) authorizer() *authorizer {
	return &authorizer{fallback: e.fallback}
}
