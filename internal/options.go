package internal

import (
	"log/slog"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/authorize"
	"github.com/dmitrymomot/routekit/pkg/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithRegistry sets the annotation registry metadata is read from.
// Default: annotation.DefaultRegistry.
//
// Example:
//
//	reg := annotation.NewRegistry()
//	reg.Add(annotation.ClassOf(reflect.TypeFor[AnimalController]()), route.Root("/zoo"))
//	engine := routekit.New(routekit.WithRegistry(reg))
func WithRegistry(reg *annotation.Registry) Option {
	return func(e *Engine) {
		if reg != nil {
			e.registry = reg
		}
	}
}

// WithControllerIndex sets the index used by directory discovery.
// Default: DefaultIndex.
func WithControllerIndex(x *ControllerIndex) Option {
	return func(e *Engine) {
		if x != nil {
			e.index = x
		}
	}
}

// WithLogger creates a JSON logger with a component name. Boot records carry the
// phase they were logged in.
//
// Example:
//
//	routekit.New(
//	    routekit.WithLogger("routes", slog.LevelDebug),
//	)
func WithLogger(component string, level slog.Level, extractors ...logger.ContextExtractor) Option {
	return func(e *Engine) {
		extractors = append([]logger.ContextExtractor{logger.PhaseExtractor()}, extractors...)
		e.logger = logger.New(level, extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRootPath mounts every generated route below p.
func WithRootPath(p string) Option {
	return func(e *Engine) {
		e.root = joinPath(p)
	}
}

// WithLiteralAbsolutePaths keeps absolute root and verb paths verbatim instead of
// mounting them below the root path. Derived and relative paths still use it.
func WithLiteralAbsolutePaths() Option {
	return func(e *Engine) {
		e.literal = true
	}
}

// WithBinder registers custom binder names that parameters may bind to with bind.Custom.
// The "context" binder is always registered.
func WithBinder(names ...string) Option {
	return func(e *Engine) {
		for _, n := range names {
			if n != "" {
				e.binders[n] = struct{}{}
			}
		}
	}
}

// WithDefaultAuthorization sets the rule of routes that declare no authorization.
// Without it such routes deny everyone.
//
// Example:
//
//	routekit.WithDefaultAuthorization(authorize.Restricted(false,
//	    authorize.Requirement{Kind: authorize.RequireRole, Name: "user"},
//	))
func WithDefaultAuthorization(rule authorize.Rule) Option {
	return func(e *Engine) {
		e.fallback = &rule
	}
}

// WithTagParser adds or replaces the parser for a struct tag key. The "validate" and
// "authorize" keys are parsed by default.
func WithTagParser(key string, p annotation.TagParser) Option {
	return func(e *Engine) {
		if p == nil {
			delete(e.tags, key)
			return
		}
		e.tags[key] = p
	}
}
