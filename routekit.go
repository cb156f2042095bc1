package routekit

import (
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/authorize"
	"github.com/dmitrymomot/routekit/pkg/logger"
	"github.com/dmitrymomot/routekit/pkg/typeref"
)

// Type aliases - public API
type (
	// Engine turns annotated controller types into route tables.
	Engine = internal.Engine

	// Option configures the engine.
	Option = internal.Option

	// Config is the file and environment form of the engine options.
	Config = internal.Config

	// Source contributes controllers to route generation.
	Source = internal.Source

	// Table is the immutable result of one boot.
	Table = internal.Table

	// RouteInfo is one compiled route.
	RouteInfo = internal.RouteInfo

	// Segment is one element of a route path.
	Segment = internal.Segment

	// ParameterBinding tells the dispatch layer where one handler argument comes from.
	ParameterBinding = internal.ParameterBinding

	// FieldAuthorization restricts one field of a body parameter.
	FieldAuthorization = internal.FieldAuthorization

	// ClassMetadata is the merged description of a controller or entity type.
	ClassMetadata = internal.ClassMetadata

	// MethodMetadata describes one controller action.
	MethodMetadata = internal.MethodMetadata

	// PropertyMetadata describes one exported field.
	PropertyMetadata = internal.PropertyMetadata

	// ParameterMetadata describes one action parameter.
	ParameterMetadata = internal.ParameterMetadata

	// ControllerIndex maps source files to the controllers they declare.
	ControllerIndex = internal.ControllerIndex

	// GenericBinding instantiates a generic controller for concrete type arguments.
	GenericBinding = typeref.GenericTypeBinding

	// Rule decides who may call a route.
	Rule = authorize.Rule

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// RouteConflictError is returned when two actions share a verb and a path shape.
	RouteConflictError = internal.RouteConflictError

	// BindingResolutionError is returned when a parameter cannot be sourced.
	BindingResolutionError = internal.BindingResolutionError

	// InvalidAnnotationPlacementError is returned for misplaced annotations.
	InvalidAnnotationPlacementError = internal.InvalidAnnotationPlacementError

	// CircularResolutionError is returned when type resolution loops.
	CircularResolutionError = internal.CircularResolutionError

	// UnresolvedTypeError is returned when a member type cannot be determined.
	UnresolvedTypeError = internal.UnresolvedTypeError
)

// DefaultIndex is the controller index filled by Register and read by engines created
// without WithControllerIndex.
var DefaultIndex = internal.DefaultIndex

// Errors
var (
	ErrRouteConflict              = internal.ErrRouteConflict
	ErrBindingResolution          = internal.ErrBindingResolution
	ErrInvalidAnnotationPlacement = internal.ErrInvalidAnnotationPlacement
	ErrCircularResolution         = internal.ErrCircularResolution
	ErrUnresolvedType             = internal.ErrUnresolvedType
	ErrInvalidSource              = internal.ErrInvalidSource
	ErrInvalidConfig              = internal.ErrInvalidConfig
)

// Constructors

// New creates an engine with the given options.
// The engine is immutable after creation.
//
// Example:
//
//	engine := routekit.New(
//	    routekit.WithRootPath("/api"),
//	    routekit.WithLogger("routes", slog.LevelInfo),
//	)
//	defer engine.Close()
//
//	table, err := engine.Build(ctx,
//	    routekit.Controllers(routekit.TypeOf[AnimalController]()),
//	    routekit.Entities(routekit.TypeOf[Animal]()),
//	)
func New(opts ...Option) *Engine {
	return internal.New(opts...)
}

// NewFromConfig creates an engine from a loaded config and extra options.
// The extra options are applied after the config.
func NewFromConfig(cfg Config, opts ...Option) (*Engine, error) {
	base, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return internal.New(append(base, opts...)...), nil
}

// LoadConfig reads a YAML config file, when path is not empty, and applies the
// ROUTEKIT_* environment variables on top.
func LoadConfig(path string) (Config, error) {
	return internal.LoadConfig(path)
}

// NewControllerIndex creates an empty controller index.
func NewControllerIndex() *ControllerIndex {
	return internal.NewControllerIndex()
}

// Sources

// Controllers is a source of explicitly listed controller types.
func Controllers(types ...reflect.Type) Source {
	return internal.Controllers(types...)
}

// Directory is a source of the registered controllers declared in .go files below dir.
// Each controller is prefixed with its directory relative to dir.
func Directory(dir string) Source {
	return internal.Directory(dir)
}

// Generics is a source of generic controller instantiations.
//
// Example:
//
//	routekit.Generics(
//	    routekit.Bind[crud.Resource[Animal, int]](routekit.TypeOf[Animal](), routekit.TypeOf[int]()),
//	    routekit.Bind[crud.Resource[Toy, int]](routekit.TypeOf[Toy](), routekit.TypeOf[int]()).
//	        WithRoot("playthings"),
//	)
func Generics(bindings ...GenericBinding) Source {
	return internal.Generics(bindings...)
}

// Entities is a source of entity types exposed with crud.Expose.
func Entities(types ...reflect.Type) Source {
	return internal.Entities(types...)
}

// Bind describes the generic controller C instantiated for the type arguments args,
// given in declaration order. The first argument is the entity.
func Bind[C any](args ...reflect.Type) GenericBinding {
	return typeref.Bind[C](args...)
}

// TypeOf returns the reflect.Type of T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Register records the controllers as declared in the caller's source file so that
// Directory sources can find them. Call it from an init function of the controller file.
//
// Example:
//
//	func init() {
//	    routekit.Register[AnimalController]()
//	}
func Register[T any]() {
	if err := DefaultIndex.AddCaller(1, reflect.TypeFor[T]()); err != nil {
		panic(err)
	}
}

// Engine options

// WithRegistry sets the annotation registry the engine reads.
// Default: annotation.DefaultRegistry.
func WithRegistry(reg *annotation.Registry) Option {
	return internal.WithRegistry(reg)
}

// WithControllerIndex sets the index used by Directory sources.
func WithControllerIndex(x *ControllerIndex) Option {
	return internal.WithControllerIndex(x)
}

// WithLogger creates a JSON logger with a component name and optional extractors.
// Boot records carry a "phase" attribute.
func WithLogger(component string, level slog.Level, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, level, extractors...)
}

// WithCustomLogger sets a fully custom slog.Logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithRootPath mounts every route below p.
func WithRootPath(p string) Option {
	return internal.WithRootPath(p)
}

// WithLiteralAbsolutePaths keeps absolute paths such as "/health" out of the root path.
func WithLiteralAbsolutePaths() Option {
	return internal.WithLiteralAbsolutePaths()
}

// WithBinder registers custom binder names usable with bind.Custom.
func WithBinder(names ...string) Option {
	return internal.WithBinder(names...)
}

// WithDefaultAuthorization sets the rule of routes that declare none.
// Without it such routes deny every caller.
func WithDefaultAuthorization(rule Rule) Option {
	return internal.WithDefaultAuthorization(rule)
}

// WithTagParser adds or replaces the parser of a struct tag key.
func WithTagParser(key string, p annotation.TagParser) Option {
	return internal.WithTagParser(key, p)
}
