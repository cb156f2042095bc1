package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/authorize"
	"github.com/dmitrymomot/routekit/pkg/route"
	"github.com/dmitrymomot/routekit/pkg/typeref"
)

// RouteInfo is one compiled route: a verb and a path mapped to a controller action.
type RouteInfo struct {
	Controller reflect.Type
	Handler    *MethodMetadata
	Class      *ClassMetadata
	// Generic is the binding the controller was instantiated for, or nil.
	Generic       *typeref.GenericTypeBinding
	Method        string
	Path          string
	Action        string
	Segments      []Segment
	Bindings      []ParameterBinding
	Authorization authorize.Rule
}

// Name identifies the action as Controller.Method.
func (r *RouteInfo) Name() string {
	return typeName(r.Controller) + "." + r.Action
}

func (r *RouteInfo) String() string {
	return r.Method + " " + r.Path + " -> " + r.Name()
}

// Placeholders returns the placeholder names of the path, in order.
func (r *RouteInfo) Placeholders() []string {
	return placeholders(r.Segments)
}

// Binding returns the binding of the named parameter.
func (r *RouteInfo) Binding(parameter string) (ParameterBinding, bool) {
	for _, b := range r.Bindings {
		if b.Parameter == parameter {
			return b, true
		}
	}
	return ParameterBinding{}, false
}

// Source contributes controllers to route generation.
type Source interface {
	units(ctx context.Context, g *generator) ([]unit, error)
}

// unit is one controller to expand into routes.
type unit struct {
	typ reflect.Type
	// binding is set for generic controllers.
	binding *typeref.GenericTypeBinding
	// entity is the metadata of the bound entity, consulted for authorization.
	entity *ClassMetadata
	// prefix is prepended to relative roots.
	prefix string
	// origin names where the unit came from, for logs.
	origin string
	// paths are final roots that replace every derived root.
	paths []string
}

func (u unit) key() string {
	k := u.typ.String() + "|" + u.prefix + "|" + strings.Join(u.paths, ",")
	if u.binding != nil {
		k += "|" + u.binding.Key()
	}
	return k
}

type controllers []reflect.Type

// Controllers is a source of explicitly listed controller types.
func Controllers(types ...reflect.Type) Source {
	return controllers(types)
}

func (c controllers) units(context.Context, *generator) ([]unit, error) {
	out := make([]unit, 0, len(c))
	for _, t := range c {
		if annotation.Indirect(t) == nil {
			return nil, fmt.Errorf("%w: nil controller type", ErrInvalidSource)
		}
		out = append(out, unit{typ: annotation.Indirect(t), origin: "controllers"})
	}
	return out, nil
}

type directory string

// Directory is a source of the controllers indexed for the .go files below dir.
// Each controller is prefixed with the path of its directory relative to dir.
func Directory(dir string) Source {
	return directory(dir)
}

func (d directory) units(_ context.Context, g *generator) ([]unit, error) {
	return g.index.walk(string(d))
}

// generator expands units into routes.
type generator struct {
	metadata func(ctx context.Context, t reflect.Type) (*ClassMetadata, error)
	binder   *binder
	auth     *authorizer
	index    *ControllerIndex
	logger   *slog.Logger
	root     string
	literal  bool
}

// generate expands sources in order. It stops at the first error.
func (g *generator) generate(ctx context.Context, sources ...Source) ([]*RouteInfo, error) {
	out := make([]*RouteInfo, 0)
	shapes := make(map[string]*RouteInfo)
	seen := make(map[string]struct{})

	for _, src := range sources {
		if src == nil {
			return nil, fmt.Errorf("%w: nil source", ErrInvalidSource)
		}
		units, err := src.units(ctx, g)
		if err != nil {
			return nil, err
		}

		for _, u := range units {
			if _, dup := seen[u.key()]; dup {
				g.logger.DebugContext(ctx, "duplicate controller skipped",
					slog.String("controller", u.typ.String()),
					slog.String("origin", u.origin),
				)
				continue
			}
			seen[u.key()] = struct{}{}

			routes, err := g.expand(ctx, u)
			if err != nil {
				return nil, err
			}
			for _, r := range routes {
				shape := shapeKey(r.Method, r.Segments)
				if prev, ok := shapes[shape]; ok {
					return nil, &RouteConflictError{Method: r.Method, Path: r.Path, First: prev.Name(), Second: r.Name()}
				}
				shapes[shape] = r
				out = append(out, r)
				g.logger.DebugContext(ctx, "route generated",
					slog.String("method", r.Method),
					slog.String("path", r.Path),
					slog.String("action", r.Name()),
					slog.String("authorization", r.Authorization.String()),
				)
			}
		}
	}
	return out, nil
}

// expand returns the routes of one unit: every routed method under every root.
func (g *generator) expand(ctx context.Context, u unit) ([]*RouteInfo, error) {
	class, err := g.metadata(ctx, u.typ)
	if err != nil {
		return nil, err
	}
	if class.Terminal() {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidSource, u.typ)
	}
	if annotation.Has(class.OwnAnnotations(), route.NamespaceIgnore) {
		g.logger.DebugContext(ctx, "controller ignored",
			slog.String("controller", class.Type.String()),
			slog.String("origin", u.origin),
		)
		return nil, nil
	}

	var generic *typeref.GenericTypeBinding
	if u.binding != nil {
		b := *u.binding
		generic = &b
	}

	out := make([]*RouteInfo, 0)
	for _, root := range g.roots(class, u) {
		for _, m := range class.Methods {
			if annotation.Has(m.Annotations, route.NamespaceIgnore) {
				continue
			}
			verbs := annotation.Payloads[route.Verb](m.Annotations)
			if len(verbs) == 0 {
				verbs = []route.Verb{defaultVerb(m.Name)}
			}

			for _, v := range verbs {
				p := g.verbPath(root, m.Name, v)
				segs := parsePath(p)
				bindings, err := g.binder.bind(ctx, class, m, segs)
				if err != nil {
					return nil, err
				}
				out = append(out, &RouteInfo{
					Controller:    class.Type,
					Handler:       m,
					Class:         class,
					Generic:       generic,
					Method:        v.Method,
					Path:          p,
					Action:        m.Name,
					Segments:      segs,
					Bindings:      bindings,
					Authorization: g.auth.resolve(class, m, u.entity),
				})
			}
		}
	}
	return out, nil
}

// roots returns the route roots of a unit. Fixed paths win; then the root of the generic
// binding; then the roots of the most derived class declaring any; then a name derived
// from the entity or the controller.
func (g *generator) roots(class *ClassMetadata, u unit) []string {
	if len(u.paths) > 0 {
		return u.paths
	}

	base := joinPath(g.root, u.prefix)
	if u.binding != nil && u.binding.Root != "" {
		return []string{g.resolve(base, u.binding.Root)}
	}
	for _, c := range class.Lineage() {
		declared := annotation.Payloads[route.RootPath](c.OwnAnnotations())
		if len(declared) == 0 {
			continue
		}
		out := make([]string, 0, len(declared))
		for _, r := range declared {
			out = append(out, g.resolve(base, r.Path))
		}
		return out
	}

	if u.binding != nil {
		return []string{joinPath(base, entitySegment(u.binding.Entity()))}
	}
	return []string{joinPath(base, route.Strive(class.Name))}
}

func (g *generator) verbPath(root, method string, v route.Verb) string {
	switch {
	case !v.Explicit:
		return joinPath(root, route.Lower(method))
	case v.Path == "":
		return root
	default:
		return g.resolve(root, v.Path)
	}
}

func (g *generator) resolve(base, p string) string {
	if g.literal {
		return resolvePath("/", base, p)
	}
	return resolvePath(g.root, base, p)
}

func defaultVerb(method string) route.Verb {
	if route.IsCollection(method) {
		return route.Verb{Method: http.MethodGet, Explicit: true}
	}
	return route.Verb{Method: http.MethodGet}
}
