package internal

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/jinzhu/inflection"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/crud"
	"github.com/dmitrymomot/routekit/pkg/route"
	"github.com/dmitrymomot/routekit/pkg/typeref"
)

// ParentPlaceholder is the placeholder of the owning entity in nested routes.
const ParentPlaceholder = "parentId"

type generics []typeref.GenericTypeBinding

// Generics is a source of generic controller instantiations, one route set per binding.
func Generics(bindings ...typeref.GenericTypeBinding) Source {
	return generics(bindings)
}

func (s generics) units(ctx context.Context, g *generator) ([]unit, error) {
	out := make([]unit, 0, len(s))
	for _, b := range s {
		u, err := g.genericUnit(ctx, b, "generics")
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

type entities []reflect.Type

// Entities is a source of entity types exposed through crud.Expose. Properties marked
// with crud.Nest add nested controllers below each exposed root.
func Entities(types ...reflect.Type) Source {
	return entities(types)
}

func (s entities) units(ctx context.Context, g *generator) ([]unit, error) {
	out := make([]unit, 0, len(s))
	for _, t := range s {
		meta, err := g.metadata(ctx, t)
		if err != nil {
			return nil, err
		}
		if meta.Terminal() {
			return nil, fmt.Errorf("%w: entity %s is not a struct", ErrInvalidSource, t)
		}

		origin := "entity " + meta.Type.String()
		exposures := annotation.Payloads[crud.Exposure](meta.OwnAnnotations())
		if len(exposures) == 0 {
			for _, p := range meta.Properties {
				if annotation.Has(p.Annotations, crud.NamespaceNest) {
					g.logger.WarnContext(ctx, "nested relation of an unexposed entity skipped",
						slog.String("entity", meta.Type.String()),
						slog.String("property", p.Name),
					)
				}
			}
			continue
		}

		for _, x := range exposures {
			u, err := g.genericUnit(ctx, x.Binding, origin)
			if err != nil {
				return nil, err
			}
			out = append(out, u)

			tmpl, err := g.metadata(ctx, u.typ)
			if err != nil {
				return nil, err
			}
			parents := g.roots(tmpl, u)

			for _, p := range meta.Properties {
				for _, n := range annotation.Payloads[crud.Nesting](p.Annotations) {
					nested, err := g.genericUnit(ctx, n.Binding, origin+"."+p.Name)
					if err != nil {
						return nil, err
					}
					nested.paths = g.nestedRoots(parents, p.Name, n)
					out = append(out, nested)
				}
			}
		}
	}
	return out, nil
}

func (g *generator) genericUnit(ctx context.Context, b typeref.GenericTypeBinding, origin string) (unit, error) {
	if err := b.Validate(); err != nil {
		return unit{}, fmt.Errorf("%w: %s: %w", ErrInvalidSource, origin, err)
	}
	u := unit{typ: annotation.Indirect(b.Template), binding: &b, origin: origin}
	if entity := b.Entity(); !typeref.IsTerminal(entity) {
		meta, err := g.metadata(ctx, entity)
		if err != nil {
			return unit{}, err
		}
		u.entity = meta
	}
	return u, nil
}

// nestedRoots places a relation below each parent root as <parent>/:parentId/<relation>.
// An explicit binding root replaces the relation segment, or the whole path when absolute.
func (g *generator) nestedRoots(parents []string, property string, n crud.Nesting) []string {
	relation := route.Lower(property)
	if n.Explicit && n.Binding.Root != "" {
		if route.IsAbsolute(n.Binding.Root) {
			return []string{joinPath(g.root, n.Binding.Root)}
		}
		relation = n.Binding.Root
	}

	out := make([]string, 0, len(parents))
	for _, p := range parents {
		out = append(out, joinPath(p, ":"+ParentPlaceholder, relation))
	}
	return out
}

// entitySegment derives the collection segment of an entity: "Animal" becomes "animals".
func entitySegment(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return inflection.Plural(route.Strive(t.Name()))
}
