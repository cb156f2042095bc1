package internal

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/authorize"
	"github.com/dmitrymomot/routekit/pkg/bind"
	"github.com/dmitrymomot/routekit/pkg/typeref"
)

// ParameterBinding tells the dispatch layer where one handler argument comes from.
type ParameterBinding struct {
	Type reflect.Type
	// Default is the value used when the source yields nothing. Valid when HasDefault.
	Default any
	// Authorization restricts who may supply the value, or is nil.
	Authorization *authorize.Rule
	// Key is the placeholder, query key or binder name. Empty for body bindings.
	Key       string
	Parameter string
	// Fields lists the restricted fields of a body parameter.
	Fields     []FieldAuthorization
	Index      int
	Source     bind.Source
	Kind       typeref.Kind
	HasDefault bool
}

type binder struct {
	metadata func(ctx context.Context, t reflect.Type) (*ClassMetadata, error)
	custom   map[string]struct{}
}

// bind resolves the source of every parameter of m for a route with the given segments.
// Explicit directives win; then context parameters, placeholders by name, objects from
// the body and primitives from the query.
func (b *binder) bind(ctx context.Context, class *ClassMetadata, m *MethodMetadata, segs []Segment) ([]ParameterBinding, error) {
	holes := placeholders(segs)
	bound := make(map[string]struct{}, len(holes))
	out := make([]ParameterBinding, 0, len(m.Parameters))
	body := ""

	for _, p := range m.Parameters {
		fail := func(format string, args ...any) error {
			return &BindingResolutionError{
				Controller: class.Type,
				Action:     m.Name,
				Parameter:  p.Name,
				Reason:     fmt.Sprintf(format, args...),
			}
		}

		res, err := p.Type.Resolve()
		if err != nil {
			return nil, err
		}
		pb := ParameterBinding{
			Parameter:     p.Name,
			Index:         p.Index,
			Type:          res.Type,
			Kind:          res.Kind,
			Default:       p.Default,
			HasDefault:    p.HasDefault,
			Authorization: memberRule(p.Annotations),
		}

		if d, ok := annotation.LastPayload[bind.Directive](p.Annotations); ok {
			pb.Source = d.Source
			pb.Key = cmp.Or(d.Key, p.Name)
			switch d.Source {
			case bind.SourcePath:
				if !slices.Contains(holes, pb.Key) {
					return nil, fail("path has no placeholder :%s", pb.Key)
				}
				if !res.Kind.Primitive() {
					return nil, fail("%s value cannot be taken from the path", res.Kind)
				}
			case bind.SourceQuery:
				if !queryable(res) {
					return nil, fail("%s value cannot be taken from the query", res.Kind)
				}
			case bind.SourceCustom:
				if _, ok := b.custom[pb.Key]; !ok {
					return nil, fail("unknown binder %q", pb.Key)
				}
			case bind.SourceBody:
				pb.Key = ""
			default:
				return nil, fail("unknown source %d", d.Source)
			}
		} else {
			switch {
			case res.Type == contextType:
				pb.Source, pb.Key = bind.SourceCustom, bind.ContextBinder
			case slices.Contains(holes, p.Name) && res.Kind.Primitive():
				pb.Source, pb.Key = bind.SourcePath, p.Name
			case res.Kind == typeref.Object:
				pb.Source = bind.SourceBody
			case queryable(res):
				pb.Source, pb.Key = bind.SourceQuery, p.Name
			default:
				return nil, fail("no source for %s value", res.Kind)
			}
		}

		switch pb.Source {
		case bind.SourcePath:
			bound[pb.Key] = struct{}{}
		case bind.SourceBody:
			if body != "" {
				return nil, fail("body is already bound to %s", body)
			}
			body = p.Name
			fields, err := b.fields(ctx, res.Type)
			if err != nil {
				return nil, err
			}
			pb.Fields = fields
		}
		out = append(out, pb)
	}

	for _, h := range holes {
		if _, ok := bound[h]; !ok {
			return nil, &BindingResolutionError{
				Controller: class.Type,
				Action:     m.Name,
				Reason:     fmt.Sprintf("placeholder :%s is not bound to a parameter", h),
			}
		}
	}
	return out, nil
}

func (b *binder) fields(ctx context.Context, t reflect.Type) ([]FieldAuthorization, error) {
	if typeref.IsTerminal(t) || typeref.KindOf(t) != typeref.Object {
		return make([]FieldAuthorization, 0), nil
	}
	meta, err := b.metadata(ctx, t)
	if err != nil {
		return nil, err
	}
	return fieldRules(meta), nil
}

// queryable reports whether a value fits a query string: a primitive or a list of them.
func queryable(res typeref.Resolved) bool {
	if res.Kind.Primitive() {
		return true
	}
	return res.Kind == typeref.List && res.Elem != nil && res.Elem.Kind.Primitive()
}
