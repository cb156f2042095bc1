package internal

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"time"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/typeref"
)

var (
	errorType   = reflect.TypeFor[error]()
	contextType = reflect.TypeFor[context.Context]()
	timeType    = reflect.TypeFor[time.Time]()
)

// visiting is the set of types whose extraction is in progress along one chain.
type visiting map[reflect.Type]struct{}

func (v visiting) with(t reflect.Type) visiting {
	next := make(visiting, len(v)+1)
	for k := range v {
		next[k] = struct{}{}
	}
	next[t] = struct{}{}
	return next
}

// parentLookup returns the metadata of a parent type, normally through the cache.
type parentLookup func(ctx context.Context, t reflect.Type, chain visiting) (*ClassMetadata, error)

// extractor builds ClassMetadata from reflection data and the annotation registry.
type extractor struct {
	registry *annotation.Registry
	resolver *typeref.Resolver
	parent   parentLookup
	tags     annotation.TagParsers
}

func (x *extractor) extract(ctx context.Context, t reflect.Type, chain visiting) (*ClassMetadata, error) {
	t = annotation.Indirect(t)
	if typeref.IsTerminal(t) {
		return terminal(t), nil
	}

	meta := &ClassMetadata{
		Type:        t,
		Name:        t.Name(),
		Kind:        typeref.Object,
		Properties:  make([]*PropertyMetadata, 0),
		Methods:     make([]*MethodMetadata, 0),
		Annotations: make([]annotation.Entry, 0),
	}

	parentIndex := -1
	if f, ok := parentField(t); ok {
		parent, err := x.parent(ctx, f.Type, chain)
		if err != nil {
			return nil, err
		}
		meta.Parent = parent
		parentIndex = f.Index[0]
	}

	if err := x.checkTargets(t); err != nil {
		return nil, err
	}

	props, err := x.properties(t, meta.Parent)
	if err != nil {
		return nil, err
	}
	meta.Properties = props

	methods, err := x.methods(t, meta.Parent, parentIndex)
	if err != nil {
		return nil, err
	}
	meta.Methods = methods

	own := x.registry.Lookup(annotation.ClassOf(t))
	if err := checkPlacement(t, "", 0, annotation.KindClass, own); err != nil {
		return nil, err
	}
	if meta.Parent != nil {
		meta.Annotations = append(meta.Annotations, meta.Parent.Annotations...)
	}
	meta.Annotations = append(meta.Annotations, own...)

	return meta, nil
}

func terminal(t reflect.Type) *ClassMetadata {
	kind := typeref.KindOf(t)
	return &ClassMetadata{
		Type:        t,
		Name:        kind.TerminalName(),
		Kind:        kind,
		Properties:  make([]*PropertyMetadata, 0),
		Methods:     make([]*MethodMetadata, 0),
		Annotations: make([]annotation.Entry, 0),
	}
}

// parentField returns the first embedded struct field of t.
func parentField(t reflect.Type) (reflect.StructField, bool) {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		base := annotation.Indirect(f.Type)
		if base.Kind() == reflect.Struct && base != timeType {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

func (x *extractor) properties(t reflect.Type, parent *ClassMetadata) ([]*PropertyMetadata, error) {
	own := make([]*PropertyMetadata, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}
		p, err := x.property(t, f)
		if err != nil {
			return nil, err
		}
		own = append(own, p)
	}

	out := make([]*PropertyMetadata, 0, len(own))
	if parent != nil {
		for _, p := range parent.Properties {
			shadowed := slices.ContainsFunc(own, func(o *PropertyMetadata) bool { return o.Name == p.Name })
			if !shadowed {
				out = append(out, p)
			}
		}
	}
	return append(out, own...), nil
}

func (x *extractor) property(t reflect.Type, f reflect.StructField) (*PropertyMetadata, error) {
	entries, err := x.tags.Parse(f.Tag)
	if err != nil {
		return nil, fmt.Errorf("routekit: %s.%s: %w", t, f.Name, err)
	}
	entries = append(entries, x.registry.Lookup(annotation.PropertyOf(t, f.Name))...)
	if err := checkPlacement(t, f.Name, 0, annotation.KindProperty, entries); err != nil {
		return nil, err
	}

	lazy, err := x.declared(t, f.Name, f.Type, entries, false)
	if err != nil {
		return nil, err
	}
	return &PropertyMetadata{
		Name:        f.Name,
		Owner:       t,
		Index:       f.Index,
		Type:        lazy,
		Annotations: entries,
	}, nil
}

func (x *extractor) methods(t reflect.Type, parent *ClassMetadata, parentIndex int) ([]*MethodMetadata, error) {
	pt := reflect.PointerTo(t)
	out := make([]*MethodMetadata, 0, pt.NumMethod())

	var parentPtr reflect.Type
	if parent != nil {
		parentPtr = reflect.PointerTo(parent.Type)
	}

	for i := range pt.NumMethod() {
		m := pt.Method(i)
		sig := signature(m.Type)
		entries := x.registry.Lookup(annotation.MethodOf(t, m.Name))
		annotated := len(entries) > 0 || x.hasParamEntries(t, m.Name, sig.NumIn())

		if !annotated && !declaredBy(t, m) {
			if parentPtr != nil {
				if pm, ok := parentPtr.MethodByName(m.Name); ok && signature(pm.Type) == sig {
					// Inherited. A method the parent excluded stays excluded.
					if inherited, ok := parent.Method(m.Name); ok {
						out = append(out, inherited)
					}
					continue
				}
			}
			if promotedFromMixin(t, parentIndex, m.Name) {
				continue
			}
		}

		mm, err := x.method(t, m.Name, sig, entries)
		if err != nil {
			return nil, err
		}
		out = append(out, mm)
	}
	return out, nil
}

// declaredBy reports whether t itself declares the method m of *t. Methods promoted
// from embedded fields are compiler-generated wrappers without a source file.
func declaredBy(t reflect.Type, m reflect.Method) bool {
	if !generated(m.Func) {
		return true
	}
	// A value receiver method is reached from *t through a generated wrapper too.
	if vm, ok := t.MethodByName(m.Name); ok {
		return !generated(vm.Func)
	}
	return false
}

func generated(fn reflect.Value) bool {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return true
	}
	file, _ := f.FileLine(f.Entry())
	return file == "<autogenerated>"
}

func (x *extractor) hasParamEntries(t reflect.Type, method string, n int) bool {
	for i := range n {
		if len(x.registry.Lookup(annotation.ParamOf(t, method, i))) > 0 {
			return true
		}
	}
	return false
}

// promotedFromMixin reports whether name is provided by an embedded field other than
// the parent.
func promotedFromMixin(t reflect.Type, parentIndex int, name string) bool {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous || i == parentIndex {
			continue
		}
		base := annotation.Indirect(f.Type)
		if base.Kind() == reflect.Interface {
			if _, ok := base.MethodByName(name); ok {
				return true
			}
			continue
		}
		if _, ok := reflect.PointerTo(base).MethodByName(name); ok {
			return true
		}
	}
	return false
}

func (x *extractor) method(t reflect.Type, name string, sig reflect.Type, entries []annotation.Entry) (*MethodMetadata, error) {
	if err := checkPlacement(t, name, 0, annotation.KindMethod, entries); err != nil {
		return nil, err
	}

	names, _ := annotation.LastPayload[annotation.ParamNames](entries)
	if len(names) > sig.NumIn() {
		return nil, &InvalidAnnotationPlacementError{
			Type:      t,
			Member:    name,
			Kind:      annotation.KindMethod,
			Namespace: annotation.NamespaceParams,
			Reason:    fmt.Sprintf("names %d parameters, method has %d", len(names), sig.NumIn()),
		}
	}

	mm := &MethodMetadata{
		Name:        name,
		Owner:       t,
		Signature:   sig,
		Parameters:  make([]*ParameterMetadata, 0, sig.NumIn()),
		Annotations: entries,
	}

	for i := range sig.NumIn() {
		p, err := x.parameter(t, name, i, sig.In(i), names)
		if err != nil {
			return nil, err
		}
		mm.Parameters = append(mm.Parameters, p)
	}

	if n := sig.NumOut(); n > 0 && sig.Out(n-1) == errorType {
		mm.ReturnsError = true
	}
	for i := range sig.NumOut() {
		out := sig.Out(i)
		if out == errorType {
			continue
		}
		lazy, err := x.declared(t, name, out, entries, true)
		if err != nil {
			return nil, err
		}
		mm.ReturnType = lazy
		break
	}
	return mm, nil
}

func (x *extractor) parameter(t reflect.Type, method string, index int, typ reflect.Type, names annotation.ParamNames) (*ParameterMetadata, error) {
	entries := x.registry.Lookup(annotation.ParamOf(t, method, index))
	if err := checkPlacement(t, method, index, annotation.KindParameter, entries); err != nil {
		return nil, err
	}

	p := &ParameterMetadata{
		Name:        paramName(typ, index, names),
		Index:       index,
		Annotations: entries,
	}
	if def, ok := annotation.LastPayload[annotation.DefaultValue](entries); ok {
		p.Default = def.Value
		p.HasDefault = true
	}

	lazy, err := x.declared(t, method+"."+p.Name, typ, entries, false)
	if err != nil {
		return nil, err
	}
	p.Type = lazy
	return p, nil
}

func paramName(typ reflect.Type, index int, names annotation.ParamNames) string {
	if index < len(names) && names[index] != "" {
		return names[index]
	}
	if typ == contextType {
		return "ctx"
	}
	return fmt.Sprintf("p%d", index)
}

// declared builds the lazy type of a member from its type hint or its Go type.
// Direct types are resolved right away, so their kind is known after extraction.
// An empty interface without a hint is an error unless open is set, in which case it
// resolves to the Unknown kind.
func (x *extractor) declared(owner reflect.Type, member string, typ reflect.Type, entries []annotation.Entry, open bool) (*typeref.Lazy, error) {
	var ref typeref.Ref
	if hint, ok := annotation.LastPayload[typeref.Hint](entries); ok && hint.Ref != nil {
		ref = hint.Ref
	} else {
		if !open && typeref.IsEmptyInterface(typ) {
			return nil, &UnresolvedTypeError{Owner: owner, Member: member, Reason: "empty interface without a type hint"}
		}
		ref = typeref.Of(typ)
	}

	lazy := typeref.NewLazy(x.resolver, owner, member, ref)
	if !lazy.Deferred() {
		if _, err := lazy.Resolve(); err != nil {
			return nil, err
		}
	}
	return lazy, nil
}

// checkTargets rejects annotations registered for members t does not have.
func (x *extractor) checkTargets(t reflect.Type) error {
	pt := reflect.PointerTo(t)
	for _, target := range x.registry.Targets(t) {
		switch target.Kind {
		case annotation.KindMethod, annotation.KindParameter:
			m, ok := pt.MethodByName(target.Member)
			if !ok {
				return missingMember(target, "no such method")
			}
			if target.Kind == annotation.KindParameter && (target.Index < 0 || target.Index >= m.Type.NumIn()-1) {
				return missingMember(target, "no such parameter")
			}
		case annotation.KindProperty:
			f, ok := t.FieldByName(target.Member)
			if !ok || len(f.Index) != 1 || f.Anonymous || !f.IsExported() {
				return missingMember(target, "no such field")
			}
		}
	}
	return nil
}

func missingMember(target annotation.Target, reason string) error {
	return &InvalidAnnotationPlacementError{
		Type:   target.Type,
		Member: target.Member,
		Index:  target.Index,
		Kind:   target.Kind,
		Reason: reason,
	}
}

func checkPlacement(t reflect.Type, member string, index int, kind annotation.TargetKind, entries []annotation.Entry) error {
	for _, e := range entries {
		if !e.AllowedOn(kind) {
			return &InvalidAnnotationPlacementError{
				Type:      t,
				Member:    member,
				Index:     index,
				Kind:      kind,
				Namespace: e.Namespace,
			}
		}
		if err := e.Validate(); err != nil {
			return &InvalidAnnotationPlacementError{
				Type:      t,
				Err:       err,
				Member:    member,
				Index:     index,
				Kind:      kind,
				Namespace: e.Namespace,
				Reason:    err.Error(),
			}
		}
	}
	return nil
}

// signature returns the function type of a method without its receiver.
func signature(method reflect.Type) reflect.Type {
	in := make([]reflect.Type, 0, method.NumIn()-1)
	for i := 1; i < method.NumIn(); i++ {
		in = append(in, method.In(i))
	}
	out := make([]reflect.Type, 0, method.NumOut())
	for i := range method.NumOut() {
		out = append(out, method.Out(i))
	}
	return reflect.FuncOf(in, out, method.IsVariadic())
}
