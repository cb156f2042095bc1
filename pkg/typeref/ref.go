package typeref

import (
	"fmt"
	"reflect"
)

// Ref is a declared type reference. The set of implementations is closed.
type Ref interface {
	fmt.Stringer
	isRef()
}

type directRef struct {
	typ reflect.Type
}

func (directRef) isRef() {}

func (r directRef) String() string {
	if r.typ == nil {
		return "<nil>"
	}
	return r.typ.String()
}

type arrayRef struct {
	elem Ref
}

func (arrayRef) isRef() {}

func (r arrayRef) String() string {
	if r.elem == nil {
		return "[]<nil>"
	}
	return "[]" + r.elem.String()
}

type deferredRef struct {
	fn func() Ref
}

func (deferredRef) isRef() {}

func (deferredRef) String() string { return "deferred" }

// Of returns a direct reference to t.
func Of(t reflect.Type) Ref {
	return directRef{typ: t}
}

// For returns a direct reference to T.
func For[T any]() Ref {
	return directRef{typ: reflect.TypeFor[T]()}
}

// Array wraps elem into a list reference.
func Array(elem Ref) Ref {
	return arrayRef{elem: elem}
}

// Deferred returns a reference whose target is computed by fn when it is read.
func Deferred(fn func() Ref) Ref {
	return deferredRef{fn: fn}
}

// IsDeferred reports whether ref, or the element of a list ref, is deferred.
func IsDeferred(ref Ref) bool {
	switch r := ref.(type) {
	case deferredRef:
		return true
	case arrayRef:
		return IsDeferred(r.elem)
	default:
		return false
	}
}

// Static returns the type of a direct reference without invoking anything.
func Static(ref Ref) (reflect.Type, bool) {
	r, ok := ref.(directRef)
	if !ok || r.typ == nil {
		return nil, false
	}
	return r.typ, true
}
