package typeref

import (
	"reflect"
	"sync"
)

// maxDeferredChain bounds callbacks that keep returning deferred references.
const maxDeferredChain = 64

// Resolved is the concrete outcome of resolving a Ref.
type Resolved struct {
	Type reflect.Type
	Kind Kind
	// Elem is the element resolution for List kinds.
	Elem *Resolved
}

// Name returns the fixed builtin name for terminal types and the Go type name otherwise.
func (r Resolved) Name() string {
	if IsTerminal(r.Type) {
		return r.Kind.TerminalName()
	}
	t := r.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Resolver resolves references. It keeps one in-progress marker per owner type, so
// independent owners never interfere with each other.
type Resolver struct {
	inProgress map[reflect.Type]struct{}
	mu         sync.Mutex
}

// NewResolver creates a resolver with no resolution in flight.
func NewResolver() *Resolver {
	return &Resolver{inProgress: make(map[reflect.Type]struct{})}
}

// Resolve returns the concrete type ref points to. Each deferred callback met on the way
// is invoked exactly once. A callback that re-enters Resolve for the same owner while it
// is still running fails with *CircularResolutionError.
func (r *Resolver) Resolve(owner reflect.Type, ref Ref) (Resolved, error) {
	return r.resolve(indirect(owner), ref, 0)
}

func (r *Resolver) resolve(owner reflect.Type, ref Ref, depth int) (Resolved, error) {
	switch v := ref.(type) {
	case directRef:
		if v.typ == nil {
			return Resolved{}, &UnresolvedTypeError{Owner: owner, Reason: "nil type"}
		}
		return resolveType(v.typ), nil

	case arrayRef:
		elem, err := r.resolve(owner, v.elem, depth)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Type: reflect.SliceOf(elem.Type), Kind: List, Elem: &elem}, nil

	case deferredRef:
		if depth >= maxDeferredChain {
			return Resolved{}, &CircularResolutionError{Owner: owner}
		}
		next, err := r.invoke(owner, v.fn)
		if err != nil {
			return Resolved{}, err
		}
		return r.resolve(owner, next, depth+1)

	default:
		return Resolved{}, &UnresolvedTypeError{Owner: owner, Reason: "no type reference"}
	}
}

// invoke runs fn with the owner marked in progress. The marker is cleared when fn
// returns or panics.
func (r *Resolver) invoke(owner reflect.Type, fn func() Ref) (Ref, error) {
	if fn == nil {
		return nil, &UnresolvedTypeError{Owner: owner, Reason: "nil callback"}
	}
	if !r.enter(owner) {
		return nil, &CircularResolutionError{Owner: owner}
	}
	defer r.leave(owner)

	ref := fn()
	if ref == nil {
		return nil, &UnresolvedTypeError{Owner: owner, Reason: "callback returned no reference"}
	}
	return ref, nil
}

func (r *Resolver) enter(owner reflect.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inProgress[owner]; busy {
		return false
	}
	r.inProgress[owner] = struct{}{}
	return true
}

func (r *Resolver) leave(owner reflect.Type) {
	r.mu.Lock()
	delete(r.inProgress, owner)
	r.mu.Unlock()
}

// InProgress reports whether a deferred callback for owner is currently running.
func (r *Resolver) InProgress(owner reflect.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, busy := r.inProgress[indirect(owner)]
	return busy
}

func resolveType(t reflect.Type) Resolved {
	res := Resolved{Type: t, Kind: KindOf(t)}
	if res.Kind == List {
		base := indirect(t)
		elem := resolveType(base.Elem())
		res.Elem = &elem
	}
	return res
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
