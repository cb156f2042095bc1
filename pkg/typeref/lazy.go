package typeref

import (
	"errors"
	"reflect"
	"sync"
)

// Lazy is the declared type of one member, resolved on first read.
// Direct references are resolved once and memoized. Deferred references run their
// callback on every read, so a callback always observes current state.
type Lazy struct {
	resolver *Resolver
	owner    reflect.Type
	ref      Ref
	err      error
	member   string
	res      Resolved
	once     sync.Once
}

// NewLazy binds ref to the member of owner it describes.
func NewLazy(r *Resolver, owner reflect.Type, member string, ref Ref) *Lazy {
	return &Lazy{resolver: r, owner: indirect(owner), member: member, ref: ref}
}

// Ref returns the underlying reference.
func (l *Lazy) Ref() Ref { return l.ref }

// Deferred reports whether reading the type invokes a callback.
func (l *Lazy) Deferred() bool { return IsDeferred(l.ref) }

// Resolve returns the resolved type.
func (l *Lazy) Resolve() (Resolved, error) {
	if l.Deferred() {
		return l.resolve()
	}
	l.once.Do(func() {
		l.res, l.err = l.resolve()
	})
	return l.res, l.err
}

// Kind returns the kind of the resolved type, or Unknown if it cannot be resolved.
func (l *Lazy) Kind() Kind {
	res, err := l.Resolve()
	if err != nil {
		return Unknown
	}
	return res.Kind
}

func (l *Lazy) resolve() (Resolved, error) {
	res, err := l.resolver.Resolve(l.owner, l.ref)
	if err == nil {
		return res, nil
	}

	var circular *CircularResolutionError
	if errors.As(err, &circular) && circular.Member == "" && circular.Owner == l.owner {
		circular.Member = l.member
	}
	var unresolved *UnresolvedTypeError
	if errors.As(err, &unresolved) && unresolved.Member == "" && unresolved.Owner == l.owner {
		unresolved.Member = l.member
	}
	return Resolved{}, err
}
