package authorize

import (
	"context"
	"errors"
	"slices"
)

var (
	ErrUnknownPolicy = errors.New("authorize: unknown policy")
	ErrInvalidTag    = errors.New("authorize: invalid tag")

	// ErrEmptyRequirement is returned by Validate for a requirement without a name.
	ErrEmptyRequirement = errors.New("authorize: empty requirement")
)

// Actor is the caller a rule is evaluated against.
type Actor struct {
	ID    string
	Roles []string
}

// HasRole reports whether the actor holds role.
func (a Actor) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// PolicyFunc is a named predicate over the caller. The context carries the request.
type PolicyFunc func(ctx context.Context, actor Actor) (bool, error)

// PolicyRegistry resolves policy and custom authorizer names.
type PolicyRegistry interface {
	Policy(name string) (PolicyFunc, bool)
}

// Policies is a map based PolicyRegistry.
type Policies map[string]PolicyFunc

// Policy implements PolicyRegistry.
func (p Policies) Policy(name string) (PolicyFunc, bool) {
	fn, ok := p[name]
	return fn, ok
}
