package authorize

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/routekit/pkg/annotation"
)

// Namespaces of authorization annotations.
const (
	NamespacePublic = "authorize.public"
	NamespaceRoles  = "authorize.roles"
	NamespacePolicy = "authorize.policy"
	NamespaceCustom = "authorize.custom"
	NamespaceAll    = "authorize.all"
	NamespaceAccess = "authorize.access"
)

// PublicMarker opens a class or a method to every caller.
type PublicMarker struct{}

func (PublicMarker) AllowedOn() annotation.TargetKind {
	return annotation.KindClass | annotation.KindMethod
}

// RoleSet requires one of the listed roles. On a parameter or a property it restricts
// who may supply that value.
type RoleSet struct {
	Roles []string
}

func (RoleSet) AllowedOn() annotation.TargetKind { return annotation.AnyTarget }

// Validate rejects a set without roles, which would deny everyone.
func (r RoleSet) Validate() error {
	if len(r.Roles) == 0 {
		return fmt.Errorf("%w: roles without a role", ErrEmptyRequirement)
	}
	if slices.Contains(r.Roles, "") {
		return fmt.Errorf("%w: empty role name", ErrEmptyRequirement)
	}
	return nil
}

// PolicyRef requires the named policy to pass. Only the name is recorded; the policy is
// looked up in a PolicyRegistry at request time.
type PolicyRef struct {
	Name string
}

func (PolicyRef) AllowedOn() annotation.TargetKind { return annotation.AnyTarget }

func (p PolicyRef) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty policy name", ErrEmptyRequirement)
	}
	return nil
}

// CustomRef requires the named custom authorizer to pass.
type CustomRef struct {
	Name string
}

func (CustomRef) AllowedOn() annotation.TargetKind {
	return annotation.KindClass | annotation.KindMethod
}

func (c CustomRef) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty authorizer name", ErrEmptyRequirement)
	}
	return nil
}

// AllMarker switches the requirements of its scope from "any" to "all".
type AllMarker struct{}

func (AllMarker) AllowedOn() annotation.TargetKind {
	return annotation.KindClass | annotation.KindMethod
}

// AccessMode limits the direction in which a property may be bound.
type AccessMode uint8

const (
	ReadWrite AccessMode = iota
	// ReadOnlyAccess fields are never taken from request input.
	ReadOnlyAccess
	// WriteOnlyAccess fields are accepted from input but never exposed.
	WriteOnlyAccess
)

func (m AccessMode) String() string {
	switch m {
	case ReadOnlyAccess:
		return "readonly"
	case WriteOnlyAccess:
		return "writeonly"
	default:
		return "readwrite"
	}
}

func (AccessMode) AllowedOn() annotation.TargetKind { return annotation.KindProperty }

// Public opens the annotated class or method.
func Public() annotation.Entry { return annotation.New(NamespacePublic, PublicMarker{}) }

// Roles requires any of the roles.
func Roles(roles ...string) annotation.Entry {
	return annotation.New(NamespaceRoles, RoleSet{Roles: roles})
}

// Policy requires the named policy.
func Policy(name string) annotation.Entry {
	return annotation.New(NamespacePolicy, PolicyRef{Name: name})
}

// Custom requires the named custom authorizer.
func Custom(name string) annotation.Entry {
	return annotation.New(NamespaceCustom, CustomRef{Name: name})
}

// RequireAll makes every requirement of the annotated scope mandatory.
func RequireAll() annotation.Entry { return annotation.New(NamespaceAll, AllMarker{}) }

// ReadOnly marks a property that callers may read but not set.
func ReadOnly() annotation.Entry { return annotation.New(NamespaceAccess, ReadOnlyAccess) }

// WriteOnly marks a property that callers may set but not read.
func WriteOnly() annotation.Entry { return annotation.New(NamespaceAccess, WriteOnlyAccess) }

// Declares reports whether entries contain any route-level authorization annotation.
// RequireAll alone declares nothing.
func Declares(entries []annotation.Entry) bool {
	for _, e := range entries {
		switch e.Payload.(type) {
		case PublicMarker, RoleSet, PolicyRef, CustomRef:
			return true
		}
	}
	return false
}
