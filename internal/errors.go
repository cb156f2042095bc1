package internal

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/typeref"
)

// Sentinel errors. Every boot error matches one of them with errors.Is.
var (
	ErrCircularResolution         = typeref.ErrCircularResolution
	ErrUnresolvedType             = typeref.ErrUnresolvedType
	ErrRouteConflict              = errors.New("routekit: route conflict")
	ErrBindingResolution          = errors.New("routekit: binding resolution failed")
	ErrInvalidAnnotationPlacement = errors.New("routekit: invalid annotation placement")
	ErrInvalidSource              = errors.New("routekit: invalid route source")
)

type (
	CircularResolutionError = typeref.CircularResolutionError
	UnresolvedTypeError     = typeref.UnresolvedTypeError
)

// RouteConflictError is returned when two actions resolve to the same verb and path shape.
type RouteConflictError struct {
	Method string
	Path   string
	// First and Second name the conflicting actions as Type.Method.
	First  string
	Second string
}

func (e *RouteConflictError) Error() string {
	return fmt.Sprintf("routekit: route conflict: %s %s is declared by %s and %s", e.Method, e.Path, e.First, e.Second)
}

func (e *RouteConflictError) Is(target error) bool { return target == ErrRouteConflict }

// BindingResolutionError is returned when a parameter cannot be sourced or a path
// placeholder is left unbound.
type BindingResolutionError struct {
	Controller reflect.Type
	Action     string
	Parameter  string
	Reason     string
}

func (e *BindingResolutionError) Error() string {
	msg := fmt.Sprintf("routekit: cannot bind %s.%s", typeName(e.Controller), e.Action)
	if e.Parameter != "" {
		msg += " parameter " + e.Parameter
	}
	return msg + ": " + e.Reason
}

func (e *BindingResolutionError) Is(target error) bool { return target == ErrBindingResolution }

// InvalidAnnotationPlacementError is returned when an annotation is attached to a target
// kind it does not support, or to a member that does not exist.
type InvalidAnnotationPlacementError struct {
	Type reflect.Type
	// Err is the validation error of a malformed payload, or nil.
	Err       error
	Member    string
	Namespace string
	Reason    string
	Index     int
	Kind      annotation.TargetKind
}

func (e *InvalidAnnotationPlacementError) Error() string {
	target := typeName(e.Type)
	if e.Member != "" {
		target += "." + e.Member
	}
	if e.Kind == annotation.KindParameter {
		target += fmt.Sprintf("[%d]", e.Index)
	}
	if e.Reason != "" {
		return fmt.Sprintf("routekit: annotation %q on %s %s: %s", e.Namespace, e.Kind, target, e.Reason)
	}
	return fmt.Sprintf("routekit: annotation %q is not allowed on %s %s", e.Namespace, e.Kind, target)
}

func (e *InvalidAnnotationPlacementError) Is(target error) bool {
	return target == ErrInvalidAnnotationPlacement
}

func (e *InvalidAnnotationPlacementError) Unwrap() error {
	return e.Err
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
