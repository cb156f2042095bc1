package typeref

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrCircularResolution = errors.New("typeref: circular resolution")
	ErrUnresolvedType     = errors.New("typeref: unresolved type")
	ErrInvalidBinding     = errors.New("typeref: invalid generic binding")
)

// CircularResolutionError is returned when a type reference re-enters resolution for
// an owner that is already being resolved.
type CircularResolutionError struct {
	Owner  reflect.Type
	Member string
}

func (e *CircularResolutionError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("typeref: circular resolution of %s.%s", typeName(e.Owner), e.Member)
	}
	return fmt.Sprintf("typeref: circular resolution of %s", typeName(e.Owner))
}

func (e *CircularResolutionError) Is(target error) bool {
	return target == ErrCircularResolution
}

// UnresolvedTypeError is returned when the declared type of a member cannot be determined.
type UnresolvedTypeError struct {
	Owner  reflect.Type
	Member string
	Reason string
}

func (e *UnresolvedTypeError) Error() string {
	msg := fmt.Sprintf("typeref: cannot resolve type of %s", typeName(e.Owner))
	if e.Member != "" {
		msg += "." + e.Member
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *UnresolvedTypeError) Is(target error) bool {
	return target == ErrUnresolvedType
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
