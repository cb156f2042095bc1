package typeref

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrymomot/routekit/pkg/annotation"
)

// GenericTypeBinding is one concrete instantiation of a generic controller.
// Go cannot instantiate generic types at runtime, so the instantiated type is captured
// at compile time and the type arguments are recorded next to it.
type GenericTypeBinding struct {
	// Template is the instantiated generic controller, e.g. crud.Resource[Animal, int].
	Template reflect.Type
	// Args are the type arguments in declaration order. Args[0] is the entity.
	Args []reflect.Type
	// Root overrides the route root for this binding. Empty means derived.
	Root string
}

// Bind records the instantiation C with its type arguments.
func Bind[C any](args ...reflect.Type) GenericTypeBinding {
	return GenericTypeBinding{Template: indirect(reflect.TypeFor[C]()), Args: args}
}

// WithRoot returns a copy of b rooted at root.
func (b GenericTypeBinding) WithRoot(root string) GenericTypeBinding {
	b.Root = root
	return b
}

// Entity returns the first type argument, dereferenced.
func (b GenericTypeBinding) Entity() reflect.Type {
	if len(b.Args) == 0 {
		return nil
	}
	return indirect(b.Args[0])
}

// Validate checks that the binding names a generic struct instantiation with arguments.
func (b GenericTypeBinding) Validate() error {
	t := indirect(b.Template)
	switch {
	case t == nil:
		return fmt.Errorf("%w: missing template", ErrInvalidBinding)
	case t.Kind() != reflect.Struct:
		return fmt.Errorf("%w: %s is not a struct", ErrInvalidBinding, t)
	case annotation.TemplateKey(t) == "":
		return fmt.Errorf("%w: %s is not a generic instantiation", ErrInvalidBinding, t)
	case len(b.Args) == 0:
		return fmt.Errorf("%w: %s has no type arguments", ErrInvalidBinding, t)
	}
	for i, a := range b.Args {
		if a == nil {
			return fmt.Errorf("%w: %s argument %d is nil", ErrInvalidBinding, t, i)
		}
	}
	return nil
}

// Key identifies the binding. Two bindings with the same key expand to the same routes.
func (b GenericTypeBinding) Key() string {
	return b.String() + "@" + b.Root
}

func (b GenericTypeBinding) String() string {
	args := make([]string, len(b.Args))
	for i, a := range b.Args {
		args[i] = typeName(a)
	}
	return typeName(indirect(b.Template)) + "<" + strings.Join(args, ", ") + ">"
}
