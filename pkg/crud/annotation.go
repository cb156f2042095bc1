package crud

import (
	"reflect"
	"sync"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/route"
	"github.com/dmitrymomot/routekit/pkg/typeref"
)

// Namespaces of the exposure annotations.
const (
	NamespaceExpose = "crud.expose"
	NamespaceNest   = "crud.nest"
)

// Exposure publishes an entity through a generic controller.
type Exposure struct {
	Binding typeref.GenericTypeBinding
}

func (Exposure) AllowedOn() annotation.TargetKind { return annotation.KindClass }

// Nesting publishes the relation held by a property as a nested controller below the
// routes of the owning entity.
type Nesting struct {
	Binding typeref.GenericTypeBinding
	// Explicit is true when the template was supplied instead of the default NestedResource.
	Explicit bool
}

func (Nesting) AllowedOn() annotation.TargetKind { return annotation.KindProperty }

// Expose publishes T through Resource[T, ID]. The root defaults to the plural of the
// entity name.
func Expose[T any, ID comparable](root ...string) annotation.Entry {
	b := typeref.Bind[Resource[T, ID]](reflect.TypeFor[T](), reflect.TypeFor[ID]())
	if len(root) > 0 {
		b.Root = root[0]
	}
	return annotation.New(NamespaceExpose, Exposure{Binding: b})
}

// ExposeWith publishes an entity through a custom generic controller binding.
func ExposeWith(b typeref.GenericTypeBinding) annotation.Entry {
	return annotation.New(NamespaceExpose, Exposure{Binding: b})
}

// Nest publishes the annotated property of P as NestedResource[P, T, PID, ID].
func Nest[P, T any, PID, ID comparable]() annotation.Entry {
	b := typeref.Bind[NestedResource[P, T, PID, ID]](
		reflect.TypeFor[T](), reflect.TypeFor[P](), reflect.TypeFor[PID](), reflect.TypeFor[ID](),
	)
	return annotation.New(NamespaceNest, Nesting{Binding: b})
}

// NestWith publishes the annotated property through a custom template. A non-empty
// binding root replaces the relation segment.
func NestWith(b typeref.GenericTypeBinding) annotation.Entry {
	return annotation.New(NamespaceNest, Nesting{Binding: b, Explicit: true})
}

var registered sync.Map

// Register attaches the routing annotations of Resource and NestedResource to every
// instantiation in reg. Calling it again for the same registry is a no-op.
func Register(reg *annotation.Registry) {
	if _, loaded := registered.LoadOrStore(reg, struct{}{}); loaded {
		return
	}

	res := reflect.TypeFor[Resource[struct{}, int]]()
	method := func(name string, entries ...annotation.Entry) {
		reg.Add(annotation.MethodOf(res, name).ForTemplate(), entries...)
	}
	method("List", route.Get(""), annotation.Params("ctx", "offset", "limit"))
	method("Save", route.Post(""), annotation.Params("ctx", "item"))
	method("Get", route.Get(":id"), annotation.Params("ctx", "id"))
	method("Modify", route.Patch(":id"), annotation.Params("ctx", "id", "item"))
	method("Replace", route.Put(":id"), annotation.Params("ctx", "id", "item"))
	method("Delete", route.Delete(":id"), annotation.Params("ctx", "id"))
	reg.Add(annotation.ParamOf(res, "List", 1).ForTemplate(), annotation.Default(0))
	reg.Add(annotation.ParamOf(res, "List", 2).ForTemplate(), annotation.Default(DefaultLimit))

	nested := reflect.TypeFor[NestedResource[struct{}, struct{}, int, int]]()
	nestedMethod := func(name string, entries ...annotation.Entry) {
		reg.Add(annotation.MethodOf(nested, name).ForTemplate(), entries...)
	}
	nestedMethod("List", route.Get(""), annotation.Params("ctx", "parentId", "offset", "limit"))
	nestedMethod("Save", route.Post(""), annotation.Params("ctx", "parentId", "item"))
	nestedMethod("Get", route.Get(":id"), annotation.Params("ctx", "parentId", "id"))
	nestedMethod("Modify", route.Patch(":id"), annotation.Params("ctx", "parentId", "id", "item"))
	nestedMethod("Delete", route.Delete(":id"), annotation.Params("ctx", "parentId", "id"))
	reg.Add(annotation.ParamOf(nested, "List", 2).ForTemplate(), annotation.Default(0))
	reg.Add(annotation.ParamOf(nested, "List", 3).ForTemplate(), annotation.Default(DefaultLimit))
}

func init() {
	Register(annotation.DefaultRegistry)
}
