package annotation

import (
	"reflect"
	"strings"
	"sync"
)

// TargetKind identifies the syntactic level an annotation is attached to.
type TargetKind uint8

const (
	KindClass TargetKind = 1 << iota
	KindMethod
	KindParameter
	KindProperty
)

// AnyTarget allows an annotation on every target kind.
const AnyTarget = KindClass | KindMethod | KindParameter | KindProperty

func (k TargetKind) String() string {
	names := make([]string, 0, 4)
	if k&KindClass != 0 {
		names = append(names, "class")
	}
	if k&KindMethod != 0 {
		names = append(names, "method")
	}
	if k&KindParameter != 0 {
		names = append(names, "parameter")
	}
	if k&KindProperty != 0 {
		names = append(names, "property")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Entry is a single annotation: a namespaced key plus an arbitrary payload.
type Entry struct {
	Payload   any
	Namespace string
}

// New creates an entry.
func New(namespace string, payload any) Entry {
	return Entry{Namespace: namespace, Payload: payload}
}

// Placer is implemented by payloads that are restricted to specific target kinds.
type Placer interface {
	AllowedOn() TargetKind
}

// AllowedOn reports whether the entry may be attached to the given target kind.
// Payloads that do not implement Placer are allowed everywhere.
func (e Entry) AllowedOn(kind TargetKind) bool {
	p, ok := e.Payload.(Placer)
	if !ok {
		return true
	}
	return p.AllowedOn()&kind != 0
}

// Validator is implemented by payloads that can be malformed regardless of placement.
type Validator interface {
	Validate() error
}

// Validate returns the error of a malformed payload, or nil.
func (e Entry) Validate() error {
	if v, ok := e.Payload.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// Target identifies an annotated program element.
type Target struct {
	// Type is the annotated struct type. Nil for template-wide targets.
	Type reflect.Type
	// Template is the generic type identity for template-wide targets.
	Template string
	// Member is the method or field name. Empty for class targets.
	Member string
	// Index is the parameter position (receiver excluded). Zero unless Kind is KindParameter.
	Index int
	Kind  TargetKind
}

// ClassOf returns the class target for t. Pointer types are dereferenced.
func ClassOf(t reflect.Type) Target {
	return Target{Kind: KindClass, Type: Indirect(t)}
}

// MethodOf returns the method target for the named method of t.
func MethodOf(t reflect.Type, method string) Target {
	return Target{Kind: KindMethod, Type: Indirect(t), Member: method}
}

// ParamOf returns the target for the index-th parameter of the named method of t.
func ParamOf(t reflect.Type, method string, index int) Target {
	return Target{Kind: KindParameter, Type: Indirect(t), Member: method, Index: index}
}

// PropertyOf returns the target for the named field of t.
func PropertyOf(t reflect.Type, field string) Target {
	return Target{Kind: KindProperty, Type: Indirect(t), Member: field}
}

// ForTemplate widens a target built from a generic instantiation so that it matches
// every instantiation of the same generic type. Targets of non-generic types are
// returned unchanged.
func (t Target) ForTemplate() Target {
	key := TemplateKey(t.Type)
	if key == "" {
		return t
	}
	t.Template = key
	t.Type = nil
	return t
}

// Indirect dereferences pointer types until a non-pointer type is reached.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// TemplateKey returns the identity of the generic type t was instantiated from,
// or an empty string if t is not a generic instantiation.
func TemplateKey(t reflect.Type) string {
	t = Indirect(t)
	if t == nil {
		return ""
	}
	name := t.Name()
	i := strings.IndexByte(name, '[')
	if i <= 0 {
		return ""
	}
	return t.PkgPath() + "." + name[:i]
}

// Registry is an ordered, append-only store of annotations keyed by target.
// It is safe for concurrent use.
type Registry struct {
	entries map[Target][]Entry
	mu      sync.RWMutex
	count   int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Target][]Entry)}
}

// DefaultRegistry is the process-wide registry used by the generic helpers in this package.
var DefaultRegistry = NewRegistry()

// Add appends entries to the target, preserving order.
func (r *Registry) Add(target Target, entries ...Entry) {
	if len(entries) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[target] = append(r.entries[target], entries...)
	r.count += len(entries)
}

// Lookup returns a copy of the entries attached to the target. For targets of a
// generic instantiation, template-wide entries come first. The result is never nil.
func (r *Registry) Lookup(target Target) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0)
	if target.Type != nil {
		if key := TemplateKey(target.Type); key != "" {
			wide := target
			wide.Type = nil
			wide.Template = key
			out = append(out, r.entries[wide]...)
		}
	}
	return append(out, r.entries[target]...)
}

// Targets returns the exact targets registered for members of t, in no particular
// order. Template-wide targets are not included.
func (r *Registry) Targets(t reflect.Type) []Target {
	t = Indirect(t)
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Target, 0)
	for target := range r.entries {
		if target.Type == t && target.Kind != KindClass {
			out = append(out, target)
		}
	}
	return out
}

// Len returns the total number of entries ever added.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Class attaches entries to the struct type T in the DefaultRegistry.
func Class[T any](entries ...Entry) {
	DefaultRegistry.Add(ClassOf(reflect.TypeFor[T]()), entries...)
}

// Method attaches entries to the named method of T in the DefaultRegistry.
func Method[T any](name string, entries ...Entry) {
	DefaultRegistry.Add(MethodOf(reflect.TypeFor[T](), name), entries...)
}

// Param attaches entries to the index-th parameter (receiver excluded) of the named
// method of T in the DefaultRegistry.
func Param[T any](method string, index int, entries ...Entry) {
	DefaultRegistry.Add(ParamOf(reflect.TypeFor[T](), method, index), entries...)
}

// Property attaches entries to the named field of T in the DefaultRegistry.
func Property[T any](field string, entries ...Entry) {
	DefaultRegistry.Add(PropertyOf(reflect.TypeFor[T](), field), entries...)
}
