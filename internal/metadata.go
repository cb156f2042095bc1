package internal

import (
	"reflect"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/typeref"
)

// ClassMetadata describes a struct type: its members and annotations, merged with
// those of the embedded parent. Builtin types yield terminal metadata without members.
type ClassMetadata struct {
	Type reflect.Type
	// Parent is the metadata of the first embedded struct, or nil.
	Parent *ClassMetadata
	Name   string
	// Properties lists inherited properties first, then own ones in declaration order.
	Properties []*PropertyMetadata
	// Methods are sorted by name.
	Methods []*MethodMetadata
	// Annotations holds the parent's class annotations followed by the own ones.
	Annotations []annotation.Entry
	Kind        typeref.Kind
}

// OwnAnnotations returns the class annotations declared on this type only.
func (c *ClassMetadata) OwnAnnotations() []annotation.Entry {
	if c.Parent == nil {
		return c.Annotations
	}
	return c.Annotations[len(c.Parent.Annotations):]
}

// Terminal reports whether c describes a builtin type.
func (c *ClassMetadata) Terminal() bool {
	return typeref.IsTerminal(c.Type)
}

// Method returns the named method.
func (c *ClassMetadata) Method(name string) (*MethodMetadata, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Property returns the named property.
func (c *ClassMetadata) Property(name string) (*PropertyMetadata, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Lineage returns c followed by its ancestors, most derived first.
func (c *ClassMetadata) Lineage() []*ClassMetadata {
	out := make([]*ClassMetadata, 0, 2)
	for m := c; m != nil; m = m.Parent {
		out = append(out, m)
	}
	return out
}

// PropertyMetadata describes an exported, non-embedded struct field.
type PropertyMetadata struct {
	Type *typeref.Lazy
	// Owner is the struct that declares the field; Index is relative to it.
	Owner       reflect.Type
	Name        string
	Index       []int
	Annotations []annotation.Entry
}

// MethodMetadata describes an exported method.
type MethodMetadata struct {
	// ReturnType is the first result that is not an error, or nil.
	ReturnType *typeref.Lazy
	// Owner is the struct the metadata was extracted for. Inherited methods keep the
	// owner of the ancestor they come from.
	Owner       reflect.Type
	Signature   reflect.Type
	Name        string
	Parameters  []*ParameterMetadata
	Annotations []annotation.Entry
	// ReturnsError is true when the last result is an error.
	ReturnsError bool
}

// ParameterMetadata describes a method parameter. Index excludes the receiver.
type ParameterMetadata struct {
	Type        *typeref.Lazy
	Default     any
	Name        string
	Annotations []annotation.Entry
	Index       int
	HasDefault  bool
}
