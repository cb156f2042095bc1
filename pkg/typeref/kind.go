package typeref

import (
	"reflect"
	"time"
)

// Kind classifies a resolved type.
type Kind uint8

const (
	Unknown Kind = iota
	Text
	Numeric
	Boolean
	Temporal
	List
	Object
)

var kindNames = [...]string{
	Unknown:  "unknown",
	Text:     "text",
	Numeric:  "numeric",
	Boolean:  "boolean",
	Temporal: "temporal",
	List:     "list",
	Object:   "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Primitive reports whether values of this kind fit into a single path or query value.
func (k Kind) Primitive() bool {
	switch k {
	case Text, Numeric, Boolean, Temporal:
		return true
	default:
		return false
	}
}

// TerminalName is the fixed name used for metadata of a builtin type.
func (k Kind) TerminalName() string {
	switch k {
	case Text:
		return "String"
	case Numeric:
		return "Number"
	case Boolean:
		return "Boolean"
	case Temporal:
		return "Date"
	case List:
		return "Array"
	case Object:
		return "Object"
	default:
		return "Any"
	}
}

var timeType = reflect.TypeFor[time.Time]()

// KindOf classifies t. Pointers are dereferenced.
func KindOf(t reflect.Type) Kind {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return Unknown
	}
	if t == timeType {
		return Temporal
	}

	switch t.Kind() {
	case reflect.String:
		return Text
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return Numeric
	case reflect.Bool:
		return Boolean
	case reflect.Slice, reflect.Array:
		return List
	case reflect.Struct, reflect.Map:
		return Object
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Unknown
		}
		return Object
	default:
		return Unknown
	}
}

// IsTerminal reports whether t is a builtin type that has no members of its own:
// everything that is not a struct, plus time.Time.
func IsTerminal(t reflect.Type) bool {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t == nil || t == timeType || t.Kind() != reflect.Struct
}

// IsEmptyInterface reports whether t is `any` or an equivalent empty interface.
func IsEmptyInterface(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface && t.NumMethod() == 0
}
