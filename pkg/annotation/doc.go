// Package annotation stores declarative markers attached to Go types and their members.
//
// Go has no decorator syntax, so annotations are attached programmatically, usually from
// package init functions next to the type they describe:
//
//	func init() {
//		annotation.Class[AnimalController](route.Root("/beasts"))
//		annotation.Method[AnimalController]("Get", route.Get(":id"), annotation.Params("ctx", "id"))
//		annotation.Param[AnimalController]("Save", 1, bind.Body())
//	}
//
// # Entries
//
// An [Entry] is a namespaced payload. Entries attached to the same target keep their
// insertion order and duplicates are retained. The registry is append-only: nothing is
// ever removed, and readers always receive a copy.
//
// # Targets
//
// A [Target] identifies a class (struct type), a method, a method parameter or a
// property (exported struct field). Targets built from a generic instantiation can be
// widened with [Target.ForTemplate] so that entries apply to every instantiation of the
// generic type. Lookups return template-wide entries first, then entries for the exact
// instantiation.
//
// # Placement
//
// Payloads that are only meaningful on some target kinds implement [Placer]. The
// registry does not validate placement; the metadata extractor does, so that misuse is
// reported while the route table is built.
//
// # Struct tags
//
// [TagParsers] convert struct tags into entries. Tag-derived entries precede entries
// registered through the API.
package annotation
