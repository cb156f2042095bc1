// Package internal provides the core types and implementation of routekit.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/routekit" instead, which re-exports the public API.
//
// # Core Types
//
//   - Engine: owns the registry, the resolver and the metadata cache; builds tables
//   - MetadataCache: memoizes ClassMetadata per reflect.Type
//   - ClassMetadata: merged properties, methods and annotations of one struct
//   - Source: Controllers, Directory, Generics and Entities feed the generator
//   - RouteInfo: one verb and path bound to a controller action
//   - Table: the immutable route list of one boot
//
// # Boot Phases
//
// Extraction reads struct fields and the pointer method set of a type, merges the
// parent's members and resolves member types. Generation expands every routed method
// under every root of a controller, binds parameters and detects conflicts.
// Authorization resolves the access rule of each action. Log records carry the phase
// in a "phase" attribute when the logger uses logger.PhaseExtractor.
//
// # Errors
//
// Every boot error matches one of the sentinels with errors.Is:
//
//   - ErrRouteConflict: two actions share a verb and a path shape
//   - ErrBindingResolution: a parameter has no source, or a placeholder is unbound
//   - ErrInvalidAnnotationPlacement: an annotation targets the wrong kind or a missing member
//   - ErrCircularResolution: type resolution or embedding loops
//   - ErrUnresolvedType: a member type cannot be determined
//   - ErrInvalidSource: a source cannot be read
package internal
