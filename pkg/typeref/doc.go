// Package typeref describes and resolves declared types of fields, parameters and
// return values.
//
// A [Ref] is one of three shapes: a direct type ([Of], [For]), a list of another
// reference ([Array]) or a deferred callback returning another reference
// ([Deferred]). Deferred references break cycles between types that mention each
// other: the callback runs only when the type is read, never when it is registered.
//
//	annotation.Property[Owner]("Pets", typeref.Type(typeref.Array(typeref.Deferred(func() typeref.Ref {
//		return typeref.For[Pet]()
//	}))))
//
// A [Resolver] tracks, per owner type, whether a deferred callback is currently
// running. A callback that synchronously re-enters resolution for the same owner
// fails with [CircularResolutionError] instead of recursing.
//
// Every resolved type is classified into a finite [Kind].
package typeref
