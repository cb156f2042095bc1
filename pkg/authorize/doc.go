// Package authorize provides authorization annotations and the rule model the route
// table carries for every route.
//
// Class and method annotations decide who may call a route:
//
//	annotation.Class[AnimalController](authorize.Public())
//	annotation.Method[AnimalController]("Delete", authorize.Roles("admin"), authorize.Policy("owner"))
//
// Method-scope declarations replace class-scope declarations entirely. Requirements of
// one scope are combined with "any" semantics unless RequireAll is declared.
//
// Parameter and property annotations restrict who may supply a value and never affect
// access to the route. ReadOnly and WriteOnly apply to properties only.
//
// Named policies are stored by name. A [PolicyRegistry] resolves them when a [Rule] is
// evaluated against an [Actor].
package authorize
