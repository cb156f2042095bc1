// Package crud provides generic controllers that expose entities through the route
// generator without hand-written controllers.
//
//	annotation.Class[Animal](crud.Expose[Animal, int]())
//	annotation.Property[Animal]("Toys", crud.Nest[Animal, Toy, int, int]())
//
// The first line yields the routes of Resource[Animal, int] under /animals, the second
// the routes of NestedResource[Animal, Toy, int, int] under /animals/:parentId/toys.
// Persistence is delegated to Repository and NestedRepository implementations.
package crud
