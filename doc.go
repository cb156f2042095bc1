// Package routekit derives HTTP route tables from annotated Go types.
//
// Controllers are plain structs. Their exported methods become actions, and metadata
// attached in an annotation registry (or through struct tags) decides verbs, paths,
// parameter sources and access rules. Nothing is generated at build time: the table is
// computed once at boot and handed to a dispatch layer.
//
// # Quick Start
//
//	type AnimalController struct{}
//
//	func (c *AnimalController) Index(ctx context.Context) ([]Animal, error)      { ... }
//	func (c *AnimalController) Show(ctx context.Context, id int) (*Animal, error) { ... }
//
//	func init() {
//	    typ := routekit.TypeOf[AnimalController]()
//	    annotation.DefaultRegistry.Add(annotation.MethodOf(typ, "Show"),
//	        route.Get(":id"),
//	        annotation.Params("ctx", "id"),
//	        authorize.Roles("keeper"),
//	    )
//	}
//
//	engine := routekit.New(routekit.WithLogger("routes", slog.LevelInfo))
//	defer engine.Close()
//
//	table, err := engine.Build(ctx, routekit.Controllers(routekit.TypeOf[AnimalController]()))
//
// yields
//
//	GET /animal      AnimalController.Index
//	GET /animal/:id  AnimalController.Show
//
// # Roots and paths
//
// The root of a controller is, in order: the root of its generic binding, the
// route.Root annotations of the most derived class that declares any, or the class
// name without its "Controller" suffix, lower-cased. Verb paths starting with "/"
// replace the root but stay below the engine root path (WithRootPath). Methods without
// verbs map to GET; Index and List map to the root itself.
//
// # Inheritance
//
// The first embedded struct is the parent. Its properties and methods are inherited.
// A method the child declares itself shadows the parent's method entirely, and the
// parent's annotations do not carry over to it. Other embedded structs are mixins
// whose promoted methods are not routed unless annotated.
//
// # Parameter binding
//
// Parameters bind, in order, to an explicit bind directive, the "context" binder for
// context.Context, a path placeholder of the same name, the request body for objects,
// and the query string for primitives and lists of primitives. Every placeholder of a
// path must be bound.
//
// # Authorization
//
// A method that declares any access rule replaces the rule of its class. Otherwise the
// most derived class declaring one applies. Routes without any declaration deny every
// caller unless WithDefaultAuthorization is set.
//
// # Generic controllers
//
// Generics and Entities expand generic controllers such as crud.Resource once per type
// binding. Properties marked with crud.Nest add nested routes below the parent:
//
//	GET /animals/:parentId/toys
//
// # Sources
//
// Controllers lists types explicitly. Directory reads the controllers registered with
// Register for the .go files of a directory tree and prefixes each with its relative
// directory. Boot stops at the first error: route conflicts, unbindable parameters,
// misplaced annotations and unresolvable types are all fatal.
//
// # Dispatch
//
// Package dispatch mounts a table on a chi router, extracts raw path and query values,
// and enforces the authorization rule of each route.
package routekit
