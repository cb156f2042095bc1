// Package dispatch mounts a compiled route table on a chi router.
//
// The route table only describes routes. Dispatch turns each route into an HTTP handler
// through a HandlerFactory supplied by the application, translates ":name" placeholders
// into chi patterns, and stores the route in the request context so that value
// extractors and the authorization guard can read it.
//
// Basic usage:
//
//	table, err := engine.Build(ctx, routekit.Controllers(routekit.TypeOf[AnimalController]()))
//	if err != nil {
//	    return err
//	}
//
//	r := chi.NewRouter()
//	err = dispatch.Mount(r, table, factory,
//	    dispatch.WithMiddleware(
//	        dispatch.Recover(logger),
//	        dispatch.Guard(actorFromSession, policies),
//	    ),
//	)
//
// Handlers return errors. An *HTTPError is written with its status code; any other error
// becomes a 500 response.
package dispatch
