package dispatch

import (
	"net/http"

	"github.com/dmitrymomot/routekit/pkg/authorize"
)

// ActorFunc identifies the caller. It returns false for anonymous requests and an error
// when the caller cannot be determined.
type ActorFunc func(r *http.Request) (authorize.Actor, bool, error)

// Guard returns middleware that enforces the authorization rule of the route being served.
// Public routes pass. Anonymous callers of other routes get 401, callers the rule denies
// get 403, and failing policies or actor lookups get 500.
func Guard(actor ActorFunc, policies authorize.PolicyRegistry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := RouteFrom(r.Context())
			if route == nil {
				Fail(w, r, ErrInternal("route is not mounted"))
				return
			}
			if route.Authorization.IsPublic() {
				next.ServeHTTP(w, r)
				return
			}

			a, ok, err := actor(r)
			if err != nil {
				Fail(w, r, ErrInternal("cannot identify caller", WithError(err), WithRoute(route.Name())))
				return
			}
			if !ok {
				Fail(w, r, ErrUnauthorized("authentication required", WithRoute(route.Name())))
				return
			}

			allowed, err := route.Authorization.Evaluate(r.Context(), a, policies)
			if err != nil {
				Fail(w, r, ErrInternal("authorization failed", WithError(err), WithRoute(route.Name())))
				return
			}
			if !allowed {
				Fail(w, r, ErrForbidden("access denied", WithRoute(route.Name())))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
