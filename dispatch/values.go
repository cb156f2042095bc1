package dispatch

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/bind"
)

// ValueSource reads one raw value from a request.
// Returns the value and true if found, or ("", false) if not present.
type ValueSource = func(*http.Request) (string, bool)

// Extractor tries multiple sources in order and returns the first match.
type Extractor struct {
	sources []ValueSource
}

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ValueSource) Extractor {
	return Extractor{sources: sources}
}

// Extract iterates sources in order and returns the first non-empty value.
func (e Extractor) Extract(r *http.Request) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(r); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// FromPath returns a source that reads a path placeholder.
func FromPath(name string) ValueSource {
	return func(r *http.Request) (string, bool) {
		v := chi.URLParam(r, name)
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// FromQuery returns a source that reads from a query parameter.
func FromQuery(name string) ValueSource {
	return func(r *http.Request) (string, bool) {
		v := r.URL.Query().Get(name)
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// FromHeader returns a source that reads from a request header.
func FromHeader(name string) ValueSource {
	return func(r *http.Request) (string, bool) {
		v := r.Header.Get(name)
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// FromBearerToken returns a source that reads a Bearer token from the Authorization header.
func FromBearerToken() ValueSource {
	return func(r *http.Request) (string, bool) {
		auth := r.Header.Get("Authorization")
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return "", false
		}
		token := auth[7:]
		if token == "" {
			return "", false
		}
		return token, true
	}
}

// Values returns the raw path and query values of the route served by r, keyed by
// parameter name. Query lists keep every value. Missing values fall back to the declared
// default. Body and custom parameters are left to the handler.
func Values(r *http.Request) (map[string][]string, error) {
	route := RouteFrom(r.Context())
	if route == nil {
		return nil, ErrInternal("route is not mounted")
	}

	out := make(map[string][]string, len(route.Bindings))
	for _, b := range route.Bindings {
		var values []string
		switch b.Source {
		case bind.SourcePath:
			if v, ok := FromPath(b.Key)(r); ok {
				values = []string{v}
			}
		case bind.SourceQuery:
			values = r.URL.Query()[b.Key]
		default:
			continue
		}

		if len(values) == 0 {
			if !b.HasDefault {
				if b.Source == bind.SourcePath {
					return nil, ErrBadRequest("missing path value "+b.Key, WithRoute(route.Name()))
				}
				continue
			}
			values = defaults(b)
		}
		out[b.Parameter] = values
	}
	return out, nil
}

func defaults(b internal.ParameterBinding) []string {
	if list, ok := b.Default.([]string); ok {
		return list
	}
	return []string{fmt.Sprint(b.Default)}
}
