package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/logger"
)

// HandlerFunc serves one route. Returning a non-nil error hands it to the error handler.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// HandlerFactory builds the handler of a route. Returning nil skips the route.
type HandlerFactory func(route *internal.RouteInfo) HandlerFunc

// Middleware wraps the handler of every mounted route.
type Middleware func(next http.Handler) http.Handler

type config struct {
	logger       *slog.Logger
	errorHandler ErrorHandler
	middleware   []Middleware
}

// Option configures Mount.
type Option func(*config)

// WithMiddleware appends route middleware. The first middleware runs first.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *config) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithErrorHandler replaces WriteError.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithLogger logs handler errors and skipped routes.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// ErrInvalidMount is returned by Mount without a table or a handler factory.
var ErrInvalidMount = errors.New("dispatch: table and handler factory are required")

type routeKey struct{}

// RouteFrom returns the route being served, or nil outside a mounted handler.
func RouteFrom(ctx context.Context) *internal.RouteInfo {
	r, _ := ctx.Value(routeKey{}).(*internal.RouteInfo)
	return r
}

// ContextWithRoute stores route in ctx.
func ContextWithRoute(ctx context.Context, route *internal.RouteInfo) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

// Pattern converts the segments of a route into a chi pattern: ":id" becomes "{id}".
func Pattern(route *internal.RouteInfo) string {
	if len(route.Segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range route.Segments {
		b.WriteByte('/')
		if s.Param {
			b.WriteString("{" + s.Value + "}")
			continue
		}
		b.WriteString(s.Value)
	}
	return b.String()
}

// Mount registers every route of table on r, in table order.
func Mount(r chi.Router, table *internal.Table, factory HandlerFactory, opts ...Option) error {
	if table == nil || factory == nil {
		return ErrInvalidMount
	}

	cfg := &config{
		logger:       logger.NewNope(),
		errorHandler: WriteError,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	for _, route := range table.Routes() {
		h := factory(route)
		if h == nil {
			cfg.logger.Debug("route has no handler", slog.String("route", route.String()))
			continue
		}
		r.Method(route.Method, Pattern(route), cfg.wrap(route, h))
	}
	return nil
}

func (c *config) wrap(route *internal.RouteInfo, h HandlerFunc) http.Handler {
	var next http.Handler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			c.fail(w, req, err)
		}
	})

	// Apply route middleware in reverse order (last registered = innermost)
	for _, m := range slices.Backward(c.middleware) {
		next = m(next)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := ContextWithRoute(req.Context(), route)
		ctx = context.WithValue(ctx, errorHandlerKey{}, c.fail)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func (c *config) fail(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{slog.String("method", r.Method), slog.String("path", r.URL.Path)}
	if route := RouteFrom(r.Context()); route != nil {
		attrs = append(attrs, slog.String("action", route.Name()))
	}
	if he, ok := AsHTTPError(err); ok && he.Code < http.StatusInternalServerError {
		c.logger.DebugContext(r.Context(), "request rejected", append(attrs, slog.Any("error", err))...)
	} else {
		c.logger.ErrorContext(r.Context(), "request failed", append(attrs, slog.Any("error", err))...)
	}
	c.errorHandler(w, r, err)
}

type errorHandlerKey struct{}

// Fail hands err to the error handler of the mounted route serving r. Middleware use it
// to reject a request. Outside Mount it falls back to WriteError.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	if h, ok := r.Context().Value(errorHandlerKey{}).(func(http.ResponseWriter, *http.Request, error)); ok {
		h(w, r, err)
		return
	}
	WriteError(w, r, err)
}
