// Package route provides the routing annotations read by the route generator and the
// naming rules used to derive path segments from type names.
package route

import (
	"net/http"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/routekit/pkg/annotation"
)

// Namespaces of routing annotations.
const (
	NamespaceVerb   = "route"
	NamespaceRoot   = "route.root"
	NamespaceIgnore = "route.ignore"
)

const controllerSuffix = "Controller"

// Verb maps a method to an HTTP verb and path.
type Verb struct {
	Method string
	Path   string
	// Explicit is false when no path was given and the method name is appended.
	Explicit bool
}

func (Verb) AllowedOn() annotation.TargetKind { return annotation.KindMethod }

// RootPath sets the route root of a class.
type RootPath struct {
	Path string
}

func (RootPath) AllowedOn() annotation.TargetKind { return annotation.KindClass }

// IgnoreMarker suppresses routes for a class or a method.
type IgnoreMarker struct{}

func (IgnoreMarker) AllowedOn() annotation.TargetKind {
	return annotation.KindClass | annotation.KindMethod
}

func verb(method string, path []string) annotation.Entry {
	v := Verb{Method: method}
	if len(path) > 0 {
		v.Path = path[0]
		v.Explicit = true
	}
	return annotation.New(NamespaceVerb, v)
}

// Get maps the annotated method to GET. Without a path the method name is appended to
// the class root; an empty path maps to the class root itself; a path starting with
// "/" is absolute.
func Get(path ...string) annotation.Entry { return verb(http.MethodGet, path) }

// Post maps the annotated method to POST. Path rules are the same as for Get.
func Post(path ...string) annotation.Entry { return verb(http.MethodPost, path) }

// Put maps the annotated method to PUT. Path rules are the same as for Get.
func Put(path ...string) annotation.Entry { return verb(http.MethodPut, path) }

// Patch maps the annotated method to PATCH. Path rules are the same as for Get.
func Patch(path ...string) annotation.Entry { return verb(http.MethodPatch, path) }

// Delete maps the annotated method to DELETE. Path rules are the same as for Get.
func Delete(path ...string) annotation.Entry { return verb(http.MethodDelete, path) }

// Root sets the root path of the annotated class. Absolute when it starts with "/",
// relative to the discovered prefix otherwise. Several roots produce several route sets.
func Root(path string) annotation.Entry {
	return annotation.New(NamespaceRoot, RootPath{Path: path})
}

// Ignore excludes the annotated class or method from route generation.
func Ignore() annotation.Entry {
	return annotation.New(NamespaceIgnore, IgnoreMarker{})
}

// Strive derives a path segment from a type name: the trailing "Controller" suffix is
// removed and the rest is lower-cased.
func Strive(name string) string {
	if len(name) > len(controllerSuffix) && strings.HasSuffix(name, controllerSuffix) {
		name = name[:len(name)-len(controllerSuffix)]
	}
	// Caser keeps state and must not be shared between goroutines.
	return cases.Lower(language.Und).String(name)
}

// Lower lower-cases a method name for use as a path segment.
func Lower(name string) string {
	return cases.Lower(language.Und).String(name)
}

// IsAbsolute reports whether p replaces the enclosing prefix instead of extending it.
func IsAbsolute(p string) bool {
	return strings.HasPrefix(p, "/")
}

// IsCollection reports whether a method without routing annotations maps to the class
// root rather than to a sub-path named after the method.
func IsCollection(method string) bool {
	switch strings.ToLower(method) {
	case "get", "list", "index":
		return true
	default:
		return false
	}
}

// Methods lists the supported HTTP verbs.
var Methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
