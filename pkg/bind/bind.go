// Package bind declares where a handler parameter takes its value from.
package bind

import (
	"github.com/dmitrymomot/routekit/pkg/annotation"
)

// Namespace of binding directives.
const Namespace = "bind"

// ContextBinder is the custom binder name used for context.Context parameters.
const ContextBinder = "context"

// Source is the origin of a parameter value.
type Source uint8

const (
	SourcePath Source = iota + 1
	SourceQuery
	SourceBody
	SourceCustom
)

func (s Source) String() string {
	switch s {
	case SourcePath:
		return "path"
	case SourceQuery:
		return "query"
	case SourceBody:
		return "body"
	case SourceCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// MarshalText encodes the source by name.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Directive binds the annotated parameter to an explicit source. An empty key means the
// parameter name.
type Directive struct {
	Key    string
	Source Source
}

func (Directive) AllowedOn() annotation.TargetKind { return annotation.KindParameter }

func directive(src Source, key []string) annotation.Entry {
	d := Directive{Source: src}
	if len(key) > 0 {
		d.Key = key[0]
	}
	return annotation.New(Namespace, d)
}

// Path binds the parameter to a path placeholder, by default the one named like the parameter.
func Path(key ...string) annotation.Entry { return directive(SourcePath, key) }

// Query binds the parameter to a query string value, by default the one named like the parameter.
func Query(key ...string) annotation.Entry { return directive(SourceQuery, key) }

// Body binds the parameter to the decoded request body.
func Body() annotation.Entry { return directive(SourceBody, nil) }

// Custom binds the parameter to a binder registered under name.
func Custom(name string) annotation.Entry { return directive(SourceCustom, []string{name}) }
