package internal

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Table is the immutable result of one boot: routes in generation order.
type Table struct {
	CreatedAt time.Time
	index     map[string]*RouteInfo
	routes    []*RouteInfo
	ID        uuid.UUID
}

func newTable(routes []*RouteInfo) *Table {
	t := &Table{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		routes:    slices.Clip(routes),
		index:     make(map[string]*RouteInfo, len(routes)),
	}
	for _, r := range routes {
		t.index[r.Method+" "+r.Path] = r
	}
	return t
}

// Routes returns the routes in generation order. The slice is a copy.
func (t *Table) Routes() []*RouteInfo {
	return slices.Clone(t.routes)
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Lookup returns the route declared with exactly this verb and path pattern.
func (t *Table) Lookup(method, path string) (*RouteInfo, bool) {
	r, ok := t.index[strings.ToUpper(method)+" "+joinPath(path)]
	return r, ok
}

// Match returns the route matching a concrete request path, with the placeholder values.
// Literal segments take precedence over placeholders.
func (t *Table) Match(method, path string) (*RouteInfo, map[string]string, bool) {
	method = strings.ToUpper(method)
	parts := parsePath(joinPath(path))

	var (
		best      *RouteInfo
		bestScore = -1
	)
	for _, r := range t.routes {
		if r.Method != method || len(r.Segments) != len(parts) {
			continue
		}
		score, ok := matchScore(r.Segments, parts)
		if ok && score > bestScore {
			best, bestScore = r, score
		}
	}
	if best == nil {
		return nil, nil, false
	}

	params := make(map[string]string)
	for i, s := range best.Segments {
		if s.Param {
			params[s.Value] = parts[i].Value
		}
	}
	return best, params, true
}

// matchScore counts matching literal segments, earlier ones weighing more.
func matchScore(pattern, parts []Segment) (int, bool) {
	score := 0
	for i, s := range pattern {
		if s.Param {
			continue
		}
		if s.Value != parts[i].Value {
			return 0, false
		}
		score += 1 << (len(pattern) - i)
	}
	return score, true
}

type yamlTable struct {
	ID        string      `yaml:"id"`
	CreatedAt time.Time   `yaml:"created_at"`
	Routes    []yamlRoute `yaml:"routes"`
}

type yamlRoute struct {
	Method        string        `yaml:"method"`
	Path          string        `yaml:"path"`
	Action        string        `yaml:"action"`
	Generic       string        `yaml:"generic,omitempty"`
	Authorization string        `yaml:"authorization"`
	Bindings      []yamlBinding `yaml:"bindings,omitempty"`
}

type yamlBinding struct {
	Parameter     string            `yaml:"parameter"`
	Source        string            `yaml:"source"`
	Key           string            `yaml:"key,omitempty"`
	Kind          string            `yaml:"kind"`
	Default       any               `yaml:"default,omitempty"`
	Authorization string            `yaml:"authorization,omitempty"`
	Fields        map[string]string `yaml:"fields,omitempty"`
}

// WriteYAML writes a readable dump of the table to w.
func (t *Table) WriteYAML(w io.Writer) error {
	doc := yamlTable{
		ID:        t.ID.String(),
		CreatedAt: t.CreatedAt,
		Routes:    make([]yamlRoute, 0, len(t.routes)),
	}
	for _, r := range t.routes {
		yr := yamlRoute{
			Method:        r.Method,
			Path:          r.Path,
			Action:        r.Name(),
			Authorization: r.Authorization.String(),
		}
		if r.Generic != nil {
			yr.Generic = r.Generic.String()
		}
		for _, b := range r.Bindings {
			yb := yamlBinding{
				Parameter: b.Parameter,
				Source:    b.Source.String(),
				Key:       b.Key,
				Kind:      b.Kind.String(),
			}
			if b.HasDefault {
				yb.Default = b.Default
			}
			if b.Authorization != nil {
				yb.Authorization = b.Authorization.String()
			}
			if len(b.Fields) > 0 {
				yb.Fields = make(map[string]string, len(b.Fields))
				for _, f := range b.Fields {
					desc := f.Access
					if f.Rule != nil {
						desc += " " + f.Rule.String()
					}
					yb.Fields[f.Field] = desc
				}
			}
			yr.Bindings = append(yr.Bindings, yb)
		}
		doc.Routes = append(doc.Routes, yr)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("routekit: encode route table: %w", err)
	}
	return enc.Close()
}
