package internal

import (
	"strings"

	"github.com/dmitrymomot/routekit/pkg/route"
)

// Segment is one element of a route path.
type Segment struct {
	Value string
	// Param is true for ":name" placeholders; Value then holds the name without the colon.
	Param bool
}

func (s Segment) String() string {
	if s.Param {
		return ":" + s.Value
	}
	return s.Value
}

// parsePath splits a normalized path into segments.
func parsePath(p string) []Segment {
	out := make([]Segment, 0, strings.Count(p, "/"))
	for part := range strings.SplitSeq(p, "/") {
		if part == "" {
			continue
		}
		if name, ok := strings.CutPrefix(part, ":"); ok {
			out = append(out, Segment{Value: name, Param: true})
			continue
		}
		out = append(out, Segment{Value: part})
	}
	return out
}

// joinPath joins parts into a path with a single leading slash and no trailing slash.
func joinPath(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		for part := range strings.SplitSeq(p, "/") {
			if part != "" {
				segs = append(segs, part)
			}
		}
	}
	return "/" + strings.Join(segs, "/")
}

// resolvePath applies p to base. Absolute paths replace base but stay below root.
func resolvePath(root, base, p string) string {
	if route.IsAbsolute(p) {
		return joinPath(root, p)
	}
	return joinPath(base, p)
}

// placeholders returns the placeholder names of segs, in order.
func placeholders(segs []Segment) []string {
	out := make([]string, 0)
	for _, s := range segs {
		if s.Param {
			out = append(out, s.Value)
		}
	}
	return out
}

// shapeKey identifies routes that would match the same requests: placeholder names
// do not matter.
func shapeKey(method string, segs []Segment) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(' ')
	if len(segs) == 0 {
		b.WriteByte('/')
	}
	for _, s := range segs {
		b.WriteByte('/')
		if s.Param {
			b.WriteByte(':')
			continue
		}
		b.WriteString(s.Value)
	}
	return b.String()
}
