package authorize

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/routekit/pkg/annotation"
)

// TagKey is the struct tag read by ParseTag.
const TagKey = "authorize"

// ParseTag converts an `authorize` struct tag into entries. Supported parts, separated by
// commas: "readonly", "writeonly", "public", "roles=a|b", "policy=name".
func ParseTag(value string) ([]annotation.Entry, error) {
	out := make([]annotation.Entry, 0)
	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, arg, hasArg := strings.Cut(part, "=")
		switch {
		case key == "readonly" && !hasArg:
			out = append(out, ReadOnly())
		case key == "writeonly" && !hasArg:
			out = append(out, WriteOnly())
		case key == "public" && !hasArg:
			out = append(out, Public())
		case key == "roles" && arg != "":
			out = append(out, Roles(strings.Split(arg, "|")...))
		case key == "policy" && arg != "":
			out = append(out, Policy(arg))
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidTag, part)
		}
	}
	return out, nil
}
