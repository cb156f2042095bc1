package annotation

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// TagParser converts the value of one struct tag key into entries.
type TagParser func(value string) ([]Entry, error)

// TagParsers maps struct tag keys to parsers.
type TagParsers map[string]TagParser

// Parse converts every known key of tag into entries. Keys are processed in
// lexical order so the result is deterministic.
func (p TagParsers) Parse(tag reflect.StructTag) ([]Entry, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Entry, 0)
	for _, k := range keys {
		v, ok := tag.Lookup(k)
		if !ok {
			continue
		}
		entries, err := p[k](v)
		if err != nil {
			return nil, fmt.Errorf("annotation: tag %q: %w", k, err)
		}
		out = append(out, entries...)
	}
	return out, nil
}

// ValidateTag turns a comma separated `validate` tag into one directive per rule.
func ValidateTag(value string) ([]Entry, error) {
	out := make([]Entry, 0)
	for rule := range strings.SplitSeq(value, ",") {
		rule = strings.TrimSpace(rule)
		if rule == "" || rule == "-" {
			continue
		}
		out = append(out, Validate(rule))
	}
	return out, nil
}
