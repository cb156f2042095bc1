package authorize

import (
	"context"
	"fmt"
	"strings"
)

// RuleKind is the overall shape of a rule.
type RuleKind uint8

const (
	// RuleDefault is produced when nothing was declared. It denies.
	RuleDefault RuleKind = iota
	RulePublic
	RuleRestricted
)

func (k RuleKind) String() string {
	switch k {
	case RulePublic:
		return "public"
	case RuleRestricted:
		return "restricted"
	default:
		return "default"
	}
}

// RequirementKind is what a requirement checks.
type RequirementKind uint8

const (
	RequireRole RequirementKind = iota + 1
	RequirePolicy
	RequireCustom
)

func (k RequirementKind) String() string {
	switch k {
	case RequireRole:
		return "role"
	case RequirePolicy:
		return "policy"
	case RequireCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Requirement is a single check of a restricted rule.
type Requirement struct {
	Name string
	Kind RequirementKind
}

func (r Requirement) String() string {
	return r.Kind.String() + ":" + r.Name
}

// Rule decides who may call a route.
type Rule struct {
	Requirements []Requirement
	Kind         RuleKind
	// All requires every requirement instead of any of them.
	All bool
}

// PublicRule allows everyone.
func PublicRule() Rule { return Rule{Kind: RulePublic} }

// DefaultRule denies everyone.
func DefaultRule() Rule { return Rule{Kind: RuleDefault} }

// Restricted builds a rule from requirements. Without requirements it is a default rule.
func Restricted(all bool, reqs ...Requirement) Rule {
	if len(reqs) == 0 {
		return DefaultRule()
	}
	return Rule{Kind: RuleRestricted, Requirements: reqs, All: all}
}

// IsPublic reports whether the rule allows everyone.
func (r Rule) IsPublic() bool { return r.Kind == RulePublic }

// Names returns the names of the requirements of the given kind, in order.
func (r Rule) Names(kind RequirementKind) []string {
	out := make([]string, 0)
	for _, req := range r.Requirements {
		if req.Kind == kind {
			out = append(out, req.Name)
		}
	}
	return out
}

func (r Rule) String() string {
	if r.Kind != RuleRestricted {
		return r.Kind.String()
	}
	parts := make([]string, len(r.Requirements))
	for i, req := range r.Requirements {
		parts[i] = req.String()
	}
	op := "any"
	if r.All {
		op = "all"
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}

// Evaluate checks the rule against actor. Policies and custom authorizers are looked up
// in reg by name. A nil registry fails every policy and custom requirement.
func (r Rule) Evaluate(ctx context.Context, actor Actor, reg PolicyRegistry) (bool, error) {
	switch r.Kind {
	case RulePublic:
		return true, nil
	case RuleDefault:
		return false, nil
	}

	for _, req := range r.Requirements {
		ok, err := req.evaluate(ctx, actor, reg)
		if err != nil {
			return false, err
		}
		if ok && !r.All {
			return true, nil
		}
		if !ok && r.All {
			return false, nil
		}
	}
	return r.All, nil
}

func (req Requirement) evaluate(ctx context.Context, actor Actor, reg PolicyRegistry) (bool, error) {
	if req.Kind == RequireRole {
		return actor.HasRole(req.Name), nil
	}
	if reg == nil {
		return false, fmt.Errorf("%w: %s", ErrUnknownPolicy, req)
	}
	p, ok := reg.Policy(req.Name)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownPolicy, req)
	}
	allowed, err := p(ctx, actor)
	if err != nil {
		return false, fmt.Errorf("authorize: %s: %w", req, err)
	}
	return allowed, nil
}
