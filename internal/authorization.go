package internal

import (
	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/authorize"
)

// FieldAuthorization restricts one field of a body parameter.
type FieldAuthorization struct {
	// Rule is nil when the field carries no role or policy requirement.
	Rule   *authorize.Rule
	Field  string
	Access string
}

// authorizer picks the access rule of an action.
type authorizer struct {
	// fallback replaces the default rule when nothing is declared.
	fallback *authorize.Rule
}

// resolve returns the rule of method on class. A method scope that declares anything
// replaces the class scope entirely. The class scope is the most derived class in the
// lineage that declares authorization itself; extra scopes, such as the entity of a
// generic controller, are consulted after the lineage.
func (a *authorizer) resolve(class *ClassMetadata, method *MethodMetadata, extra ...*ClassMetadata) authorize.Rule {
	if method != nil && authorize.Declares(method.Annotations) {
		return ruleFrom(method.Annotations)
	}

	scopes := make([]*ClassMetadata, 0, 4)
	if class != nil {
		scopes = append(scopes, class.Lineage()...)
	}
	for _, c := range extra {
		if c != nil {
			scopes = append(scopes, c.Lineage()...)
		}
	}
	for _, c := range scopes {
		if own := c.OwnAnnotations(); authorize.Declares(own) {
			return ruleFrom(own)
		}
	}

	if a.fallback != nil {
		return *a.fallback
	}
	return authorize.DefaultRule()
}

// ruleFrom builds the rule of a single scope. Public wins over every requirement of
// the same scope.
func ruleFrom(entries []annotation.Entry) authorize.Rule {
	if len(annotation.Payloads[authorize.PublicMarker](entries)) > 0 {
		return authorize.PublicRule()
	}
	all := len(annotation.Payloads[authorize.AllMarker](entries)) > 0
	return authorize.Restricted(all, requirements(entries)...)
}

func requirements(entries []annotation.Entry) []authorize.Requirement {
	out := make([]authorize.Requirement, 0)
	for _, e := range entries {
		switch p := e.Payload.(type) {
		case authorize.RoleSet:
			for _, role := range p.Roles {
				out = append(out, authorize.Requirement{Kind: authorize.RequireRole, Name: role})
			}
		case authorize.PolicyRef:
			out = append(out, authorize.Requirement{Kind: authorize.RequirePolicy, Name: p.Name})
		case authorize.CustomRef:
			out = append(out, authorize.Requirement{Kind: authorize.RequireCustom, Name: p.Name})
		}
	}
	return out
}

// memberRule returns the rule attached to a parameter or a property, or nil.
func memberRule(entries []annotation.Entry) *authorize.Rule {
	reqs := requirements(entries)
	if len(reqs) == 0 {
		return nil
	}
	rule := authorize.Restricted(false, reqs...)
	return &rule
}

// fieldRules collects the field restrictions of a body type.
func fieldRules(meta *ClassMetadata) []FieldAuthorization {
	out := make([]FieldAuthorization, 0)
	if meta == nil {
		return out
	}
	for _, p := range meta.Properties {
		access, hasAccess := annotation.LastPayload[authorize.AccessMode](p.Annotations)
		rule := memberRule(p.Annotations)
		if !hasAccess && rule == nil {
			continue
		}
		out = append(out, FieldAuthorization{Field: p.Name, Access: access.String(), Rule: rule})
	}
	return out
}
