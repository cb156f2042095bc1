package annotation

// Namespaces of the built-in annotations.
const (
	NamespaceParams   = "params"
	NamespaceDefault  = "default"
	NamespaceOverride = "override"
	NamespaceValidate = "validate"
)

// ParamNames names the parameters of a method, in order (receiver excluded).
type ParamNames []string

func (ParamNames) AllowedOn() TargetKind { return KindMethod }

// DefaultValue is the statically known default of a parameter.
type DefaultValue struct {
	Value any
}

func (DefaultValue) AllowedOn() TargetKind { return KindParameter }

// OverrideMarker declares that a member shadows the inherited member of the same name.
type OverrideMarker struct{}

func (OverrideMarker) AllowedOn() TargetKind { return KindMethod | KindProperty }

// Directive is a validation rule, e.g. "required" or "min=3".
type Directive struct {
	Rule string
}

func (Directive) AllowedOn() TargetKind { return KindProperty | KindParameter }

// Params names the parameters of the annotated method. Reflection cannot recover
// parameter names, so routes that bind by name need this.
func Params(names ...string) Entry {
	return New(NamespaceParams, ParamNames(names))
}

// Default records a default value for the annotated parameter.
func Default(v any) Entry {
	return New(NamespaceDefault, DefaultValue{Value: v})
}

// Override marks a member promoted from the parent as an own member of the annotated
// type. Methods the type declares itself are always own members.
func Override() Entry {
	return New(NamespaceOverride, OverrideMarker{})
}

// Validate records a validation directive.
func Validate(rule string) Entry {
	return New(NamespaceValidate, Directive{Rule: rule})
}
