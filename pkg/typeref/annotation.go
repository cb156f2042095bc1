package typeref

import "github.com/dmitrymomot/routekit/pkg/annotation"

// Namespace of type hint annotations.
const Namespace = "type"

// Hint overrides the declared type of a field, a parameter or a method result.
type Hint struct {
	Ref Ref
}

func (Hint) AllowedOn() annotation.TargetKind {
	return annotation.KindProperty | annotation.KindParameter | annotation.KindMethod
}

// Type returns a type hint entry. On a method it describes the return type.
func Type(ref Ref) annotation.Entry {
	return annotation.New(Namespace, Hint{Ref: ref})
}
