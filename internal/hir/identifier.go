package hir

import (
	"candy/internal/decl"
	"candy/internal/types"
)

// IdentifierKind enumerates resolved identifier variants.
type IdentifierKind uint8

const (
	// IdentThis is the receiver of a member function or property.
	IdentThis IdentifierKind = iota
	// IdentSuper refers to the supertype receiver.
	IdentSuper
	// IdentParameter is a value parameter of the enclosing function.
	IdentParameter
	// IdentLocalProperty is a let-style local binding.
	IdentLocalProperty
	// IdentProperty is an outer property or function declaration, with an
	// optional receiver.
	IdentProperty
	// IdentReflection is a reflection target.
	IdentReflection
)

func (k IdentifierKind) String() string {
	switch k {
	case IdentThis:
		return "this"
	case IdentSuper:
		return "super"
	case IdentParameter:
		return "parameter"
	case IdentLocalProperty:
		return "local property"
	case IdentProperty:
		return "property"
	case IdentReflection:
		return "reflection"
	default:
		return "unknown"
	}
}

// Identifier is the resolution of a name to a binding.
type Identifier struct {
	Kind    IdentifierKind
	Name    string
	Type    types.TypeID
	Local   LocalID // parameter, local property
	Mutable bool    // local property
	Decl    decl.ID // property, reflection
	// Receiver is the lowered receiver for property accesses; nil for
	// receiver-less access from inside the declaring container.
	Receiver *Expr
}

// ThisIdentifier resolves `this` with the receiver type.
func ThisIdentifier(typ types.TypeID) Identifier {
	return Identifier{Kind: IdentThis, Name: "this", Type: typ}
}

// ParameterIdentifier binds a value parameter.
func ParameterIdentifier(local LocalID, name string, typ types.TypeID) Identifier {
	return Identifier{Kind: IdentParameter, Name: name, Type: typ, Local: local}
}

// LocalPropertyIdentifier binds a local let-style property.
func LocalPropertyIdentifier(local LocalID, name string, typ types.TypeID, mutable bool) Identifier {
	return Identifier{Kind: IdentLocalProperty, Name: name, Type: typ, Local: local, Mutable: mutable}
}

// PropertyIdentifier binds an outer property or function declaration.
func PropertyIdentifier(d decl.ID, name string, typ types.TypeID, receiver *Expr) Identifier {
	return Identifier{Kind: IdentProperty, Name: name, Type: typ, Decl: d, Receiver: receiver}
}

// ReflectionIdentifier binds a reflection target.
func ReflectionIdentifier(d decl.ID, typ types.TypeID) Identifier {
	return Identifier{Kind: IdentReflection, Type: typ, Decl: d}
}
