package types

import (
	"fmt"

	"candy/internal/decl"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type. In expression contexts it doubles as
// "no expected type".
const NoTypeID TypeID = 0

// IsValid reports whether the id refers to an interned type.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindUnit is the one-value type of expressions evaluated for effect.
	KindUnit
	// KindNever is the bottom type: assignable to everything, the type of
	// diverging expressions such as return.
	KindNever
	KindBool
	KindInt
	KindFloat
	// KindNumber is the supertype of Int and Float.
	KindNumber
	KindString
	// KindAny is the top type.
	KindAny
	// KindNamed is a user-declared type, optionally with type arguments.
	KindNamed
	KindTuple
	// KindFunction is a function type with an optional receiver.
	KindFunction
	KindUnion
	KindIntersection
	KindTypeParameter
	// KindReflection is the type of a reflection target expression.
	KindReflection
	// KindThis is the self type inside trait/class bodies.
	KindThis
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "Unit"
	case KindNever:
		return "Never"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindAny:
		return "Any"
	case KindNamed:
		return "named"
	case KindTuple:
		return "tuple"
	case KindFunction:
		return "function"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	case KindTypeParameter:
		return "type parameter"
	case KindReflection:
		return "reflection"
	case KindThis:
		return "This"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
//
//   - Named:         Name + Owner (parent module) + Payload (type arguments)
//   - Tuple:         Payload (element list)
//   - Function:      Recv (optional receiver), Payload (parameters), Elem (return)
//   - Union:         Payload (members, normalized)
//   - Intersection:  Payload (members, normalized)
//   - TypeParameter: Name + Owner (declaring declaration)
//   - Reflection:    Owner (target declaration)
type Type struct {
	Kind    Kind
	Name    string
	Owner   decl.ID
	Elem    TypeID
	Recv    TypeID
	Payload uint32
}
