package types

import (
	"fmt"
	"strings"
)

// String renders a TypeID the way surface syntax spells it.
func (in *Interner) String(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch t.Kind {
	case KindUnit, KindNever, KindBool, KindInt, KindFloat, KindNumber,
		KindString, KindAny, KindThis:
		return t.Kind.String()
	case KindNamed:
		args := in.List(t.Payload)
		if len(args) == 0 {
			return t.Name
		}
		return t.Name + "<" + in.joinList(args, ", ") + ">"
	case KindTuple:
		return "(" + in.joinList(in.List(t.Payload), ", ") + ")"
	case KindFunction:
		var sb strings.Builder
		if t.Recv.IsValid() {
			sb.WriteString(in.String(t.Recv))
			sb.WriteString(".")
		}
		sb.WriteString("(")
		sb.WriteString(in.joinList(in.List(t.Payload), ", "))
		sb.WriteString(") -> ")
		sb.WriteString(in.String(t.Elem))
		return sb.String()
	case KindUnion:
		return in.joinList(in.List(t.Payload), " | ")
	case KindIntersection:
		return in.joinList(in.List(t.Payload), " & ")
	case KindTypeParameter:
		return t.Name
	case KindReflection:
		return fmt.Sprintf("Reflection(decl %d)", t.Owner)
	default:
		return "<invalid>"
	}
}

func (in *Interner) joinList(ids []TypeID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = in.String(id)
	}
	return strings.Join(parts, sep)
}
