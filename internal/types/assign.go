package types

// IsAssignableTo reports whether a value of type from can be used where a
// value of type to is expected. This is the subtyping oracle consumed by the
// body-lowering core.
//
// The relation covers:
//   - reflexivity (same TypeID)
//   - Never as the bottom type, Any as the top type
//   - Int and Float below Number
//   - union sources (every member must fit) and union targets (some member
//     must accept)
//   - intersection sources (some member fits) and targets (every member
//     must accept)
//   - tuples element-wise
//   - functions contravariant in receiver and parameters, covariant in the
//     return type
//
// Named types, type parameters, reflection types and This are related only
// by identity.
func (in *Interner) IsAssignableTo(from, to TypeID) bool {
	if from == to {
		return true
	}
	ft, okFrom := in.Lookup(from)
	tt, okTo := in.Lookup(to)
	if !okFrom || !okTo {
		return false
	}

	// Bottom and top.
	if ft.Kind == KindNever {
		return true
	}
	if tt.Kind == KindAny {
		return true
	}

	// A union source fits only if every member fits.
	if ft.Kind == KindUnion {
		for _, m := range in.List(ft.Payload) {
			if !in.IsAssignableTo(m, to) {
				return false
			}
		}
		return true
	}
	// An intersection source fits if some member fits.
	if ft.Kind == KindIntersection {
		for _, m := range in.List(ft.Payload) {
			if in.IsAssignableTo(m, to) {
				return true
			}
		}
		return false
	}
	// An intersection target requires every member to accept.
	if tt.Kind == KindIntersection {
		for _, m := range in.List(tt.Payload) {
			if !in.IsAssignableTo(from, m) {
				return false
			}
		}
		return true
	}
	// A union target accepts if some member accepts.
	if tt.Kind == KindUnion {
		for _, m := range in.List(tt.Payload) {
			if in.IsAssignableTo(from, m) {
				return true
			}
		}
		return false
	}

	switch tt.Kind {
	case KindNumber:
		return ft.Kind == KindInt || ft.Kind == KindFloat
	case KindTuple:
		if ft.Kind != KindTuple {
			return false
		}
		fromElems := in.List(ft.Payload)
		toElems := in.List(tt.Payload)
		if len(fromElems) != len(toElems) {
			return false
		}
		for i := range fromElems {
			if !in.IsAssignableTo(fromElems[i], toElems[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		if ft.Kind != KindFunction {
			return false
		}
		if ft.Recv.IsValid() != tt.Recv.IsValid() {
			return false
		}
		if ft.Recv.IsValid() && !in.IsAssignableTo(tt.Recv, ft.Recv) {
			return false
		}
		fromParams := in.List(ft.Payload)
		toParams := in.List(tt.Payload)
		if len(fromParams) != len(toParams) {
			return false
		}
		for i := range toParams {
			if !in.IsAssignableTo(toParams[i], fromParams[i]) {
				return false
			}
		}
		return in.IsAssignableTo(ft.Elem, tt.Elem)
	default:
		// Primitives, named types, type parameters, reflection and This
		// relate only by identity, which the fast path already handled.
		return false
	}
}
