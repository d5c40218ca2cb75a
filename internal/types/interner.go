package types

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"candy/internal/decl"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Never   TypeID
	Bool    TypeID
	Int     TypeID
	Float   TypeID
	Number  TypeID
	String  TypeID
	Any     TypeID
	This    TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	lists    [][]TypeID
	listIdx  map[string]uint32
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:   make(map[Type]TypeID, 64),
		listIdx: make(map[string]uint32, 16),
	}
	in.lists = append(in.lists, nil) // reserve 0 as the empty list
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Never = in.Intern(Type{Kind: KindNever})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.Number = in.Intern(Type{Kind: KindNumber})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Any = in.Intern(Type{Kind: KindAny})
	in.builtins.This = in.Intern(Type{Kind: KindThis})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return t
}

// List resolves a payload index back into the id list it stores.
func (in *Interner) List(payload uint32) []TypeID {
	if payload == 0 || int(payload) >= len(in.lists) {
		return nil
	}
	return in.lists[payload]
}

// internList deduplicates a TypeID list and returns its payload index.
func (in *Interner) internList(ids []TypeID) uint32 {
	if len(ids) == 0 {
		return 0
	}
	var sb strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&sb, "%d,", id)
	}
	key := sb.String()
	if idx, ok := in.listIdx[key]; ok {
		return idx
	}
	lenLists, err := safecast.Conv[uint32](len(in.lists))
	if err != nil {
		panic(fmt.Errorf("len(lists) overflow: %w", err))
	}
	in.lists = append(in.lists, slices.Clone(ids))
	in.listIdx[key] = lenLists
	return lenLists
}

// Descriptor helpers ---------------------------------------------------------

// Named interns a user type with the given parent module and type arguments.
func (in *Interner) Named(name string, owner decl.ID, args ...TypeID) TypeID {
	return in.Intern(Type{Kind: KindNamed, Name: name, Owner: owner, Payload: in.internList(args)})
}

// Tuple interns a tuple of the element types.
func (in *Interner) Tuple(elems ...TypeID) TypeID {
	return in.Intern(Type{Kind: KindTuple, Payload: in.internList(elems)})
}

// Function interns a function type. recv is NoTypeID for receiver-less
// functions.
func (in *Interner) Function(recv TypeID, params []TypeID, ret TypeID) TypeID {
	return in.Intern(Type{Kind: KindFunction, Recv: recv, Elem: ret, Payload: in.internList(params)})
}

// Union interns a union of the member types. Members are sorted and
// deduplicated so structurally equal unions share one id; a single member
// collapses to itself.
func (in *Interner) Union(members ...TypeID) TypeID {
	norm := normalizeMembers(members)
	if len(norm) == 1 {
		return norm[0]
	}
	return in.Intern(Type{Kind: KindUnion, Payload: in.internList(norm)})
}

// Intersection interns an intersection of the member types, normalized the
// same way unions are.
func (in *Interner) Intersection(members ...TypeID) TypeID {
	norm := normalizeMembers(members)
	if len(norm) == 1 {
		return norm[0]
	}
	return in.Intern(Type{Kind: KindIntersection, Payload: in.internList(norm)})
}

// TypeParameter interns a type parameter declared by owner.
func (in *Interner) TypeParameter(name string, owner decl.ID) TypeID {
	return in.Intern(Type{Kind: KindTypeParameter, Name: name, Owner: owner})
}

// Reflection interns the reflection type for a target declaration.
func (in *Interner) Reflection(target decl.ID) TypeID {
	return in.Intern(Type{Kind: KindReflection, Owner: target})
}

func normalizeMembers(members []TypeID) []TypeID {
	norm := slices.Clone(members)
	slices.Sort(norm)
	return slices.Compact(norm)
}
