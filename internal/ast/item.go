package ast

import (
	"candy/internal/source"
)

// ItemKind discriminates top-level and member declarations.
type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	// ItemFun is a function declaration.
	ItemFun
	// ItemLet is a property declaration.
	ItemLet
	// ItemClass is a class container.
	ItemClass
	// ItemTrait is a trait container.
	ItemTrait
	// ItemImpl is an impl container.
	ItemImpl
)

func (k ItemKind) String() string {
	switch k {
	case ItemFun:
		return "fun"
	case ItemLet:
		return "let"
	case ItemClass:
		return "class"
	case ItemTrait:
		return "trait"
	case ItemImpl:
		return "impl"
	default:
		return "invalid"
	}
}

// Item is the fixed-size header every declaration shares.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Node    NodeID
	Payload PayloadID
}

// FnItem is the payload for ItemFun.
type FnItem struct {
	Name       string
	NameSpan   source.Span
	Static     bool
	Params     []FnParamID
	ReturnType TypeID // NoTypeID means Unit
	// Body holds the top-level body expressions; HasBody distinguishes an
	// empty body {} from a bodyless signature.
	Body    []ExprID
	HasBody bool
	// BodyNode is the parse-time identity of the body block itself; the
	// lowering does not record it in the id map.
	BodyNode NodeID
	BodySpan source.Span
}

// FnParam is a value parameter. Node is the identity the AST↔HIR id map
// records the parameter under.
type FnParam struct {
	Name string
	Node NodeID
	Span source.Span
	Type TypeID
}

// LetItem is the payload for ItemLet.
type LetItem struct {
	Name     string
	NameSpan source.Span
	Mutable  bool
	Static   bool
	Type     TypeID
	Value    ExprID // NoExprID when the property has no initializer
}

// ContainerItem is the payload for ItemClass/ItemTrait/ItemImpl.
type ContainerItem struct {
	Name     string
	NameSpan source.Span
	Members  []ItemID
}

// Items owns the declaration arenas.
type Items struct {
	Arena      *Arena[Item]
	Fns        *Arena[FnItem]
	Lets       *Arena[LetItem]
	Containers *Arena[ContainerItem]
	Params     *Arena[FnParam]
}

func newItems(capHint uint) *Items {
	return &Items{
		Arena:      NewArena[Item](capHint),
		Fns:        NewArena[FnItem](capHint / 2),
		Lets:       NewArena[LetItem](8),
		Containers: NewArena[ContainerItem](8),
		Params:     NewArena[FnParam](capHint),
	}
}

// Get returns the item header for id.
func (it *Items) Get(id ItemID) *Item {
	return it.Arena.Get(uint32(id))
}

// Fn returns the function payload for id, or nil.
func (it *Items) Fn(id ItemID) *FnItem {
	if h := it.Get(id); h != nil && h.Kind == ItemFun {
		return it.Fns.Get(uint32(h.Payload))
	}
	return nil
}

// Let returns the property payload for id, or nil.
func (it *Items) Let(id ItemID) *LetItem {
	if h := it.Get(id); h != nil && h.Kind == ItemLet {
		return it.Lets.Get(uint32(h.Payload))
	}
	return nil
}

// Container returns the class/trait/impl payload for id, or nil.
func (it *Items) Container(id ItemID) *ContainerItem {
	if h := it.Get(id); h != nil {
		switch h.Kind {
		case ItemClass, ItemTrait, ItemImpl:
			return it.Containers.Get(uint32(h.Payload))
		}
	}
	return nil
}

// Param returns the value parameter for id.
func (it *Items) Param(id FnParamID) *FnParam {
	return it.Params.Get(uint32(id))
}
