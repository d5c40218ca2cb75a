package hir

import (
	"candy/internal/ast"
	"candy/internal/decl"
	"candy/internal/source"
	"candy/internal/types"
)

// ParamSig is one resolved value parameter of a function signature.
type ParamSig struct {
	Name string
	Node ast.NodeID
	Span source.Span
	Type types.TypeID
}

// FunctionSig is the resolved signature of a function declaration.
type FunctionSig struct {
	Params []ParamSig
	Return types.TypeID
	Static bool
}

// PropertySig is the resolved signature of a property declaration.
type PropertySig struct {
	Type           types.TypeID
	Static         bool
	Mutable        bool
	HasInitializer bool
}

// Queries is the collaborator surface the lowering consumes: declaration
// ASTs and resolved signatures, the declaration table, the type interner and
// the subtyping oracle. The memoizing engine in internal/queries implements
// it; lowering only ever reads fully computed values through it.
type Queries interface {
	// FunctionAst returns the parsed declaration for a function id.
	FunctionAst(id decl.ID) (*ast.FnItem, bool)
	// FunctionSig returns the resolved signature for a function id.
	FunctionSig(id decl.ID) (FunctionSig, bool)
	// PropertySig returns the resolved signature for a property id.
	PropertySig(id decl.ID) (PropertySig, bool)
	// ModuleOf returns the module a declaration belongs to.
	ModuleOf(id decl.ID) decl.ID

	// Decls exposes the declaration table.
	Decls() *decl.Table
	// Builder exposes the AST arenas of the compilation.
	Builder() *ast.Builder
	// Types exposes the type interner.
	Types() *types.Interner
	// IsAssignableTo is the subtyping oracle.
	IsAssignableTo(from, to types.TypeID) bool
}
