package hir

import (
	"fmt"

	"candy/internal/ast"
	"candy/internal/decl"
	"candy/internal/source"
	"candy/internal/types"
)

// ReturnScope is a resolved return target: the local id of the scope being
// exited and the type its value must satisfy.
type ReturnScope struct {
	Scope    LocalID
	Expected types.TypeID // NoTypeID when the scope accepts anything
}

// LoopScope is a resolved break/continue target.
type LoopScope struct {
	Scope    LocalID
	Expected types.TypeID
}

// Context is one frame of the lexical scope stack a lowering runs under.
// The root frame owns the id allocator and the AST↔HIR id map; every child
// frame delegates to its parent for whatever it does not override.
type Context interface {
	// Queries returns the collaborator surface of the lowering.
	Queries() Queries
	// Declaration returns the declaration being lowered.
	Declaration() decl.ID
	// Resource returns the source file of the declaration.
	Resource() source.FileID

	// Parent returns the enclosing frame, nil for the root.
	Parent() Context
	// ExpectedType is the type imposed by the surrounding rule; NoTypeID
	// means any type is accepted.
	ExpectedType() types.TypeID

	// GetID returns the local id for an AST node, allocating on first use.
	// NoNodeID mints a fresh anonymous id that is not recorded in the map.
	GetID(node ast.NodeID) LocalID
	// IDMap returns the id map being built.
	IDMap() *BodyAstToHirIds

	// ResolveIdentifier looks a name up innermost-first.
	ResolveIdentifier(name string) (Identifier, bool)
	// AddIdentifier introduces a binding visible to subsequent expressions
	// in this scope. The root frame rejects it (internal error).
	AddIdentifier(id Identifier) error

	// ResolveReturn locates the enclosing return scope matching label
	// (empty label matches any function scope).
	ResolveReturn(label string) (ReturnScope, bool)
	// ResolveBreak locates the enclosing loop scope for break.
	ResolveBreak(label string) (LoopScope, bool)
	// ResolveContinue locates the enclosing loop scope for continue.
	ResolveContinue(label string) (LoopScope, bool)
}

// isValidExpressionType is the single attachment point of bidirectional
// checking: true when the context imposes no expected type, otherwise
// whatever the subtyping oracle says.
func isValidExpressionType(ctx Context, t types.TypeID) bool {
	expected := ctx.ExpectedType()
	if !expected.IsValid() {
		return true
	}
	return ctx.Queries().IsAssignableTo(t, expected)
}

// rootContext is the outermost frame, bound to the declaration. It owns the
// id counter and the id map and resolves only the reserved name `this`.
type rootContext struct {
	queries  Queries
	decl     decl.ID
	resource source.FileID
	counter  uint32
	idMap    *BodyAstToHirIds
}

func newRootContext(q Queries, id decl.ID) *rootContext {
	return &rootContext{
		queries:  q,
		decl:     id,
		resource: q.Decls().Resource(id),
		idMap:    newBodyAstToHirIds(id),
	}
}

func (rc *rootContext) Queries() Queries           { return rc.queries }
func (rc *rootContext) Declaration() decl.ID       { return rc.decl }
func (rc *rootContext) Resource() source.FileID    { return rc.resource }
func (rc *rootContext) Parent() Context            { return nil }
func (rc *rootContext) ExpectedType() types.TypeID { return types.NoTypeID }
func (rc *rootContext) IDMap() *BodyAstToHirIds    { return rc.idMap }

// GetID allocates monotonically. Repeated calls for the same AST node return
// the same id; distinct nodes get distinct ids.
func (rc *rootContext) GetID(node ast.NodeID) LocalID {
	if node.IsValid() {
		if id, ok := rc.idMap.HirFor(node); ok {
			return id
		}
	}
	idx := rc.counter
	rc.counter++
	if node.IsValid() {
		rc.idMap.record(node, idx)
	}
	return LocalID{Decl: rc.decl, Index: idx}
}

// ResolveIdentifier handles only `this`: it resolves for non-static member
// functions and properties of a class/trait/impl, and nowhere else. Other
// names are unknown at this level.
func (rc *rootContext) ResolveIdentifier(name string) (Identifier, bool) {
	if name != "this" {
		return Identifier{}, false
	}
	decls := rc.queries.Decls()
	if !decls.IsFunction(rc.decl) && !decls.IsProperty(rc.decl) {
		return Identifier{}, false
	}
	if decls.IsStatic(rc.decl) {
		return Identifier{}, false
	}
	parent := decls.Parent(rc.decl)
	if !decls.IsContainer(parent) {
		return Identifier{}, false
	}
	// User types are owned by their module, matching how annotations resolve.
	thisType := rc.queries.Types().Named(decls.SimpleName(parent), rc.queries.ModuleOf(parent))
	return ThisIdentifier(thisType), true
}

func (rc *rootContext) AddIdentifier(Identifier) error {
	return fmt.Errorf("hir: AddIdentifier on root context of %s", rc.queries.Decls().Path(rc.decl))
}

func (rc *rootContext) ResolveReturn(string) (ReturnScope, bool) {
	return ReturnScope{}, false
}

func (rc *rootContext) ResolveBreak(string) (LoopScope, bool) {
	return LoopScope{}, false
}

func (rc *rootContext) ResolveContinue(string) (LoopScope, bool) {
	return LoopScope{}, false
}
