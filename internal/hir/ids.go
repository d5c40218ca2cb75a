// Package hir provides the High-level Intermediate Representation for Candy
// and the lowering that produces it from parsed function bodies.
//
// HIR is the desugared, type-resolved form of a body: every expression
// carries a declaration-local id and a resolved type. Lowering combines
// three mechanisms:
//   - scoped name resolution across a stack of lexical contexts,
//   - bidirectional type checking (expected types flow down, synthesized
//     types flow up and are checked against the subtyping oracle),
//   - id assignment, producing the bidirectional AST↔HIR id map every
//     downstream pass keys on.
package hir

import (
	"candy/internal/ast"
	"candy/internal/decl"
)

// LocalID identifies an HIR node within one declaration. Indices are dense
// in [0, n) and assigned in order of first AST-node visit; they are stable
// across a successful lowering and never reused.
type LocalID struct {
	Decl  decl.ID
	Index uint32
}

// NoLocalID marks the absence of a local id.
var NoLocalID = LocalID{}

// IsValid reports whether the id belongs to a declaration.
func (id LocalID) IsValid() bool { return id.Decl.IsValid() }

// BodyAstToHirIds is the injective mapping between AST node identities and
// declaration-local HIR ids. It is append-only while a lowering runs and
// immutable once the lowering succeeds.
type BodyAstToHirIds struct {
	owner    decl.ID
	astToHir map[ast.NodeID]uint32
	hirToAst map[uint32]ast.NodeID
}

func newBodyAstToHirIds(owner decl.ID) *BodyAstToHirIds {
	return &BodyAstToHirIds{
		owner:    owner,
		astToHir: make(map[ast.NodeID]uint32),
		hirToAst: make(map[uint32]ast.NodeID),
	}
}

// Decl returns the declaration the map belongs to.
func (m *BodyAstToHirIds) Decl() decl.ID {
	return m.owner
}

// HirFor returns the local id recorded for an AST node.
func (m *BodyAstToHirIds) HirFor(node ast.NodeID) (LocalID, bool) {
	idx, ok := m.astToHir[node]
	if !ok {
		return NoLocalID, false
	}
	return LocalID{Decl: m.owner, Index: idx}, true
}

// AstFor returns the AST node a local id was assigned to. Anonymous ids
// (synthesized nodes) have no AST node.
func (m *BodyAstToHirIds) AstFor(id LocalID) (ast.NodeID, bool) {
	if id.Decl != m.owner {
		return ast.NoNodeID, false
	}
	node, ok := m.hirToAst[id.Index]
	return node, ok
}

// Len returns the number of recorded pairs.
func (m *BodyAstToHirIds) Len() int {
	return len(m.astToHir)
}

// record inserts a pair; both directions stay injective because the
// allocator only calls it for unseen nodes with a fresh index.
func (m *BodyAstToHirIds) record(node ast.NodeID, idx uint32) {
	m.astToHir[node] = idx
	m.hirToAst[idx] = node
}
