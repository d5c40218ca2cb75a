package hir

import (
	"candy/internal/ast"
	"candy/internal/decl"
	"candy/internal/source"
	"candy/internal/types"
)

// expressionContext is a lightweight child frame carrying one expected type
// and a forwarding flag for new bindings. Everything else delegates to the
// parent.
//
// Forwarding models the difference between top-level body expressions,
// whose let-style bindings must stay visible to the siblings that follow,
// and operand positions, whose locals must not leak.
type expressionContext struct {
	parent   Context
	expected types.TypeID
	forwards bool
}

func newExpressionContext(parent Context, expected types.TypeID, forwards bool) *expressionContext {
	return &expressionContext{parent: parent, expected: expected, forwards: forwards}
}

func (ec *expressionContext) Queries() Queries           { return ec.parent.Queries() }
func (ec *expressionContext) Declaration() decl.ID       { return ec.parent.Declaration() }
func (ec *expressionContext) Resource() source.FileID    { return ec.parent.Resource() }
func (ec *expressionContext) Parent() Context            { return ec.parent }
func (ec *expressionContext) ExpectedType() types.TypeID { return ec.expected }

func (ec *expressionContext) GetID(node ast.NodeID) LocalID {
	return ec.parent.GetID(node)
}

func (ec *expressionContext) IDMap() *BodyAstToHirIds {
	return ec.parent.IDMap()
}

func (ec *expressionContext) ResolveIdentifier(name string) (Identifier, bool) {
	return ec.parent.ResolveIdentifier(name)
}

// AddIdentifier forwards to the parent scope when configured to; otherwise
// the binding stays invisible outside this expression.
func (ec *expressionContext) AddIdentifier(id Identifier) error {
	if ec.forwards {
		return ec.parent.AddIdentifier(id)
	}
	return nil
}

func (ec *expressionContext) ResolveReturn(label string) (ReturnScope, bool) {
	return ec.parent.ResolveReturn(label)
}

func (ec *expressionContext) ResolveBreak(label string) (LoopScope, bool) {
	return ec.parent.ResolveBreak(label)
}

func (ec *expressionContext) ResolveContinue(label string) (LoopScope, bool) {
	return ec.parent.ResolveContinue(label)
}
