package hir

import (
	"fmt"

	"candy/internal/ast"
	"candy/internal/decl"
	"candy/internal/diag"
	"candy/internal/source"
	"candy/internal/types"
)

// functionContext is the frame for a function declaration whose body is an
// expression block. It binds the value parameters, remembers the declared
// return type and drives the body sequencing rule.
type functionContext struct {
	parent      *rootContext
	identifiers map[string]Identifier
	returnType  types.TypeID
	bodyID      LocalID
	simpleName  string
	fnAst       *ast.FnItem
	fnSpan      source.Span
}

// newFunctionContext seeds the parameter bindings. Parameter local ids are
// allocated now and recorded against the parameters' AST identities.
func newFunctionContext(root *rootContext, fnAst *ast.FnItem, fnSpan source.Span, sig FunctionSig) *functionContext {
	fc := &functionContext{
		parent:      root,
		identifiers: make(map[string]Identifier, len(sig.Params)),
		returnType:  sig.Return,
		bodyID:      root.GetID(ast.NoNodeID),
		simpleName:  root.Queries().Decls().SimpleName(root.Declaration()),
		fnAst:       fnAst,
		fnSpan:      fnSpan,
	}
	for _, p := range sig.Params {
		local := root.GetID(p.Node)
		fc.identifiers[p.Name] = ParameterIdentifier(local, p.Name, p.Type)
	}
	return fc
}

func (fc *functionContext) Queries() Queries           { return fc.parent.Queries() }
func (fc *functionContext) Declaration() decl.ID       { return fc.parent.Declaration() }
func (fc *functionContext) Resource() source.FileID    { return fc.parent.Resource() }
func (fc *functionContext) Parent() Context            { return fc.parent }
func (fc *functionContext) ExpectedType() types.TypeID { return types.NoTypeID }
func (fc *functionContext) GetID(node ast.NodeID) LocalID {
	return fc.parent.GetID(node)
}
func (fc *functionContext) IDMap() *BodyAstToHirIds { return fc.parent.IDMap() }

// ResolveIdentifier checks the local bindings first and delegates to the
// root on miss.
func (fc *functionContext) ResolveIdentifier(name string) (Identifier, bool) {
	if id, ok := fc.identifiers[name]; ok {
		return id, true
	}
	return fc.parent.ResolveIdentifier(name)
}

// AddIdentifier introduces a binding, shadowing any prior one.
func (fc *functionContext) AddIdentifier(id Identifier) error {
	fc.identifiers[id.Name] = id
	return nil
}

// ResolveReturn succeeds for the empty label or the function's simple name.
func (fc *functionContext) ResolveReturn(label string) (ReturnScope, bool) {
	if label != "" && label != fc.simpleName {
		return ReturnScope{}, false
	}
	return ReturnScope{Scope: fc.bodyID, Expected: fc.returnType}, true
}

func (fc *functionContext) ResolveBreak(string) (LoopScope, bool) {
	return LoopScope{}, false
}

func (fc *functionContext) ResolveContinue(string) (LoopScope, bool) {
	return LoopScope{}, false
}

// lowerBody runs the body sequencing rule:
//
//  1. A non-Unit function with an empty body is a missing-return error.
//  2. Every expression but the last lowers through a child frame with no
//     expected type that forwards new bindings to its siblings.
//  3. For a non-Unit function the last expression lowers against the return
//     type and, unless it already is a return, gets wrapped in a synthesized
//     one targeting the body scope.
//
// Errors from sibling expressions accumulate; nothing short-circuits.
func (fc *functionContext) lowerBody() Result[[]*Expr] {
	q := fc.Queries()
	returnsUnit := fc.returnType == q.Types().Builtins().Unit || !fc.returnType.IsValid()
	exprs := fc.fnAst.Body

	if !returnsUnit && len(exprs) == 0 {
		return Fail[[]*Expr](diag.NewError(
			diag.LowMissingReturn,
			fc.fnSpan,
			fmt.Sprintf("function '%s' must return a value of type %s", fc.simpleName, q.Types().String(fc.returnType)),
		))
	}

	results := make([]Result[*Expr], 0, len(exprs))
	for i, exprID := range exprs {
		last := i == len(exprs)-1
		if returnsUnit || !last {
			child := newExpressionContext(fc, types.NoTypeID, true)
			results = append(results, LowerUnambiguous(child, exprID))
			continue
		}

		child := newExpressionContext(fc, fc.returnType, true)
		r := LowerUnambiguous(child, exprID)
		if r.IsOK() && !r.Value().IsReturn() {
			inner := r.Value()
			r = Ok(&Expr{
				ID:   fc.GetID(ast.NoNodeID),
				Kind: ExprReturn,
				Type: q.Types().Builtins().Never,
				Span: inner.Span,
				Data: ReturnData{Scope: fc.bodyID, Value: inner},
			})
		}
		results = append(results, r)
	}

	return Merge(results)
}
