package hir

import (
	"fmt"

	"candy/internal/ast"
	"candy/internal/decl"
	"candy/internal/diag"
	"candy/internal/source"
)

// LowerBody lowers the body of the given declaration. It returns absent
// (ok=false) for properties and for functions without a body; property
// initializers are not lowered until a downstream pass needs them.
//
// On present results the expression list and the id map come from the same
// run: every id carried by a returned expression is covered by the map's
// allocator state.
func LowerBody(q Queries, id decl.ID) (Result[[]*Expr], *BodyAstToHirIds, bool) {
	if !q.Decls().IsFunction(id) {
		return Result[[]*Expr]{}, nil, false
	}
	fnAst, ok := q.FunctionAst(id)
	if !ok || !fnAst.HasBody {
		return Result[[]*Expr]{}, nil, false
	}
	sig, ok := q.FunctionSig(id)
	if !ok {
		return Result[[]*Expr]{}, nil, false
	}

	root := newRootContext(q, id)
	fc := newFunctionContext(root, fnAst, fnAst.BodySpan, sig)
	res := fc.lowerBody()
	return res, root.IDMap(), true
}

// Lower lowers one AST expression in ctx and returns every candidate
// meaning. On success the list is non-empty and every element's type
// satisfies the context's expected type; on failure the error list is
// non-empty.
func Lower(ctx Context, id ast.ExprID) Result[[]*Expr] {
	b := ctx.Queries().Builder()
	header := b.Exprs.Get(id)
	if header == nil {
		return Fail[[]*Expr](diag.NewError(
			diag.LowInternal,
			source.Span{File: ctx.Resource()},
			fmt.Sprintf("lowering of %s references a missing expression", ctx.Queries().Decls().Path(ctx.Declaration())),
		))
	}

	switch header.Kind {
	case ast.ExprIntLit, ast.ExprBoolLit:
		return lowerLiteral(ctx, id, header)
	case ast.ExprStringLit:
		return lowerStringLiteral(ctx, id, header)
	case ast.ExprReturn:
		return lowerReturn(ctx, id, header)
	case ast.ExprIdent:
		return lowerIdentifier(ctx, id, header)
	case ast.ExprCall:
		return lowerCall(ctx, id, header)
	default:
		return Fail[[]*Expr](unsupported(header))
	}
}

// LowerUnambiguous lowers an expression that must have exactly one meaning:
// no surviving candidate is an expected-type failure, more than one is an
// ambiguity.
func LowerUnambiguous(ctx Context, id ast.ExprID) Result[*Expr] {
	r := Lower(ctx, id)
	if !r.IsOK() {
		return Fail[*Expr](r.Errors()...)
	}
	candidates := r.Value()
	header := ctx.Queries().Builder().Exprs.Get(id)
	switch len(candidates) {
	case 0:
		return Fail[*Expr](diag.NewError(
			diag.LowInvalidExpressionType,
			header.Span,
			expectedTypeMessage(ctx, "no candidate matches"),
		))
	case 1:
		return Ok(candidates[0])
	default:
		return Fail[*Expr](diag.NewError(
			diag.LowAmbiguousExpression,
			header.Span,
			fmt.Sprintf("expression has %d possible meanings", len(candidates)),
		))
	}
}

func unsupported(header *ast.Expr) diag.Diagnostic {
	return diag.NewError(
		diag.LowUnsupportedFeature,
		header.Span,
		fmt.Sprintf("%s expressions are not supported here yet", header.Kind),
	)
}

func expectedTypeMessage(ctx Context, prefix string) string {
	expected := ctx.ExpectedType()
	if !expected.IsValid() {
		return prefix
	}
	return fmt.Sprintf("%s the expected type %s", prefix, ctx.Queries().Types().String(expected))
}
