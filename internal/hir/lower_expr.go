package hir

import (
	"fmt"

	"candy/internal/ast"
	"candy/internal/diag"
	"candy/internal/types"
)

// lowerLiteral handles integer and boolean literals. The token kind fixes
// the candidate type; a mismatch with the expected type is reported against
// the literal itself.
func lowerLiteral(ctx Context, id ast.ExprID, header *ast.Expr) Result[[]*Expr] {
	q := ctx.Queries()
	builtins := q.Types().Builtins()

	var typ types.TypeID
	var data LiteralData
	switch header.Kind {
	case ast.ExprIntLit:
		lit := q.Builder().Exprs.IntLit(id)
		typ = builtins.Int
		data = LiteralData{Kind: LiteralInt, IntValue: lit.Value}
	case ast.ExprBoolLit:
		lit := q.Builder().Exprs.BoolLit(id)
		typ = builtins.Bool
		data = LiteralData{Kind: LiteralBool, BoolValue: lit.Value}
	}

	if !isValidExpressionType(ctx, typ) {
		return Fail[[]*Expr](invalidType(ctx, header, typ))
	}
	return Ok([]*Expr{{
		ID:   ctx.GetID(header.Node),
		Kind: ExprLiteral,
		Type: typ,
		Span: header.Span,
		Data: data,
	}})
}

// lowerStringLiteral lowers each part independently: raw parts stay text,
// interpolation parts lower their inner expression in a fresh child frame
// with no expected type and no forwarding. Part errors accumulate.
func lowerStringLiteral(ctx Context, id ast.ExprID, header *ast.Expr) Result[[]*Expr] {
	q := ctx.Queries()
	lit := q.Builder().Exprs.StringLit(id)

	partResults := make([]Result[StringPart], 0, len(lit.Parts))
	for _, part := range lit.Parts {
		if !part.Interp {
			partResults = append(partResults, Ok(StringPart{Text: part.Text}))
			continue
		}
		child := newExpressionContext(ctx, types.NoTypeID, false)
		r := LowerUnambiguous(child, part.Expr)
		if !r.IsOK() {
			partResults = append(partResults, Fail[StringPart](r.Errors()...))
			continue
		}
		partResults = append(partResults, Ok(StringPart{Interp: true, Expr: r.Value()}))
	}

	merged := Merge(partResults)
	if !merged.IsOK() {
		return Fail[[]*Expr](merged.Errors()...)
	}

	stringType := q.Types().Builtins().String
	if !isValidExpressionType(ctx, stringType) {
		return Fail[[]*Expr](invalidType(ctx, header, stringType))
	}
	return Ok([]*Expr{{
		ID:   ctx.GetID(header.Node),
		Kind: ExprLiteral,
		Type: stringType,
		Span: header.Span,
		Data: LiteralData{Kind: LiteralString, Parts: merged.Value()},
	}})
}

// lowerReturn types the return expression as Never, so it satisfies any
// expected type without a check. The inner expression lowers against the
// return scope's expected type. The label channel exists in the resolver
// API but the rule always passes the empty label.
func lowerReturn(ctx Context, id ast.ExprID, header *ast.Expr) Result[[]*Expr] {
	q := ctx.Queries()
	ret := q.Builder().Exprs.Return(id)

	scope, ok := ctx.ResolveReturn("")
	if !ok {
		return Fail[[]*Expr](diag.NewError(
			diag.LowInvalidReturnLabel,
			header.Span,
			"return is not inside a function body",
		))
	}

	var inner *Expr
	if ret.Value.IsValid() {
		child := newExpressionContext(ctx, scope.Expected, false)
		r := LowerUnambiguous(child, ret.Value)
		if !r.IsOK() {
			return Fail[[]*Expr](r.Errors()...)
		}
		inner = r.Value()
	} else if scope.Expected.IsValid() && !q.IsAssignableTo(q.Types().Builtins().Unit, scope.Expected) {
		return Fail[[]*Expr](diag.NewError(
			diag.LowInvalidExpressionType,
			header.Span,
			fmt.Sprintf("bare return where a value of type %s is expected", q.Types().String(scope.Expected)),
		))
	}

	return Ok([]*Expr{{
		ID:   ctx.GetID(header.Node),
		Kind: ExprReturn,
		Type: q.Types().Builtins().Never,
		Span: header.Span,
		Data: ReturnData{Scope: scope.Scope, Value: inner},
	}})
}

// lowerIdentifier resolves the name innermost-first through the context
// stack; the expression's type is the binding's declared type.
func lowerIdentifier(ctx Context, id ast.ExprID, header *ast.Expr) Result[[]*Expr] {
	q := ctx.Queries()
	ident := q.Builder().Exprs.Ident(id)

	binding, ok := ctx.ResolveIdentifier(ident.Name)
	if !ok {
		return Fail[[]*Expr](diag.NewError(
			diag.LowUndefinedIdentifier,
			header.Span,
			fmt.Sprintf("'%s' is not defined", ident.Name),
		))
	}
	if !isValidExpressionType(ctx, binding.Type) {
		return Fail[[]*Expr](invalidType(ctx, header, binding.Type))
	}
	return Ok([]*Expr{{
		ID:   ctx.GetID(header.Node),
		Kind: ExprIdentifier,
		Type: binding.Type,
		Span: header.Span,
		Data: IdentifierData{Ident: binding},
	}})
}

// lowerCall lowers the target first, then each argument. When the target's
// type is a function type, positional arguments check against the declared
// parameter types and the call synthesizes the declared return type.
// Argument errors accumulate across siblings.
func lowerCall(ctx Context, id ast.ExprID, header *ast.Expr) Result[[]*Expr] {
	q := ctx.Queries()
	call := q.Builder().Exprs.Call(id)

	targetCtx := newExpressionContext(ctx, types.NoTypeID, false)
	targetRes := LowerUnambiguous(targetCtx, call.Target)
	if !targetRes.IsOK() {
		return Fail[[]*Expr](targetRes.Errors()...)
	}
	target := targetRes.Value()

	targetType, _ := q.Types().Lookup(target.Type)
	if targetType.Kind != types.KindFunction {
		return Fail[[]*Expr](diag.NewError(
			diag.LowInvalidExpressionType,
			target.Span,
			fmt.Sprintf("value of type %s is not callable", q.Types().String(target.Type)),
		))
	}
	params := q.Types().List(targetType.Payload)
	if len(call.Args) != len(params) {
		return Fail[[]*Expr](diag.NewError(
			diag.LowInvalidExpressionType,
			header.Span,
			fmt.Sprintf("call takes %d arguments, %d given", len(params), len(call.Args)),
		))
	}

	argResults := make([]Result[CallArg], 0, len(call.Args))
	for i, arg := range call.Args {
		expected := types.NoTypeID
		if arg.Name == "" {
			expected = params[i]
		}
		child := newExpressionContext(ctx, expected, false)
		r := LowerUnambiguous(child, arg.Value)
		if !r.IsOK() {
			argResults = append(argResults, Fail[CallArg](r.Errors()...))
			continue
		}
		argResults = append(argResults, Ok(CallArg{Name: arg.Name, Value: r.Value()}))
	}
	merged := Merge(argResults)
	if !merged.IsOK() {
		return Fail[[]*Expr](merged.Errors()...)
	}

	if !isValidExpressionType(ctx, targetType.Elem) {
		return Fail[[]*Expr](invalidType(ctx, header, targetType.Elem))
	}
	return Ok([]*Expr{{
		ID:   ctx.GetID(header.Node),
		Kind: ExprCall,
		Type: targetType.Elem,
		Span: header.Span,
		Data: CallData{Target: target, Args: merged.Value()},
	}})
}

func invalidType(ctx Context, header *ast.Expr, actual types.TypeID) diag.Diagnostic {
	q := ctx.Queries()
	return diag.NewError(
		diag.LowInvalidExpressionType,
		header.Span,
		fmt.Sprintf("expected a value of type %s, found %s",
			q.Types().String(ctx.ExpectedType()), q.Types().String(actual)),
	)
}
