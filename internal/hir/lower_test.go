package hir_test

import (
	"bytes"
	"strings"
	"testing"

	"candy/internal/ast"
	"candy/internal/decl"
	"candy/internal/diag"
	"candy/internal/hir"
	"candy/internal/parser"
	"candy/internal/queries"
	"candy/internal/source"
)

// lowerSource parses src, binds its declarations and returns the engine plus
// the declaration named name.
func lowerSource(t *testing.T, src, name string) (*queries.Engine, decl.ID) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.candy", []byte(src))
	b := ast.NewBuilder(64)
	bag := diag.NewBag(32)
	astFile := parser.ParseFile(fs.Get(fileID), b, bag)
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	engine := queries.NewEngine(fs, b)
	engine.BindFile(astFile)
	for _, d := range engine.Decls().All() {
		if d.Name == name {
			return engine, d.ID
		}
	}
	t.Fatalf("declaration %q not found", name)
	return nil, decl.NoID
}

func TestLowerEmptyUnitBody(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Unit {}", "f")
	body, ids, ok := engine.LowerBody(f)
	if !ok {
		t.Fatal("expected a present lowering")
	}
	if diags := engine.Diagnostics(f); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(body) != 0 {
		t.Errorf("expected empty HIR list, got %d expressions", len(body))
	}
	if ids.Len() != 0 {
		t.Errorf("expected empty id map, got %d entries", ids.Len())
	}
}

func TestLowerSynthesizedReturn(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Int { 42 }", "f")
	body, ids, ok := engine.LowerBody(f)
	if !ok {
		t.Fatal("expected a present lowering")
	}
	if diags := engine.Diagnostics(f); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(body) != 1 {
		t.Fatalf("expected one HIR expression, got %d", len(body))
	}
	ret := body[0]
	if ret.Kind != hir.ExprReturn {
		t.Fatalf("expected a synthesized return, got %v", ret.Kind)
	}
	data := ret.Data.(hir.ReturnData)
	if data.Value == nil || data.Value.Kind != hir.ExprLiteral {
		t.Fatal("return should wrap the literal")
	}
	lit := data.Value.Data.(hir.LiteralData)
	if lit.Kind != hir.LiteralInt || lit.IntValue != 42 {
		t.Errorf("literal: got %+v", lit)
	}
	if ret.Type != engine.Types().Builtins().Never {
		t.Errorf("return type should be Never")
	}
	// The synthesized return is anonymous: not in the id map.
	if _, ok := ids.AstFor(ret.ID); ok {
		t.Error("synthesized return should have no AST node")
	}
	// The literal is mapped.
	if _, ok := ids.AstFor(data.Value.ID); !ok {
		t.Error("literal id missing from the id map")
	}
	// The return targets the body scope.
	if data.Scope.Decl != f {
		t.Errorf("scope decl: got %v", data.Scope.Decl)
	}
}

func TestLowerTypeMismatch(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Int { true }", "f")
	_, _, ok := engine.LowerBody(f)
	if !ok {
		t.Fatal("expected a present lowering")
	}
	diags := engine.Diagnostics(f)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	if diags[0].Code != diag.LowInvalidExpressionType {
		t.Errorf("code: got %v", diags[0].Code)
	}
	// The span points at `true`.
	if got := diags[0].Primary; got.Start != 15 || got.End != 19 {
		t.Errorf("span: got %v", got)
	}
}

func TestLowerStatementThenValue(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Int { 1\n2 }", "f")
	body, _, _ := engine.LowerBody(f)
	if diags := engine.Diagnostics(f); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(body) != 2 {
		t.Fatalf("expected 2 HIR expressions, got %d", len(body))
	}
	if body[0].Kind != hir.ExprLiteral {
		t.Errorf("first expression should stay a bare literal, got %v", body[0].Kind)
	}
	if !body[1].IsReturn() {
		t.Fatalf("last expression should be a return, got %v", body[1].Kind)
	}
	inner := body[1].Data.(hir.ReturnData).Value
	if inner.Data.(hir.LiteralData).IntValue != 2 {
		t.Error("return should wrap the final literal")
	}
}

func TestLowerExplicitReturnNotRewrapped(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Int { return 7 }", "f")
	body, _, _ := engine.LowerBody(f)
	if diags := engine.Diagnostics(f); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(body) != 1 || !body[0].IsReturn() {
		t.Fatalf("expected a single return, got %+v", body)
	}
	data := body[0].Data.(hir.ReturnData)
	if data.Value == nil || data.Value.Data.(hir.LiteralData).IntValue != 7 {
		t.Error("return should carry the literal 7")
	}
	if data.Value.IsReturn() {
		t.Error("no nested return expected")
	}
}

func TestLowerStringInterpolation(t *testing.T) {
	engine, f := lowerSource(t, `fun f(x: Int): String { "v=$x" }`, "f")
	body, ids, _ := engine.LowerBody(f)
	if diags := engine.Diagnostics(f); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(body) != 1 || !body[0].IsReturn() {
		t.Fatalf("expected return-wrapped string, got %+v", body)
	}
	lit := body[0].Data.(hir.ReturnData).Value
	data := lit.Data.(hir.LiteralData)
	if data.Kind != hir.LiteralString || len(data.Parts) != 2 {
		t.Fatalf("string literal: got %+v", data)
	}
	if data.Parts[0].Interp || data.Parts[0].Text != "v=" {
		t.Errorf("part 0: %+v", data.Parts[0])
	}
	interp := data.Parts[1]
	if !interp.Interp || interp.Expr == nil || interp.Expr.Kind != hir.ExprIdentifier {
		t.Fatalf("part 1: %+v", interp)
	}
	identData := interp.Expr.Data.(hir.IdentifierData)
	if identData.Ident.Kind != hir.IdentParameter || identData.Ident.Name != "x" {
		t.Errorf("interpolated identifier: %+v", identData.Ident)
	}
	if identData.Ident.Type != engine.Types().Builtins().Int {
		t.Error("parameter type should be Int")
	}
	// Id map covers the parameter, the string literal and the identifier.
	if _, ok := ids.AstFor(identData.Ident.Local); !ok {
		t.Error("parameter local id missing from the id map")
	}
	if _, ok := ids.AstFor(lit.ID); !ok {
		t.Error("string literal id missing from the id map")
	}
	if _, ok := ids.AstFor(interp.Expr.ID); !ok {
		t.Error("interpolated identifier id missing from the id map")
	}
}

func TestLowerUndefinedIdentifier(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Int { nope }", "f")
	engine.LowerBody(f)
	diags := engine.Diagnostics(f)
	if len(diags) != 1 || diags[0].Code != diag.LowUndefinedIdentifier {
		t.Fatalf("expected undefined-identifier, got %v", diags)
	}
}

func TestLowerMissingReturn(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Int {}", "f")
	engine.LowerBody(f)
	diags := engine.Diagnostics(f)
	if len(diags) != 1 || diags[0].Code != diag.LowMissingReturn {
		t.Fatalf("expected missing-return, got %v", diags)
	}
}

func TestLowerUnitBodyNeverMissingReturn(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Unit { 1\n2\n3 }", "f")
	engine.LowerBody(f)
	for _, d := range engine.Diagnostics(f) {
		if d.Code == diag.LowMissingReturn {
			t.Fatal("Unit function must not report missing-return")
		}
	}
}

func TestLowerErrorsAccumulateAcrossSiblings(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Unit { a\nb\nc }", "f")
	engine.LowerBody(f)
	diags := engine.Diagnostics(f)
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Code != diag.LowUndefinedIdentifier {
			t.Errorf("unexpected code %v", d.Code)
		}
	}
}

func TestLowerUnsupportedFeature(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Unit { if true { 1 } else { 2 } }", "f")
	engine.LowerBody(f)
	diags := engine.Diagnostics(f)
	if len(diags) != 1 || diags[0].Code != diag.LowUnsupportedFeature {
		t.Fatalf("expected unsupported-feature, got %v", diags)
	}
}

func TestLowerCall(t *testing.T) {
	src := "fun g(n: Int): Int { n }\nfun f(h: (Int) -> Int): Int { h(41) }"
	engine, f := lowerSource(t, src, "f")
	body, _, _ := engine.LowerBody(f)
	if diags := engine.Diagnostics(f); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	call := body[0].Data.(hir.ReturnData).Value
	if call.Kind != hir.ExprCall {
		t.Fatalf("expected call, got %v", call.Kind)
	}
	data := call.Data.(hir.CallData)
	if data.Target.Kind != hir.ExprIdentifier || len(data.Args) != 1 {
		t.Fatalf("call shape: %+v", data)
	}
	if call.Type != engine.Types().Builtins().Int {
		t.Error("call type should be the declared return type")
	}
}

func TestLowerCallArgumentTypeMismatch(t *testing.T) {
	engine, f := lowerSource(t, "fun f(h: (Int) -> Int): Int { h(true) }", "f")
	engine.LowerBody(f)
	diags := engine.Diagnostics(f)
	if len(diags) != 1 || diags[0].Code != diag.LowInvalidExpressionType {
		t.Fatalf("expected invalid-expression-type, got %v", diags)
	}
}

func TestLowerCallArityMismatch(t *testing.T) {
	engine, f := lowerSource(t, "fun f(h: (Int) -> Int): Int { h(1, 2) }", "f")
	engine.LowerBody(f)
	diags := engine.Diagnostics(f)
	if len(diags) != 1 || diags[0].Code != diag.LowInvalidExpressionType {
		t.Fatalf("expected invalid-expression-type, got %v", diags)
	}
}

func TestLowerThisInsideClass(t *testing.T) {
	src := "class Point {\n  fun self(): Point { this }\n}"
	engine, f := lowerSource(t, src, "self")
	body, _, _ := engine.LowerBody(f)
	if diags := engine.Diagnostics(f); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	ident := body[0].Data.(hir.ReturnData).Value
	data := ident.Data.(hir.IdentifierData)
	if data.Ident.Kind != hir.IdentThis {
		t.Fatalf("expected this identifier, got %v", data.Ident.Kind)
	}
}

func TestLowerThisRejectedForStatic(t *testing.T) {
	src := "class Point {\n  static fun self(): Point { this }\n}"
	engine, f := lowerSource(t, src, "self")
	engine.LowerBody(f)
	diags := engine.Diagnostics(f)
	if len(diags) != 1 || diags[0].Code != diag.LowUndefinedIdentifier {
		t.Fatalf("expected undefined-identifier for this in static, got %v", diags)
	}
}

func TestLowerThisRejectedAtModuleLevel(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Unit { this }", "f")
	engine.LowerBody(f)
	diags := engine.Diagnostics(f)
	if len(diags) != 1 || diags[0].Code != diag.LowUndefinedIdentifier {
		t.Fatalf("expected undefined-identifier, got %v", diags)
	}
}

func TestLowerIdsDistinctAndInjective(t *testing.T) {
	engine, f := lowerSource(t, `fun f(x: Int): String { 1`+"\n"+`"a$x b" }`, "f")
	body, ids, _ := engine.LowerBody(f)
	if diags := engine.Diagnostics(f); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	// Collect every id reachable from the body.
	var all []hir.LocalID
	var walk func(e *hir.Expr)
	walk = func(e *hir.Expr) {
		if e == nil {
			return
		}
		all = append(all, e.ID)
		switch d := e.Data.(type) {
		case hir.ReturnData:
			walk(d.Value)
		case hir.LiteralData:
			for _, part := range d.Parts {
				walk(part.Expr)
			}
		case hir.CallData:
			walk(d.Target)
			for _, a := range d.Args {
				walk(a.Value)
			}
		}
	}
	for _, e := range body {
		walk(e)
	}

	seen := make(map[uint32]bool)
	for _, id := range all {
		if id.Decl != f {
			t.Errorf("id %v belongs to the wrong declaration", id)
		}
		if seen[id.Index] {
			t.Errorf("index %d assigned twice", id.Index)
		}
		seen[id.Index] = true
	}

	// Both directions of the map agree.
	for _, id := range all {
		if node, ok := ids.AstFor(id); ok {
			back, ok2 := ids.HirFor(node)
			if !ok2 || back != id {
				t.Errorf("map not injective for %v", id)
			}
		}
	}
}

func TestLowerDeterministic(t *testing.T) {
	src := `fun f(x: Int): String { 1` + "\n" + `"a$x" }`
	run := func() string {
		engine, f := lowerSource(t, src, "f")
		body, _, _ := engine.LowerBody(f)
		var buf bytes.Buffer
		if err := hir.Dump(&buf, "f", body, engine.Types()); err != nil {
			t.Fatalf("dump: %v", err)
		}
		return buf.String()
	}
	if a, b := run(), run(); a != b {
		t.Errorf("lowering not deterministic:\n%s\nvs\n%s", a, b)
	}
}

func TestLowerAbsentForProperty(t *testing.T) {
	engine, p := lowerSource(t, "let answer: Int = 42", "answer")
	if _, _, ok := engine.LowerBody(p); ok {
		t.Error("property initializers are not lowered")
	}
}

func TestLowerAbsentForBodylessFunction(t *testing.T) {
	engine, f := lowerSource(t, "trait T {\n  fun f(): Int\n}", "f")
	if _, _, ok := engine.LowerBody(f); ok {
		t.Error("bodyless function should lower to absent")
	}
}

func TestDumpOutput(t *testing.T) {
	engine, f := lowerSource(t, "fun f(): Int { 42 }", "f")
	body, _, _ := engine.LowerBody(f)
	var buf bytes.Buffer
	if err := hir.Dump(&buf, "main:f", body, engine.Types()); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "fun main:f") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "Return") || !strings.Contains(out, "= 42") {
		t.Errorf("missing return/literal:\n%s", out)
	}
}
