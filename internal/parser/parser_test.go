package parser

import (
	"testing"

	"candy/internal/ast"
	"candy/internal/diag"
	"candy/internal/source"
)

func parse(t *testing.T, src string) (*ast.Builder, *ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.candy", []byte(src))
	b := ast.NewBuilder(64)
	bag := diag.NewBag(32)
	fileID := ParseFile(fs.Get(id), b, bag)
	return b, b.File(fileID), bag
}

func TestParseFunction(t *testing.T) {
	b, file, bag := parse(t, "fun f(x: Int, y: Bool): Int { 42 }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(file.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(file.Items))
	}
	fn := b.Items.Fn(file.Items[0])
	if fn == nil {
		t.Fatal("not a function")
	}
	if fn.Name != "f" {
		t.Errorf("name: got %q", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Errorf("params: got %d", len(fn.Params))
	}
	if !fn.HasBody || len(fn.Body) != 1 {
		t.Fatalf("body: got %v (hasBody=%v)", fn.Body, fn.HasBody)
	}
	if !fn.BodyNode.IsValid() {
		t.Error("body node identity missing")
	}
	ret := b.TypeSyn(fn.ReturnType)
	if ret == nil || ret.Name != "Int" {
		t.Errorf("return type: got %+v", ret)
	}
	lit := b.Exprs.IntLit(fn.Body[0])
	if lit == nil || lit.Value != 42 {
		t.Errorf("body literal: got %+v", lit)
	}
}

func TestParseBodySeparators(t *testing.T) {
	b, file, bag := parse(t, "fun f(): Int {\n  1\n  2\n}")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := b.Items.Fn(file.Items[0])
	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 body expressions, got %d", len(fn.Body))
	}
}

func TestParseReturn(t *testing.T) {
	b, file, bag := parse(t, "fun f(): Int { return 7 }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := b.Items.Fn(file.Items[0])
	ret := b.Exprs.Return(fn.Body[0])
	if ret == nil {
		t.Fatal("expected a return expression")
	}
	if lit := b.Exprs.IntLit(ret.Value); lit == nil || lit.Value != 7 {
		t.Errorf("return value: got %+v", lit)
	}
}

func TestParseCallsAndNavigation(t *testing.T) {
	b, file, bag := parse(t, "fun f(): Unit { g(1, flag = true).h() }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := b.Items.Fn(file.Items[0])
	outer := b.Exprs.Call(fn.Body[0])
	if outer == nil {
		t.Fatal("expected outer call")
	}
	nav := b.Exprs.Navigation(outer.Target)
	if nav == nil || nav.Name != "h" {
		t.Fatalf("expected navigation target, got %+v", nav)
	}
	inner := b.Exprs.Call(nav.Target)
	if inner == nil || len(inner.Args) != 2 {
		t.Fatalf("inner call: got %+v", inner)
	}
	if inner.Args[0].Name != "" || inner.Args[1].Name != "flag" {
		t.Errorf("arg names: got %q, %q", inner.Args[0].Name, inner.Args[1].Name)
	}
}

func TestParseStringInterpolation(t *testing.T) {
	b, file, bag := parse(t, `fun f(x: Int): String { "v=$x and ${g(x)}!" }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := b.Items.Fn(file.Items[0])
	lit := b.Exprs.StringLit(fn.Body[0])
	if lit == nil {
		t.Fatal("expected string literal")
	}
	if len(lit.Parts) != 5 {
		t.Fatalf("parts: got %d, want 5", len(lit.Parts))
	}
	if lit.Parts[0].Interp || lit.Parts[0].Text != "v=" {
		t.Errorf("part 0: %+v", lit.Parts[0])
	}
	if !lit.Parts[1].Interp {
		t.Errorf("part 1 should be interpolated")
	}
	ident := b.Exprs.Ident(lit.Parts[1].Expr)
	if ident == nil || ident.Name != "x" {
		t.Errorf("part 1 ident: %+v", ident)
	}
	if lit.Parts[2].Interp || lit.Parts[2].Text != " and " {
		t.Errorf("part 2: %+v", lit.Parts[2])
	}
	if call := b.Exprs.Call(lit.Parts[3].Expr); call == nil || len(call.Args) != 1 {
		t.Errorf("part 3: expected call with 1 argument")
	}
	if lit.Parts[4].Interp || lit.Parts[4].Text != "!" {
		t.Errorf("part 4: %+v", lit.Parts[4])
	}
}

func TestParseStringEscapes(t *testing.T) {
	b, file, bag := parse(t, `fun f(): String { "a\n\$b" }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := b.Items.Fn(file.Items[0])
	lit := b.Exprs.StringLit(fn.Body[0])
	if len(lit.Parts) != 1 {
		t.Fatalf("parts: got %d", len(lit.Parts))
	}
	if lit.Parts[0].Text != "a\n$b" {
		t.Errorf("escaped text: got %q", lit.Parts[0].Text)
	}
}

func TestParseClassWithMembers(t *testing.T) {
	b, file, bag := parse(t, "class Point {\n  fun norm(): Int { 0 }\n  static fun origin(): Int { 1 }\n  let x: Int = 3\n}")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	c := b.Items.Container(file.Items[0])
	if c == nil || c.Name != "Point" {
		t.Fatalf("container: got %+v", c)
	}
	if len(c.Members) != 3 {
		t.Fatalf("members: got %d", len(c.Members))
	}
	if fn := b.Items.Fn(c.Members[1]); fn == nil || !fn.Static {
		t.Error("second member should be a static function")
	}
	if let := b.Items.Let(c.Members[2]); let == nil || let.Name != "x" {
		t.Error("third member should be property x")
	}
}

func TestParseRecovery(t *testing.T) {
	_, file, bag := parse(t, "fun f(): Int { 1 }\n???\nfun g(): Int { 2 }")
	if !bag.HasErrors() {
		t.Fatal("expected diagnostics for the bad item")
	}
	if len(file.Items) != 2 {
		t.Errorf("recovery: expected both functions, got %d items", len(file.Items))
	}
}

func TestParseControlFlowShapes(t *testing.T) {
	b, file, bag := parse(t, "fun f(): Unit {\n  if true { 1 } else { 2 }\n  while false { break }\n  loop { continue }\n  x = 3\n}")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := b.Items.Fn(file.Items[0])
	if len(fn.Body) != 4 {
		t.Fatalf("body: got %d expressions", len(fn.Body))
	}
	wantKinds := []ast.ExprKind{ast.ExprIf, ast.ExprWhile, ast.ExprLoop, ast.ExprAssign}
	for i, want := range wantKinds {
		if got := b.Exprs.Get(fn.Body[i]).Kind; got != want {
			t.Errorf("expr %d: got %v, want %v", i, got, want)
		}
	}
}
