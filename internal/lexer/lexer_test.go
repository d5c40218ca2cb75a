package lexer

import (
	"testing"

	"candy/internal/diag"
	"candy/internal/source"
	"candy/internal/token"
)

func lexString(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.candy", []byte(src))
	bag := diag.NewBag(16)
	return Lex(fs.Get(id), bag), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexFunctionHeader(t *testing.T) {
	toks, bag := lexString(t, "fun f(x: Int): Int { 42 }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{
		token.KwFun, token.Ident, token.LParen, token.Ident, token.Colon,
		token.Ident, token.RParen, token.Colon, token.Ident, token.LBrace,
		token.IntLit, token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count: got %d (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexStringWithInterpolation(t *testing.T) {
	toks, bag := lexString(t, `"v=$x and ${f(1)}"`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if toks[0].Kind != token.StringLit {
		t.Fatalf("expected string literal, got %v", toks[0].Kind)
	}
	if toks[0].Text != `v=$x and ${f(1)}` {
		t.Errorf("raw text: got %q", toks[0].Text)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, bag := lexString(t, "\"abc\n")
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic")
	}
	if bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Errorf("code: got %v", bag.Items()[0].Code)
	}
}

func TestLexBadNumber(t *testing.T) {
	_, bag := lexString(t, "12abc")
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic")
	}
	if bag.Items()[0].Code != diag.LexBadNumber {
		t.Errorf("code: got %v", bag.Items()[0].Code)
	}
}

func TestLexNewlinesAndComments(t *testing.T) {
	toks, bag := lexString(t, "1 // comment\n2")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{token.IntLit, token.Newline, token.IntLit, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexSpans(t *testing.T) {
	toks, _ := lexString(t, "fun f")
	if toks[0].Span.Start != 0 || toks[0].Span.End != 3 {
		t.Errorf("fun span: got %v", toks[0].Span)
	}
	if toks[1].Span.Start != 4 || toks[1].Span.End != 5 {
		t.Errorf("ident span: got %v", toks[1].Span)
	}
}
