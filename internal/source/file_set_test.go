package source

import (
	"testing"
)

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.candy", []byte("\xEF\xBB\xBFfun f() {}\r\n"))
	f := fs.Get(id)
	if f == nil {
		t.Fatal("file not found")
	}
	if f.Flags&FileHadBOM == 0 {
		t.Error("expected FileHadBOM flag")
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("expected FileNormalizedCRLF flag")
	}
	if string(f.Content) != "fun f() {}\n" {
		t.Errorf("unexpected content: %q", f.Content)
	}
}

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.candy", []byte("one\ntwo\nthree\n"))

	tests := []struct {
		offset uint32
		line   uint32
		col    uint32
	}{
		{0, 1, 1},
		{3, 1, 4},
		{4, 2, 1},
		{8, 3, 1},
		{12, 3, 5},
	}
	for _, tt := range tests {
		pos, ok := fs.Position(id, tt.offset)
		if !ok {
			t.Fatalf("offset %d: not resolved", tt.offset)
		}
		if pos.Line != tt.line || pos.Col != tt.col {
			t.Errorf("offset %d: got %d:%d, want %d:%d", tt.offset, pos.Line, pos.Col, tt.line, tt.col)
		}
	}
}

func TestLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.candy", []byte("one\ntwo\nthree"))

	line, ok := fs.Line(id, 2)
	if !ok || line != "two" {
		t.Errorf("line 2: got %q, %v", line, ok)
	}
	line, ok = fs.Line(id, 3)
	if !ok || line != "three" {
		t.Errorf("line 3: got %q, %v", line, ok)
	}
	if _, ok := fs.Line(id, 4); ok {
		t.Error("line 4 should not resolve")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	c := a.Cover(b)
	if c.Start != 2 || c.End != 8 {
		t.Errorf("cover: got %v", c)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("cross-file cover changed span: %v", got)
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("bar")
	if a == b {
		t.Error("distinct strings share an id")
	}
	if in.Intern("foo") != a {
		t.Error("re-interning returned a different id")
	}
	s, ok := in.Lookup(a)
	if !ok || s != "foo" {
		t.Errorf("lookup: got %q, %v", s, ok)
	}
	if s, _ := in.Lookup(NoStringID); s != "" {
		t.Errorf("NoStringID should map to empty string, got %q", s)
	}
}
