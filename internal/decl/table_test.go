package decl

import (
	"testing"

	"candy/internal/source"
)

func TestTablePaths(t *testing.T) {
	tbl := NewTable()
	mod := tbl.Add(NoID, 1, "main", KindModule, false)
	cls := tbl.Add(mod, 1, "Point", KindClass, false)
	fn := tbl.Add(cls, 1, "norm", KindFunction, false)

	if got := tbl.Path(fn); got != "main:Point:norm" {
		t.Errorf("path: got %q", got)
	}
	if tbl.SimpleName(fn) != "norm" {
		t.Errorf("simple name: got %q", tbl.SimpleName(fn))
	}
	if tbl.Module(fn) != mod {
		t.Errorf("module: got %v", tbl.Module(fn))
	}
	if tbl.Resource(fn) != source.FileID(1) {
		t.Errorf("resource: got %v", tbl.Resource(fn))
	}
}

func TestTablePredicates(t *testing.T) {
	tbl := NewTable()
	mod := tbl.Add(NoID, 1, "main", KindModule, false)
	cls := tbl.Add(mod, 1, "Point", KindClass, false)
	fn := tbl.Add(cls, 1, "norm", KindFunction, false)
	stat := tbl.Add(cls, 1, "origin", KindFunction, true)
	prop := tbl.Add(mod, 1, "answer", KindProperty, false)

	if !tbl.IsContainer(cls) || tbl.IsContainer(fn) {
		t.Error("container predicate wrong")
	}
	if !tbl.IsFunction(fn) || !tbl.IsProperty(prop) {
		t.Error("kind predicates wrong")
	}
	if tbl.IsStatic(fn) || !tbl.IsStatic(stat) {
		t.Error("static predicate wrong")
	}
	if tbl.Get(NoID) != nil {
		t.Error("NoID should resolve to nil")
	}
}
