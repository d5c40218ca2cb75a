package diag

import (
	"testing"

	"candy/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	sp := source.Span{File: 1, Start: 0, End: 1}
	if !b.Add(NewError(LowUndefinedIdentifier, sp, "a")) {
		t.Fatal("first add rejected")
	}
	if !b.Add(NewError(LowUndefinedIdentifier, sp, "b")) {
		t.Fatal("second add rejected")
	}
	if b.Add(NewError(LowUndefinedIdentifier, sp, "c")) {
		t.Error("add beyond limit accepted")
	}
	if b.Len() != 2 {
		t.Errorf("len: got %d", b.Len())
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(LowMissingReturn, source.Span{File: 2, Start: 5, End: 6}, "later file"))
	b.Add(NewError(LowUndefinedIdentifier, source.Span{File: 1, Start: 9, End: 10}, "later offset"))
	b.Add(New(SevWarning, LowInfo, source.Span{File: 1, Start: 0, End: 1}, "warning first pos"))
	b.Add(NewError(LowInvalidExpressionType, source.Span{File: 1, Start: 0, End: 1}, "error first pos"))
	b.Sort()

	items := b.Items()
	if items[0].Code != LowInvalidExpressionType {
		t.Errorf("expected error before warning at same span, got %v", items[0].Code)
	}
	if items[1].Severity != SevWarning {
		t.Errorf("expected warning second, got %v", items[1])
	}
	if items[3].Primary.File != 2 {
		t.Errorf("expected file 2 last, got %v", items[3].Primary)
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(10)
	sp := source.Span{File: 1, Start: 3, End: 7}
	b.Add(NewError(LowUndefinedIdentifier, sp, "x"))
	b.Add(NewError(LowUndefinedIdentifier, sp, "x"))
	b.Dedup()
	if b.Len() != 1 {
		t.Errorf("dedup: got %d items", b.Len())
	}
}

func TestCodeID(t *testing.T) {
	if got := LowUndefinedIdentifier.ID(); got != "LOW3006" {
		t.Errorf("ID: got %q", got)
	}
	if got := LexUnknownChar.ID(); got != "LEX1001" {
		t.Errorf("ID: got %q", got)
	}
	if LowMissingReturn.Title() == "" {
		t.Error("missing title")
	}
}
