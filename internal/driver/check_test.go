package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"candy/internal/diag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckPathsOrderedResults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.candy", "fun ok(): Int { 1 }")
	writeFile(t, dir, "a.candy", "fun bad(): Int { true }")

	_, results, err := CheckPaths(context.Background(), []string{dir}, Options{Jobs: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if filepath.Base(results[0].Path) != "a.candy" {
		t.Errorf("results not path-ordered: %v", results[0].Path)
	}
	if !results[0].Bag.HasErrors() {
		t.Error("a.candy should have errors")
	}
	if results[1].Bag.HasErrors() {
		t.Errorf("b.candy should be clean: %v", results[1].Bag.Items())
	}
}

func TestCheckReportsLoweringDiagnostics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.candy", "fun f(): Int { nope }")

	_, results, err := CheckPaths(context.Background(), []string{dir}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	items := results[0].Bag.Items()
	if len(items) != 1 || items[0].Code != diag.LowUndefinedIdentifier {
		t.Fatalf("expected undefined-identifier, got %v", items)
	}
}

func TestCheckDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.candy", "fun f(): Int { true }")
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, first, err := CheckPaths(context.Background(), []string{dir}, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if first[0].FromCache {
		t.Fatal("first run must not hit the cache")
	}

	_, second, err := CheckPaths(context.Background(), []string{dir}, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if !second[0].FromCache {
		t.Fatal("second run should hit the cache")
	}
	// Replayed diagnostics match the originals.
	a, b := first[0].Bag.Items(), second[0].Bag.Items()
	if len(a) != len(b) || a[0].Code != b[0].Code || a[0].Primary.Start != b[0].Primary.Start {
		t.Errorf("cache replay mismatch: %v vs %v", a, b)
	}
}

func TestCheckDiskCacheInvalidatesOnEdit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m.candy", "fun f(): Int { true }")
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := CheckPaths(context.Background(), []string{dir}, Options{Cache: cache}); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("fun f(): Int { 1 }"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, results, err := CheckPaths(context.Background(), []string{dir}, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].FromCache {
		t.Error("edited file must not hit the cache")
	}
	if results[0].Bag.HasErrors() {
		t.Errorf("fixed file should be clean: %v", results[0].Bag.Items())
	}
}

func TestCheckEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.candy", "fun f(): Unit {}")

	events := make(chan Event, 64)
	_, _, err := CheckPaths(context.Background(), []string{dir}, Options{Events: events})
	if err != nil {
		t.Fatal(err)
	}
	close(events)
	var sawDone bool
	for ev := range events {
		if ev.Stage == StageDone {
			sawDone = true
			if ev.Failed {
				t.Error("clean file reported as failed")
			}
		}
	}
	if !sawDone {
		t.Error("no done event observed")
	}
}
