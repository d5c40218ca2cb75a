package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"candy/internal/diag"
	"candy/internal/source"
)

func setup() (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("src/test.candy", []byte("fun f(): Int { true }\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(
		diag.LowInvalidExpressionType,
		source.Span{File: id, Start: 15, End: 19},
		"expected a value of type Int, found Bool",
	))
	return fs, bag
}

func TestPrettyOutput(t *testing.T) {
	fs, bag := setup()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	out := buf.String()
	if !strings.Contains(out, "src/test.candy:1:16: ERROR LOW3002:") {
		t.Errorf("header missing or wrong:\n%s", out)
	}
	if !strings.Contains(out, "fun f(): Int { true }") {
		t.Errorf("source line missing:\n%s", out)
	}
	if !strings.Contains(out, "^~~~") {
		t.Errorf("caret underline missing:\n%s", out)
	}
	// Underline aligns under `true`.
	lines := strings.Split(out, "\n")
	if len(lines) < 3 || !strings.HasPrefix(lines[2], "  "+strings.Repeat(" ", 15)+"^") {
		t.Errorf("caret misaligned:\n%s", out)
	}
}

func TestPrettyBasename(t *testing.T) {
	fs, bag := setup()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if !strings.Contains(buf.String(), "test.candy:1:16") {
		t.Errorf("basename mode:\n%s", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	fs, bag := setup()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count: %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "LOW3002" || d.Severity != "ERROR" {
		t.Errorf("diagnostic: %+v", d)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 16 {
		t.Errorf("position: %+v", d.Location)
	}
}
