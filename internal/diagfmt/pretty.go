package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"candy/internal/diag"
	"candy/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	caretColor   = color.New(color.FgRed)
	noteColor    = color.New(color.FgBlue)
)

// Pretty renders diagnostics in a human-readable form. The bag is expected
// to be sorted. For each diagnostic it prints
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline for the span, then the
// notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printHeader(w, d, fs, opts)
		printContext(w, d.Primary, fs, opts)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s\n", colorize(noteColor, "note:", opts.Color), n.Msg)
				printContext(w, n.Span, fs, opts)
			}
		}
	}
}

func printHeader(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := d.Severity.String()
	switch d.Severity {
	case diag.SevError:
		sev = colorize(errorColor, sev, opts.Color)
	case diag.SevWarning:
		sev = colorize(warningColor, sev, opts.Color)
	default:
		sev = colorize(infoColor, sev, opts.Color)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", location(d.Primary, fs, opts.PathMode), sev, d.Code.ID(), d.Message)
}

func printContext(w io.Writer, span source.Span, fs *source.FileSet, opts PrettyOpts) {
	pos, ok := fs.Position(span.File, span.Start)
	if !ok {
		return
	}
	line, ok := fs.Line(span.File, pos.Line)
	if !ok {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	// Underline the span within the line. Widths follow the rendered text,
	// so wide runes keep the caret aligned; a tab counts as zero columns.
	startCol := int(pos.Col) - 1
	length := int(span.Len())
	if length <= 0 {
		length = 1
	}
	if startCol > len(line) {
		startCol = len(line)
	}
	end := startCol + length
	if end > len(line) {
		end = len(line)
	}
	pad := runewidth.StringWidth(line[:startCol])
	width := runewidth.StringWidth(line[startCol:end])
	if width <= 0 {
		width = 1
	}
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), colorize(caretColor, underline, opts.Color))
}

func location(span source.Span, fs *source.FileSet, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	path := f.Path
	if mode == PathModeBasename {
		path = filepath.Base(path)
	}
	if pos, ok := fs.Position(span.File, span.Start); ok {
		return fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Col)
	}
	return path
}

func colorize(c *color.Color, s string, enabled bool) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}
