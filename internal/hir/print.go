package hir

import (
	"fmt"
	"io"
	"strings"

	"candy/internal/types"
)

// Printer dumps lowered bodies to a text format used by tests and the CLI.
type Printer struct {
	w        io.Writer
	interner *types.Interner
	indent   int
	err      error
}

// NewPrinter creates a printer over w.
func NewPrinter(w io.Writer, interner *types.Interner) *Printer {
	return &Printer{w: w, interner: interner}
}

// Dump writes one lowered body to w.
func Dump(w io.Writer, name string, body []*Expr, interner *types.Interner) error {
	p := NewPrinter(w, interner)
	return p.PrintBody(name, body)
}

// PrintBody prints a declaration header and its expressions.
func (p *Printer) PrintBody(name string, body []*Expr) error {
	p.printf("fun %s\n", name)
	p.indent++
	for _, e := range body {
		p.printExpr(e)
	}
	p.indent--
	return p.err
}

func (p *Printer) printExpr(e *Expr) {
	if e == nil {
		p.printf("<nil>\n")
		return
	}
	head := fmt.Sprintf("%%%d %s: %s", e.ID.Index, e.Kind, p.interner.String(e.Type))
	switch d := e.Data.(type) {
	case LiteralData:
		switch d.Kind {
		case LiteralInt:
			p.printf("%s = %d\n", head, d.IntValue)
		case LiteralBool:
			p.printf("%s = %t\n", head, d.BoolValue)
		case LiteralString:
			p.printf("%s\n", head)
			p.indent++
			for _, part := range d.Parts {
				if part.Interp {
					p.printf("interpolated\n")
					p.indent++
					p.printExpr(part.Expr)
					p.indent--
				} else {
					p.printf("text %q\n", part.Text)
				}
			}
			p.indent--
		}
	case IdentifierData:
		p.printf("%s = %s '%s'\n", head, d.Ident.Kind, d.Ident.Name)
	case ReturnData:
		p.printf("%s scope=%%%d\n", head, d.Scope.Index)
		if d.Value != nil {
			p.indent++
			p.printExpr(d.Value)
			p.indent--
		}
	case CallData:
		p.printf("%s\n", head)
		p.indent++
		p.printf("target\n")
		p.indent++
		p.printExpr(d.Target)
		p.indent--
		for _, arg := range d.Args {
			if arg.Name != "" {
				p.printf("arg %s\n", arg.Name)
			} else {
				p.printf("arg\n")
			}
			p.indent++
			p.printExpr(arg.Value)
			p.indent--
		}
		p.indent--
	default:
		p.printf("%s\n", head)
	}
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s"+format, append([]any{strings.Repeat("  ", p.indent)}, args...)...)
}
