package parser

import (
	"bytes"
	"fmt"

	"candy/internal/ast"
	"candy/internal/diag"
	"candy/internal/lexer"
	"candy/internal/source"
	"candy/internal/token"
)

// parseStringLit splits the raw text of a string token into alternating raw
// and interpolated parts. Interpolation comes in two forms: $name and
// ${expression}. Escapes are resolved in the raw segments.
func (p *parser) parseStringLit(tok token.Token) ast.ExprID {
	raw := tok.Text
	base := tok.Span.Start + 1 // content starts after the opening quote

	var parts []ast.StringPart
	var sb bytes.Buffer
	segStart := 0

	flush := func(end int) {
		if sb.Len() > 0 {
			parts = append(parts, ast.StringPart{
				Text: sb.String(),
				Span: p.spanAt(base+uint32(segStart), base+uint32(end)),
			})
			sb.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '\\':
			if i+1 >= len(raw) {
				p.report(diag.LexBadEscape, p.spanAt(base+uint32(i), base+uint32(i)+1), "dangling escape")
				i++
				continue
			}
			switch raw[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case '$':
				sb.WriteByte('$')
			default:
				p.report(diag.LexBadEscape, p.spanAt(base+uint32(i), base+uint32(i)+2),
					fmt.Sprintf("invalid escape sequence '\\%c'", raw[i+1]))
			}
			i += 2

		case c == '$' && i+1 < len(raw) && raw[i+1] == '{':
			flush(i)
			depth := 1
			j := i + 2
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			if depth > 0 {
				p.report(diag.LexUnclosedInterp, p.spanAt(base+uint32(i), base+uint32(len(raw))),
					"unclosed string interpolation")
				return p.b.StringLit(tok.Span, parts)
			}
			inner := raw[i+2 : j-1]
			expr := p.parseInterpolated(inner, base+uint32(i)+2)
			if expr.IsValid() {
				parts = append(parts, ast.StringPart{
					Interp: true,
					Expr:   expr,
					Span:   p.spanAt(base+uint32(i), base+uint32(j)),
				})
			}
			i = j
			segStart = i

		case c == '$' && i+1 < len(raw) && isIdentStartByte(raw[i+1]):
			flush(i)
			j := i + 1
			for j < len(raw) && isIdentPartByte(raw[j]) {
				j++
			}
			identSpan := p.spanAt(base+uint32(i)+1, base+uint32(j))
			expr := p.b.Ident(identSpan, raw[i+1:j])
			parts = append(parts, ast.StringPart{
				Interp: true,
				Expr:   expr,
				Span:   p.spanAt(base+uint32(i), base+uint32(j)),
			})
			i = j
			segStart = i

		default:
			sb.WriteByte(c)
			i++
		}
	}
	flush(len(raw))
	return p.b.StringLit(tok.Span, parts)
}

// parseInterpolated parses the expression inside ${...}. The text is re-lexed
// padded to its real file offset, so spans inside the interpolation point at
// the original source.
func (p *parser) parseInterpolated(text string, offset uint32) ast.ExprID {
	padded := make([]byte, 0, int(offset)+len(text))
	padded = append(padded, bytes.Repeat([]byte{' '}, int(offset))...)
	padded = append(padded, text...)

	virtual := &source.File{ID: p.file.ID, Content: padded}
	sub := &parser{
		file: p.file,
		toks: lexer.Lex(virtual, p.bag),
		b:    p.b,
		bag:  p.bag,
	}
	expr := sub.parseExpr()
	sub.skipSeps()
	if !sub.at(token.EOF) {
		p.report(diag.SynUnexpectedToken, sub.cur().Span,
			fmt.Sprintf("unexpected %s in string interpolation", sub.cur().Kind))
	}
	return expr
}

func (p *parser) spanAt(start, end uint32) source.Span {
	return source.Span{File: p.file.ID, Start: start, End: end}
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPartByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}
