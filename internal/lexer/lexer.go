// Package lexer turns Candy source bytes into tokens.
//
// Line breaks are significant between body expressions, so runs of newlines
// become a single Newline token. String literals keep their raw text
// (escapes and interpolation markers intact); the parser splits them into
// parts.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"candy/internal/diag"
	"candy/internal/source"
	"candy/internal/token"
)

type lexer struct {
	file *source.File
	bag  *diag.Bag
	pos  uint32
	toks []token.Token
}

// Lex tokenizes a file, reporting lexical problems into bag.
func Lex(file *source.File, bag *diag.Bag) []token.Token {
	l := &lexer{file: file, bag: bag}
	l.run()
	return l.toks
}

func (l *lexer) run() {
	content := l.file.Content
	for int(l.pos) < len(content) {
		start := l.pos
		b := content[l.pos]
		switch {
		case b == '\n':
			l.pos++
			if n := len(l.toks); n == 0 || l.toks[n-1].Kind != token.Newline {
				l.emit(token.Newline, start, "")
			}
		case b == ' ' || b == '\t' || b == '\r':
			l.pos++
		case b == '/' && l.peekAt(1) == '/':
			for int(l.pos) < len(content) && content[l.pos] != '\n' {
				l.pos++
			}
		case isDigit(b):
			l.lexNumber(start)
		case b == '"':
			l.lexString(start)
		case isIdentStart(b):
			l.lexIdent(start)
		default:
			l.lexPunct(start)
		}
	}
	l.emit(token.EOF, l.pos, "")
}

func (l *lexer) lexNumber(start uint32) {
	content := l.file.Content
	for int(l.pos) < len(content) && (isDigit(content[l.pos]) || content[l.pos] == '_') {
		l.pos++
	}
	text := string(content[start:l.pos])
	if int(l.pos) < len(content) && isIdentStart(content[l.pos]) {
		for int(l.pos) < len(content) && isIdentPart(content[l.pos]) {
			l.pos++
		}
		l.report(diag.LexBadNumber, start, fmt.Sprintf("malformed number literal %q", content[start:l.pos]))
		l.emit(token.Invalid, start, string(content[start:l.pos]))
		return
	}
	l.emit(token.IntLit, start, text)
}

// lexString consumes a double-quoted literal. Escapes and interpolation
// markers stay raw in the token text; only the interpolation brace depth is
// tracked so ${...} may contain '}'-free expressions and quotes are not
// terminated inside it.
func (l *lexer) lexString(start uint32) {
	content := l.file.Content
	l.pos++ // opening quote
	depth := 0
	for int(l.pos) < len(content) {
		b := content[l.pos]
		switch {
		case b == '\\':
			l.pos += 2
			continue
		case b == '$' && l.peekAt(1) == '{':
			depth++
			l.pos += 2
			continue
		case b == '}' && depth > 0:
			depth--
		case b == '"' && depth == 0:
			text := norm.NFC.String(string(content[start+1 : l.pos]))
			l.pos++
			l.emit(token.StringLit, start, text)
			return
		case b == '\n':
			l.report(diag.LexUnterminatedString, start, "unterminated string literal")
			l.emit(token.Invalid, start, string(content[start:l.pos]))
			return
		}
		l.pos++
	}
	if int(l.pos) > len(content) {
		l.pos = uint32(len(content))
	}
	code := diag.LexUnterminatedString
	if depth > 0 {
		code = diag.LexUnclosedInterp
	}
	l.report(code, start, "unterminated string literal")
	l.emit(token.Invalid, start, string(content[start:l.pos]))
}

func (l *lexer) lexIdent(start uint32) {
	content := l.file.Content
	for int(l.pos) < len(content) && isIdentPart(content[l.pos]) {
		l.pos++
	}
	text := string(content[start:l.pos])
	if kw, ok := token.LookupKeyword(text); ok {
		l.emit(kw, start, text)
		return
	}
	l.emit(token.Ident, start, text)
}

func (l *lexer) lexPunct(start uint32) {
	content := l.file.Content
	b := content[l.pos]
	var kind token.Kind
	size := uint32(1)
	switch b {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case '.':
		kind = token.Dot
	case '=':
		kind = token.Assign
	case '-':
		if l.peekAt(1) == '>' {
			kind = token.Arrow
			size = 2
		}
	}
	if kind == token.Invalid {
		r, rsize := utf8.DecodeRune(content[l.pos:])
		l.pos += uint32(rsize)
		if !unicode.IsSpace(r) {
			l.report(diag.LexUnknownChar, start, fmt.Sprintf("unknown character %q", r))
			l.emit(token.Invalid, start, string(r))
		}
		return
	}
	l.pos += size
	l.emit(kind, start, string(content[start:l.pos]))
}

func (l *lexer) emit(kind token.Kind, start uint32, text string) {
	l.toks = append(l.toks, token.Token{
		Kind: kind,
		Span: source.Span{File: l.file.ID, Start: start, End: l.pos},
		Text: text,
	})
}

func (l *lexer) report(code diag.Code, start uint32, msg string) {
	if l.bag != nil {
		l.bag.Add(diag.NewError(code, source.Span{File: l.file.ID, Start: start, End: l.pos}, msg))
	}
}

func (l *lexer) peekAt(off uint32) byte {
	if int(l.pos+off) >= len(l.file.Content) {
		return 0
	}
	return l.file.Content[l.pos+off]
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool { return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isIdentPart(b byte) bool  { return isIdentStart(b) || isDigit(b) }
