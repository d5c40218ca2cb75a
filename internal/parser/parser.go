// Package parser builds the Candy AST from tokens. It covers declarations
// (functions, properties, class/trait/impl containers) and expression
// bodies; recovery skips to the next separator so one bad construct does
// not hide the rest of the file.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"candy/internal/ast"
	"candy/internal/diag"
	"candy/internal/lexer"
	"candy/internal/source"
	"candy/internal/token"
)

type parser struct {
	file *source.File
	toks []token.Token
	pos  int
	b    *ast.Builder
	bag  *diag.Bag
}

// ParseFile lexes and parses one file into the builder, reporting problems
// into bag.
func ParseFile(f *source.File, b *ast.Builder, bag *diag.Bag) ast.FileID {
	p := &parser{
		file: f,
		toks: lexer.Lex(f, bag),
		b:    b,
		bag:  bag,
	}
	items := p.parseItems(token.EOF)
	return b.AddFile(f.ID, items)
}

// Token plumbing -------------------------------------------------------------

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *parser) peek() token.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) eat(kind token.Kind) (token.Token, bool) {
	if p.at(kind) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *parser) expect(kind token.Kind, code diag.Code) (token.Token, bool) {
	if t, ok := p.eat(kind); ok {
		return t, true
	}
	p.report(code, p.cur().Span, fmt.Sprintf("expected %s, found %s", kind, p.cur().Kind))
	return token.Token{}, false
}

func (p *parser) report(code diag.Code, span source.Span, msg string) {
	p.bag.Add(diag.NewError(code, span, msg))
}

// skipSeps consumes newline and semicolon separators.
func (p *parser) skipSeps() {
	for p.at(token.Newline) || p.at(token.Semicolon) {
		p.advance()
	}
}

// Items ----------------------------------------------------------------------

func (p *parser) parseItems(until token.Kind) []ast.ItemID {
	var items []ast.ItemID
	for {
		p.skipSeps()
		if p.at(until) || p.at(token.EOF) {
			return items
		}
		if id := p.parseItem(); id.IsValid() {
			items = append(items, id)
			continue
		}
		// Recovery: drop tokens until the next separator.
		for !p.at(token.Newline) && !p.at(token.Semicolon) && !p.at(until) && !p.at(token.EOF) {
			p.advance()
		}
	}
}

func (p *parser) parseItem() ast.ItemID {
	static := false
	if p.at(token.KwStatic) {
		static = true
		p.advance()
	}
	switch p.cur().Kind {
	case token.KwFun:
		return p.parseFun(static)
	case token.KwLet:
		return p.parseLet(static)
	case token.KwClass, token.KwTrait, token.KwImpl:
		return p.parseContainer()
	default:
		p.report(diag.SynUnexpectedTopItem, p.cur().Span,
			fmt.Sprintf("expected a declaration, found %s", p.cur().Kind))
		return ast.NoItemID
	}
}

func (p *parser) parseFun(static bool) ast.ItemID {
	start := p.advance() // fun
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return ast.NoItemID
	}

	fn := ast.FnItem{
		Name:     name.Text,
		NameSpan: name.Span,
		Static:   static,
	}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken); ok {
		for !p.at(token.RParen) && !p.at(token.EOF) {
			pname, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
			if !ok {
				break
			}
			var typ ast.TypeID
			if _, ok := p.expect(token.Colon, diag.SynExpectType); ok {
				typ = p.parseType()
			}
			fn.Params = append(fn.Params, p.b.Param(pname.Span, pname.Text, typ))
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		p.expect(token.RParen, diag.SynUnclosedParen)
	}

	if _, ok := p.eat(token.Colon); ok {
		fn.ReturnType = p.parseType()
	}

	end := p.cur().Span
	if lbrace, ok := p.eat(token.LBrace); ok {
		fn.HasBody = true
		fn.Body = p.parseExprList(token.RBrace)
		rbrace, _ := p.expect(token.RBrace, diag.SynUnclosedBrace)
		bodySpan := lbrace.Span.Cover(rbrace.Span)
		fn.BodyNode = p.b.BodyNode(bodySpan)
		fn.BodySpan = bodySpan
		end = bodySpan
	}

	return p.b.Fun(start.Span.Cover(end), fn)
}

func (p *parser) parseLet(static bool) ast.ItemID {
	start := p.advance() // let
	let := ast.LetItem{Static: static}
	if _, ok := p.eat(token.KwMut); ok {
		let.Mutable = true
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return ast.NoItemID
	}
	let.Name = name.Text
	let.NameSpan = name.Span

	if _, ok := p.eat(token.Colon); ok {
		let.Type = p.parseType()
	}
	end := name.Span
	if _, ok := p.eat(token.Assign); ok {
		let.Value = p.parseExpr()
		if let.Value.IsValid() {
			end = p.b.Exprs.Get(let.Value).Span
		}
	}
	return p.b.Let(start.Span.Cover(end), let)
}

func (p *parser) parseContainer() ast.ItemID {
	start := p.advance() // class/trait/impl
	kind := ast.ItemClass
	switch start.Kind {
	case token.KwTrait:
		kind = ast.ItemTrait
	case token.KwImpl:
		kind = ast.ItemImpl
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return ast.NoItemID
	}
	c := ast.ContainerItem{Name: name.Text, NameSpan: name.Span}
	end := name.Span
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken); ok {
		c.Members = p.parseItems(token.RBrace)
		rbrace, _ := p.expect(token.RBrace, diag.SynUnclosedBrace)
		end = rbrace.Span
	}
	return p.b.Container(kind, start.Span.Cover(end), c)
}

// Types ----------------------------------------------------------------------

func (p *parser) parseType() ast.TypeID {
	switch p.cur().Kind {
	case token.Ident:
		t := p.advance()
		return p.b.TypeRef(ast.TypeSyn{Kind: ast.TypeSynNamed, Span: t.Span, Name: t.Text})
	case token.LParen:
		start := p.advance()
		var elems []ast.TypeID
		for !p.at(token.RParen) && !p.at(token.EOF) {
			elems = append(elems, p.parseType())
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		rparen, _ := p.expect(token.RParen, diag.SynUnclosedParen)
		span := start.Span.Cover(rparen.Span)
		if _, ok := p.eat(token.Arrow); ok {
			ret := p.parseType()
			span = span.Cover(p.typeSpan(ret))
			return p.b.TypeRef(ast.TypeSyn{Kind: ast.TypeSynFunction, Span: span, Args: elems, Ret: ret})
		}
		if len(elems) == 1 {
			return elems[0] // parenthesized grouping
		}
		return p.b.TypeRef(ast.TypeSyn{Kind: ast.TypeSynTuple, Span: span, Args: elems})
	default:
		p.report(diag.SynExpectType, p.cur().Span,
			fmt.Sprintf("expected a type, found %s", p.cur().Kind))
		return ast.NoTypeID
	}
}

func (p *parser) typeSpan(id ast.TypeID) source.Span {
	if t := p.b.TypeSyn(id); t != nil {
		return t.Span
	}
	return p.cur().Span
}

// Expressions ----------------------------------------------------------------

func (p *parser) parseExprList(until token.Kind) []ast.ExprID {
	var exprs []ast.ExprID
	for {
		p.skipSeps()
		if p.at(until) || p.at(token.EOF) {
			return exprs
		}
		e := p.parseExpr()
		if e.IsValid() {
			exprs = append(exprs, e)
		} else {
			// Recovery: drop tokens until the next separator.
			for !p.at(token.Newline) && !p.at(token.Semicolon) && !p.at(until) && !p.at(token.EOF) {
				p.advance()
			}
		}
	}
}

func (p *parser) parseExpr() ast.ExprID {
	switch p.cur().Kind {
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwLoop:
		start := p.advance()
		body, end := p.parseBlock()
		return p.b.Loop(start.Span.Cover(end), body)
	case token.KwBreak:
		t := p.advance()
		return p.b.Break(t.Span, "")
	case token.KwContinue:
		t := p.advance()
		return p.b.Continue(t.Span, "")
	default:
		return p.parseAssign()
	}
}

func (p *parser) parseReturn() ast.ExprID {
	start := p.advance() // return
	value := ast.NoExprID
	if !p.atExprEnd() {
		value = p.parseExpr()
	}
	span := start.Span
	if value.IsValid() {
		span = span.Cover(p.b.Exprs.Get(value).Span)
	}
	return p.b.Return(span, "", value)
}

func (p *parser) atExprEnd() bool {
	switch p.cur().Kind {
	case token.Newline, token.Semicolon, token.RBrace, token.RParen, token.Comma, token.EOF:
		return true
	default:
		return false
	}
}

func (p *parser) parseIf() ast.ExprID {
	start := p.advance() // if
	cond := p.parseAssign()
	then, end := p.parseBlock()
	var els []ast.ExprID
	if _, ok := p.eat(token.KwElse); ok {
		if p.at(token.KwIf) {
			els = []ast.ExprID{p.parseIf()}
			end = p.b.Exprs.Get(els[0]).Span
		} else {
			els, end = p.parseBlock()
		}
	}
	return p.b.If(start.Span.Cover(end), cond, then, els)
}

func (p *parser) parseWhile() ast.ExprID {
	start := p.advance() // while
	cond := p.parseAssign()
	body, end := p.parseBlock()
	return p.b.While(start.Span.Cover(end), cond, body)
}

func (p *parser) parseBlock() ([]ast.ExprID, source.Span) {
	lbrace, ok := p.expect(token.LBrace, diag.SynUnexpectedToken)
	if !ok {
		return nil, p.cur().Span
	}
	body := p.parseExprList(token.RBrace)
	rbrace, _ := p.expect(token.RBrace, diag.SynUnclosedBrace)
	return body, lbrace.Span.Cover(rbrace.Span)
}

func (p *parser) parseAssign() ast.ExprID {
	target := p.parsePostfix()
	if !target.IsValid() {
		return ast.NoExprID
	}
	if _, ok := p.eat(token.Assign); ok {
		value := p.parseExpr()
		span := p.b.Exprs.Get(target).Span
		if value.IsValid() {
			span = span.Cover(p.b.Exprs.Get(value).Span)
		}
		return p.b.Assign(span, target, value)
	}
	return target
}

func (p *parser) parsePostfix() ast.ExprID {
	e := p.parsePrimary()
	for e.IsValid() {
		switch p.cur().Kind {
		case token.LParen:
			p.advance()
			args := p.parseCallArgs()
			rparen, _ := p.expect(token.RParen, diag.SynUnclosedParen)
			e = p.b.Call(p.b.Exprs.Get(e).Span.Cover(rparen.Span), e, args)
		case token.Dot:
			p.advance()
			name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
			if !ok {
				return e
			}
			e = p.b.Navigation(p.b.Exprs.Get(e).Span.Cover(name.Span), e, name.Text)
		default:
			return e
		}
	}
	return e
}

func (p *parser) parseCallArgs() []ast.CallArg {
	var args []ast.CallArg
	for !p.at(token.RParen) && !p.at(token.EOF) {
		var arg ast.CallArg
		if p.at(token.Ident) && p.peek().Kind == token.Assign {
			arg.Name = p.advance().Text
			p.advance() // =
		}
		arg.Value = p.parseExpr()
		if !arg.Value.IsValid() {
			break
		}
		args = append(args, arg)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	return args
}

func (p *parser) parsePrimary() ast.ExprID {
	t := p.cur()
	switch t.Kind {
	case token.IntLit:
		p.advance()
		value, err := strconv.ParseInt(strings.ReplaceAll(t.Text, "_", ""), 10, 64)
		if err != nil {
			p.report(diag.LexBadNumber, t.Span, fmt.Sprintf("integer literal %q out of range", t.Text))
			return ast.NoExprID
		}
		return p.b.IntLit(t.Span, value, t.Text)
	case token.KwTrue:
		p.advance()
		return p.b.BoolLit(t.Span, true)
	case token.KwFalse:
		p.advance()
		return p.b.BoolLit(t.Span, false)
	case token.StringLit:
		p.advance()
		return p.parseStringLit(t)
	case token.Ident:
		p.advance()
		return p.b.Ident(t.Span, t.Text)
	case token.KwThis:
		p.advance()
		return p.b.Ident(t.Span, "this")
	case token.KwSuper:
		p.advance()
		return p.b.Ident(t.Span, "super")
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen)
		return inner // grouping is unwrapped at parse time
	case token.LBrace:
		start := p.advance()
		body := p.parseExprList(token.RBrace)
		rbrace, _ := p.expect(token.RBrace, diag.SynUnclosedBrace)
		return p.b.Lambda(start.Span.Cover(rbrace.Span), nil, body)
	default:
		p.report(diag.SynExpectExpression, t.Span,
			fmt.Sprintf("expected an expression, found %s", t.Kind))
		return ast.NoExprID
	}
}
