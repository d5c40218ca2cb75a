package ast

import (
	"candy/internal/source"
)

// File is one parsed source file: its top-level items in source order.
type File struct {
	Source source.FileID
	Items  []ItemID
}

// Builder owns every arena produced by parsing one compilation. It also
// mints the parse-time NodeIDs that give AST nodes their identity.
type Builder struct {
	Exprs *Exprs
	Items *Items
	Types *Arena[TypeSyn]
	Files *Arena[File]

	nextNode NodeID
	spans    map[NodeID]source.Span
}

// NewBuilder creates an empty Builder.
func NewBuilder(capHint uint) *Builder {
	return &Builder{
		Exprs: newExprs(capHint),
		Items: newItems(capHint / 4),
		Types: NewArena[TypeSyn](capHint / 8),
		Files: NewArena[File](2),
		spans: make(map[NodeID]source.Span, capHint),
	}
}

// SpanOf returns the source span a node identity was minted for.
func (b *Builder) SpanOf(node NodeID) (source.Span, bool) {
	sp, ok := b.spans[node]
	return sp, ok
}

func (b *Builder) noteSpan(node NodeID, span source.Span) NodeID {
	b.spans[node] = span
	return node
}

// BodyNode mints a node identity for a function body block. The lowering
// gives the return scope an anonymous id and does not map it to this node.
func (b *Builder) BodyNode(span source.Span) NodeID {
	return b.noteSpan(b.NewNode(), span)
}

// NewNode mints the next parse-time node identity.
func (b *Builder) NewNode() NodeID {
	b.nextNode++
	return b.nextNode
}

// NodeCount returns how many node identities were minted.
func (b *Builder) NodeCount() uint32 {
	return uint32(b.nextNode)
}

// AddFile records a parsed file and returns its id.
func (b *Builder) AddFile(src source.FileID, items []ItemID) FileID {
	return FileID(b.Files.Allocate(File{Source: src, Items: items}))
}

// File returns the parsed file for id.
func (b *Builder) File(id FileID) *File {
	return b.Files.Get(uint32(id))
}

// Expression constructors ----------------------------------------------------

func (b *Builder) newExpr(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(b.Exprs.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Node:    b.noteSpan(b.NewNode(), span),
		Payload: PayloadID(payload),
	}))
}

func (b *Builder) IntLit(span source.Span, value int64, text string) ExprID {
	return b.newExpr(ExprIntLit, span, b.Exprs.IntLits.Allocate(IntLitExpr{Value: value, Text: text}))
}

func (b *Builder) BoolLit(span source.Span, value bool) ExprID {
	return b.newExpr(ExprBoolLit, span, b.Exprs.BoolLits.Allocate(BoolLitExpr{Value: value}))
}

func (b *Builder) StringLit(span source.Span, parts []StringPart) ExprID {
	return b.newExpr(ExprStringLit, span, b.Exprs.StringLits.Allocate(StringLitExpr{Parts: parts}))
}

func (b *Builder) Ident(span source.Span, name string) ExprID {
	return b.newExpr(ExprIdent, span, b.Exprs.Idents.Allocate(IdentExpr{Name: name}))
}

func (b *Builder) Call(span source.Span, target ExprID, args []CallArg) ExprID {
	return b.newExpr(ExprCall, span, b.Exprs.Calls.Allocate(CallExpr{Target: target, Args: args}))
}

func (b *Builder) Navigation(span source.Span, target ExprID, name string) ExprID {
	return b.newExpr(ExprNavigation, span, b.Exprs.Navs.Allocate(NavigationExpr{Target: target, Name: name}))
}

func (b *Builder) Return(span source.Span, label string, value ExprID) ExprID {
	return b.newExpr(ExprReturn, span, b.Exprs.Returns.Allocate(ReturnExpr{Label: label, Value: value}))
}

func (b *Builder) Lambda(span source.Span, params []FnParamID, body []ExprID) ExprID {
	return b.newExpr(ExprLambda, span, b.Exprs.Lambdas.Allocate(LambdaExpr{Params: params, Body: body}))
}

func (b *Builder) Assign(span source.Span, target, value ExprID) ExprID {
	return b.newExpr(ExprAssign, span, b.Exprs.Assigns.Allocate(AssignExpr{Target: target, Value: value}))
}

func (b *Builder) If(span source.Span, cond ExprID, then, els []ExprID) ExprID {
	return b.newExpr(ExprIf, span, b.Exprs.Ifs.Allocate(IfExpr{Cond: cond, Then: then, Else: els}))
}

func (b *Builder) While(span source.Span, cond ExprID, body []ExprID) ExprID {
	return b.newExpr(ExprWhile, span, b.Exprs.Whiles.Allocate(WhileExpr{Cond: cond, Body: body}))
}

func (b *Builder) Loop(span source.Span, body []ExprID) ExprID {
	return b.newExpr(ExprLoop, span, b.Exprs.Loops.Allocate(LoopExpr{Body: body}))
}

func (b *Builder) Break(span source.Span, label string) ExprID {
	return b.newExpr(ExprBreak, span, b.Exprs.Labels.Allocate(LabelExpr{Label: label}))
}

func (b *Builder) Continue(span source.Span, label string) ExprID {
	return b.newExpr(ExprContinue, span, b.Exprs.Labels.Allocate(LabelExpr{Label: label}))
}

// Item constructors ----------------------------------------------------------

func (b *Builder) newItem(kind ItemKind, span source.Span, payload uint32) ItemID {
	return ItemID(b.Items.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Node:    b.noteSpan(b.NewNode(), span),
		Payload: PayloadID(payload),
	}))
}

func (b *Builder) Fun(span source.Span, fn FnItem) ItemID {
	return b.newItem(ItemFun, span, b.Items.Fns.Allocate(fn))
}

func (b *Builder) Let(span source.Span, let LetItem) ItemID {
	return b.newItem(ItemLet, span, b.Items.Lets.Allocate(let))
}

func (b *Builder) Container(kind ItemKind, span source.Span, c ContainerItem) ItemID {
	return b.newItem(kind, span, b.Items.Containers.Allocate(c))
}

// Param allocates a value parameter with a fresh node identity.
func (b *Builder) Param(span source.Span, name string, typ TypeID) FnParamID {
	return FnParamID(b.Items.Params.Allocate(FnParam{
		Name: name,
		Node: b.noteSpan(b.NewNode(), span),
		Span: span,
		Type: typ,
	}))
}

// TypeRef allocates a type annotation.
func (b *Builder) TypeRef(t TypeSyn) TypeID {
	return TypeID(b.Types.Allocate(t))
}

// TypeSyn returns the annotation for id.
func (b *Builder) TypeSyn(id TypeID) *TypeSyn {
	return b.Types.Get(uint32(id))
}
