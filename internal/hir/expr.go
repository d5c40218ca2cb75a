package hir

import (
	"candy/internal/decl"
	"candy/internal/source"
	"candy/internal/types"
)

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, bool, string with parts).
	ExprLiteral ExprKind = iota
	// ExprIdentifier represents a resolved identifier reference.
	ExprIdentifier
	// ExprReturn represents a return targeting an enclosing scope.
	ExprReturn
	// ExprCall represents a call with named or positional arguments.
	ExprCall
	// ExprNavigation represents member access on a receiver.
	ExprNavigation
	// ExprPropertyBinding binds a value to a property.
	ExprPropertyBinding
	// ExprIf represents a conditional expression.
	ExprIf
	// ExprLoop represents an unconditional loop.
	ExprLoop
	// ExprWhile represents a pre-checked loop.
	ExprWhile
	// ExprBreak exits an enclosing loop scope.
	ExprBreak
	// ExprContinue restarts an enclosing loop scope.
	ExprContinue
	// ExprAssignment assigns to a resolved target.
	ExprAssignment
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprIdentifier:
		return "Identifier"
	case ExprReturn:
		return "Return"
	case ExprCall:
		return "Call"
	case ExprNavigation:
		return "Navigation"
	case ExprPropertyBinding:
		return "PropertyBinding"
	case ExprIf:
		return "If"
	case ExprLoop:
		return "Loop"
	case ExprWhile:
		return "While"
	case ExprBreak:
		return "Break"
	case ExprContinue:
		return "Continue"
	case ExprAssignment:
		return "Assignment"
	default:
		return "Unknown"
	}
}

// Expr is one HIR expression: its local id, resolved type, source span and
// kind-specific payload. Children are held by pointer and carry their own
// local ids.
type Expr struct {
	ID   LocalID
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data ExprData
}

// IsReturn reports whether the expression is a return.
func (e *Expr) IsReturn() bool {
	return e != nil && e.Kind == ExprReturn
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralBool
	LiteralString
)

// StringPart is one segment of a lowered string literal: raw text or an
// interpolated expression.
type StringPart struct {
	Interp bool
	Text   string
	Expr   *Expr
}

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind      LiteralKind
	IntValue  int64
	BoolValue bool
	Parts     []StringPart
}

func (LiteralData) exprData() {}

// IdentifierData holds data for ExprIdentifier.
type IdentifierData struct {
	Ident Identifier
}

func (IdentifierData) exprData() {}

// ReturnData holds data for ExprReturn. Scope is the local id of the body
// the return exits; Value is nil for a bare return.
type ReturnData struct {
	Scope LocalID
	Value *Expr
}

func (ReturnData) exprData() {}

// CallArg is one call argument; Name is empty for positional arguments.
type CallArg struct {
	Name  string
	Value *Expr
}

// CallData holds data for ExprCall.
type CallData struct {
	Target *Expr
	Args   []CallArg
}

func (CallData) exprData() {}

// NavigationData holds data for ExprNavigation.
type NavigationData struct {
	Target *Expr
	Name   string
}

func (NavigationData) exprData() {}

// PropertyBindingData holds data for ExprPropertyBinding.
type PropertyBindingData struct {
	Property decl.ID
	Value    *Expr
}

func (PropertyBindingData) exprData() {}

// IfData holds data for ExprIf.
type IfData struct {
	Cond *Expr
	Then []*Expr
	Else []*Expr
}

func (IfData) exprData() {}

// LoopData holds data for ExprLoop.
type LoopData struct {
	Body []*Expr
}

func (LoopData) exprData() {}

// WhileData holds data for ExprWhile.
type WhileData struct {
	Cond *Expr
	Body []*Expr
}

func (WhileData) exprData() {}

// BreakData holds data for ExprBreak.
type BreakData struct {
	Scope LocalID
}

func (BreakData) exprData() {}

// ContinueData holds data for ExprContinue.
type ContinueData struct {
	Scope LocalID
}

func (ContinueData) exprData() {}

// AssignmentData holds data for ExprAssignment.
type AssignmentData struct {
	Target Identifier
	Value  *Expr
}

func (AssignmentData) exprData() {}
