package ast

// Exprs owns the expression header arena plus one payload arena per kind.
type Exprs struct {
	Arena *Arena[Expr]

	IntLits    *Arena[IntLitExpr]
	BoolLits   *Arena[BoolLitExpr]
	StringLits *Arena[StringLitExpr]
	Idents     *Arena[IdentExpr]
	Calls      *Arena[CallExpr]
	Navs       *Arena[NavigationExpr]
	Returns    *Arena[ReturnExpr]
	Lambdas    *Arena[LambdaExpr]
	Assigns    *Arena[AssignExpr]
	Ifs        *Arena[IfExpr]
	Whiles     *Arena[WhileExpr]
	Loops      *Arena[LoopExpr]
	Labels     *Arena[LabelExpr]
}

func newExprs(capHint uint) *Exprs {
	return &Exprs{
		Arena:      NewArena[Expr](capHint),
		IntLits:    NewArena[IntLitExpr](capHint / 4),
		BoolLits:   NewArena[BoolLitExpr](8),
		StringLits: NewArena[StringLitExpr](8),
		Idents:     NewArena[IdentExpr](capHint / 4),
		Calls:      NewArena[CallExpr](capHint / 4),
		Navs:       NewArena[NavigationExpr](8),
		Returns:    NewArena[ReturnExpr](8),
		Lambdas:    NewArena[LambdaExpr](8),
		Assigns:    NewArena[AssignExpr](8),
		Ifs:        NewArena[IfExpr](8),
		Whiles:     NewArena[WhileExpr](8),
		Loops:      NewArena[LoopExpr](8),
		Labels:     NewArena[LabelExpr](8),
	}
}

// Get returns the expression header for id.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Typed payload accessors. Each returns nil when the id does not refer to an
// expression of the matching kind.

func (e *Exprs) IntLit(id ExprID) *IntLitExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprIntLit {
		return e.IntLits.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) BoolLit(id ExprID) *BoolLitExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprBoolLit {
		return e.BoolLits.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) StringLit(id ExprID) *StringLitExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprStringLit {
		return e.StringLits.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) Ident(id ExprID) *IdentExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprIdent {
		return e.Idents.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) Call(id ExprID) *CallExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprCall {
		return e.Calls.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) Navigation(id ExprID) *NavigationExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprNavigation {
		return e.Navs.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) Return(id ExprID) *ReturnExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprReturn {
		return e.Returns.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) Lambda(id ExprID) *LambdaExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprLambda {
		return e.Lambdas.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) Assign(id ExprID) *AssignExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprAssign {
		return e.Assigns.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) If(id ExprID) *IfExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprIf {
		return e.Ifs.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) While(id ExprID) *WhileExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprWhile {
		return e.Whiles.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) Loop(id ExprID) *LoopExpr {
	if h := e.Get(id); h != nil && h.Kind == ExprLoop {
		return e.Loops.Get(uint32(h.Payload))
	}
	return nil
}

func (e *Exprs) Label(id ExprID) *LabelExpr {
	if h := e.Get(id); h != nil && (h.Kind == ExprBreak || h.Kind == ExprContinue) {
		return e.Labels.Get(uint32(h.Payload))
	}
	return nil
}
