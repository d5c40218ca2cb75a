// Package queries is the memoizing layer between parsed declarations and
// the body lowering. Each query is keyed on a declaration id; results are
// immutable snapshots shared by every caller, and the two projections of a
// lowering always come from the same run.
package queries

import (
	"sync"

	"candy/internal/ast"
	"candy/internal/decl"
	"candy/internal/diag"
	"candy/internal/hir"
	"candy/internal/source"
	"candy/internal/types"
)

// Engine implements hir.Queries and memoizes the lowering queries. One
// lowering is strictly sequential; distinct declarations may lower
// concurrently, so entries carry their own latch.
type Engine struct {
	files    *source.FileSet
	builder  *ast.Builder
	decls    *decl.Table
	interner *types.Interner

	fnItems  map[decl.ID]ast.ItemID
	letItems map[decl.ID]ast.ItemID

	mu      sync.Mutex
	sigs    map[decl.ID]*sigEntry
	lowered map[decl.ID]*loweredEntry
}

type sigEntry struct {
	once sync.Once
	fn   hir.FunctionSig
	prop hir.PropertySig
	ok   bool
}

type loweredEntry struct {
	once    sync.Once
	present bool
	body    []*hir.Expr
	ids     *hir.BodyAstToHirIds
	diags   []diag.Diagnostic
}

// NewEngine creates an engine over a parsed compilation.
func NewEngine(files *source.FileSet, builder *ast.Builder) *Engine {
	return &Engine{
		files:    files,
		builder:  builder,
		decls:    decl.NewTable(),
		interner: types.NewInterner(),
		fnItems:  make(map[decl.ID]ast.ItemID),
		letItems: make(map[decl.ID]ast.ItemID),
		sigs:     make(map[decl.ID]*sigEntry),
		lowered:  make(map[decl.ID]*loweredEntry),
	}
}

// hir.Queries ----------------------------------------------------------------

func (e *Engine) Decls() *decl.Table     { return e.decls }
func (e *Engine) Builder() *ast.Builder  { return e.builder }
func (e *Engine) Types() *types.Interner { return e.interner }
func (e *Engine) Files() *source.FileSet { return e.files }

// IsAssignableTo is the subtyping oracle.
func (e *Engine) IsAssignableTo(from, to types.TypeID) bool {
	return e.interner.IsAssignableTo(from, to)
}

// ModuleOf returns the enclosing module declaration.
func (e *Engine) ModuleOf(id decl.ID) decl.ID {
	return e.decls.Module(id)
}

// FunctionAst returns the parsed declaration for a function id.
func (e *Engine) FunctionAst(id decl.ID) (*ast.FnItem, bool) {
	itemID, ok := e.fnItems[id]
	if !ok {
		return nil, false
	}
	fn := e.builder.Items.Fn(itemID)
	return fn, fn != nil
}

// FunctionSig derives and memoizes the resolved signature of a function.
func (e *Engine) FunctionSig(id decl.ID) (hir.FunctionSig, bool) {
	entry := e.sigEntryFor(id)
	entry.once.Do(func() {
		fn, ok := e.FunctionAst(id)
		if !ok {
			return
		}
		sig := hir.FunctionSig{
			Return: e.returnType(id, fn.ReturnType),
			Static: e.decls.IsStatic(id),
		}
		for _, pid := range fn.Params {
			p := e.builder.Items.Param(pid)
			if p == nil {
				continue
			}
			sig.Params = append(sig.Params, hir.ParamSig{
				Name: p.Name,
				Node: p.Node,
				Span: p.Span,
				Type: e.AstTypeToHirType(e.ModuleOf(id), p.Type),
			})
		}
		entry.fn = sig
		entry.ok = true
	})
	return entry.fn, entry.ok
}

// PropertySig derives and memoizes the resolved signature of a property.
func (e *Engine) PropertySig(id decl.ID) (hir.PropertySig, bool) {
	entry := e.sigEntryFor(id)
	entry.once.Do(func() {
		itemID, ok := e.letItems[id]
		if !ok {
			return
		}
		let := e.builder.Items.Let(itemID)
		if let == nil {
			return
		}
		entry.prop = hir.PropertySig{
			Type:           e.AstTypeToHirType(e.ModuleOf(id), let.Type),
			Static:         e.decls.IsStatic(id),
			Mutable:        let.Mutable,
			HasInitializer: let.Value.IsValid(),
		}
		entry.ok = true
	})
	return entry.prop, entry.ok
}

// AstTypeToHirType resolves a type annotation against a module. Builtin
// names resolve to primitives; everything else becomes a user type owned by
// the module.
func (e *Engine) AstTypeToHirType(module decl.ID, t ast.TypeID) types.TypeID {
	if !t.IsValid() {
		return e.interner.Builtins().Unit
	}
	syn := e.builder.TypeSyn(t)
	if syn == nil {
		return types.NoTypeID
	}
	b := e.interner.Builtins()
	switch syn.Kind {
	case ast.TypeSynNamed:
		switch syn.Name {
		case "Unit":
			return b.Unit
		case "Never":
			return b.Never
		case "Bool":
			return b.Bool
		case "Int":
			return b.Int
		case "Float":
			return b.Float
		case "Number":
			return b.Number
		case "String":
			return b.String
		case "Any":
			return b.Any
		case "This":
			return b.This
		default:
			args := make([]types.TypeID, len(syn.Args))
			for i, a := range syn.Args {
				args[i] = e.AstTypeToHirType(module, a)
			}
			return e.interner.Named(syn.Name, module, args...)
		}
	case ast.TypeSynTuple:
		elems := make([]types.TypeID, len(syn.Args))
		for i, a := range syn.Args {
			elems[i] = e.AstTypeToHirType(module, a)
		}
		return e.interner.Tuple(elems...)
	case ast.TypeSynFunction:
		params := make([]types.TypeID, len(syn.Args))
		for i, a := range syn.Args {
			params[i] = e.AstTypeToHirType(module, a)
		}
		return e.interner.Function(types.NoTypeID, params, e.AstTypeToHirType(module, syn.Ret))
	default:
		return types.NoTypeID
	}
}

// returnType resolves a function's return annotation; absence means Unit.
func (e *Engine) returnType(id decl.ID, t ast.TypeID) types.TypeID {
	if !t.IsValid() {
		return e.interner.Builtins().Unit
	}
	return e.AstTypeToHirType(e.ModuleOf(id), t)
}

// Lowering queries ------------------------------------------------------------

// LowerBody runs (or reuses) the lowering of a declaration body. Absent for
// properties and bodyless functions; property initializers are not lowered
// until a downstream pass needs them.
func (e *Engine) LowerBody(id decl.ID) ([]*hir.Expr, *hir.BodyAstToHirIds, bool) {
	entry := e.loweredEntryFor(id)
	entry.once.Do(func() {
		res, ids, present := hir.LowerBody(e, id)
		if !present {
			return
		}
		entry.present = true
		entry.ids = ids
		if res.IsOK() {
			entry.body = res.Value()
		} else {
			entry.diags = res.Errors()
		}
	})
	if !entry.present {
		return nil, nil, false
	}
	return entry.body, entry.ids, true
}

// Body projects the expression list of LowerBody.
func (e *Engine) Body(id decl.ID) ([]*hir.Expr, bool) {
	body, _, ok := e.LowerBody(id)
	return body, ok
}

// BodyAstToHirIds projects the id map of LowerBody. It is always coherent
// with Body: both come from the same memoized run.
func (e *Engine) BodyAstToHirIds(id decl.ID) (*hir.BodyAstToHirIds, bool) {
	_, ids, ok := e.LowerBody(id)
	return ids, ok
}

// Diagnostics returns the diagnostics a lowering produced.
func (e *Engine) Diagnostics(id decl.ID) []diag.Diagnostic {
	e.LowerBody(id)
	return e.loweredEntryFor(id).diags
}

// Reverse projections (spans for downstream passes) ---------------------------

// HirIDToAstNode maps a local id back to the AST node it was allocated for.
// Synthesized ids have no node.
func (e *Engine) HirIDToAstNode(id hir.LocalID) (ast.NodeID, bool) {
	ids, ok := e.BodyAstToHirIds(id.Decl)
	if !ok {
		return ast.NoNodeID, false
	}
	return ids.AstFor(id)
}

// HirIDToSpan maps a local id to the source span of its AST node.
func (e *Engine) HirIDToSpan(id hir.LocalID) (source.Span, bool) {
	node, ok := e.HirIDToAstNode(id)
	if !ok {
		return source.Span{}, false
	}
	return e.builder.SpanOf(node)
}

// Invalidation ---------------------------------------------------------------

// Invalidate drops every memoized result belonging to a resource. The next
// query recomputes from the (re-parsed) inputs.
func (e *Engine) Invalidate(res source.FileID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id := range e.lowered {
		if e.decls.Resource(id) == res {
			delete(e.lowered, id)
		}
	}
	for id := range e.sigs {
		if e.decls.Resource(id) == res {
			delete(e.sigs, id)
		}
	}
}

// entry latches --------------------------------------------------------------

func (e *Engine) sigEntryFor(id decl.ID) *sigEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.sigs[id]
	if !ok {
		entry = &sigEntry{}
		e.sigs[id] = entry
	}
	return entry
}

func (e *Engine) loweredEntryFor(id decl.ID) *loweredEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.lowered[id]
	if !ok {
		entry = &loweredEntry{}
		e.lowered[id] = entry
	}
	return entry
}
