package queries

import (
	"path"
	"strings"

	"candy/internal/ast"
	"candy/internal/decl"
	"candy/internal/source"
)

// BindFile discovers the declarations of a parsed file, registers them in
// the declaration table and remembers which AST item each one came from.
// Returns the module declaration created for the file.
func (e *Engine) BindFile(fileID ast.FileID) decl.ID {
	file := e.builder.File(fileID)
	if file == nil {
		return decl.NoID
	}
	name := "main"
	if f := e.files.Get(file.Source); f != nil {
		name = strings.TrimSuffix(path.Base(f.Path), ".candy")
	}
	module := e.decls.Add(decl.NoID, file.Source, name, decl.KindModule, false)
	for _, itemID := range file.Items {
		e.bindItem(module, file.Source, itemID)
	}
	return module
}

func (e *Engine) bindItem(parent decl.ID, res source.FileID, itemID ast.ItemID) {
	item := e.builder.Items.Get(itemID)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemFun:
		fn := e.builder.Items.Fn(itemID)
		if fn == nil {
			return
		}
		id := e.decls.Add(parent, res, fn.Name, decl.KindFunction, fn.Static)
		e.fnItems[id] = itemID
	case ast.ItemLet:
		let := e.builder.Items.Let(itemID)
		if let == nil {
			return
		}
		id := e.decls.Add(parent, res, let.Name, decl.KindProperty, let.Static)
		e.letItems[id] = itemID
	case ast.ItemClass, ast.ItemTrait, ast.ItemImpl:
		c := e.builder.Items.Container(itemID)
		if c == nil {
			return
		}
		kind := decl.KindClass
		switch item.Kind {
		case ast.ItemTrait:
			kind = decl.KindTrait
		case ast.ItemImpl:
			kind = decl.KindImpl
		}
		id := e.decls.Add(parent, res, c.Name, kind, false)
		for _, member := range c.Members {
			e.bindItem(id, res, member)
		}
	}
}

// Functions returns every function declaration bound so far, in declaration
// table order.
func (e *Engine) Functions() []decl.ID {
	var out []decl.ID
	for _, d := range e.decls.All() {
		if d.Kind == decl.KindFunction {
			out = append(out, d.ID)
		}
	}
	return out
}
