package decl

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"candy/internal/source"
)

// Declaration is one named item: a module, a container (class/trait/impl),
// a function, a property, or a constructor. Declarations form a tree via
// Parent; the root of each tree is a module bound to a source file.
type Declaration struct {
	ID       ID
	Parent   ID
	Resource source.FileID
	Name     string
	Kind     Kind
	Static   bool
}

// Table owns every declaration discovered in a compilation. IDs are 1-based
// arena indices; 0 is the NoID sentinel.
type Table struct {
	decls []Declaration
}

// NewTable creates an empty declaration table.
func NewTable() *Table {
	return &Table{}
}

// Add appends a declaration and returns its id.
func (t *Table) Add(parent ID, resource source.FileID, name string, kind Kind, static bool) ID {
	lenDecls, err := safecast.Conv[uint32](len(t.decls))
	if err != nil {
		panic(fmt.Errorf("len decls overflow: %w", err))
	}
	id := ID(lenDecls + 1)
	t.decls = append(t.decls, Declaration{
		ID:       id,
		Parent:   parent,
		Resource: resource,
		Name:     name,
		Kind:     kind,
		Static:   static,
	})
	return id
}

// Get returns the declaration for id, or nil for NoID.
func (t *Table) Get(id ID) *Declaration {
	if id == NoID || int(id) > len(t.decls) {
		return nil
	}
	return &t.decls[id-1]
}

// Len returns the number of declarations.
func (t *Table) Len() int {
	return len(t.decls)
}

// All returns the declarations in insertion order. Read-only.
func (t *Table) All() []Declaration {
	return t.decls
}

// Parent returns the parent declaration id.
func (t *Table) Parent(id ID) ID {
	d := t.Get(id)
	if d == nil {
		return NoID
	}
	return d.Parent
}

// Resource returns the source file the declaration belongs to.
func (t *Table) Resource(id ID) source.FileID {
	d := t.Get(id)
	if d == nil {
		return source.NoFileID
	}
	return d.Resource
}

// Module walks up the parent chain to the enclosing module declaration.
func (t *Table) Module(id ID) ID {
	for cur := id; cur != NoID; cur = t.Parent(cur) {
		if d := t.Get(cur); d != nil && d.Kind == KindModule {
			return cur
		}
	}
	return NoID
}

// SimpleName returns the last path component of the declaration.
func (t *Table) SimpleName(id ID) string {
	d := t.Get(id)
	if d == nil {
		return ""
	}
	return d.Name
}

// Path renders the declaration as a colon-separated path from its module.
func (t *Table) Path(id ID) string {
	var parts []string
	for cur := id; cur != NoID; cur = t.Parent(cur) {
		if d := t.Get(cur); d != nil {
			parts = append(parts, d.Name)
		}
	}
	// reverse
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ":")
}

// Kind predicates.

func (t *Table) IsFunction(id ID) bool    { return t.kindOf(id) == KindFunction }
func (t *Table) IsProperty(id ID) bool    { return t.kindOf(id) == KindProperty }
func (t *Table) IsConstructor(id ID) bool { return t.kindOf(id) == KindConstructor }
func (t *Table) IsModule(id ID) bool      { return t.kindOf(id) == KindModule }

// IsContainer reports whether the declaration can hold member functions and
// properties with a `this` receiver.
func (t *Table) IsContainer(id ID) bool {
	switch t.kindOf(id) {
	case KindClass, KindTrait, KindImpl:
		return true
	default:
		return false
	}
}

// IsStatic reports whether the declaration was marked static.
func (t *Table) IsStatic(id ID) bool {
	d := t.Get(id)
	return d != nil && d.Static
}

func (t *Table) kindOf(id ID) Kind {
	d := t.Get(id)
	if d == nil {
		return KindInvalid
	}
	return d.Kind
}
