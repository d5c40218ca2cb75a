package ast

type (
	// Main entities.
	FileID  uint32
	ItemID  uint32
	ExprID  uint32
	TypeID  uint32
	// Sub-entities.
	PayloadID uint32
	FnParamID uint32

	// NodeID is the parse-time identity of an AST node. Every expression and
	// every value parameter receives one from the Builder; the AST↔HIR id map
	// is keyed on it.
	NodeID uint32
)

const (
	NoFileID    FileID    = 0
	NoItemID    ItemID    = 0
	NoExprID    ExprID    = 0
	NoTypeID    TypeID    = 0
	NoPayloadID PayloadID = 0
	NoFnParamID FnParamID = 0
	NoNodeID    NodeID    = 0
)

func (id FileID) IsValid() bool    { return id != NoFileID }
func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
func (id FnParamID) IsValid() bool { return id != NoFnParamID }
func (id NodeID) IsValid() bool    { return id != NoNodeID }
