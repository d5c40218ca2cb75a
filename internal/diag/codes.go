package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadEscape          Code = 1004
	LexUnclosedInterp     Code = 1005

	// Syntax.
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectType        Code = 2003
	SynExpectExpression  Code = 2004
	SynUnclosedBrace     Code = 2005
	SynUnclosedParen     Code = 2006
	SynUnexpectedTopItem Code = 2007

	// Body lowering.
	LowInfo                  Code = 3000
	LowUnsupportedFeature    Code = 3001
	LowInvalidExpressionType Code = 3002
	LowAmbiguousExpression   Code = 3003
	LowMissingReturn         Code = 3004
	LowInvalidReturnLabel    Code = 3005
	LowUndefinedIdentifier   Code = 3006
	LowInternal              Code = 3999
)

// ID renders the stable code identifier shown to users.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LOW%04d", ic)
	default:
		return fmt.Sprintf("CANDY%04d", ic)
	}
}

func (c Code) String() string {
	return c.ID()
}

var codeDescription = map[Code]string{
	UnknownCode:              "unknown error",
	LexUnknownChar:           "unknown character",
	LexUnterminatedString:    "unterminated string literal",
	LexBadNumber:             "malformed number literal",
	LexBadEscape:             "invalid escape sequence",
	LexUnclosedInterp:        "unclosed string interpolation",
	SynUnexpectedToken:       "unexpected token",
	SynExpectIdentifier:      "expected an identifier",
	SynExpectType:            "expected a type",
	SynExpectExpression:      "expected an expression",
	SynUnclosedBrace:         "unclosed '{'",
	SynUnclosedParen:         "unclosed '('",
	SynUnexpectedTopItem:     "unexpected top-level item",
	LowUnsupportedFeature:    "unsupported expression",
	LowInvalidExpressionType: "expression type does not match the expected type",
	LowAmbiguousExpression:   "ambiguous expression",
	LowMissingReturn:         "missing return value",
	LowInvalidReturnLabel:    "no enclosing scope matches this return",
	LowUndefinedIdentifier:   "undefined identifier",
	LowInternal:              "internal compiler error",
}

// Title returns a short description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}
