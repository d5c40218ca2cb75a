package token

var keywords = map[string]Kind{
	"fun":      KwFun,
	"let":      KwLet,
	"mut":      KwMut,
	"class":    KwClass,
	"trait":    KwTrait,
	"impl":     KwImpl,
	"static":   KwStatic,
	"return":   KwReturn,
	"if":       KwIf,
	"else":     KwElse,
	"loop":     KwLoop,
	"while":    KwWhile,
	"break":    KwBreak,
	"continue": KwContinue,
	"this":     KwThis,
	"super":    KwSuper,
	"true":     KwTrue,
	"false":    KwFalse,
}

// LookupKeyword maps an identifier spelling to its keyword kind, if any.
func LookupKeyword(s string) (Kind, bool) {
	k, ok := keywords[s]
	return k, ok
}
