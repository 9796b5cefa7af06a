package lexer

import "github.com/aledsdavies/coffeescan/pkgs/token"

// symbolEntry is one row of the common table: a literal string and the kind
// it scans as. Multi-character forms are listed ahead of the single-character
// prefixes they shadow — "->" must be tried before "-",
// "==" before "=", and so on. The scanner walks this slice in order and takes
// the first match, so ordering here is load-bearing.
type symbolEntry struct {
	lit  string
	kind token.Kind
}

var symbolTable = []symbolEntry{
	// Three-character forms first.
	{"...", token.ELLIPSIS},
	{">>>", token.OPERATOR},

	// Two-character forms.
	{"->", token.FUNC},
	{"=>", token.FUNC},
	{"++", token.UNARY_MATH},
	{"--", token.UNARY_MATH},
	{"==", token.OPERATOR},
	{"!=", token.OPERATOR},
	{">=", token.OPERATOR},
	{"<=", token.OPERATOR},
	{"+=", token.ASSIGN_OPERATOR},
	{"-=", token.ASSIGN_OPERATOR},
	{"*=", token.ASSIGN_OPERATOR},
	{"/=", token.ASSIGN_OPERATOR},
	{"^=", token.ASSIGN_OPERATOR},
	{"|=", token.ASSIGN_OPERATOR},
	{"<<", token.OPERATOR},
	{">>", token.OPERATOR},
	{"::", token.PROTO},

	// Single-character forms.
	{"+", token.UNARY_MATH},
	{"-", token.UNARY_MATH},
	{"*", token.OPERATOR},
	{"/", token.OPERATOR},
	{"^", token.OPERATOR},
	{"|", token.OPERATOR},
	{"&", token.OPERATOR},
	{">", token.OPERATOR},
	{"<", token.OPERATOR},
	{"=", token.ASSIGN_OPERATOR},
	{"!", token.UNARY},
	{"@", token.SHORT_THIS},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
	{",", token.COMMA},
	{";", token.SEMICOLON},
	{":", token.COLON},
	{".", token.DOT},
}

// keywordTable maps whole-word keywords to their kind. Matching requires a
// non-identifier boundary after the word (see Scanner.scanIdentifierOrKeyword),
// so "return1" stays one identifier instead of splitting into a keyword and
// a number.
var keywordTable = map[string]token.Kind{
	"return":    token.RETURN,
	"if":        token.IF,
	"unless":    token.UNLESS,
	"then":      token.THEN,
	"else":      token.ELSE,
	"for":       token.FOR,
	"until":     token.UNTIL,
	"loop":      token.LOOP,
	"in":        token.IN,
	"of":        token.OF,
	"break":     token.BREAK,
	"continue":  token.CONTINUE,
	"true":      token.BUILTIN_PRIMARY,
	"false":     token.BUILTIN_PRIMARY,
	"undefined": token.BUILTIN_PRIMARY,
	"null":      token.BUILTIN_PRIMARY,
	"this":      token.LONG_THIS,
	"is":        token.OPERATOR,
	"isnt":      token.OPERATOR,
	"not":       token.UNARY,
}
