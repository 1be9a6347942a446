package lexer

import "fmt"

// Kind identifies the type of a token. The enumeration is closed: the
// scanner and normalizer never emit a kind outside this list, and the
// parser's rule table is indexed by it.
type Kind uint8

const (
	// Structural tokens. WS and NEWLINE are produced by the scanner;
	// INDENT, DEDENT and EOF are synthesized by the normalizer.
	EOF Kind = iota
	WS
	NEWLINE
	INDENT
	DEDENT

	// Identifiers and literals
	ID
	INT
	FLOAT
	STR

	// Keywords
	USE
	MODULE
	IN
	AND
	OR
	IF
	ELSEIF
	ELSE
	FOR
	WHILE
	WHEN
	FN
	CLASS

	// Operators and punctuation
	PLUS       // +
	MINUS      // -
	MULTIPLY   // *
	DIVIDE     // /
	MODULO     // %
	AMPER      // &
	TILDE      // ~
	BANG       // !
	EQUALS     // =
	LT         // <
	GT         // >
	LTE        // <=
	GTE        // >=
	DEQ        // ==
	NE         // !=
	DOTDOT     // ..
	DOUBLESTAR // **
	PIPE       // |
	DOT        // .
	COMMA      // ,
	COLON      // :
	AT         // @
	UNDERSCORE // _

	// Grouping
	LPAR     // (
	RPAR     // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }

	// KindCount is the size of the enumeration, used for fixed-size
	// dispatch tables.
	KindCount
)

var kindNames = [KindCount]string{
	EOF:        "EOF",
	WS:         "WS",
	NEWLINE:    "NEWLINE",
	INDENT:     "INDENT",
	DEDENT:     "DEDENT",
	ID:         "ID",
	INT:        "INT",
	FLOAT:      "FLOAT",
	STR:        "STR",
	USE:        "USE",
	MODULE:     "MODULE",
	IN:         "IN",
	AND:        "AND",
	OR:         "OR",
	IF:         "IF",
	ELSEIF:     "ELSEIF",
	ELSE:       "ELSE",
	FOR:        "FOR",
	WHILE:      "WHILE",
	WHEN:       "WHEN",
	FN:         "FN",
	CLASS:      "CLASS",
	PLUS:       "+",
	MINUS:      "-",
	MULTIPLY:   "*",
	DIVIDE:     "/",
	MODULO:     "%",
	AMPER:      "&",
	TILDE:      "~",
	BANG:       "!",
	EQUALS:     "=",
	LT:         "<",
	GT:         ">",
	LTE:        "<=",
	GTE:        ">=",
	DEQ:        "==",
	NE:         "!=",
	DOTDOT:     "..",
	DOUBLESTAR: "**",
	PIPE:       "|",
	DOT:        ".",
	COMMA:      ",",
	COLON:      ":",
	AT:         "@",
	UNDERSCORE: "_",
	LPAR:       "(",
	RPAR:       ")",
	LBRACKET:   "[",
	RBRACKET:   "]",
	LBRACE:     "{",
	RBRACE:     "}",
}

// String returns a human-readable name for the kind, used in diagnostics.
func (k Kind) String() string {
	if k < KindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token is a lexical unit. Tokens are immutable once produced by the
// scanner; the normalizer only sets the derived AtLineStart and MustIndent
// flags while tagging the stream.
type Token struct {
	Kind   Kind
	Text   string  // rendered text: identifier name, operator symbol, string value
	Int    int64   // decoded value when Kind == INT
	Float  float64 // decoded value when Kind == FLOAT
	Line   int     // 1-based source line
	Column int     // 1-based source column
	Width  int     // rune width of a WS token's leading whitespace run

	// Set by the normalizer's tagging pass.
	AtLineStart bool
	MustIndent  bool
}

// String renders the token for debug output and test failure messages.
func (t Token) String() string {
	switch t.Kind {
	case INT:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Int)
	case FLOAT:
		return fmt.Sprintf("%s(%g)", t.Kind, t.Float)
	case ID, STR:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}

var keywords = map[string]Kind{
	"use":    USE,
	"module": MODULE,
	"in":     IN,
	"and":    AND,
	"or":     OR,
	"if":     IF,
	"elseif": ELSEIF,
	"else":   ELSE,
	"for":    FOR,
	"while":  WHILE,
	"when":   WHEN,
	"fn":     FN,
	"class":  CLASS,
}

// LookupIdent reclassifies an identifier that exactly matches a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return ID
}
