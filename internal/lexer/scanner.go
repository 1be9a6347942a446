package lexer

import (
	"strconv"

	"github.com/quark-lang/quark-lang/internal/diag"
)

// LexErrorKind discriminates scanner errors.
type LexErrorKind int

const (
	ErrIllegalChar LexErrorKind = iota
	ErrUnterminatedString
	ErrBadNumber
)

// LexError records a scanner error. The scanner skips past the offending
// input and keeps going so the rest of the line still produces diagnostics,
// but a compilation with any LexError is considered failed.
type LexError struct {
	Kind    LexErrorKind
	Message string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return "lex error at " + strconv.Itoa(e.Line) + ":" + strconv.Itoa(e.Column) + ": " + e.Message
}

func (k LexErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrIllegalChar:
		return diag.CodeLexIllegalChar
	case ErrUnterminatedString:
		return diag.CodeLexUnterminatedString
	case ErrBadNumber:
		return diag.CodeLexBadNumber
	default:
		return diag.Code("LEX_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a scanner error into a shared diagnostic structure.
func (e *LexError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Line:   e.Line,
			Column: e.Column,
		},
	}
}

// Scanner turns source text into a flat sequence of primitive tokens.
// All state is local to one instance: separate compilations never share a
// paren-depth counter or line-start flag.
type Scanner struct {
	input       []rune
	pos         int  // index of the current rune
	ch          rune // current rune (0 = end of input)
	line        int  // 1-based line of ch
	column      int  // 1-based column of ch
	parens      int  // open-parenthesis depth
	atLineStart bool // ch is the first rune of its line

	Errors []*LexError
}

// New creates a scanner for the given source text.
func New(input string) *Scanner {
	s := &Scanner{
		input:       []rune(input),
		pos:         -1,
		line:        1,
		column:      0,
		atLineStart: true,
	}
	s.read()
	return s
}

// ParenDepth reports the current open-parenthesis depth. It gates the
// line-start whitespace and newline folding rules and is exposed so the
// normalizer and tests can observe it.
func (s *Scanner) ParenDepth() int {
	return s.parens
}

// Scan consumes the whole input and returns the primitive token stream.
// The stream carries no EOF marker; the normalizer appends one.
func (s *Scanner) Scan() []Token {
	var toks []Token
	for {
		tok := s.Next()
		if tok.Kind == EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func (s *Scanner) addError(kind LexErrorKind, msg string, line, column int) {
	s.Errors = append(s.Errors, &LexError{
		Kind:    kind,
		Message: msg,
		Line:    line,
		Column:  column,
	})
}

// read advances to the next rune, maintaining line/column so they always
// describe the position of ch.
func (s *Scanner) read() {
	prev := s.pos
	s.pos++

	if prev >= 0 && prev < len(s.input) && s.input[prev] == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}

	if s.pos >= len(s.input) {
		s.ch = 0
		return
	}
	s.ch = s.input[s.pos]
}

// peek returns the rune after ch without advancing.
func (s *Scanner) peek() rune {
	if s.pos+1 >= len(s.input) {
		return 0
	}
	return s.input[s.pos+1]
}

// Next returns the next primitive token. At end of input it returns an EOF
// token; the normalizer replaces it with a properly positioned one after
// flushing dedents.
func (s *Scanner) Next() Token {
	for {
		switch {
		case s.ch == 0:
			return Token{Kind: EOF, Line: s.line, Column: s.column}

		case s.ch == ' ' || s.ch == '\t':
			tok, emit := s.scanWhitespace()
			if emit {
				return tok
			}

		case s.ch == '\n' || s.ch == '\r':
			tok, emit := s.scanNewlines()
			if emit {
				return tok
			}

		case s.ch == '/' && s.peek() == '/':
			for s.ch != '\n' && s.ch != 0 {
				s.read()
			}

		default:
			return s.scanToken()
		}
	}
}

// scanWhitespace consumes a run of spaces and tabs. The run is only a token
// when it is the leading indentation of a line outside any parentheses;
// everywhere else it is discarded.
func (s *Scanner) scanWhitespace() (Token, bool) {
	line, column := s.line, s.column
	lineStart := s.atLineStart
	width := 0
	for s.ch == ' ' || s.ch == '\t' {
		width++
		s.read()
	}
	if lineStart && s.parens == 0 {
		return Token{Kind: WS, Line: line, Column: column, Width: width}, true
	}
	return Token{}, false
}

// scanNewlines folds a run of line terminators into a single NEWLINE token.
// Inside parentheses the newlines still advance line bookkeeping but emit
// nothing, so wrapped expressions do not break statements.
func (s *Scanner) scanNewlines() (Token, bool) {
	line, column := s.line, s.column
	for s.ch == '\n' || s.ch == '\r' {
		s.read()
	}
	s.atLineStart = true
	if s.parens == 0 {
		return Token{Kind: NEWLINE, Text: "\n", Line: line, Column: column}, true
	}
	return Token{}, false
}

func (s *Scanner) scanToken() Token {
	line, column := s.line, s.column
	s.atLineStart = false

	switch {
	case isLetter(s.ch):
		return s.scanIdentifier(line, column)
	case isDigit(s.ch) || (s.ch == '.' && isDigit(s.peek())):
		return s.scanNumber(line, column)
	case s.ch == '\'' || s.ch == '"':
		return s.scanString(line, column)
	}

	make1 := func(kind Kind) Token {
		text := string(s.ch)
		s.read()
		return Token{Kind: kind, Text: text, Line: line, Column: column}
	}
	make2 := func(kind Kind) Token {
		text := string(s.ch) + string(s.peek())
		s.read()
		s.read()
		return Token{Kind: kind, Text: text, Line: line, Column: column}
	}

	// Multi-character operators are matched before their single-character
	// prefixes.
	switch s.ch {
	case '*':
		if s.peek() == '*' {
			return make2(DOUBLESTAR)
		}
		return make1(MULTIPLY)
	case '.':
		if s.peek() == '.' {
			return make2(DOTDOT)
		}
		return make1(DOT)
	case '<':
		if s.peek() == '=' {
			return make2(LTE)
		}
		return make1(LT)
	case '>':
		if s.peek() == '=' {
			return make2(GTE)
		}
		return make1(GT)
	case '=':
		if s.peek() == '=' {
			return make2(DEQ)
		}
		return make1(EQUALS)
	case '!':
		if s.peek() == '=' {
			return make2(NE)
		}
		return make1(BANG)
	case '+':
		return make1(PLUS)
	case '-':
		return make1(MINUS)
	case '/':
		return make1(DIVIDE)
	case '%':
		return make1(MODULO)
	case '&':
		return make1(AMPER)
	case '~':
		return make1(TILDE)
	case '|':
		return make1(PIPE)
	case ',':
		return make1(COMMA)
	case ':':
		return make1(COLON)
	case '@':
		return make1(AT)
	case '(':
		s.parens++
		return make1(LPAR)
	case ')':
		// Underflow is the parser's problem; the counter just tracks depth.
		s.parens--
		return make1(RPAR)
	case '[':
		return make1(LBRACKET)
	case ']':
		return make1(RBRACKET)
	case '{':
		return make1(LBRACE)
	case '}':
		return make1(RBRACE)
	}

	// Unrecognized character: record and skip one rune so the rest of the
	// line still scans.
	s.addError(ErrIllegalChar, "illegal character "+strconv.Quote(string(s.ch)), line, column)
	s.read()
	return s.Next()
}

func (s *Scanner) scanIdentifier(line, column int) Token {
	start := s.pos
	for isLetter(s.ch) || isDigit(s.ch) {
		s.read()
	}
	text := string(s.input[start:s.pos])
	kind := LookupIdent(text)
	if text == "_" {
		kind = UNDERSCORE
	}
	return Token{Kind: kind, Text: text, Line: line, Column: column}
}

// scanNumber reads an integer or float literal. A float requires a literal
// dot (either side of it may be empty of digits); a dot followed by a second
// dot belongs to the range operator and is left unconsumed, so "1..5" scans
// as INT DOTDOT INT.
func (s *Scanner) scanNumber(line, column int) Token {
	start := s.pos
	for isDigit(s.ch) {
		s.read()
	}

	isFloat := false
	if s.ch == '.' && s.peek() != '.' {
		isFloat = true
		s.read()
		for isDigit(s.ch) {
			s.read()
		}
	}

	text := string(s.input[start:s.pos])
	if isFloat {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			s.addError(ErrBadNumber, "malformed float literal "+strconv.Quote(text), line, column)
		}
		return Token{Kind: FLOAT, Text: text, Float: value, Line: line, Column: column}
	}

	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		s.addError(ErrBadNumber, "integer literal out of range "+strconv.Quote(text), line, column)
	}
	return Token{Kind: INT, Text: text, Int: value, Line: line, Column: column}
}

// scanString reads a quoted literal delimited by either ' or ". The
// delimiters are stripped from the stored value; escape sequences are kept
// verbatim (decoding is a later stage's job), but an escaped delimiter does
// not terminate the literal.
func (s *Scanner) scanString(line, column int) Token {
	quote := s.ch
	s.read() // opening quote

	var value []rune
	for {
		switch s.ch {
		case 0, '\n', '\r':
			s.addError(ErrUnterminatedString, "unterminated string literal", line, column)
			return Token{Kind: STR, Text: string(value), Line: line, Column: column}
		case quote:
			s.read() // closing quote
			return Token{Kind: STR, Text: string(value), Line: line, Column: column}
		case '\\':
			value = append(value, s.ch)
			s.read()
			if s.ch != 0 && s.ch != '\n' && s.ch != '\r' {
				value = append(value, s.ch)
				s.read()
			}
		default:
			value = append(value, s.ch)
			s.read()
		}
	}
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
