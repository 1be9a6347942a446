package parser

import (
	"fmt"

	"github.com/quark-lang/quark-lang/internal/ast"
	"github.com/quark-lang/quark-lang/internal/diag"
	"github.com/quark-lang/quark-lang/internal/lexer"
)

// Option configures a Parser.
type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted diagnostics to
// the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// ParseError is a fatal parse error carrying the offending token's kind and
// source position. The parser does not resynchronize: the first error aborts
// the parse of the current compilation unit.
type ParseError struct {
	Message  string
	Tok      lexer.Token
	Code     diag.Code
	Filename string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Tok.Line, e.Message)
}

// ToDiagnostic converts the error into a shared diagnostic structure.
func (e *ParseError) ToDiagnostic() diag.Diagnostic {
	code := e.Code
	if code == "" {
		code = diag.CodeParseUnexpectedToken
	}
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Filename,
			Line:     e.Tok.Line,
			Column:   e.Tok.Column,
		},
	}
}

// Parser is a recursive-descent parser over a normalized token stream.
// Invariants:
//   - toks is an immutable, EOF-terminated buffer produced by
//     lexer.Normalize; the parser never mutates it, only advances pos.
//   - cur() always reflects the token under examination; prev is the last
//     consumed token. Lookahead beyond cur goes through peek(n) and never
//     moves the cursor.
//   - All state is local to one instance, so independent compilation units
//     can parse concurrently without shared buffers.
type Parser struct {
	toks []lexer.Token
	pos  int
	prev lexer.Token

	filename string
}

// New returns a parser over an already-normalized token stream.
func New(toks []lexer.Token, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Defensive: the parser relies on an EOF-terminated buffer.
	if len(toks) == 0 || toks[len(toks)-1].Kind != lexer.EOF {
		toks = append(toks, lexer.Token{Kind: lexer.EOF, Line: 1, Column: 1})
	}

	return &Parser{
		toks:     toks,
		filename: cfg.filename,
	}
}

// ParseSource runs the full pipeline over source text: scan, normalize,
// parse. Each stage returns early on failure; the first lexical error fails
// the compilation even though the scanner keeps going for diagnostics.
func ParseSource(src string, opts ...Option) (*ast.Node, error) {
	s := lexer.New(src)
	toks := s.Scan()
	if len(s.Errors) > 0 {
		return nil, s.Errors[0]
	}

	normalized, err := lexer.Normalize(toks)
	if err != nil {
		return nil, err
	}

	return New(normalized, opts...).Parse()
}

// Parse parses a full compilation unit.
func (p *Parser) Parse() (*ast.Node, error) {
	unit := ast.New(ast.CompilationUnit, nil)

	for p.cur().Kind != lexer.EOF {
		if p.cur().Kind == lexer.NEWLINE {
			if _, err := p.consume(); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		unit.Add(stmt)
	}

	return unit, nil
}

// cur returns the token under examination. The EOF terminator is never
// consumed past (consume errors instead), so the index stays in range.
func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

// peek returns the token n positions ahead of cur without advancing. Peeks
// beyond the end of the buffer return the EOF terminator.
func (p *Parser) peek(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

// consume returns the current token and advances past it. Consuming past the
// final EOF token is a parse error, not a silent success.
func (p *Parser) consume() (lexer.Token, error) {
	if p.pos >= len(p.toks)-1 && p.toks[p.pos].Kind == lexer.EOF {
		return lexer.Token{}, &ParseError{
			Message:  "unexpected end of input",
			Tok:      p.toks[p.pos],
			Code:     diag.CodeParseUnexpectedEOF,
			Filename: p.filename,
		}
	}
	p.prev = p.toks[p.pos]
	p.pos++
	return p.prev, nil
}

// expect consumes the current token if it has the wanted kind, and errors
// with the expected and actual kinds otherwise.
func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	if p.cur().Kind == kind {
		return p.consume()
	}
	return lexer.Token{}, &ParseError{
		Message:  fmt.Sprintf("expected %s but got %s", kind, p.cur().Kind),
		Tok:      p.cur(),
		Code:     diag.CodeParseUnexpectedToken,
		Filename: p.filename,
	}
}

// errorf builds a ParseError at the given token.
func (p *Parser) errorf(tok lexer.Token, code diag.Code, format string, args ...any) *ParseError {
	return &ParseError{
		Message:  fmt.Sprintf(format, args...),
		Tok:      tok,
		Code:     code,
		Filename: p.filename,
	}
}
