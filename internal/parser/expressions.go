package parser

import (
	"github.com/quark-lang/quark-lang/internal/ast"
	"github.com/quark-lang/quark-lang/internal/diag"
	"github.com/quark-lang/quark-lang/internal/lexer"
)

// Precedence levels, lowest to highest. Application sits between unary and
// access so juxtaposition binds tighter than any explicit operator while
// still losing to member access and grouping.
const (
	precedenceLowest = iota
	precedenceAssignment
	precedencePipe
	precedenceComma
	precedenceTernary
	precedenceLogicalOr
	precedenceLogicalAnd
	precedenceBitwiseAnd
	precedenceEquality
	precedenceComparison
	precedenceRange
	precedenceTerm
	precedenceFactor
	precedenceExponent
	precedenceUnary
	precedenceApplication
	precedenceAccess
)

type (
	prefixParseFn func(*Parser) (*ast.Node, error)
	infixParseFn  func(*Parser, *ast.Node) (*ast.Node, error)
)

type exprRule struct {
	precedence int
	prefix     prefixParseFn
	infix      infixParseFn
}

// exprRules maps each token kind to its precedence and handlers. The table
// is fixed-size and indexed by the closed Kind enumeration; kinds without an
// entry keep the zero rule (no prefix, no infix, lowest precedence).
var exprRules [lexer.KindCount]exprRule

// The table is built in init rather than a var initializer to break the
// initialization cycle between exprRules and the parse methods it names.
func init() {
	var t [lexer.KindCount]exprRule

	t[lexer.EQUALS] = exprRule{precedenceAssignment, nil, (*Parser).parseBinary}
	t[lexer.PIPE] = exprRule{precedencePipe, nil, (*Parser).parsePipe}

	// Comma carries a precedence so pattern parsing can name it, but it has
	// no handlers: a comma unconditionally terminates a single expression
	// parse, and comma-separated lists are assembled by the call sites that
	// expect them.
	t[lexer.COMMA] = exprRule{precedence: precedenceComma}

	t[lexer.OR] = exprRule{precedenceLogicalOr, nil, (*Parser).parseBinary}
	t[lexer.AND] = exprRule{precedenceLogicalAnd, nil, (*Parser).parseBinary}
	t[lexer.AMPER] = exprRule{precedenceBitwiseAnd, nil, (*Parser).parseBinary}

	t[lexer.DEQ] = exprRule{precedenceEquality, nil, (*Parser).parseBinary}
	t[lexer.NE] = exprRule{precedenceEquality, nil, (*Parser).parseBinary}

	t[lexer.LT] = exprRule{precedenceComparison, nil, (*Parser).parseBinary}
	t[lexer.LTE] = exprRule{precedenceComparison, nil, (*Parser).parseBinary}
	t[lexer.GT] = exprRule{precedenceComparison, nil, (*Parser).parseBinary}
	t[lexer.GTE] = exprRule{precedenceComparison, nil, (*Parser).parseBinary}

	t[lexer.DOTDOT] = exprRule{precedenceRange, nil, (*Parser).parseBinary}

	t[lexer.PLUS] = exprRule{precedenceTerm, nil, (*Parser).parseBinary}
	t[lexer.MINUS] = exprRule{precedenceTerm, (*Parser).parseUnary, (*Parser).parseBinary}

	t[lexer.MULTIPLY] = exprRule{precedenceFactor, nil, (*Parser).parseBinary}
	t[lexer.DIVIDE] = exprRule{precedenceFactor, nil, (*Parser).parseBinary}
	t[lexer.MODULO] = exprRule{precedenceFactor, nil, (*Parser).parseBinary}

	t[lexer.DOUBLESTAR] = exprRule{precedenceExponent, nil, (*Parser).parseExponent}

	t[lexer.BANG] = exprRule{precedenceUnary, (*Parser).parseUnary, nil}
	t[lexer.TILDE] = exprRule{precedenceUnary, (*Parser).parseUnary, nil}

	t[lexer.INT] = exprRule{precedenceAccess, (*Parser).parseNumber, nil}
	t[lexer.FLOAT] = exprRule{precedenceAccess, (*Parser).parseNumber, nil}
	t[lexer.STR] = exprRule{precedenceAccess, (*Parser).parseString, nil}
	t[lexer.ID] = exprRule{precedenceAccess, (*Parser).parseIdentifier, nil}
	t[lexer.LPAR] = exprRule{precedenceAccess, (*Parser).parseGrouped, (*Parser).parseCallParen}
	t[lexer.LBRACKET] = exprRule{precedenceAccess, (*Parser).parseListLiteral, nil}
	t[lexer.LBRACE] = exprRule{precedenceAccess, (*Parser).parseMapLiteral, nil}
	t[lexer.UNDERSCORE] = exprRule{precedenceAccess, (*Parser).parseWildcard, nil}

	t[lexer.DOT] = exprRule{precedenceAccess, nil, (*Parser).parseMemberAccess}

	exprRules = t
}

// canStartExpression reports whether a token kind can begin an expression.
// The set gates juxtaposition-based function application.
func canStartExpression(kind lexer.Kind) bool {
	switch kind {
	case lexer.ID, lexer.INT, lexer.FLOAT, lexer.STR,
		lexer.LPAR, lexer.LBRACKET, lexer.LBRACE,
		lexer.UNDERSCORE, lexer.BANG, lexer.TILDE, lexer.MINUS:
		return true
	}
	return false
}

// isExprTerminator reports whether a token kind unconditionally ends a
// single expression parse. Comma and colon are in the set; the call sites
// that expect comma-separated lists or colon-delimited clauses consume them
// explicitly.
func isExprTerminator(kind lexer.Kind) bool {
	switch kind {
	case lexer.RPAR, lexer.NEWLINE, lexer.RBRACKET, lexer.RBRACE,
		lexer.EOF, lexer.COMMA, lexer.COLON:
		return true
	}
	return false
}

// parseExpression parses one expression at the default (assignment-level)
// precedence.
func (p *Parser) parseExpression() (*ast.Node, error) {
	return p.parseExprPrecedence(precedenceAssignment)
}

// parseExprPrecedence is the precedence-climbing core: consume a prefix,
// then fold in ternaries, juxtaposed applications and infix operators while
// the current token binds at least as tightly as min.
func (p *Parser) parseExprPrecedence(min int) (*ast.Node, error) {
	// 'if' never starts an expression; it only continues one as the
	// ternary-as-infix operator.
	if p.cur().Kind == lexer.IF {
		return nil, p.errorf(p.cur(), diag.CodeParseExpectedExpr,
			"expected expression, got %s", p.cur().Kind)
	}

	tok, err := p.consume()
	if err != nil {
		return nil, err
	}
	prefix := exprRules[tok.Kind].prefix
	if prefix == nil {
		return nil, p.errorf(tok, diag.CodeParseExpectedExpr,
			"expected expression, got %s", tok.Kind)
	}
	left, err := prefix(p)
	if err != nil {
		return nil, err
	}

	for !isExprTerminator(p.cur().Kind) {
		cur := p.cur()

		if cur.Kind == lexer.IF {
			if min > precedenceTernary {
				break
			}
			left, err = p.parseTernary(left)
			if err != nil {
				return nil, err
			}
			continue
		}

		rule := exprRules[cur.Kind]

		// Juxtaposition: an expression followed by an expression starter
		// with no operator binding at this level is a call.
		if canStartExpression(cur.Kind) && min <= precedenceApplication &&
			(rule.infix == nil || rule.precedence < min) {
			left, err = p.parseApplication(left)
			if err != nil {
				return nil, err
			}
			continue
		}

		if rule.precedence < min || rule.infix == nil {
			break
		}
		if _, err := p.consume(); err != nil {
			return nil, err
		}
		left, err = rule.infix(p, left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) parseIdentifier() (*ast.Node, error) {
	tok := p.prev
	return ast.New(ast.Identifier, &tok), nil
}

func (p *Parser) parseNumber() (*ast.Node, error) {
	tok := p.prev
	return ast.New(ast.Literal, &tok), nil
}

func (p *Parser) parseString() (*ast.Node, error) {
	tok := p.prev
	return ast.New(ast.Literal, &tok), nil
}

// parseWildcard handles a bare underscore. It is only meaningful inside
// pattern clauses; later stages reject it elsewhere.
func (p *Parser) parseWildcard() (*ast.Node, error) {
	tok := p.prev
	return ast.New(ast.Identifier, &tok), nil
}

func (p *Parser) parseUnary() (*ast.Node, error) {
	tok := p.prev
	operand, err := p.parseExprPrecedence(precedenceUnary)
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Operator, &tok, operand), nil
}

// parseBinary is the left-associative default: the right operand is parsed
// one level above the operator's own precedence.
func (p *Parser) parseBinary(left *ast.Node) (*ast.Node, error) {
	tok := p.prev
	right, err := p.parseExprPrecedence(exprRules[tok.Kind].precedence + 1)
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Operator, &tok, left, right), nil
}

// parseExponent recurses at the same precedence instead of one above, which
// makes ** right-associative: 2 ** 3 ** 2 groups as 2 ** (3 ** 2).
func (p *Parser) parseExponent(left *ast.Node) (*ast.Node, error) {
	tok := p.prev
	right, err := p.parseExprPrecedence(precedenceExponent)
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Operator, &tok, left, right), nil
}

// parsePipe builds a Pipe node; the semantics of feeding the left side into
// the right are a later stage's concern.
func (p *Parser) parsePipe(left *ast.Node) (*ast.Node, error) {
	tok := p.prev
	right, err := p.parseExprPrecedence(precedencePipe + 1)
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Pipe, &tok, left, right), nil
}

// parseMemberAccess requires exactly one identifier on the right of the dot,
// not a general expression.
func (p *Parser) parseMemberAccess(left *ast.Node) (*ast.Node, error) {
	tok := p.prev
	nameTok, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}
	name := ast.New(ast.Identifier, &nameTok)
	return ast.New(ast.Operator, &tok, left, name), nil
}

func (p *Parser) parseGrouped() (*ast.Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAR); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseListLiteral parses zero or more comma-separated elements; a trailing
// comma is not required.
func (p *Parser) parseListLiteral() (*ast.Node, error) {
	tok := p.prev
	node := ast.New(ast.Literal, &tok)

	if p.cur().Kind != lexer.RBRACKET {
		for {
			elem, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			node.Add(elem)
			if p.cur().Kind != lexer.COMMA {
				break
			}
			if _, err := p.consume(); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return node, nil
}

// parseMapLiteral parses zero or more "identifier : expression" pairs, each
// represented as a two-child Operator node carrying the colon token.
func (p *Parser) parseMapLiteral() (*ast.Node, error) {
	tok := p.prev
	node := ast.New(ast.Literal, &tok)

	if p.cur().Kind != lexer.RBRACE {
		for {
			keyTok, err := p.expect(lexer.ID)
			if err != nil {
				return nil, err
			}
			key := ast.New(ast.Identifier, &keyTok)

			colonTok, err := p.expect(lexer.COLON)
			if err != nil {
				return nil, err
			}

			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			node.Add(ast.New(ast.Operator, &colonTok, key, value))

			if p.cur().Kind != lexer.COMMA {
				break
			}
			if _, err := p.consume(); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return node, nil
}

// parseTernary rewrites the already-parsed expression as the true branch of
// a ternary: <true> if <condition> else <false>. The false branch is parsed
// at ternary precedence, so ternaries chain through it.
func (p *Parser) parseTernary(trueBranch *ast.Node) (*ast.Node, error) {
	ifTok, err := p.expect(lexer.IF)
	if err != nil {
		return nil, err
	}

	condition, err := p.parseExprPrecedence(precedenceTernary + 1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ELSE); err != nil {
		return nil, err
	}
	falseBranch, err := p.parseExprPrecedence(precedenceTernary)
	if err != nil {
		return nil, err
	}

	return ast.New(ast.Ternary, &ifTok, condition, trueBranch, falseBranch), nil
}

// parseCallParen handles an explicit parenthesized call: the opening paren
// has already been consumed as an infix continuation of the callee. Commas
// separate arguments here because this is one of the call sites that expects
// a comma-separated list.
func (p *Parser) parseCallParen(callee *ast.Node) (*ast.Node, error) {
	args := ast.New(ast.Arguments, nil)

	if p.cur().Kind != lexer.RPAR {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args.Add(arg)
			if p.cur().Kind != lexer.COMMA {
				break
			}
			if _, err := p.consume(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(lexer.RPAR); err != nil {
		return nil, err
	}

	return ast.New(ast.FunctionCall, nil, callee, args), nil
}

// parseApplication handles juxtaposition-based calls. Arguments parse at
// Term precedence, deliberately looser than Application, so trailing
// arithmetic binds into the argument: "fact n - 1" is fact(n - 1), not
// fact(n) - 1. Additional comma-separated arguments are consumed greedily as
// long as what follows the comma can start an expression.
func (p *Parser) parseApplication(callee *ast.Node) (*ast.Node, error) {
	args := ast.New(ast.Arguments, nil)

	arg, err := p.parseExprPrecedence(precedenceTerm)
	if err != nil {
		return nil, err
	}
	args.Add(arg)

	for p.cur().Kind == lexer.COMMA && canStartExpression(p.peek(1).Kind) {
		if _, err := p.consume(); err != nil {
			return nil, err
		}
		arg, err := p.parseExprPrecedence(precedenceTerm)
		if err != nil {
			return nil, err
		}
		args.Add(arg)
	}

	return ast.New(ast.FunctionCall, nil, callee, args), nil
}
