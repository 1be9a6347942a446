package parser

import (
	"github.com/quark-lang/quark-lang/internal/ast"
	"github.com/quark-lang/quark-lang/internal/diag"
	"github.com/quark-lang/quark-lang/internal/lexer"
)

// parseStatement dispatches on the current token kind. A function
// definition is recognized either by a leading 'fn' or by an identifier
// whose second-following token is 'fn' (the "name = fn ...:" form).
func (p *Parser) parseStatement() (*ast.Node, error) {
	switch p.cur().Kind {
	case lexer.IF:
		return p.parseIf()
	case lexer.WHEN:
		return p.parseWhen()
	case lexer.FOR:
		return p.parseFor()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FN:
		return p.parseFunction()
	case lexer.AT:
		if _, err := p.consume(); err != nil {
			return nil, err
		}
		return p.parseDirectiveCall()
	default:
		if p.cur().Kind == lexer.ID && p.peek(2).Kind == lexer.FN {
			return p.parseFunction()
		}
		return p.parseExpression()
	}
}

// parseBlock parses either an indented suite (NEWLINE INDENT statements
// DEDENT) or an inline statement list terminated by NEWLINE or EOF. Both
// forms produce structurally identical Block nodes.
func (p *Parser) parseBlock() (*ast.Node, error) {
	block := ast.New(ast.Block, nil)

	if p.cur().Kind == lexer.NEWLINE && p.peek(1).Kind == lexer.INDENT {
		if _, err := p.expect(lexer.NEWLINE); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.INDENT); err != nil {
			return nil, err
		}
		for p.cur().Kind != lexer.DEDENT {
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
			block.Add(stmt)
		}
		if _, err := p.expect(lexer.DEDENT); err != nil {
			return nil, err
		}
		return block, nil
	}

	// Inline form.
	for p.cur().Kind != lexer.NEWLINE && p.cur().Kind != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Add(stmt)
	}
	if p.cur().Kind == lexer.NEWLINE {
		if _, err := p.consume(); err != nil {
			return nil, err
		}
	}
	return block, nil
}

// parseIf parses an if/elseif/else chain. Each elseif clause is recorded as
// a nested IfStatement child; a trailing else contributes a bare Block.
func (p *Parser) parseIf() (*ast.Node, error) {
	ifTok, err := p.expect(lexer.IF)
	if err != nil {
		return nil, err
	}
	node := ast.New(ast.IfStatement, &ifTok)

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	node.Add(condition, body)

	for p.cur().Kind == lexer.ELSEIF {
		elseifTok, err := p.consume()
		if err != nil {
			return nil, err
		}
		elseifCondition, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		elseifBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		node.Add(ast.New(ast.IfStatement, &elseifTok, elseifCondition, elseifBody))
	}

	if p.cur().Kind == lexer.ELSE {
		if _, err := p.consume(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		node.Add(elseBody)
	}

	return node, nil
}

// parseWhen parses a pattern-match statement: subject expression, then an
// indented suite of pattern clauses.
func (p *Parser) parseWhen() (*ast.Node, error) {
	whenTok, err := p.expect(lexer.WHEN)
	if err != nil {
		return nil, err
	}
	node := ast.New(ast.WhenStatement, &whenTok)

	subject, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	node.Add(subject)

	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.NEWLINE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.INDENT); err != nil {
		return nil, err
	}

	for p.cur().Kind != lexer.DEDENT {
		if p.cur().Kind == lexer.NEWLINE {
			if _, err := p.consume(); err != nil {
				return nil, err
			}
			continue
		}
		clause, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		node.Add(clause)
	}

	if _, err := p.expect(lexer.DEDENT); err != nil {
		return nil, err
	}
	return node, nil
}

// parsePattern parses one pattern clause: one or more alternatives joined by
// 'or', a colon, and a result expression. Alternatives parse strictly above
// logical-or precedence so the joining 'or' is never consumed as an operator
// inside a pattern expression; a lone underscore is the wildcard.
func (p *Parser) parsePattern() (*ast.Node, error) {
	node := ast.New(ast.Pattern, nil)

	for {
		if p.cur().Kind == lexer.UNDERSCORE {
			tok, err := p.consume()
			if err != nil {
				return nil, err
			}
			node.Add(ast.New(ast.Identifier, &tok))
		} else {
			alt, err := p.parseExprPrecedence(precedenceLogicalAnd)
			if err != nil {
				return nil, err
			}
			node.Add(alt)
		}

		if p.cur().Kind != lexer.OR {
			break
		}
		if _, err := p.consume(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}

	// The result expression may itself use 'or'.
	result, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	node.Add(result)

	return node, nil
}

// parseFor parses "for <identifier> in <expression> : <block>". A missing
// 'in' is a hard parse error.
func (p *Parser) parseFor() (*ast.Node, error) {
	forTok, err := p.expect(lexer.FOR)
	if err != nil {
		return nil, err
	}
	node := ast.New(ast.ForLoop, &forTok)

	varTok, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}
	loopVar := ast.New(ast.Identifier, &varTok)

	if p.cur().Kind != lexer.IN {
		return nil, p.errorf(p.cur(), diag.CodeParseForMissingIn,
			"expected 'in' after loop variable, got %s", p.cur().Kind)
	}
	if _, err := p.consume(); err != nil {
		return nil, err
	}

	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	node.Add(loopVar, iterable, body)
	return node, nil
}

// parseWhile parses "while <expression> : <block>".
func (p *Parser) parseWhile() (*ast.Node, error) {
	whileTok, err := p.expect(lexer.WHILE)
	if err != nil {
		return nil, err
	}
	node := ast.New(ast.WhileLoop, &whileTok)

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	node.Add(condition, body)
	return node, nil
}

// parseFunction parses both definition forms: "fn name args: block" and
// "name = fn args: block".
func (p *Parser) parseFunction() (*ast.Node, error) {
	if p.cur().Kind == lexer.FN {
		fnTok, err := p.consume()
		if err != nil {
			return nil, err
		}
		node := ast.New(ast.Function, &fnTok)

		nameTok, err := p.expect(lexer.ID)
		if err != nil {
			return nil, err
		}
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		node.Add(ast.New(ast.Identifier, &nameTok), args, body)
		return node, nil
	}

	// name = fn args: block
	nameTok, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.EQUALS); err != nil {
		return nil, err
	}
	fnTok, err := p.expect(lexer.FN)
	if err != nil {
		return nil, err
	}
	node := ast.New(ast.Function, &fnTok)

	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	node.Add(ast.New(ast.Identifier, &nameTok), args, body)
	return node, nil
}

// parseDirectiveCall parses the call statement following a consumed '@':
// identifier plus argument list.
func (p *Parser) parseDirectiveCall() (*ast.Node, error) {
	nameTok, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}
	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.FunctionCall, nil, ast.New(ast.Identifier, &nameTok), args), nil
}

// parseArguments parses an argument list in either parenthesized or bare
// form. Commas are consumed here, not inside the element expressions, per
// the comma-as-terminator rule.
func (p *Parser) parseArguments() (*ast.Node, error) {
	node := ast.New(ast.Arguments, nil)

	if p.cur().Kind == lexer.LPAR {
		if _, err := p.consume(); err != nil {
			return nil, err
		}
		if p.cur().Kind != lexer.RPAR {
			for {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				node.Add(arg)
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
		return node, nil
	}

	// Bare form, terminated by ':' or end of line.
	for p.cur().Kind != lexer.COLON && p.cur().Kind != lexer.NEWLINE && p.cur().Kind != lexer.EOF {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		node.Add(arg)
		if p.cur().Kind != lexer.COMMA {
			break
		}
		if _, err := p.consume(); err != nil {
			return nil, err
		}
	}

	return node, nil
}
