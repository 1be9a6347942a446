package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/quark-lang/quark-lang/internal/ast"
	"github.com/quark-lang/quark-lang/internal/diag"
)

// parseUnit runs the full pipeline over source text, failing the test on
// any error.
func parseUnit(t *testing.T, src string) *ast.Node {
	t.Helper()
	unit, err := ParseSource(src)
	if err != nil {
		t.Fatalf("%q - unexpected error: %v", src, err)
	}
	return unit
}

// parseStmt parses source expected to hold exactly one statement and
// returns it.
func parseStmt(t *testing.T, src string) *ast.Node {
	t.Helper()
	unit := parseUnit(t, src)
	if len(unit.Children) != 1 {
		t.Fatalf("%q - expected 1 statement, got %d:\n%s",
			src, len(unit.Children), ast.Sprint(unit))
	}
	return unit.Children[0]
}

// tree joins rendered lines the way ast.Sprint does, so expectations stay
// readable in the tables below.
func tree(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func assertTree(t *testing.T, src, expected string) {
	t.Helper()
	got := ast.Sprint(parseStmt(t, src))
	if got != expected {
		t.Errorf("%q - wrong tree.\nexpected:\n%s\ngot:\n%s", src, expected, got)
	}
}

func TestParse_OperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"1 + 2 * 3",
			tree(
				"Operator[+]",
				"\tLiteral[1]",
				"\tOperator[*]",
				"\t\tLiteral[2]",
				"\t\tLiteral[3]",
			),
		},
		{
			"1 + 2 - 3",
			tree(
				"Operator[-]",
				"\tOperator[+]",
				"\t\tLiteral[1]",
				"\t\tLiteral[2]",
				"\tLiteral[3]",
			),
		},
		{
			"(1 + 2) * 3",
			tree(
				"Operator[*]",
				"\tOperator[+]",
				"\t\tLiteral[1]",
				"\t\tLiteral[2]",
				"\tLiteral[3]",
			),
		},
		{
			"a == b or c < d and e",
			tree(
				"Operator[or]",
				"\tOperator[==]",
				"\t\tIdentifier[a]",
				"\t\tIdentifier[b]",
				"\tOperator[and]",
				"\t\tOperator[<]",
				"\t\t\tIdentifier[c]",
				"\t\t\tIdentifier[d]",
				"\t\tIdentifier[e]",
			),
		},
		{
			"1..n",
			tree(
				"Operator[..]",
				"\tLiteral[1]",
				"\tIdentifier[n]",
			),
		},
		{
			"x = 1 + 2",
			tree(
				"Operator[=]",
				"\tIdentifier[x]",
				"\tOperator[+]",
				"\t\tLiteral[1]",
				"\t\tLiteral[2]",
			),
		},
	}

	for _, tt := range tests {
		assertTree(t, tt.input, tt.expected)
	}
}

func TestParse_ExponentIsRightAssociative(t *testing.T) {
	assertTree(t, "2 ** 3 ** 2", tree(
		"Operator[**]",
		"\tLiteral[2]",
		"\tOperator[**]",
		"\t\tLiteral[3]",
		"\t\tLiteral[2]",
	))
}

func TestParse_UnaryOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"-x + y",
			tree(
				"Operator[+]",
				"\tOperator[-]",
				"\t\tIdentifier[x]",
				"\tIdentifier[y]",
			),
		},
		{
			"!a and ~b",
			tree(
				"Operator[and]",
				"\tOperator[!]",
				"\t\tIdentifier[a]",
				"\tOperator[~]",
				"\t\tIdentifier[b]",
			),
		},
		{
			"~a & b",
			tree(
				"Operator[&]",
				"\tOperator[~]",
				"\t\tIdentifier[a]",
				"\tIdentifier[b]",
			),
		},
	}

	for _, tt := range tests {
		assertTree(t, tt.input, tt.expected)
	}
}

func TestParse_JuxtapositionApplication(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Trailing arithmetic binds into the argument, not outside the call.
		{
			"fact n - 1",
			tree(
				"FunctionCall",
				"\tIdentifier[fact]",
				"\tArguments",
				"\t\tOperator[-]",
				"\t\t\tIdentifier[n]",
				"\t\t\tLiteral[1]",
			),
		},
		{
			"f x, y",
			tree(
				"FunctionCall",
				"\tIdentifier[f]",
				"\tArguments",
				"\t\tIdentifier[x]",
				"\t\tIdentifier[y]",
			),
		},
		{
			`print "hi"`,
			tree(
				"FunctionCall",
				"\tIdentifier[print]",
				"\tArguments",
				"\t\tLiteral[hi]",
			),
		},
		// Application nests through the argument position.
		{
			"f g x",
			tree(
				"FunctionCall",
				"\tIdentifier[f]",
				"\tArguments",
				"\t\tFunctionCall",
				"\t\t\tIdentifier[g]",
				"\t\t\tArguments",
				"\t\t\t\tIdentifier[x]",
			),
		},
	}

	for _, tt := range tests {
		assertTree(t, tt.input, tt.expected)
	}
}

func TestParse_ParenthesizedCall(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"add(2, 5)",
			tree(
				"FunctionCall",
				"\tIdentifier[add]",
				"\tArguments",
				"\t\tLiteral[2]",
				"\t\tLiteral[5]",
			),
		},
		{
			"tick()",
			tree(
				"FunctionCall",
				"\tIdentifier[tick]",
				"\tArguments",
			),
		},
		{
			"add(1 + 2, f x)",
			tree(
				"FunctionCall",
				"\tIdentifier[add]",
				"\tArguments",
				"\t\tOperator[+]",
				"\t\t\tLiteral[1]",
				"\t\t\tLiteral[2]",
				"\t\tFunctionCall",
				"\t\t\tIdentifier[f]",
				"\t\t\tArguments",
				"\t\t\t\tIdentifier[x]",
			),
		},
	}

	for _, tt := range tests {
		assertTree(t, tt.input, tt.expected)
	}
}

func TestParse_MemberAccess(t *testing.T) {
	assertTree(t, "a.b.c", tree(
		"Operator[.]",
		"\tOperator[.]",
		"\t\tIdentifier[a]",
		"\t\tIdentifier[b]",
		"\tIdentifier[c]",
	))

	// A member access can be the callee of a juxtaposed application.
	assertTree(t, "vec.scale k", tree(
		"FunctionCall",
		"\tOperator[.]",
		"\t\tIdentifier[vec]",
		"\t\tIdentifier[scale]",
		"\tArguments",
		"\t\tIdentifier[k]",
	))
}

func TestParse_Ternary(t *testing.T) {
	assertTree(t, "a if c else b", tree(
		"Ternary[if]",
		"\tIdentifier[c]",
		"\tIdentifier[a]",
		"\tIdentifier[b]",
	))
}

func TestParse_TernaryChainsThroughFalseBranch(t *testing.T) {
	assertTree(t, "a if c1 else b if c2 else d", tree(
		"Ternary[if]",
		"\tIdentifier[c1]",
		"\tIdentifier[a]",
		"\tTernary[if]",
		"\t\tIdentifier[c2]",
		"\t\tIdentifier[b]",
		"\t\tIdentifier[d]",
	))
}

func TestParse_Pipe(t *testing.T) {
	assertTree(t, "data | shape | render", tree(
		"Pipe[|]",
		"\tPipe[|]",
		"\t\tIdentifier[data]",
		"\t\tIdentifier[shape]",
		"\tIdentifier[render]",
	))

	// The right side of a pipe can be an application.
	assertTree(t, "xs | each f", tree(
		"Pipe[|]",
		"\tIdentifier[xs]",
		"\tFunctionCall",
		"\t\tIdentifier[each]",
		"\t\tArguments",
		"\t\t\tIdentifier[f]",
	))
}

func TestParse_ListLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"[1, 2, 3]",
			tree(
				"Literal[[]",
				"\tLiteral[1]",
				"\tLiteral[2]",
				"\tLiteral[3]",
			),
		},
		{
			"[]",
			tree("Literal[[]"),
		},
		{
			"[1, [2, 3]]",
			tree(
				"Literal[[]",
				"\tLiteral[1]",
				"\tLiteral[[]",
				"\t\tLiteral[2]",
				"\t\tLiteral[3]",
			),
		},
	}

	for _, tt := range tests {
		assertTree(t, tt.input, tt.expected)
	}
}

func TestParse_MapLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"{a: 1, b: 2}",
			tree(
				"Literal[{]",
				"\tOperator[:]",
				"\t\tIdentifier[a]",
				"\t\tLiteral[1]",
				"\tOperator[:]",
				"\t\tIdentifier[b]",
				"\t\tLiteral[2]",
			),
		},
		{
			"{}",
			tree("Literal[{]"),
		},
	}

	for _, tt := range tests {
		assertTree(t, tt.input, tt.expected)
	}
}

func TestParse_ExpressionErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{"1 +\n", diag.CodeParseExpectedExpr},
		{"1 +", diag.CodeParseUnexpectedEOF},
		{"( if )", diag.CodeParseExpectedExpr},
		{"add(2,", diag.CodeParseUnexpectedEOF},
		{"add(2, 5", diag.CodeParseUnexpectedToken},
	}

	for _, tt := range tests {
		_, err := ParseSource(tt.input)

		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%q - expected ParseError, got %v", tt.input, err)
			continue
		}
		if perr.Code != tt.code {
			t.Errorf("%q - expected code %s, got %s (%s)",
				tt.input, tt.code, perr.Code, perr.Message)
		}
	}
}
