package ast

import (
	"fmt"

	"github.com/quark-lang/quark-lang/internal/lexer"
)

// NodeKind tags an AST node. The enumeration is closed; consumers dispatch
// on it with exhaustive switches.
type NodeKind uint8

const (
	CompilationUnit NodeKind = iota
	Block
	IfStatement
	WhenStatement
	Pattern
	ForLoop
	WhileLoop
	Function
	FunctionCall
	Arguments
	Identifier
	Literal
	Operator
	Ternary
	Pipe
)

var nodeKindNames = [...]string{
	CompilationUnit: "CompilationUnit",
	Block:           "Block",
	IfStatement:     "IfStatement",
	WhenStatement:   "WhenStatement",
	Pattern:         "Pattern",
	ForLoop:         "ForLoop",
	WhileLoop:       "WhileLoop",
	Function:        "Function",
	FunctionCall:    "FunctionCall",
	Arguments:       "Arguments",
	Identifier:      "Identifier",
	Literal:         "Literal",
	Operator:        "Operator",
	Ternary:         "Ternary",
	Pipe:            "Pipe",
}

// String returns the node kind name.
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

// Node is a tagged AST node. Tok, when present, carries the node's source
// position and, for identifiers, literals and operators, the literal or
// operator text. A node exclusively owns its children; the tree is strict
// (no sharing, no cycles) and structurally immutable once parsing finishes.
//
// Children follow a fixed, kind-dependent order:
//
//	IfStatement:  condition, then-block, zero or more nested IfStatement
//	              elseif nodes, optional trailing else Block
//	WhenStatement: subject expression, one or more Pattern nodes
//	Pattern:      one or more alternative expressions, result expression
//	ForLoop:      loop variable, iterable expression, body Block
//	WhileLoop:    condition, body Block
//	Function:     name Identifier, Arguments, body Block
//	FunctionCall: callee, Arguments
//	Operator:     one child (unary) or left, right (binary / map pair)
//	Ternary:      condition, true branch, false branch
//	Pipe:         left, right
//
// Violating this order is a bug in the parser, not a user-facing error.
type Node struct {
	Kind     NodeKind
	Tok      *lexer.Token
	Children []*Node
}

// New constructs a node. tok may be nil for purely structural nodes.
func New(kind NodeKind, tok *lexer.Token, children ...*Node) *Node {
	return &Node{
		Kind:     kind,
		Tok:      tok,
		Children: children,
	}
}

// Add appends children in order.
func (n *Node) Add(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Pos is a source position.
type Pos struct {
	Line   int // 1-based
	Column int // 1-based
}

// Pos returns the node's source position, taken from its originating token
// or, for purely structural nodes, from the first descendant that has one.
func (n *Node) Pos() Pos {
	if n.Tok != nil {
		return Pos{Line: n.Tok.Line, Column: n.Tok.Column}
	}
	for _, child := range n.Children {
		if pos := child.Pos(); pos.Line > 0 {
			return pos
		}
	}
	return Pos{}
}

// String renders the node tag and, when present, its token text.
func (n *Node) String() string {
	if n.Tok != nil {
		return fmt.Sprintf("%s[%s]", n.Kind, n.Tok.Text)
	}
	return n.Kind.String()
}
