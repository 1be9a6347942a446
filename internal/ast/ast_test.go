package ast

import (
	"strings"
	"testing"

	"github.com/quark-lang/quark-lang/internal/lexer"
)

func ident(name string, line, column int) *Node {
	return New(Identifier, &lexer.Token{
		Kind: lexer.ID, Text: name, Line: line, Column: column,
	})
}

func TestNode_Pos(t *testing.T) {
	leaf := ident("x", 3, 7)
	if pos := leaf.Pos(); pos.Line != 3 || pos.Column != 7 {
		t.Fatalf("expected 3:7, got %d:%d", pos.Line, pos.Column)
	}

	// Structural nodes inherit the position of their first positioned
	// descendant.
	call := New(FunctionCall, nil,
		ident("f", 2, 1),
		New(Arguments, nil, ident("y", 2, 3)),
	)
	if pos := call.Pos(); pos.Line != 2 || pos.Column != 1 {
		t.Fatalf("expected 2:1, got %d:%d", pos.Line, pos.Column)
	}

	empty := New(Block, nil)
	if pos := empty.Pos(); pos.Line != 0 {
		t.Fatalf("expected zero position, got %d:%d", pos.Line, pos.Column)
	}
}

func TestNode_String(t *testing.T) {
	tests := []struct {
		node     *Node
		expected string
	}{
		{ident("x", 1, 1), "Identifier[x]"},
		{New(Block, nil), "Block"},
		{New(Operator, &lexer.Token{Kind: lexer.PLUS, Text: "+"}), "Operator[+]"},
	}

	for _, tt := range tests {
		if got := tt.node.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestWalk_PreOrder(t *testing.T) {
	root := New(Block, nil,
		New(Operator, &lexer.Token{Kind: lexer.PLUS, Text: "+"},
			ident("a", 1, 1),
			ident("b", 1, 5),
		),
		ident("c", 2, 1),
	)

	var visited []string
	Walk(root, func(n *Node) bool {
		visited = append(visited, n.String())
		return true
	})

	expected := []string{"Block", "Operator[+]", "Identifier[a]", "Identifier[b]", "Identifier[c]"}
	if len(visited) != len(expected) {
		t.Fatalf("expected %d nodes, got %d: %v", len(expected), len(visited), visited)
	}
	for i := range expected {
		if visited[i] != expected[i] {
			t.Fatalf("visit order wrong at %d: expected %q, got %q",
				i, expected[i], visited[i])
		}
	}
}

func TestWalk_Prune(t *testing.T) {
	root := New(Block, nil,
		New(Arguments, nil, ident("hidden", 1, 1)),
		ident("seen", 2, 1),
	)

	var visited []string
	Walk(root, func(n *Node) bool {
		visited = append(visited, n.String())
		return n.Kind != Arguments
	})

	for _, name := range visited {
		if name == "Identifier[hidden]" {
			t.Fatal("walk descended into a pruned subtree")
		}
	}
	if visited[len(visited)-1] != "Identifier[seen]" {
		t.Fatalf("siblings after a pruned node must still be visited: %v", visited)
	}
}

func TestWalk_NilNode(t *testing.T) {
	called := false
	Walk(nil, func(*Node) bool {
		called = true
		return true
	})
	if called {
		t.Fatal("callback invoked for nil node")
	}
}

func TestSprint(t *testing.T) {
	root := New(Operator, &lexer.Token{Kind: lexer.MULTIPLY, Text: "*"},
		ident("a", 1, 1),
		ident("b", 1, 5),
	)

	expected := strings.Join([]string{
		"Operator[*]",
		"\tIdentifier[a]",
		"\tIdentifier[b]",
	}, "\n") + "\n"

	if got := Sprint(root); got != expected {
		t.Fatalf("expected:\n%s\ngot:\n%s", expected, got)
	}
}
