package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented rendering of the tree to w, one node per line,
// children one tab level deeper than their parent.
func Fprint(w io.Writer, node *Node) {
	fprint(w, node, 0)
}

func fprint(w io.Writer, node *Node, level int) {
	if node == nil {
		return
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("\t", level), node)
	for _, child := range node.Children {
		fprint(w, child, level+1)
	}
}

// Sprint returns the indented rendering of the tree as a string. Tests use
// it to compare whole tree shapes.
func Sprint(node *Node) string {
	var sb strings.Builder
	fprint(&sb, node, 0)
	return sb.String()
}
