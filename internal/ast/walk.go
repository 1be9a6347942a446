package ast

// Walk traverses the tree rooted at node in pre-order, calling fn for each
// node. If fn returns false, Walk does not descend into that node's
// children. This is the hand-off surface for downstream passes (semantic
// analysis, code generation), which dispatch on Node.Kind.
func Walk(node *Node, fn func(*Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for _, child := range node.Children {
		Walk(child, fn)
	}
}
