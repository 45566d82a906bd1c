package template

import (
	"bytes"
	"fmt"
)

type Visitor interface {
	Visit(n Node) error
}

// Walk calls v for every node of tree in source order, stopping at the first
// error.
func Walk(v Visitor, tree *Tree) error {
	for _, n := range tree.Nodes {
		if err := v.Visit(n); err != nil {
			return err
		}
	}
	return nil
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(n Node) error

func (f VisitorFunc) Visit(n Node) error { return f(n) }

// Pretty returns a line-oriented string representation of the tree.
func Pretty(tree *Tree) string {
	var buf bytes.Buffer
	buf.WriteString("Tree\n")
	for _, n := range tree.Nodes {
		switch t := n.(type) {
		case *LiteralNode:
			fmt.Fprintf(&buf, "  Literal(%q)\n", t.Text)
		case *ValueNode:
			fmt.Fprintf(&buf, "  Value(%s)\n", tokenSummary(t.Toks))
		case *LogicNode:
			fmt.Fprintf(&buf, "  Logic(%s)\n", tokenSummary(t.Toks))
		}
	}
	return buf.String()
}
