package template

import "strings"

const (
	valueOpen  = "{{"
	valueClose = "}}"
	logicOpen  = "{%"
	logicClose = "%}"
)

// Build segments and tokenizes text into a Tree. It validates delimiters
// only: the value grammar is checked when the tree is rendered (or by Check),
// so any text the segmenter accepts produces a tree.
func Build(text string) (*Tree, error) {
	chunks, err := Segment(text, OpenDelim, CloseDelim)
	if err != nil {
		return nil, err
	}
	tree := &Tree{Nodes: make([]Node, 0, len(chunks))}
	for i, c := range chunks {
		if i%2 == 0 {
			if c.Text != "" {
				tree.Nodes = append(tree.Nodes, &LiteralNode{Text: c.Text})
			}
			continue
		}
		n, err := buildCode(c)
		if err != nil {
			return nil, err
		}
		tree.Nodes = append(tree.Nodes, n)
	}
	return tree, nil
}

func buildCode(c Chunk) (Node, error) {
	s := c.Text
	switch {
	case enclosedBy(s, valueOpen, valueClose):
		return &ValueNode{Toks: Tokenize(inner(s, valueOpen, valueClose)), Offset: c.Offset}, nil
	case enclosedBy(s, logicOpen, logicClose):
		return &LogicNode{Toks: Tokenize(inner(s, logicOpen, logicClose)), Offset: c.Offset}, nil
	case strings.Contains(s, valueOpen), strings.Contains(s, logicOpen):
		return nil, newError(KindSegmentation, c.Offset, "block is not closed within its chunk").
			withToken(snippet(s))
	default:
		return &LiteralNode{Text: s}, nil
	}
}

func enclosedBy(s, open, close string) bool {
	return len(s) >= len(open)+len(close) &&
		strings.HasPrefix(s, open) &&
		strings.HasSuffix(s, close)
}

func inner(s, open, close string) string {
	return strings.TrimSpace(s[len(open) : len(s)-len(close)])
}

// Check validates the grammar of every value block in tree without a
// context. Logic blocks are accepted as written.
func Check(tree *Tree) error {
	for _, n := range tree.Nodes {
		vn, ok := n.(*ValueNode)
		if !ok {
			continue
		}
		if _, err := evalValue(vn, func(string) (string, error) { return "", nil }); err != nil {
			return err
		}
	}
	return nil
}
