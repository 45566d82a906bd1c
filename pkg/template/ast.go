package template

// Node is any node in a template tree.
type Node interface {
	node()
}

// CodeNode is a node produced from a delimited block.
type CodeNode interface {
	Node
	Tokens() []Token
	Pos() int
}

// Tree is the ordered sequence of nodes parsed from one template. It is
// never modified after Build returns and may be shared between goroutines.
type Tree struct {
	Nodes []Node
}

// LiteralNode is text emitted unchanged.
type LiteralNode struct {
	Text string
}

func (*LiteralNode) node() {}

// ValueNode is a {{ ... }} block: a variable optionally piped through filters.
type ValueNode struct {
	Toks   []Token
	Offset int
}

func (*ValueNode) node()             {}
func (n *ValueNode) Tokens() []Token { return n.Toks }
func (n *ValueNode) Pos() int        { return n.Offset }

// LogicNode is a {% ... %} block. It is recognized but not evaluated.
type LogicNode struct {
	Toks   []Token
	Offset int
}

func (*LogicNode) node()             {}
func (n *LogicNode) Tokens() []Token { return n.Toks }
func (n *LogicNode) Pos() int        { return n.Offset }

var (
	_ CodeNode = &ValueNode{}
	_ CodeNode = &LogicNode{}
)
