package template

import (
	"strings"
	"testing"
)

func TestBuildTextAndValue(t *testing.T) {
	tree, err := Build("Hello {{ name }}!")
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if len(tree.Nodes) != 3 {
		t.Fatalf("want 3 nodes, got %d", len(tree.Nodes))
	}
	if ln, ok := tree.Nodes[0].(*LiteralNode); !ok || ln.Text != "Hello " {
		t.Fatalf("node0 not Literal('Hello '): %#v", tree.Nodes[0])
	}
	vn, ok := tree.Nodes[1].(*ValueNode)
	if !ok || len(vn.Toks) != 1 || vn.Toks[0].Ident != "name" {
		t.Fatalf("node1 not Value(name): %#v", tree.Nodes[1])
	}
	if vn.Pos() != 6 {
		t.Fatalf("value offset = %d, want 6", vn.Pos())
	}
	if ln, ok := tree.Nodes[2].(*LiteralNode); !ok || ln.Text != "!" {
		t.Fatalf("node2 not Literal('!'): %#v", tree.Nodes[2])
	}
}

func TestBuildLogicBlock(t *testing.T) {
	tree, err := Build("{% if x %}y{% endif %}")
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if len(tree.Nodes) != 3 {
		t.Fatalf("want 3 nodes, got %d", len(tree.Nodes))
	}
	ln, ok := tree.Nodes[0].(*LogicNode)
	if !ok {
		t.Fatalf("node0 not Logic: %#v", tree.Nodes[0])
	}
	if got := tokenSummary(ln.Tokens()); got != "if Variable(x)" {
		t.Fatalf("logic tokens = %q", got)
	}
	if _, ok := tree.Nodes[2].(*LogicNode); !ok {
		t.Fatalf("node2 not Logic: %#v", tree.Nodes[2])
	}
}

func TestBuildSingleBraceIsLiteral(t *testing.T) {
	tree, err := Build("a { b } c")
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	out, err := NewRenderer().Render(tree, nil)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "a { b } c" {
		t.Fatalf("got %q", out)
	}
}

func TestBuildBlockInsideSingleBraces(t *testing.T) {
	tree, err := Build("{ {{ x }} }")
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if got, want := Pretty(tree), "Tree\n  Literal(\"{ \")\n  Value(Variable(x))\n  Literal(\" }\")\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildCodeFallback(t *testing.T) {
	n, err := buildCode(Chunk{Code: true, Text: "{ x }"})
	if err != nil {
		t.Fatalf("buildCode error: %v", err)
	}
	if ln, ok := n.(*LiteralNode); !ok || ln.Text != "{ x }" {
		t.Fatalf("want Literal('{ x }'), got %#v", n)
	}

	for _, s := range []string{"{ {{ x }} }", "{ {% if x %} }"} {
		if _, err := buildCode(Chunk{Code: true, Text: s}); !IsKind(err, KindSegmentation) {
			t.Errorf("%q: want segmentation error, got %v", s, err)
		}
	}
}

func TestBuildMismatchedClose(t *testing.T) {
	for _, in := range []string{"{{ name }", "{% if x }", "{%}"} {
		if _, err := Build(in); !IsKind(err, KindSegmentation) {
			t.Errorf("%q: want segmentation error, got %v", in, err)
		}
	}
}

func TestBuildDoesNotCheckGrammar(t *testing.T) {
	if _, err := Build("{{ name |> }}"); err != nil {
		t.Fatalf("build should accept any segmented text, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	ok := []string{
		"plain",
		"{{ a }}",
		"{{ a |> upper |> lower }}",
		"{% for x %}{{ x }}{% endfor %}",
	}
	for _, in := range ok {
		tree, err := Build(in)
		if err != nil {
			t.Fatalf("%q: build error: %v", in, err)
		}
		if err := Check(tree); err != nil {
			t.Errorf("%q: unexpected check error: %v", in, err)
		}
	}
	bad := []string{
		"{{ a |> }}",
		"{{ a upper }}",
		"{{ a b }}",
		"{{ if a }}",
		"{{ }}",
	}
	for _, in := range bad {
		tree, err := Build(in)
		if err != nil {
			t.Fatalf("%q: build error: %v", in, err)
		}
		if err := Check(tree); !IsKind(err, KindGrammar) {
			t.Errorf("%q: want grammar error, got %v", in, err)
		}
	}
}

func TestPretty(t *testing.T) {
	tree, err := Build("A{{ x |> upper }}B{% endif %}")
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	s := Pretty(tree)
	for _, want := range []string{"Tree", `Literal("A")`, "Value(Variable(x) pipe Filter(upper))", "Logic(endif)"} {
		if !strings.Contains(s, want) {
			t.Fatalf("pretty printer missing %q:\n%s", want, s)
		}
	}
}

func TestWalk(t *testing.T) {
	tree, err := Build("a{{ b }}c{% if d %}")
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	var code int
	err = Walk(VisitorFunc(func(n Node) error {
		if _, ok := n.(CodeNode); ok {
			code++
		}
		return nil
	}), tree)
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
	if code != 2 {
		t.Fatalf("visited %d code nodes, want 2", code)
	}
}
