package template

import (
	"strings"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithScalarFormatting lets integer, float and boolean context values be
// interpolated using their textual form. By default only strings are.
func WithScalarFormatting() Option {
	return func(r *Renderer) { r.formatScalars = true }
}

// Renderer evaluates trees against a context. It holds no per-call state and
// may be used from several goroutines.
type Renderer struct {
	formatScalars bool
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render evaluates the nodes of tree in order and concatenates their output.
// It returns either the complete output or an error, never a partial result.
func (r *Renderer) Render(tree *Tree, ctx Context) (string, error) {
	var buf strings.Builder
	for _, n := range tree.Nodes {
		switch t := n.(type) {
		case *LiteralNode:
			buf.WriteString(t.Text)
		case *ValueNode:
			s, err := evalValue(t, func(name string) (string, error) {
				return r.lookup(ctx, name, t.Offset)
			})
			if err != nil {
				return "", err
			}
			buf.WriteString(s)
		case *LogicNode:
			return "", newError(KindUnsupported, t.Offset, "logic blocks are not evaluated").
				withToken(tokenSummary(t.Toks))
		default:
			return "", newError(KindUnsupported, -1, "unhandled node type %T", n)
		}
	}
	return buf.String(), nil
}

func (r *Renderer) lookup(ctx Context, name string, offset int) (string, error) {
	v, ok := ctx[name]
	if !ok {
		return "", newError(KindContextLookup, offset, "undefined variable").withToken(name)
	}
	switch t := v.(type) {
	case StringValue:
		return string(t), nil
	case IntValue, FloatValue, BoolValue:
		if r.formatScalars {
			return t.String(), nil
		}
	}
	return "", newError(KindType, offset, "variable holds %s, not a string", TypeName(v)).withToken(name)
}

// valueState tracks where the value grammar Variable (Pipe Filter)* stands.
type valueState int

const (
	wantVariable valueState = iota
	wantPipeOrEnd
	wantFilter
)

// evalValue runs the value block state machine. lookup resolves a trimmed
// identifier to its string form.
func evalValue(n *ValueNode, lookup func(name string) (string, error)) (string, error) {
	if len(n.Toks) == 0 {
		return "", newError(KindGrammar, n.Offset, "empty value block")
	}

	state := wantVariable
	var acc string
	for _, tok := range n.Toks {
		switch tok.Kind {
		case TokVariable:
			switch state {
			case wantPipeOrEnd:
				return "", newError(KindGrammar, n.Offset, "variable in filter position, expected %q or end of block", PipeOperator).
					withToken(tok.Ident)
			case wantFilter:
				return "", newError(KindGrammar, n.Offset, "expected a filter after %q, got a variable", PipeOperator).
					withToken(tok.Ident)
			}
			s, err := lookup(strings.TrimSpace(tok.Ident))
			if err != nil {
				return "", err
			}
			acc = s
			state = wantPipeOrEnd
		case TokPipe:
			if state != wantPipeOrEnd {
				return "", newError(KindGrammar, n.Offset, "%q must follow a variable or filter", PipeOperator).
					withToken(PipeOperator)
			}
			state = wantFilter
		case TokFilter:
			switch state {
			case wantPipeOrEnd:
				return "", newError(KindGrammar, n.Offset, "filter must be preceded by %q", PipeOperator).
					withToken(tok.Filter.String())
			case wantVariable:
				return "", newError(KindGrammar, n.Offset, "value block must start with a variable").
					withToken(tok.Filter.String())
			}
			acc = tok.Filter.Apply(acc)
			state = wantPipeOrEnd
		default:
			return "", newError(KindGrammar, n.Offset, "logic keyword inside a value block").
				withToken(tok.Kind.String())
		}
	}
	if state != wantPipeOrEnd {
		return "", newError(KindGrammar, n.Offset, "missing filter after %q", PipeOperator)
	}
	return acc, nil
}

func tokenSummary(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
