package template

import (
	"fmt"
	"sort"
	"strings"
)

// TokenKind is the lexical class of a word inside a block.
type TokenKind int

const (
	TokIf TokenKind = iota
	TokEndif
	TokFor
	TokEndfor
	TokPipe
	TokVariable
	TokFilter
)

func (k TokenKind) String() string {
	switch k {
	case TokIf:
		return "if"
	case TokEndif:
		return "endif"
	case TokFor:
		return "for"
	case TokEndfor:
		return "endfor"
	case TokPipe:
		return "pipe"
	case TokVariable:
		return "variable"
	case TokFilter:
		return "filter"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// PipeOperator separates a value from the filters applied to it.
const PipeOperator = "|>"

var keywords = map[string]TokenKind{
	"if":         TokIf,
	"endif":      TokEndif,
	"for":        TokFor,
	"endfor":     TokEndfor,
	PipeOperator: TokPipe,
}

// Token is one classified word from a block.
type Token struct {
	Kind   TokenKind
	Ident  string     // set for TokVariable
	Filter FilterKind // set for TokFilter
}

func (t Token) String() string {
	switch t.Kind {
	case TokVariable:
		return fmt.Sprintf("Variable(%s)", t.Ident)
	case TokFilter:
		return fmt.Sprintf("Filter(%s)", t.Filter)
	default:
		return t.Kind.String()
	}
}

// Tokenize classifies each whitespace-separated word of a block's inner
// text. Keywords, the pipe operator and filter names match exactly; any other
// word becomes a variable reference carrying the word verbatim. There is no
// quoting or escaping.
func Tokenize(inner string) []Token {
	words := strings.Fields(inner)
	toks := make([]Token, 0, len(words))
	for _, w := range words {
		if k, ok := keywords[w]; ok {
			toks = append(toks, Token{Kind: k})
			continue
		}
		if f, ok := LookupFilter(w); ok {
			toks = append(toks, Token{Kind: TokFilter, Filter: f})
			continue
		}
		toks = append(toks, Token{Kind: TokVariable, Ident: w})
	}
	return toks
}

// ReservedWords lists the words that never tokenize as variables.
func ReservedWords() []string {
	words := make([]string, 0, len(keywords)+len(filterKeywords))
	for w := range keywords {
		words = append(words, w)
	}
	for w := range filterKeywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
