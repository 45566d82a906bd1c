package template

import "strings"

// FilterKind names a text transformation applied through the pipe operator.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterUppercase
	FilterLowercase
)

// filterKeywords maps the word used in a template to its filter. Adding a
// filter means adding a kind, a keyword here and a case in Apply.
var filterKeywords = map[string]FilterKind{
	"upper": FilterUppercase,
	"lower": FilterLowercase,
}

// LookupFilter returns the filter named by word.
func LookupFilter(word string) (FilterKind, bool) {
	f, ok := filterKeywords[word]
	return f, ok
}

// Apply runs the filter over s.
func (f FilterKind) Apply(s string) string {
	switch f {
	case FilterUppercase:
		return strings.ToUpper(s)
	case FilterLowercase:
		return strings.ToLower(s)
	default:
		return s
	}
}

func (f FilterKind) String() string {
	switch f {
	case FilterUppercase:
		return "upper"
	case FilterLowercase:
		return "lower"
	default:
		return "none"
	}
}
