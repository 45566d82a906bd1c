package template

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure of a render call.
type ErrorKind int

const (
	// KindSegmentation reports an opened block without a closing delimiter.
	KindSegmentation ErrorKind = iota + 1
	// KindGrammar reports a token in a position the value grammar forbids.
	KindGrammar
	// KindContextLookup reports an identifier missing from the context.
	KindContextLookup
	// KindType reports a context value that cannot be interpolated.
	KindType
	// KindIO reports a template source that could not be read.
	KindIO
	// KindUnsupported reports a logic block, which has no evaluation yet.
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindSegmentation:
		return "segmentation error"
	case KindGrammar:
		return "grammar error"
	case KindContextLookup:
		return "context lookup error"
	case KindType:
		return "type error"
	case KindIO:
		return "io error"
	case KindUnsupported:
		return "unsupported"
	default:
		return "error"
	}
}

// Error is the single error type returned by this package. Every render
// failure is terminal for the call that produced it.
type Error struct {
	Kind    ErrorKind
	Message string
	// Offset is the byte offset of the offending block in the template
	// source, or -1 when unknown.
	Offset int
	// Token is the offending word, if any.
	Token string
	// Name is the template name or path, if known.
	Name  string
	Cause error
}

func newError(kind ErrorKind, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: offset}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Token != "" {
		msg += fmt.Sprintf(" near %q", e.Token)
	}
	switch {
	case e.Name != "" && e.Offset >= 0:
		msg += fmt.Sprintf(" (in %s at offset %d)", e.Name, e.Offset)
	case e.Name != "":
		msg += fmt.Sprintf(" (in %s)", e.Name)
	case e.Offset >= 0:
		msg += fmt.Sprintf(" (at offset %d)", e.Offset)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) withToken(tok string) *Error {
	e.Token = tok
	return e
}

// IsKind reports whether err, or any error it wraps, is an *Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind == k
	}
	return false
}

// withName stamps the template name on err if it is an *Error that lacks one.
func withName(err error, name string) error {
	var te *Error
	if errors.As(err, &te) && te.Name == "" {
		te.Name = name
	}
	return err
}
