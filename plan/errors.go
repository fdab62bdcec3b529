package plan

import "fmt"

// ParseError indicates the dialect rejected the source text. The interceptor
// treats it as a request to use the host engine, not as a fault.
//
// The parser's underlying error can be accessed via errors.Unwrap.
type ParseError struct {
	SQL   string
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

// ResolutionError indicates a referenced relation or column is unknown to
// the catalog provider. Like ParseError, it resolves to a host fallback.
type ResolutionError struct {
	Kind string // "relation" or "column"
	Name string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}
