package search

import (
	"errors"
	"fmt"
)

// ErrStateConsumed is returned when a State is reused after its single
// search invocation.
var ErrStateConsumed = errors.New("search state already consumed")

// SchemaViolationError indicates the schema contract between planner and
// index is broken: the query descriptor cannot be compiled, or the key field
// is not a fast 64-bit integer column. It is fatal for the operation and is
// never recovered by falling back to the host.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type SchemaViolationError struct {
	Detail string
	cause  error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema contract violated: %s", e.Detail)
}

func (e *SchemaViolationError) Unwrap() error { return e.cause }

func schemaViolationf(format string, args ...any) *SchemaViolationError {
	return &SchemaViolationError{Detail: fmt.Sprintf(format, args...)}
}
