package querygate

import (
	"errors"
	"fmt"

	"github.com/hupe1980/querygate/statement"
)

// ErrUpdateNotSupported is returned for UPDATE statements on engine-owned
// relations. Updates never delegate to the host: silently running them there
// would desynchronize the embedded engines.
var ErrUpdateNotSupported = errors.New("update is not supported on engine-owned relations")

// CommitError indicates the pending-write flush failed. It is surfaced
// before any statement executes, so no query observes half-committed writes.
//
// The coordinator's underlying error can be accessed via errors.Unwrap.
type CommitError struct {
	cause error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("pending-write commit failed: %v", e.cause)
}

func (e *CommitError) Unwrap() error { return e.cause }

// ExecutionError indicates an embedded handler failed after translation
// succeeded. Unlike translation failures it is never recovered by falling
// back to the host.
//
// The handler's underlying error can be accessed via errors.Unwrap.
type ExecutionError struct {
	Op    statement.OpKind
	cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s execution failed: %v", e.Op, e.cause)
}

func (e *ExecutionError) Unwrap() error { return e.cause }
