// Package commit coordinates buffered writes to engine-owned relations.
//
// The embedded writer batches internally and commits asynchronously; the
// interceptor bridges that synchronously by draining all pending writes
// before any read-path statement executes, giving the session
// read-your-writes consistency despite the buffering.
package commit

import (
	"context"

	"github.com/hupe1980/querygate/model"
)

// Coordinator tracks buffered writes and exposes a blocking flush. One
// Coordinator instance is scoped to a session: created lazily at session
// start, drained before every read-path statement and at session end.
type Coordinator interface {
	// HasPendingWrites reports whether any staged write has not been
	// committed yet.
	HasPendingWrites() bool

	// CommitPendingWrites blocks until every staged write is durable in
	// the embedded engines, or fails. No statement may read engine-owned
	// relations while this is in flight.
	CommitPendingWrites(ctx context.Context) error
}

// Sink receives drained write batches. It is implemented by the embedded
// engines' writers; row materialization is outside this package.
type Sink interface {
	Flush(ctx context.Context, relation string, rows []model.Document) error
}
