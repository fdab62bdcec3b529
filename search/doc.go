// Package search compiles query descriptors against immutable index
// snapshots and runs ranked top-k retrieval with composite scoring.
//
// A State is a single-pass execution context: it binds exactly one snapshot
// at creation, compiles the descriptor's query expression, and serves exactly
// one Search or SearchDedup invocation before it is consumed.
package search
