// Package index defines the immutable snapshot and segment abstractions the
// search engine executes against, plus an in-memory segment implementation.
//
// Index construction and maintenance beyond the in-memory Builder are
// external concerns; the search layer only ever sees the Snapshot and
// Segment interfaces.
package index
