package model

import (
	"fmt"
)

// SegmentID is the unique identifier for a segment within a snapshot.
type SegmentID uint64

// DocID is a dense, segment-local identifier for a document.
// It is transient and only meaningful within one segment.
type DocID uint32

// DocAddress identifies a specific document within one snapshot.
// Addresses are totally ordered lexicographically by (Segment, Doc).
type DocAddress struct {
	Segment SegmentID
	Doc     DocID
}

// Compare returns -1, 0 or +1 comparing a to b in lexicographic
// (Segment, Doc) order.
func (a DocAddress) Compare(b DocAddress) int {
	switch {
	case a.Segment < b.Segment:
		return -1
	case a.Segment > b.Segment:
		return 1
	case a.Doc < b.Doc:
		return -1
	case a.Doc > b.Doc:
		return 1
	default:
		return 0
	}
}

// Less reports whether a orders before b.
func (a DocAddress) Less(b DocAddress) bool {
	return a.Compare(b) < 0
}

// String returns a string representation of the DocAddress.
func (a DocAddress) String() string {
	return fmt.Sprintf("Addr(%d:%d)", a.Segment, a.Doc)
}

// IndexScore is the composite ranking score attached to each search hit:
// the engine's native relevance combined with the document's external row key.
// The key rides along so callers can deduplicate and join results back to
// host rows without a second lookup.
type IndexScore struct {
	Relevance float32
	Key       int64
}

// Compare orders scores by Relevance, then Key as a stable tie-break.
func (s IndexScore) Compare(o IndexScore) int {
	switch {
	case s.Relevance < o.Relevance:
		return -1
	case s.Relevance > o.Relevance:
		return 1
	case s.Key < o.Key:
		return -1
	case s.Key > o.Key:
		return 1
	default:
		return 0
	}
}

// ScoredDoc is one ranked search hit.
type ScoredDoc struct {
	Score IndexScore
	Addr  DocAddress
}

// Document holds the stored field values of one indexed document.
type Document map[string]any
