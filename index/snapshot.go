package index

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/querygate/model"
)

// ErrDocNotFound is returned when an address does not resolve to a document
// within the bound snapshot. It indicates a transient not-found, not a
// schema-contract violation.
var ErrDocNotFound = errors.New("document not found in snapshot")

// Posting is one (document, term frequency) entry of a posting list.
type Posting struct {
	Doc  model.DocID
	Freq uint32
}

// PostingList holds the postings of one (field, term) pair in a segment.
// Postings are sorted ascending by DocID.
type PostingList struct {
	postings []Posting
	docs     *roaring.Bitmap
}

// Len returns the document frequency of the term.
func (p *PostingList) Len() int {
	return len(p.postings)
}

// Postings returns the raw postings, sorted ascending by DocID.
// Callers must not mutate the returned slice.
func (p *PostingList) Postings() []Posting {
	return p.postings
}

// Bitmap returns the set of matching DocIDs. Callers must not mutate it;
// combine with roaring set operations on clones instead.
func (p *PostingList) Bitmap() *roaring.Bitmap {
	return p.docs
}

// Freq returns the term frequency for doc, or 0 when doc does not match.
func (p *PostingList) Freq(doc model.DocID) uint32 {
	// Binary search; postings are sorted by DocID.
	lo, hi := 0, len(p.postings)
	for lo < hi {
		mid := (lo + hi) / 2
		if p.postings[mid].Doc < doc {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(p.postings) && p.postings[lo].Doc == doc {
		return p.postings[lo].Freq
	}
	return 0
}

// FastFieldReader gives O(1) access to a per-segment int64 column keyed by
// DocID. Missing values read as 0.
type FastFieldReader interface {
	Get(doc model.DocID) int64
}

// Segment is an immutable batch of indexed documents. DocIDs within a
// segment are dense, starting at 0.
type Segment interface {
	ID() model.SegmentID
	NumDocs() uint32

	// Postings returns the posting list for (field, term), or false when
	// no document in the segment matches.
	Postings(field, term string) (*PostingList, bool)

	// FieldLength returns the token count of field in doc, for ranking.
	FieldLength(field string, doc model.DocID) int

	// AvgFieldLength returns the mean token count of field across the segment.
	AvgFieldLength(field string) float64

	// FastFieldI64 returns the fast column for field.
	FastFieldI64(field string) (FastFieldReader, error)

	// Doc returns the stored fields of doc.
	Doc(doc model.DocID) (model.Document, error)
}

// Snapshot is an immutable, point-in-time view over an index's segments.
// A snapshot never changes once obtained; concurrent writers advance the
// index elsewhere without affecting it.
type Snapshot interface {
	Schema() *Schema
	Segments() []Segment
	NumDocs() uint64

	// Doc fetches the stored fields for one address within this snapshot.
	// Addresses that do not belong to this snapshot fail with ErrDocNotFound.
	Doc(addr model.DocAddress) (model.Document, error)
}
