package index

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/querygate/model"
)

// Shared zstd encoder/decoder for stored-field blocks. EncodeAll/DecodeAll
// on shared instances are safe for concurrent use.
var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func zstdInit() {
	zstdOnce.Do(func() {
		zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		zstdDecoder, _ = zstd.NewReader(nil)
	})
}

type fieldTerm struct {
	field string
	term  string
}

type i64Column []int64

func (c i64Column) Get(doc model.DocID) int64 {
	if int(doc) >= len(c) {
		return 0
	}
	return c[doc]
}

// MemorySegment is an immutable in-memory Segment built by a Builder.
type MemorySegment struct {
	id       model.SegmentID
	numDocs  uint32
	postings map[fieldTerm]*PostingList
	fieldLen map[string][]uint32
	avgLen   map[string]float64
	fast     map[string]i64Column
	stored   [][]byte // zstd-compressed JSON, one blob per doc
}

var _ Segment = (*MemorySegment)(nil)

// ID returns the segment identifier.
func (ms *MemorySegment) ID() model.SegmentID { return ms.id }

// NumDocs returns the number of documents in the segment.
func (ms *MemorySegment) NumDocs() uint32 { return ms.numDocs }

// Postings returns the posting list for (field, term).
func (ms *MemorySegment) Postings(field, term string) (*PostingList, bool) {
	pl, ok := ms.postings[fieldTerm{field, term}]
	return pl, ok
}

// FieldLength returns the token count of field in doc.
func (ms *MemorySegment) FieldLength(field string, doc model.DocID) int {
	lens, ok := ms.fieldLen[field]
	if !ok || int(doc) >= len(lens) {
		return 0
	}
	return int(lens[doc])
}

// AvgFieldLength returns the mean token count of field across the segment.
func (ms *MemorySegment) AvgFieldLength(field string) float64 {
	return ms.avgLen[field]
}

// FastFieldI64 returns the fast column for field.
func (ms *MemorySegment) FastFieldI64(field string) (FastFieldReader, error) {
	col, ok := ms.fast[field]
	if !ok {
		return nil, fmt.Errorf("segment %d: no i64 fast field %q", ms.id, field)
	}
	return col, nil
}

// Doc decompresses and decodes the stored fields of doc.
func (ms *MemorySegment) Doc(doc model.DocID) (model.Document, error) {
	if int(doc) >= len(ms.stored) {
		return nil, fmt.Errorf("%w: %s", ErrDocNotFound, model.DocAddress{Segment: ms.id, Doc: doc})
	}
	zstdInit()
	raw, err := zstdDecoder.DecodeAll(ms.stored[doc], nil)
	if err != nil {
		return nil, fmt.Errorf("decompress stored doc %d: %w", doc, err)
	}
	var d model.Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode stored doc %d: %w", doc, err)
	}
	return d, nil
}

// Builder accumulates documents and freezes them into immutable segments.
// It is not safe for concurrent use.
type Builder struct {
	schema *Schema
	docs   []model.Document
}

// NewBuilder creates a Builder for schema.
func NewBuilder(schema *Schema) *Builder {
	return &Builder{schema: schema}
}

// Add validates doc against the schema and stages it for the next segment.
// The key field value must be present and an int64.
func (b *Builder) Add(doc model.Document) (model.DocID, error) {
	key := b.schema.KeyField().Name
	v, ok := doc[key]
	if !ok {
		return 0, fmt.Errorf("builder: document missing key field %q", key)
	}
	if _, err := asI64(v); err != nil {
		return 0, fmt.Errorf("builder: key field %q: %w", key, err)
	}
	for name := range doc {
		if _, ok := b.schema.Field(name); !ok {
			return 0, fmt.Errorf("builder: unknown field %q", name)
		}
	}
	b.docs = append(b.docs, doc)
	return model.DocID(len(b.docs) - 1), nil
}

// Segment freezes the staged documents into an immutable MemorySegment with
// the given id and resets the builder for the next batch.
func (b *Builder) Segment(id model.SegmentID) (*MemorySegment, error) {
	zstdInit()

	ms := &MemorySegment{
		id:       id,
		numDocs:  uint32(len(b.docs)),
		postings: make(map[fieldTerm]*PostingList),
		fieldLen: make(map[string][]uint32),
		avgLen:   make(map[string]float64),
		fast:     make(map[string]i64Column),
		stored:   make([][]byte, 0, len(b.docs)),
	}

	type accum struct {
		freq map[model.DocID]uint32
	}
	inverted := make(map[fieldTerm]*accum)

	for docID, doc := range b.docs {
		did := model.DocID(docID)

		for _, f := range b.schema.Fields() {
			v, ok := doc[f.Name]

			switch {
			case f.Kind == FieldText && f.Indexed:
				var tokens []string
				if ok {
					text, isStr := v.(string)
					if !isStr {
						return nil, fmt.Errorf("segment %d: field %q is not text", id, f.Name)
					}
					tokens = Tokenize(text)
				}
				ms.fieldLen[f.Name] = append(ms.fieldLen[f.Name], uint32(len(tokens)))
				for _, tok := range tokens {
					ft := fieldTerm{f.Name, tok}
					acc := inverted[ft]
					if acc == nil {
						acc = &accum{freq: make(map[model.DocID]uint32)}
						inverted[ft] = acc
					}
					acc.freq[did]++
				}

			case f.Kind == FieldI64 && f.Fast:
				var kv int64
				if ok {
					var err error
					kv, err = asI64(v)
					if err != nil {
						return nil, fmt.Errorf("segment %d: field %q: %w", id, f.Name, err)
					}
				}
				ms.fast[f.Name] = append(ms.fast[f.Name], kv)
			}
		}

		raw, err := json.Marshal(storedFields(b.schema, doc))
		if err != nil {
			return nil, fmt.Errorf("segment %d: encode doc %d: %w", id, docID, err)
		}
		ms.stored = append(ms.stored, zstdEncoder.EncodeAll(raw, nil))
	}

	for ft, acc := range inverted {
		pl := &PostingList{
			postings: make([]Posting, 0, len(acc.freq)),
			docs:     roaring.New(),
		}
		for did, freq := range acc.freq {
			pl.postings = append(pl.postings, Posting{Doc: did, Freq: freq})
			pl.docs.Add(uint32(did))
		}
		sort.Slice(pl.postings, func(i, j int) bool {
			return pl.postings[i].Doc < pl.postings[j].Doc
		})
		ms.postings[ft] = pl
	}

	for name, lens := range ms.fieldLen {
		var total uint64
		for _, l := range lens {
			total += uint64(l)
		}
		if len(b.docs) > 0 {
			ms.avgLen[name] = float64(total) / float64(len(b.docs))
		}
	}

	b.docs = nil

	return ms, nil
}

func storedFields(schema *Schema, doc model.Document) model.Document {
	out := make(model.Document, len(doc))
	for name, v := range doc {
		if f, ok := schema.Field(name); ok && f.Stored {
			out[name] = v
		}
	}
	return out
}

func asI64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("value %T is not a 64-bit integer", v)
	}
}

// memSnapshot is the in-memory Snapshot implementation.
type memSnapshot struct {
	schema   *Schema
	segments []Segment
	byID     map[model.SegmentID]Segment
	numDocs  uint64
}

// NewSnapshot assembles an immutable snapshot over the given segments.
func NewSnapshot(schema *Schema, segments ...Segment) Snapshot {
	snap := &memSnapshot{
		schema:   schema,
		segments: segments,
		byID:     make(map[model.SegmentID]Segment, len(segments)),
	}
	for _, seg := range segments {
		snap.byID[seg.ID()] = seg
		snap.numDocs += uint64(seg.NumDocs())
	}
	return snap
}

func (s *memSnapshot) Schema() *Schema     { return s.schema }
func (s *memSnapshot) Segments() []Segment { return s.segments }
func (s *memSnapshot) NumDocs() uint64     { return s.numDocs }

func (s *memSnapshot) Doc(addr model.DocAddress) (model.Document, error) {
	seg, ok := s.byID[addr.Segment]
	if !ok || uint32(addr.Doc) >= seg.NumDocs() {
		return nil, fmt.Errorf("%w: %s", ErrDocNotFound, addr)
	}
	return seg.Doc(addr.Doc)
}
