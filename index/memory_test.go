package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/querygate/model"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()

	schema, err := NewSchema("id",
		Field{Name: "id", Kind: FieldI64, Stored: true, Fast: true},
		Field{Name: "title", Kind: FieldText, Stored: true, Indexed: true},
	)
	require.NoError(t, err)
	return schema
}

func TestNewSchemaValidation(t *testing.T) {
	_, err := NewSchema("id")
	assert.Error(t, err)

	_, err = NewSchema("missing", Field{Name: "id", Kind: FieldI64})
	assert.Error(t, err)

	_, err = NewSchema("id",
		Field{Name: "id", Kind: FieldI64},
		Field{Name: "id", Kind: FieldText},
	)
	assert.Error(t, err)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, Tokenize("  Hello\tWORLD "))
	assert.Empty(t, Tokenize("   "))
}

func TestBuilderValidation(t *testing.T) {
	b := NewBuilder(testSchema(t))

	_, err := b.Add(model.Document{"title": "no key"})
	assert.Error(t, err)

	_, err = b.Add(model.Document{"id": "not an int", "title": "x"})
	assert.Error(t, err)

	_, err = b.Add(model.Document{"id": int64(1), "body": "unknown field"})
	assert.Error(t, err)

	docID, err := b.Add(model.Document{"id": int64(1), "title": "ok"})
	require.NoError(t, err)
	assert.Equal(t, model.DocID(0), docID)
}

func TestMemorySegment(t *testing.T) {
	b := NewBuilder(testSchema(t))

	_, err := b.Add(model.Document{"id": int64(10), "title": "the quick brown fox"})
	require.NoError(t, err)
	_, err = b.Add(model.Document{"id": int64(20), "title": "the lazy dog"})
	require.NoError(t, err)

	seg, err := b.Segment(1)
	require.NoError(t, err)
	assert.Equal(t, model.SegmentID(1), seg.ID())
	assert.Equal(t, uint32(2), seg.NumDocs())

	// Postings
	pl, ok := seg.Postings("title", "the")
	require.True(t, ok)
	assert.Equal(t, 2, pl.Len())
	assert.Equal(t, uint32(1), pl.Freq(0))
	assert.Equal(t, uint32(0), pl.Freq(99))

	pl, ok = seg.Postings("title", "fox")
	require.True(t, ok)
	assert.Equal(t, 1, pl.Len())
	assert.True(t, pl.Bitmap().Contains(0))
	assert.False(t, pl.Bitmap().Contains(1))

	_, ok = seg.Postings("title", "cat")
	assert.False(t, ok)

	// Field stats
	assert.Equal(t, 4, seg.FieldLength("title", 0))
	assert.Equal(t, 3, seg.FieldLength("title", 1))
	assert.InDelta(t, 3.5, seg.AvgFieldLength("title"), 1e-9)

	// Fast field
	keys, err := seg.FastFieldI64("id")
	require.NoError(t, err)
	assert.Equal(t, int64(10), keys.Get(0))
	assert.Equal(t, int64(20), keys.Get(1))
	assert.Equal(t, int64(0), keys.Get(5))

	_, err = seg.FastFieldI64("title")
	assert.Error(t, err)

	// Stored fields survive the compressed roundtrip.
	doc, err := seg.Doc(0)
	require.NoError(t, err)
	assert.Equal(t, "the quick brown fox", doc["title"])

	_, err = seg.Doc(7)
	assert.ErrorIs(t, err, ErrDocNotFound)
}

func TestBuilderResetsBetweenSegments(t *testing.T) {
	b := NewBuilder(testSchema(t))

	_, err := b.Add(model.Document{"id": int64(1), "title": "first"})
	require.NoError(t, err)
	seg1, err := b.Segment(1)
	require.NoError(t, err)

	_, err = b.Add(model.Document{"id": int64(2), "title": "second"})
	require.NoError(t, err)
	seg2, err := b.Segment(2)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), seg1.NumDocs())
	assert.Equal(t, uint32(1), seg2.NumDocs())
}

func TestSnapshot(t *testing.T) {
	schema := testSchema(t)
	b := NewBuilder(schema)

	_, err := b.Add(model.Document{"id": int64(1), "title": "alpha"})
	require.NoError(t, err)
	seg1, err := b.Segment(1)
	require.NoError(t, err)

	_, err = b.Add(model.Document{"id": int64(2), "title": "beta"})
	require.NoError(t, err)
	_, err = b.Add(model.Document{"id": int64(3), "title": "gamma"})
	require.NoError(t, err)
	seg2, err := b.Segment(2)
	require.NoError(t, err)

	snap := NewSnapshot(schema, seg1, seg2)
	assert.Equal(t, uint64(3), snap.NumDocs())
	assert.Len(t, snap.Segments(), 2)

	doc, err := snap.Doc(model.DocAddress{Segment: 2, Doc: 1})
	require.NoError(t, err)
	assert.Equal(t, "gamma", doc["title"])

	_, err = snap.Doc(model.DocAddress{Segment: 9, Doc: 0})
	assert.ErrorIs(t, err, ErrDocNotFound)

	_, err = snap.Doc(model.DocAddress{Segment: 1, Doc: 5})
	assert.ErrorIs(t, err, ErrDocNotFound)
}
