package search

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/querygate/index"
	"github.com/hupe1980/querygate/model"
)

// BM25 parameters.
const (
	k1 = 1.2
	b  = 0.75
)

// Query is an executable, segment-at-a-time query. Matches returns the set
// of matching documents in a segment; Scorer returns the relevance scorer
// for the same segment.
type Query interface {
	Matches(seg index.Segment) (*roaring.Bitmap, error)
	Scorer(seg index.Segment) (Scorer, error)
}

// Scorer computes the relevance score of one matching document.
type Scorer interface {
	Score(doc model.DocID) float32
}

type constScorer float32

func (s constScorer) Score(model.DocID) float32 { return float32(s) }

// allQuery matches every document in every segment.
type allQuery struct{}

func (allQuery) Matches(seg index.Segment) (*roaring.Bitmap, error) {
	bm := roaring.New()
	if n := seg.NumDocs(); n > 0 {
		bm.AddRange(0, uint64(n))
	}
	return bm, nil
}

func (allQuery) Scorer(index.Segment) (Scorer, error) {
	return constScorer(1), nil
}

// termQuery matches documents containing term in field, scored with BM25
// against the segment's field statistics.
type termQuery struct {
	field string
	term  string
}

func (q termQuery) Matches(seg index.Segment) (*roaring.Bitmap, error) {
	pl, ok := seg.Postings(q.field, q.term)
	if !ok {
		return roaring.New(), nil
	}
	return pl.Bitmap().Clone(), nil
}

func (q termQuery) Scorer(seg index.Segment) (Scorer, error) {
	pl, ok := seg.Postings(q.field, q.term)
	if !ok {
		return constScorer(0), nil
	}

	numDocs := float64(seg.NumDocs())
	df := float64(pl.Len())
	idf := math.Log(1 + (numDocs-df+0.5)/(df+0.5))

	avgLen := seg.AvgFieldLength(q.field)
	if avgLen == 0 {
		return constScorer(0), nil
	}

	return &bm25Scorer{
		seg:    seg,
		pl:     pl,
		field:  q.field,
		idf:    idf,
		k1b:    k1 * (1 - b),
		k1bAvg: k1 * b / avgLen,
	}, nil
}

// bm25Scorer holds per-segment constants precomputed once per query term.
type bm25Scorer struct {
	seg    index.Segment
	pl     *index.PostingList
	field  string
	idf    float64
	k1b    float64
	k1bAvg float64
}

func (s *bm25Scorer) Score(doc model.DocID) float32 {
	tf := float64(s.pl.Freq(doc))
	if tf == 0 {
		return 0
	}
	dl := float64(s.seg.FieldLength(s.field, doc))
	num := tf * (k1 + 1)
	denom := tf + s.k1b + s.k1bAvg*dl
	return float32(s.idf * (num / denom))
}

// booleanQuery combines sub-queries. Matching documents satisfy every must
// clause (or at least one should clause when no must is present) and no
// mustNot clause; relevance is the sum of the matching clause scores.
type booleanQuery struct {
	must    []Query
	should  []Query
	mustNot []Query
}

func (q booleanQuery) Matches(seg index.Segment) (*roaring.Bitmap, error) {
	var bm *roaring.Bitmap

	switch {
	case len(q.must) > 0:
		for _, sub := range q.must {
			sm, err := sub.Matches(seg)
			if err != nil {
				return nil, err
			}
			if bm == nil {
				bm = sm
			} else {
				bm.And(sm)
			}
		}
	case len(q.should) > 0:
		bm = roaring.New()
		for _, sub := range q.should {
			sm, err := sub.Matches(seg)
			if err != nil {
				return nil, err
			}
			bm.Or(sm)
		}
	default:
		bm = roaring.New()
		if n := seg.NumDocs(); n > 0 {
			bm.AddRange(0, uint64(n))
		}
	}

	for _, sub := range q.mustNot {
		sm, err := sub.Matches(seg)
		if err != nil {
			return nil, err
		}
		bm.AndNot(sm)
	}

	return bm, nil
}

func (q booleanQuery) Scorer(seg index.Segment) (Scorer, error) {
	scorers := make([]Scorer, 0, len(q.must)+len(q.should))
	for _, sub := range q.must {
		sc, err := sub.Scorer(seg)
		if err != nil {
			return nil, err
		}
		scorers = append(scorers, sc)
	}
	for _, sub := range q.should {
		sc, err := sub.Scorer(seg)
		if err != nil {
			return nil, err
		}
		scorers = append(scorers, sc)
	}
	return sumScorer(scorers), nil
}

type sumScorer []Scorer

func (s sumScorer) Score(doc model.DocID) float32 {
	var total float32
	for _, sc := range s {
		total += sc.Score(doc)
	}
	return total
}
