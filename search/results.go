package search

import (
	"iter"

	"github.com/hupe1980/querygate/model"
)

// Results is a finite, single-pass sequence of ranked hits. It is owned by
// the State that produced it and is not restartable: every hit is yielded
// at most once across all Next and All calls.
type Results struct {
	items []model.ScoredDoc
	pos   int
}

func newResults(items []model.ScoredDoc) *Results {
	return &Results{items: items}
}

// Remaining returns the number of hits not yet drawn.
func (r *Results) Remaining() int {
	return len(r.items) - r.pos
}

// Next yields the next hit, or false when the sequence is exhausted.
func (r *Results) Next() (model.ScoredDoc, bool) {
	if r.pos >= len(r.items) {
		return model.ScoredDoc{}, false
	}
	sd := r.items[r.pos]
	r.pos++
	return sd, true
}

// All returns an iterator over the remaining hits, consuming them.
func (r *Results) All() iter.Seq[model.ScoredDoc] {
	return func(yield func(model.ScoredDoc) bool) {
		for {
			sd, ok := r.Next()
			if !ok || !yield(sd) {
				return
			}
		}
	}
}
