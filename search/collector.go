package search

import (
	"fmt"

	"github.com/hupe1980/querygate/model"
)

// topCollector keeps the k best hits seen so far, ranked by composite score.
// It is a value-based bounded min-heap: the root is the current worst hit,
// so a full heap admits a new hit by replacing the root. It does NOT
// implement container/heap to avoid interface overhead.
type topCollector struct {
	limit int
	items []model.ScoredDoc
}

// newTopCollector creates a collector for the given limit. The limit must
// be at least 1.
func newTopCollector(limit int) (*topCollector, error) {
	if limit < 1 {
		return nil, fmt.Errorf("collector: limit must be >= 1, got %d", limit)
	}
	return &topCollector{limit: limit, items: make([]model.ScoredDoc, 0, limit)}, nil
}

// worse reports whether a ranks strictly below b: lower composite score, or
// equal score with the greater address. Ranking output therefore lists equal
// scores in ascending address order.
func worse(a, b model.ScoredDoc) bool {
	if c := a.Score.Compare(b.Score); c != 0 {
		return c < 0
	}
	return b.Addr.Less(a.Addr)
}

// Collect offers one hit to the heap.
func (c *topCollector) Collect(sd model.ScoredDoc) {
	if len(c.items) < c.limit {
		c.items = append(c.items, sd)
		c.siftUp(len(c.items) - 1)
		return
	}
	if worse(sd, c.items[0]) {
		return
	}
	c.items[0] = sd
	c.siftDown(0)
}

// Ranked drains the heap and returns the hits in descending rank order.
// The collector is empty afterwards.
func (c *topCollector) Ranked() []model.ScoredDoc {
	out := make([]model.ScoredDoc, len(c.items))
	for i := len(c.items) - 1; i >= 0; i-- {
		out[i] = c.items[0]
		last := len(c.items) - 1
		c.items[0] = c.items[last]
		c.items = c.items[:last]
		if last > 0 {
			c.siftDown(0)
		}
	}
	return out
}

func (c *topCollector) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !worse(c.items[i], c.items[parent]) {
			break
		}
		c.items[i], c.items[parent] = c.items[parent], c.items[i]
		i = parent
	}
}

func (c *topCollector) siftDown(i int) {
	n := len(c.items)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && worse(c.items[left], c.items[smallest]) {
			smallest = left
		}
		if right < n && worse(c.items[right], c.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			return
		}
		c.items[i], c.items[smallest] = c.items[smallest], c.items[i]
		i = smallest
	}
}
