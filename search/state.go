package search

import (
	"fmt"

	"github.com/hupe1980/querygate/index"
	"github.com/hupe1980/querygate/model"
)

// State is a per-invocation search execution context. It binds exactly one
// immutable snapshot for its whole lifetime and serves exactly one Search or
// SearchDedup call. A State is owned by a single execution and is not safe
// for concurrent use.
type State struct {
	schema   *index.Schema
	snapshot index.Snapshot
	query    Query
	parser   *Parser
	cfg      Config
	keyField string
	consumed bool
}

// NewState binds snap and compiles cfg's query expression against the
// snapshot's schema. A nil Config.Query compiles as match-all.
//
// Compilation failure — including a key field that is not a fast 64-bit
// integer column — returns a *SchemaViolationError and must abort the
// operation; it is never an invitation to fall back to the host.
func NewState(snap index.Snapshot, cfg Config) (*State, error) {
	schema := snap.Schema()

	key := schema.KeyField()
	if key.Kind != index.FieldI64 || !key.Fast {
		return nil, schemaViolationf("key field %q must be a fast i64 column, got %s", key.Name, key.Kind)
	}

	parser := NewParser(schema)

	expr := cfg.Query
	if expr == nil {
		expr = All{}
	}
	query, err := expr.Compile(schema, parser)
	if err != nil {
		if _, ok := err.(*SchemaViolationError); ok {
			return nil, err
		}
		return nil, &SchemaViolationError{Detail: "query compilation failed", cause: err}
	}

	return &State{
		schema:   schema,
		snapshot: snap,
		query:    query,
		parser:   parser,
		cfg:      cfg,
		keyField: key.Name,
	}, nil
}

// effectiveLimit resolves the descriptor's limit: an explicit value wins;
// otherwise the snapshot's document count, or 1 when the snapshot is empty
// since the collector rejects a limit of 0.
func (s *State) effectiveLimit() int {
	if s.cfg.Limit != nil {
		return *s.cfg.Limit
	}
	if n := s.snapshot.NumDocs(); n > 0 {
		return int(n)
	}
	return 1
}

func (s *State) effectiveOffset() int {
	if s.cfg.Offset != nil {
		return *s.cfg.Offset
	}
	return 0
}

// Search runs ranked top-k retrieval over the bound snapshot. Each hit's
// native relevance is replaced by a composite score carrying the external
// key, read per segment from the key field's fast column. Hits are returned
// in descending composite-score order, bounded by the effective limit and
// offset.
//
// Results may include stale physical documents for logical rows rewritten
// after the snapshot was taken; callers without their own visibility
// filtering should use SearchDedup instead.
func (s *State) Search() (*Results, error) {
	if s.consumed {
		return nil, ErrStateConsumed
	}
	s.consumed = true

	hits, err := s.run()
	if err != nil {
		return nil, err
	}
	return newResults(hits), nil
}

// SearchDedup runs Search, then folds the ranked hits by external key. For
// each key the entry with the lexicographically greatest address wins,
// standing in for "most recently written" in the absence of visibility
// metadata. Keys are emitted in their first-seen order from the ranked
// sequence, preserving the perceived relevance order of non-colliding keys.
func (s *State) SearchDedup() (*Results, error) {
	if s.consumed {
		return nil, ErrStateConsumed
	}
	s.consumed = true

	hits, err := s.run()
	if err != nil {
		return nil, err
	}
	return newResults(dedupByKey(hits)), nil
}

func (s *State) run() ([]model.ScoredDoc, error) {
	limit := s.effectiveLimit()
	offset := s.effectiveOffset()

	coll, err := newTopCollector(limit + offset)
	if err != nil {
		return nil, err
	}

	for _, seg := range s.snapshot.Segments() {
		keys, err := seg.FastFieldI64(s.keyField)
		if err != nil {
			return nil, &SchemaViolationError{
				Detail: fmt.Sprintf("segment %d has no fast key column %q", seg.ID(), s.keyField),
				cause:  err,
			}
		}

		matches, err := s.query.Matches(seg)
		if err != nil {
			return nil, err
		}
		scorer, err := s.query.Scorer(seg)
		if err != nil {
			return nil, err
		}

		it := matches.Iterator()
		for it.HasNext() {
			doc := model.DocID(it.Next())
			coll.Collect(model.ScoredDoc{
				Score: model.IndexScore{
					Relevance: scorer.Score(doc),
					Key:       keys.Get(doc),
				},
				Addr: model.DocAddress{Segment: seg.ID(), Doc: doc},
			})
		}
	}

	ranked := coll.Ranked()
	if offset >= len(ranked) {
		return nil, nil
	}
	return ranked[offset:], nil
}

// dedupByKey keeps, per key, the hit with the greatest address, and emits
// keys in their first-seen order from the ranked input.
func dedupByKey(hits []model.ScoredDoc) []model.ScoredDoc {
	best := make(map[int64]model.ScoredDoc, len(hits))
	order := make([]int64, 0, len(hits))

	for _, hit := range hits {
		key := hit.Score.Key
		cur, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = hit
			continue
		}
		if cur.Addr.Less(hit.Addr) {
			best[key] = hit
		}
	}

	out := make([]model.ScoredDoc, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

// Doc fetches the stored field values for one address within the bound
// snapshot. An address outside the snapshot fails with index.ErrDocNotFound,
// a transient not-found distinct from schema-contract violations.
func (s *State) Doc(addr model.DocAddress) (model.Document, error) {
	return s.snapshot.Doc(addr)
}
