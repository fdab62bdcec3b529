package commit

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/hupe1980/querygate/model"
)

// BatcherOption configures a Batcher.
type BatcherOption func(*Batcher)

// WithMaxConcurrentFlushes bounds how many relations flush in parallel
// during a commit. Values below 1 are ignored.
func WithMaxConcurrentFlushes(n int) BatcherOption {
	return func(b *Batcher) {
		if n >= 1 {
			b.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithCommitRate paces commits to at most r per second. By default commits
// are unpaced.
func WithCommitRate(r rate.Limit) BatcherOption {
	return func(b *Batcher) {
		b.limiter = rate.NewLimiter(r, 1)
	}
}

// Batcher is the in-process Coordinator implementation. Writes are staged
// per relation and drained as batches through a Sink when the interceptor
// forces a commit.
type Batcher struct {
	sink    Sink
	sem     *semaphore.Weighted
	limiter *rate.Limiter

	mu      sync.Mutex
	pending map[string][]model.Document
}

var _ Coordinator = (*Batcher)(nil)

// NewBatcher creates a Batcher draining into sink.
func NewBatcher(sink Sink, opts ...BatcherOption) *Batcher {
	b := &Batcher{
		sink:    sink,
		sem:     semaphore.NewWeighted(4),
		limiter: rate.NewLimiter(rate.Inf, 0),
		pending: make(map[string][]model.Document),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Stage buffers rows for relation until the next commit.
func (b *Batcher) Stage(relation string, rows ...model.Document) {
	if len(rows) == 0 {
		return
	}
	b.mu.Lock()
	b.pending[relation] = append(b.pending[relation], rows...)
	b.mu.Unlock()
}

// HasPendingWrites implements Coordinator.
func (b *Batcher) HasPendingWrites() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending) > 0
}

// CommitPendingWrites implements Coordinator. It swaps out the staged
// buffers and flushes each relation through the sink, fanning out across
// relations bounded by the flush semaphore. The first sink failure aborts
// the commit; the failed buffers are not restored.
func (b *Batcher) CommitPendingWrites(ctx context.Context) error {
	b.mu.Lock()
	batches := b.pending
	b.pending = make(map[string][]model.Document)
	b.mu.Unlock()

	if len(batches) == 0 {
		return nil
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for relation, rows := range batches {
		g.Go(func() error {
			if err := b.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer b.sem.Release(1)
			return b.sink.Flush(ctx, relation, rows)
		})
	}
	return g.Wait()
}
