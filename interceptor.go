package querygate

import (
	"context"

	"github.com/hupe1980/querygate/commit"
	"github.com/hupe1980/querygate/plan"
	"github.com/hupe1980/querygate/statement"
)

// ContinuationFunc represents the host's default execution for a statement.
// The interceptor invokes it exactly once on every path it does not fully
// service itself.
type ContinuationFunc func(ctx context.Context, stmt *statement.Statement, params statement.ExecParams) error

// InsertHandler materializes INSERT statements into engine-owned relations.
type InsertHandler interface {
	Insert(ctx context.Context, stmt *statement.Statement) error
}

// SelectHandler executes a translated SELECT plan through the search path.
type SelectHandler interface {
	Select(ctx context.Context, stmt *statement.Statement, lp *plan.LogicalPlan) error
}

// DeleteHandler executes a translated DELETE plan against the range table.
type DeleteHandler interface {
	Delete(ctx context.Context, stmt *statement.Statement, lp *plan.LogicalPlan) error
}

// Interceptor routes host statements between the embedded engines and the
// host's default executor. The host serializes statement executions within
// a session, so Run is never invoked concurrently for one session.
type Interceptor struct {
	translator  *plan.Translator
	coordinator commit.Coordinator
	inserts     InsertHandler
	selects     SelectHandler
	deletes     DeleteHandler
	logger      *Logger
}

// NewInterceptor composes an Interceptor from a translator and a write
// coordinator; handlers and logging are attached via options.
func NewInterceptor(translator *plan.Translator, coordinator commit.Coordinator, opts ...Option) *Interceptor {
	o := options{logger: NoopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Interceptor{
		translator:  translator,
		coordinator: coordinator,
		inserts:     o.inserts,
		selects:     o.selects,
		deletes:     o.deletes,
		logger:      o.logger,
	}
}

// Run intercepts one statement.
//
// Pending writes are always drained first, so every statement — embedded or
// delegated — observes the session's own prior writes. After that the
// statement is classified: INSERT into an engine-owned relation runs the
// insert handler; host-only, empty-range-table, remaining-INSERT and
// bulk-load statements delegate unchanged; everything else is translated
// and dispatched on the resulting plan.
//
// Translation failure is not an error: the statement delegates to the host
// and Run returns nil. Once translation succeeds, handler failures are
// surfaced as hard failures.
func (ic *Interceptor) Run(ctx context.Context, stmt *statement.Statement, params statement.ExecParams, next ContinuationFunc) error {
	if ic.coordinator != nil && ic.coordinator.HasPendingWrites() {
		err := ic.coordinator.CommitPendingWrites(ctx)
		ic.logger.LogFlush(ctx, err)
		if err != nil {
			return &CommitError{cause: err}
		}
	}

	route := statement.Classify(stmt)
	ic.logger.LogRoute(ctx, stmt.Op, route)

	switch route {
	case statement.RouteInsert:
		if err := ic.insert(ctx, stmt); err != nil {
			ic.logger.LogDispatch(ctx, stmt.Op, err)
			return err
		}
		ic.logger.LogDispatch(ctx, stmt.Op, nil)
		return nil

	case statement.RouteDelegate:
		return next(ctx, stmt, params)
	}

	lp, err := ic.translator.Translate(stmt.SourceText)
	if err != nil {
		// The embedded planner cannot understand this text; that is a
		// request to use the host engine, not a fault.
		ic.logger.LogFallback(ctx, err)
		return next(ctx, stmt, params)
	}

	switch stmt.Op {
	case statement.OpSelect:
		err := ic.sel(ctx, stmt, lp)
		ic.logger.LogDispatch(ctx, stmt.Op, err)
		return err
	case statement.OpDelete:
		err := ic.del(ctx, stmt, lp)
		ic.logger.LogDispatch(ctx, stmt.Op, err)
		return err
	case statement.OpUpdate:
		ic.logger.LogDispatch(ctx, stmt.Op, ErrUpdateNotSupported)
		return ErrUpdateNotSupported
	default:
		return next(ctx, stmt, params)
	}
}

func (ic *Interceptor) insert(ctx context.Context, stmt *statement.Statement) error {
	if ic.inserts == nil {
		return &ExecutionError{Op: stmt.Op, cause: errNoHandler("insert")}
	}
	if err := ic.inserts.Insert(ctx, stmt); err != nil {
		return &ExecutionError{Op: stmt.Op, cause: err}
	}
	return nil
}

func (ic *Interceptor) sel(ctx context.Context, stmt *statement.Statement, lp *plan.LogicalPlan) error {
	if ic.selects == nil {
		return &ExecutionError{Op: stmt.Op, cause: errNoHandler("select")}
	}
	if err := ic.selects.Select(ctx, stmt, lp); err != nil {
		return &ExecutionError{Op: stmt.Op, cause: err}
	}
	return nil
}

func (ic *Interceptor) del(ctx context.Context, stmt *statement.Statement, lp *plan.LogicalPlan) error {
	if ic.deletes == nil {
		return &ExecutionError{Op: stmt.Op, cause: errNoHandler("delete")}
	}
	if err := ic.deletes.Delete(ctx, stmt, lp); err != nil {
		return &ExecutionError{Op: stmt.Op, cause: err}
	}
	return nil
}
