// Package querygate embeds external execution engines — a columnar analytic
// engine and a full-text search/ranking engine — inside a host relational
// database's statement-execution path.
//
// The Interceptor sits on the host's executor hook: per statement it drains
// pending engine writes, classifies the statement, and either services it
// through an embedded handler or delegates to the host's default executor.
// SELECT and DELETE against engine-owned tables are translated into
// engine-neutral logical plans and dispatched; everything else falls through
// unchanged.
//
// # Routing
//
//	host statement ── flush pending writes
//	                  ├─ INSERT into engine table → insert handler
//	                  ├─ empty range table / host-only / bulk load → host
//	                  └─ translate SQL → logical plan
//	                     ├─ translation fails → host (fail open)
//	                     ├─ SELECT → search execution
//	                     ├─ DELETE → delete handler
//	                     ├─ UPDATE → ErrUpdateNotSupported
//	                     └─ other  → host
//
// Failures are asymmetric on purpose: "the planner cannot understand this
// text" is answered by falling back to the host, while any failure after a
// successful translation is a real fault on a supported path and surfaces
// to the caller.
//
// # Quick start
//
//	catalog := plan.StaticCatalog{"articles": schema}
//	ic := querygate.NewInterceptor(
//	    plan.NewTranslator(catalog),
//	    commit.NewBatcher(sink),
//	    querygate.WithSelectHandler(selects),
//	    querygate.WithDeleteHandler(deletes),
//	    querygate.WithInsertHandler(inserts),
//	)
//
//	err := ic.Run(ctx, stmt, params, hostDefault)
package querygate
