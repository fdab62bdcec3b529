// Package statement describes host query descriptors and classifies them into
// interception routes. Classification is a pure routing table over
// (operation kind, relation ownership, source text) and is testable without a
// live host session.
package statement

import "strings"

// OpKind is the operation kind of a host statement.
type OpKind int

const (
	OpUnknown OpKind = iota
	OpSelect
	OpInsert
	OpUpdate
	OpDelete
)

// String returns a string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpSelect:
		return "SELECT"
	case OpInsert:
		return "INSERT"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// ScanDirection is the host's requested scan direction.
type ScanDirection int

const (
	DirectionNone ScanDirection = iota
	DirectionForward
	DirectionBackward
)

// Relation is one entry of a statement's range table.
type Relation struct {
	Name string
	// EngineOwned marks relations whose querying is delegated to the
	// embedded engines rather than the host executor.
	EngineOwned bool
}

// Statement is the host query descriptor handed to the interceptor.
type Statement struct {
	Op         OpKind
	RangeTable []Relation
	SourceText string
}

// ExecParams carries the host's execution parameters for one statement.
type ExecParams struct {
	Direction   ScanDirection
	Count       uint64
	ExecuteOnce bool
}

// bulkLoadPrefix identifies bulk-load statements by raw source text.
// The match is a textual heuristic, not a parsed statement property: any
// text beginning with this literal is deferred to the host regardless of
// semantic validity.
const bulkLoadPrefix = "copy"

// HasEngineRelation reports whether any range-table entry is engine-owned.
func (s *Statement) HasEngineRelation() bool {
	for _, rel := range s.RangeTable {
		if rel.EngineOwned {
			return true
		}
	}
	return false
}

// IsBulkLoad reports whether the raw source text starts (case-insensitively)
// with the bulk-load literal.
func (s *Statement) IsBulkLoad() bool {
	return strings.HasPrefix(strings.ToLower(s.SourceText), bulkLoadPrefix)
}

// Route is the interception decision for one statement.
type Route int

const (
	// RouteDelegate hands the statement to the host's default executor.
	RouteDelegate Route = iota
	// RouteInsert runs the embedded insert handler.
	RouteInsert
	// RouteTranslate translates the source text and dispatches on the plan.
	RouteTranslate
)

// String returns a string representation of the Route.
func (r Route) String() string {
	switch r {
	case RouteInsert:
		return "insert"
	case RouteTranslate:
		return "translate"
	default:
		return "delegate"
	}
}

// Classify maps a statement to its interception route.
//
// INSERT into an engine-owned relation wins over every later rule. A
// statement is delegated when its range table is empty, it is any remaining
// INSERT, no referenced relation is engine-owned, or the source text is a
// bulk load. Everything else proceeds to translation.
func Classify(s *Statement) Route {
	if s.Op == OpInsert && s.HasEngineRelation() {
		return RouteInsert
	}

	switch {
	case len(s.RangeTable) == 0,
		s.Op == OpInsert,
		!s.HasEngineRelation(),
		s.IsBulkLoad():
		return RouteDelegate
	}

	return RouteTranslate
}
