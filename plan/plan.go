// Package plan translates SQL source text into engine-neutral logical plans.
//
// Parsing uses a MySQL-compatible dialect; identifiers are resolved against
// an injected CatalogProvider mapping relation and column names to the
// embedded engine's typed schema. Both parse and resolution failures are
// recoverable: the interceptor answers them by falling back to the host.
package plan

import (
	"github.com/hupe1980/querygate/index"
	"github.com/hupe1980/querygate/statement"
)

// LogicalPlan is the translation of exactly one parsed statement.
type LogicalPlan struct {
	// Op is the operation kind the plan was translated from, used by the
	// interceptor to dispatch the plan to a handler.
	Op   statement.OpKind
	Root Node
}

// Node is one relational operation of a logical plan tree.
type Node interface {
	node()
}

// Scan reads an engine relation.
type Scan struct {
	Relation string
	Schema   *index.Schema
}

// Filter keeps input rows satisfying Pred.
type Filter struct {
	Input Node
	Pred  Expr
}

// Project narrows input rows to Columns. An empty Columns list means all
// schema fields (SELECT *).
type Project struct {
	Input   Node
	Columns []string
}

// SortKey orders by one column.
type SortKey struct {
	Column     string
	Descending bool
}

// Sort orders input rows by Keys.
type Sort struct {
	Input Node
	Keys  []SortKey
}

// Limit bounds input rows by Count after skipping Offset.
type Limit struct {
	Input  Node
	Count  int
	Offset int
}

// Delete removes the rows of Relation satisfying Pred (all rows when nil).
type Delete struct {
	Relation string
	Schema   *index.Schema
	Pred     Expr
}

// Insert appends literal Rows into Relation. Columns may be empty, meaning
// the schema's declaration order.
type Insert struct {
	Relation string
	Schema   *index.Schema
	Columns  []string
	Rows     [][]Expr
}

// Update is translated only so the interceptor can reject it explicitly;
// the embedded engines do not execute updates.
type Update struct {
	Relation string
	Schema   *index.Schema
}

func (*Scan) node()    {}
func (*Filter) node()  {}
func (*Project) node() {}
func (*Sort) node()    {}
func (*Limit) node()   {}
func (*Delete) node()  {}
func (*Insert) node()  {}
func (*Update) node()  {}

// Expr is a scalar expression within a plan.
type Expr interface {
	expr()
}

// ColumnRef references a resolved schema column.
type ColumnRef struct {
	Name string
}

// Literal is a constant value: int64, float64, string or bool.
type Literal struct {
	Value any
}

// CompareOp enumerates comparison operators.
type CompareOp int

const (
	CompareEq CompareOp = iota
	CompareNe
	CompareLt
	CompareLe
	CompareGt
	CompareGe
)

// Compare applies Op to Left and Right.
type Compare struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

// And is a logical conjunction.
type And struct {
	Left  Expr
	Right Expr
}

// Or is a logical disjunction.
type Or struct {
	Left  Expr
	Right Expr
}

// Not negates Input.
type Not struct {
	Input Expr
}

func (*ColumnRef) expr() {}
func (*Literal) expr()   {}
func (*Compare) expr()   {}
func (*And) expr()       {}
func (*Or) expr()        {}
func (*Not) expr()       {}
