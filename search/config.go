package search

// Config is the query descriptor handed to a State.
//
// Limit and Offset are optional. When Limit is nil the effective limit is
// the bound snapshot's document count, or 1 for an empty snapshot; when
// Offset is nil the effective offset is 0.
type Config struct {
	Query  Expr
	Limit  *int
	Offset *int
}

// Limit returns a Config limit value.
func Limit(n int) *int { return &n }

// Offset returns a Config offset value.
func Offset(n int) *int { return &n }
