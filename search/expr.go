package search

import (
	"github.com/hupe1980/querygate/index"
)

// Expr is a structured query expression. Compiling an expression against a
// schema yields an executable Query; compile failures are schema-contract
// violations, not user-facing errors.
type Expr interface {
	Compile(schema *index.Schema, parser *Parser) (Query, error)
}

// All matches every document with a constant relevance of 1.
type All struct{}

// Compile implements Expr.
func (All) Compile(_ *index.Schema, _ *Parser) (Query, error) {
	return allQuery{}, nil
}

// Term matches documents containing Value in Field.
type Term struct {
	Field string
	Value string
}

// Compile implements Expr.
func (t Term) Compile(schema *index.Schema, _ *Parser) (Query, error) {
	f, ok := schema.Field(t.Field)
	if !ok {
		return nil, schemaViolationf("unknown field %q", t.Field)
	}
	if f.Kind != index.FieldText || !f.Indexed {
		return nil, schemaViolationf("field %q is not an indexed text field", t.Field)
	}

	tokens := index.Tokenize(t.Value)
	switch len(tokens) {
	case 0:
		return nil, schemaViolationf("term on field %q has no tokens", t.Field)
	case 1:
		return termQuery{field: t.Field, term: tokens[0]}, nil
	default:
		// Multi-token term values behave as a conjunction of its tokens.
		q := booleanQuery{}
		for _, tok := range tokens {
			q.must = append(q.must, termQuery{field: t.Field, term: tok})
		}
		return q, nil
	}
}

// Boolean combines sub-expressions: all Must match, MustNot exclude, and
// Should contribute to scoring (and to matching when no Must is present).
type Boolean struct {
	Must    []Expr
	Should  []Expr
	MustNot []Expr
}

// Compile implements Expr.
func (b Boolean) Compile(schema *index.Schema, parser *Parser) (Query, error) {
	var q booleanQuery
	for _, e := range b.Must {
		sub, err := e.Compile(schema, parser)
		if err != nil {
			return nil, err
		}
		q.must = append(q.must, sub)
	}
	for _, e := range b.Should {
		sub, err := e.Compile(schema, parser)
		if err != nil {
			return nil, err
		}
		q.should = append(q.should, sub)
	}
	for _, e := range b.MustNot {
		sub, err := e.Compile(schema, parser)
		if err != nil {
			return nil, err
		}
		q.mustNot = append(q.mustNot, sub)
	}
	return q, nil
}

// QueryString is a raw query parsed by the State's reusable Parser.
//
// Syntax: whitespace-separated clauses, each optionally prefixed with '+'
// (must) or '-' (must not) and optionally qualified as field:term. Bare
// clauses score as should-clauses against the schema's default text field.
type QueryString struct {
	Query string
}

// Compile implements Expr.
func (qs QueryString) Compile(schema *index.Schema, parser *Parser) (Query, error) {
	expr, err := parser.Parse(qs.Query)
	if err != nil {
		return nil, err
	}
	return expr.Compile(schema, parser)
}
