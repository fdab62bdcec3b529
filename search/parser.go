package search

import (
	"strings"

	"github.com/hupe1980/querygate/index"
)

// Parser turns raw query strings into structured expressions. One Parser is
// created per State and reused across clauses of the same invocation.
type Parser struct {
	schema       *index.Schema
	defaultField string
}

// NewParser creates a Parser bound to schema. The schema's first indexed
// text field serves as the default field for unqualified terms.
func NewParser(schema *index.Schema) *Parser {
	p := &Parser{schema: schema}
	if f, ok := schema.DefaultField(); ok {
		p.defaultField = f.Name
	}
	return p
}

// Parse parses a raw query string. An empty or all-whitespace query parses
// to a match-all expression.
func (p *Parser) Parse(query string) (Expr, error) {
	clauses := strings.Fields(query)
	if len(clauses) == 0 {
		return All{}, nil
	}

	var b Boolean
	for _, clause := range clauses {
		var bucket *[]Expr
		switch {
		case strings.HasPrefix(clause, "+"):
			clause = clause[1:]
			bucket = &b.Must
		case strings.HasPrefix(clause, "-"):
			clause = clause[1:]
			bucket = &b.MustNot
		default:
			bucket = &b.Should
		}
		if clause == "" {
			return nil, schemaViolationf("empty clause in query %q", query)
		}

		field := p.defaultField
		term := clause
		if name, rest, ok := strings.Cut(clause, ":"); ok && name != "" && rest != "" {
			field, term = name, rest
		}
		if field == "" {
			return nil, schemaViolationf("no default text field for unqualified term %q", term)
		}

		*bucket = append(*bucket, Term{Field: field, Value: term})
	}

	return b, nil
}
