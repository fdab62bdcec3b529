package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserEmptyQueryMatchesAll(t *testing.T) {
	p := NewParser(testSchema(t))

	expr, err := p.Parse("   ")
	require.NoError(t, err)
	assert.Equal(t, All{}, expr)
}

func TestParserClauses(t *testing.T) {
	p := NewParser(testSchema(t))

	expr, err := p.Parse("cheese +title:grilled -toast")
	require.NoError(t, err)

	b, ok := expr.(Boolean)
	require.True(t, ok)
	assert.Equal(t, []Expr{Term{Field: "title", Value: "grilled"}}, b.Must)
	assert.Equal(t, []Expr{Term{Field: "title", Value: "cheese"}}, b.Should)
	assert.Equal(t, []Expr{Term{Field: "title", Value: "toast"}}, b.MustNot)
}

func TestParserUnqualifiedTermsUseDefaultField(t *testing.T) {
	p := NewParser(testSchema(t))

	expr, err := p.Parse("sandwich")
	require.NoError(t, err)

	b, ok := expr.(Boolean)
	require.True(t, ok)
	require.Len(t, b.Should, 1)
	assert.Equal(t, Term{Field: "title", Value: "sandwich"}, b.Should[0])
}

func TestParserEmptyClause(t *testing.T) {
	p := NewParser(testSchema(t))

	_, err := p.Parse("cheese +")
	assert.Error(t, err)
}

func TestQueryStringCompilesThroughParser(t *testing.T) {
	snap := testSnapshot(t)

	state, err := NewState(snap, Config{Query: QueryString{Query: "cheese"}})
	require.NoError(t, err)

	results, err := state.Search()
	require.NoError(t, err)
	assert.Equal(t, 3, results.Remaining())
}
