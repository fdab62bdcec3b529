package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/querygate/index"
	"github.com/hupe1980/querygate/statement"
)

func testCatalog(t *testing.T) StaticCatalog {
	t.Helper()

	schema, err := index.NewSchema("id",
		index.Field{Name: "id", Kind: index.FieldI64, Stored: true, Fast: true},
		index.Field{Name: "title", Kind: index.FieldText, Stored: true, Indexed: true},
		index.Field{Name: "views", Kind: index.FieldI64, Stored: true},
	)
	require.NoError(t, err)

	return StaticCatalog{"articles": schema}
}

func TestTranslateSelect(t *testing.T) {
	tr := NewTranslator(testCatalog(t))

	lp, err := tr.Translate("SELECT title FROM articles WHERE views > 10 ORDER BY views DESC LIMIT 5, 20")
	require.NoError(t, err)
	assert.Equal(t, statement.OpSelect, lp.Op)

	limit, ok := lp.Root.(*Limit)
	require.True(t, ok)
	assert.Equal(t, 20, limit.Count)
	assert.Equal(t, 5, limit.Offset)

	sort, ok := limit.Input.(*Sort)
	require.True(t, ok)
	require.Len(t, sort.Keys, 1)
	assert.Equal(t, SortKey{Column: "views", Descending: true}, sort.Keys[0])

	project, ok := sort.Input.(*Project)
	require.True(t, ok)
	assert.Equal(t, []string{"title"}, project.Columns)

	filter, ok := project.Input.(*Filter)
	require.True(t, ok)
	cmp, ok := filter.Pred.(*Compare)
	require.True(t, ok)
	assert.Equal(t, CompareGt, cmp.Op)
	assert.Equal(t, &ColumnRef{Name: "views"}, cmp.Left)
	assert.Equal(t, &Literal{Value: int64(10)}, cmp.Right)

	scan, ok := filter.Input.(*Scan)
	require.True(t, ok)
	assert.Equal(t, "articles", scan.Relation)
	require.NotNil(t, scan.Schema)
}

func TestTranslateSelectStar(t *testing.T) {
	tr := NewTranslator(testCatalog(t))

	lp, err := tr.Translate("SELECT * FROM articles")
	require.NoError(t, err)

	project, ok := lp.Root.(*Project)
	require.True(t, ok)
	assert.Empty(t, project.Columns)
}

func TestTranslateDelete(t *testing.T) {
	tr := NewTranslator(testCatalog(t))

	lp, err := tr.Translate("DELETE FROM articles WHERE id = 7")
	require.NoError(t, err)
	assert.Equal(t, statement.OpDelete, lp.Op)

	del, ok := lp.Root.(*Delete)
	require.True(t, ok)
	assert.Equal(t, "articles", del.Relation)
	require.NotNil(t, del.Pred)
}

func TestTranslateDeleteWithoutPredicate(t *testing.T) {
	tr := NewTranslator(testCatalog(t))

	lp, err := tr.Translate("DELETE FROM articles")
	require.NoError(t, err)

	del, ok := lp.Root.(*Delete)
	require.True(t, ok)
	assert.Nil(t, del.Pred)
}

func TestTranslateInsert(t *testing.T) {
	tr := NewTranslator(testCatalog(t))

	lp, err := tr.Translate("INSERT INTO articles (id, title) VALUES (1, 'hello'), (2, 'world')")
	require.NoError(t, err)
	assert.Equal(t, statement.OpInsert, lp.Op)

	ins, ok := lp.Root.(*Insert)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "title"}, ins.Columns)
	require.Len(t, ins.Rows, 2)
	assert.Equal(t, &Literal{Value: int64(1)}, ins.Rows[0][0])
	assert.Equal(t, &Literal{Value: "hello"}, ins.Rows[0][1])
}

func TestTranslateUpdate(t *testing.T) {
	tr := NewTranslator(testCatalog(t))

	lp, err := tr.Translate("UPDATE articles SET title = 'x' WHERE id = 1")
	require.NoError(t, err)
	assert.Equal(t, statement.OpUpdate, lp.Op)

	upd, ok := lp.Root.(*Update)
	require.True(t, ok)
	assert.Equal(t, "articles", upd.Relation)
}

func TestTranslateParseError(t *testing.T) {
	tr := NewTranslator(testCatalog(t))

	tests := []struct {
		name string
		sql  string
	}{
		{"garbage", "NOT EVEN SQL"},
		{"join", "SELECT * FROM articles a JOIN articles b ON a.id = b.id"},
		{"group by", "SELECT title FROM articles GROUP BY title"},
		{"subquery source", "SELECT * FROM (SELECT * FROM articles) sub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Translate(tt.sql)
			var pe *ParseError
			require.Error(t, err)
			assert.True(t, errors.As(err, &pe), "want ParseError, got %T: %v", err, err)
		})
	}
}

func TestTranslateResolutionError(t *testing.T) {
	tr := NewTranslator(testCatalog(t))

	tests := []struct {
		name string
		sql  string
		kind string
	}{
		{"unknown relation", "SELECT * FROM missing", "relation"},
		{"unknown column in projection", "SELECT body FROM articles", "column"},
		{"unknown column in predicate", "SELECT title FROM articles WHERE body = 'x'", "column"},
		{"unknown column in insert", "INSERT INTO articles (body) VALUES ('x')", "column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Translate(tt.sql)
			var re *ResolutionError
			require.Error(t, err)
			require.True(t, errors.As(err, &re), "want ResolutionError, got %T: %v", err, err)
			assert.Equal(t, tt.kind, re.Kind)
		})
	}
}

func TestTranslateMultiStatementTakesFirst(t *testing.T) {
	tr := NewTranslator(testCatalog(t))

	lp, err := tr.Translate("SELECT * FROM articles; DELETE FROM articles")
	require.NoError(t, err)
	assert.Equal(t, statement.OpSelect, lp.Op)
}
