package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	engine := Relation{Name: "articles", EngineOwned: true}
	host := Relation{Name: "users", EngineOwned: false}

	tests := []struct {
		name string
		stmt Statement
		want Route
	}{
		{
			name: "insert into engine relation",
			stmt: Statement{Op: OpInsert, RangeTable: []Relation{engine}, SourceText: "INSERT INTO articles VALUES (1)"},
			want: RouteInsert,
		},
		{
			name: "insert into engine relation wins over mixed range table",
			stmt: Statement{Op: OpInsert, RangeTable: []Relation{host, engine}, SourceText: "INSERT INTO articles SELECT * FROM users"},
			want: RouteInsert,
		},
		{
			name: "insert into host relation delegates",
			stmt: Statement{Op: OpInsert, RangeTable: []Relation{host}, SourceText: "INSERT INTO users VALUES (1)"},
			want: RouteDelegate,
		},
		{
			name: "empty range table delegates",
			stmt: Statement{Op: OpSelect, SourceText: "SELECT 1"},
			want: RouteDelegate,
		},
		{
			name: "select without engine relation delegates",
			stmt: Statement{Op: OpSelect, RangeTable: []Relation{host}, SourceText: "SELECT * FROM users"},
			want: RouteDelegate,
		},
		{
			name: "delete without engine relation delegates",
			stmt: Statement{Op: OpDelete, RangeTable: []Relation{host}, SourceText: "DELETE FROM users"},
			want: RouteDelegate,
		},
		{
			name: "select on engine relation translates",
			stmt: Statement{Op: OpSelect, RangeTable: []Relation{engine}, SourceText: "SELECT * FROM articles"},
			want: RouteTranslate,
		},
		{
			name: "update on engine relation translates",
			stmt: Statement{Op: OpUpdate, RangeTable: []Relation{engine}, SourceText: "UPDATE articles SET title = 'x'"},
			want: RouteTranslate,
		},
		{
			name: "bulk load delegates regardless of range table",
			stmt: Statement{Op: OpSelect, RangeTable: []Relation{engine}, SourceText: "COPY articles FROM stdin"},
			want: RouteDelegate,
		},
		{
			name: "bulk load match is case-insensitive",
			stmt: Statement{Op: OpSelect, RangeTable: []Relation{engine}, SourceText: "cOpY articles TO stdout"},
			want: RouteDelegate,
		},
		{
			name: "bulk load prefix is not trimmed",
			stmt: Statement{Op: OpSelect, RangeTable: []Relation{engine}, SourceText: "  COPY articles FROM stdin"},
			want: RouteTranslate,
		},
		{
			name: "bulk load prefix matches semantically invalid text",
			stmt: Statement{Op: OpSelect, RangeTable: []Relation{engine}, SourceText: "copycat FROM articles"},
			want: RouteDelegate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.stmt))
		})
	}
}

func TestHasEngineRelation(t *testing.T) {
	s := Statement{RangeTable: []Relation{{Name: "users"}, {Name: "articles", EngineOwned: true}}}
	assert.True(t, s.HasEngineRelation())

	s = Statement{RangeTable: []Relation{{Name: "users"}}}
	assert.False(t, s.HasEngineRelation())

	s = Statement{}
	assert.False(t, s.HasEngineRelation())
}
