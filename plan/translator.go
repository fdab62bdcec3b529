package plan

import (
	"fmt"
	"strconv"

	"github.com/xwb1989/sqlparser"

	"github.com/hupe1980/querygate/index"
	"github.com/hupe1980/querygate/statement"
)

// Translator turns SQL source text into logical plans. It is stateless and
// safe for concurrent use as long as the catalog provider is.
type Translator struct {
	catalog CatalogProvider
}

// NewTranslator creates a Translator resolving identifiers through catalog.
func NewTranslator(catalog CatalogProvider) *Translator {
	return &Translator{catalog: catalog}
}

// Translate parses sql and translates it into one LogicalPlan. Only the
// first statement of multi-statement text is considered.
//
// Text the dialect rejects fails with *ParseError; unknown relations or
// columns fail with *ResolutionError. Dialect features the embedded planner
// does not model (joins, grouping, subqueries) are reported as parse
// failures so the interceptor falls back to the host.
func (t *Translator) Translate(sql string) (*LogicalPlan, error) {
	pieces, err := sqlparser.SplitStatementToPieces(sql)
	if err != nil {
		return nil, &ParseError{SQL: sql, cause: err}
	}
	if len(pieces) == 0 {
		return nil, &ParseError{SQL: sql, cause: fmt.Errorf("empty statement")}
	}

	stmt, err := sqlparser.Parse(pieces[0])
	if err != nil {
		return nil, &ParseError{SQL: sql, cause: err}
	}

	switch stmt := stmt.(type) {
	case *sqlparser.Select:
		return t.translateSelect(sql, stmt)
	case *sqlparser.Delete:
		return t.translateDelete(sql, stmt)
	case *sqlparser.Insert:
		return t.translateInsert(sql, stmt)
	case *sqlparser.Update:
		return t.translateUpdate(sql, stmt)
	default:
		return nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported statement type %T", stmt)}
	}
}

func (t *Translator) translateSelect(sql string, sel *sqlparser.Select) (*LogicalPlan, error) {
	if len(sel.GroupBy) > 0 || sel.Having != nil || sel.Distinct != "" {
		return nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported select feature")}
	}

	relation, schema, err := t.resolveFrom(sql, sel.From)
	if err != nil {
		return nil, err
	}

	var root Node = &Scan{Relation: relation, Schema: schema}

	if sel.Where != nil {
		pred, err := t.translateExpr(sql, schema, sel.Where.Expr)
		if err != nil {
			return nil, err
		}
		root = &Filter{Input: root, Pred: pred}
	}

	columns, err := t.translateSelectExprs(sql, schema, sel.SelectExprs)
	if err != nil {
		return nil, err
	}
	root = &Project{Input: root, Columns: columns}

	if len(sel.OrderBy) > 0 {
		keys, err := t.translateOrderBy(sql, schema, sel.OrderBy)
		if err != nil {
			return nil, err
		}
		root = &Sort{Input: root, Keys: keys}
	}

	if sel.Limit != nil {
		count, offset, err := t.translateLimit(sql, sel.Limit)
		if err != nil {
			return nil, err
		}
		root = &Limit{Input: root, Count: count, Offset: offset}
	}

	return &LogicalPlan{Op: statement.OpSelect, Root: root}, nil
}

func (t *Translator) translateDelete(sql string, del *sqlparser.Delete) (*LogicalPlan, error) {
	relation, schema, err := t.resolveFrom(sql, del.TableExprs)
	if err != nil {
		return nil, err
	}

	node := &Delete{Relation: relation, Schema: schema}
	if del.Where != nil {
		pred, err := t.translateExpr(sql, schema, del.Where.Expr)
		if err != nil {
			return nil, err
		}
		node.Pred = pred
	}

	return &LogicalPlan{Op: statement.OpDelete, Root: node}, nil
}

func (t *Translator) translateInsert(sql string, ins *sqlparser.Insert) (*LogicalPlan, error) {
	relation := ins.Table.Name.String()
	schema, ok := t.catalog.ResolveTable(relation)
	if !ok {
		return nil, &ResolutionError{Kind: "relation", Name: relation}
	}

	node := &Insert{Relation: relation, Schema: schema}
	for _, col := range ins.Columns {
		name := col.String()
		if _, ok := schema.Field(name); !ok {
			return nil, &ResolutionError{Kind: "column", Name: name}
		}
		node.Columns = append(node.Columns, name)
	}

	values, ok := ins.Rows.(sqlparser.Values)
	if !ok {
		return nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported insert source %T", ins.Rows)}
	}
	for _, tuple := range values {
		row := make([]Expr, 0, len(tuple))
		for _, val := range tuple {
			lit, err := t.translateLiteral(sql, val)
			if err != nil {
				return nil, err
			}
			row = append(row, lit)
		}
		node.Rows = append(node.Rows, row)
	}

	return &LogicalPlan{Op: statement.OpInsert, Root: node}, nil
}

func (t *Translator) translateUpdate(sql string, upd *sqlparser.Update) (*LogicalPlan, error) {
	relation, schema, err := t.resolveFrom(sql, upd.TableExprs)
	if err != nil {
		return nil, err
	}
	return &LogicalPlan{
		Op:   statement.OpUpdate,
		Root: &Update{Relation: relation, Schema: schema},
	}, nil
}

// resolveFrom resolves a single-relation FROM clause. Joins and derived
// tables are outside the embedded planner's dialect.
func (t *Translator) resolveFrom(sql string, exprs sqlparser.TableExprs) (string, *index.Schema, error) {
	if len(exprs) != 1 {
		return "", nil, &ParseError{SQL: sql, cause: fmt.Errorf("expected one relation, got %d", len(exprs))}
	}
	aliased, ok := exprs[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported table expression %T", exprs[0])}
	}
	table, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported table source %T", aliased.Expr)}
	}

	relation := table.Name.String()
	schema, found := t.catalog.ResolveTable(relation)
	if !found {
		return "", nil, &ResolutionError{Kind: "relation", Name: relation}
	}
	return relation, schema, nil
}

func (t *Translator) translateSelectExprs(sql string, schema *index.Schema, exprs sqlparser.SelectExprs) ([]string, error) {
	var columns []string
	for _, se := range exprs {
		switch se := se.(type) {
		case *sqlparser.StarExpr:
			// SELECT * projects every schema field.
			return nil, nil
		case *sqlparser.AliasedExpr:
			col, ok := se.Expr.(*sqlparser.ColName)
			if !ok {
				return nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported select expression %T", se.Expr)}
			}
			name := col.Name.String()
			if _, ok := schema.Field(name); !ok {
				return nil, &ResolutionError{Kind: "column", Name: name}
			}
			columns = append(columns, name)
		default:
			return nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported select expression %T", se)}
		}
	}
	return columns, nil
}

func (t *Translator) translateOrderBy(sql string, schema *index.Schema, orderBy sqlparser.OrderBy) ([]SortKey, error) {
	keys := make([]SortKey, 0, len(orderBy))
	for _, order := range orderBy {
		col, ok := order.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported order expression %T", order.Expr)}
		}
		name := col.Name.String()
		if _, ok := schema.Field(name); !ok {
			return nil, &ResolutionError{Kind: "column", Name: name}
		}
		keys = append(keys, SortKey{Column: name, Descending: order.Direction == sqlparser.DescScr})
	}
	return keys, nil
}

func (t *Translator) translateLimit(sql string, limit *sqlparser.Limit) (count, offset int, err error) {
	count, err = t.translateIntVal(sql, limit.Rowcount)
	if err != nil {
		return 0, 0, err
	}
	if limit.Offset != nil {
		offset, err = t.translateIntVal(sql, limit.Offset)
		if err != nil {
			return 0, 0, err
		}
	}
	return count, offset, nil
}

func (t *Translator) translateIntVal(sql string, expr sqlparser.Expr) (int, error) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok || val.Type != sqlparser.IntVal {
		return 0, &ParseError{SQL: sql, cause: fmt.Errorf("expected integer literal, got %T", expr)}
	}
	n, err := strconv.Atoi(string(val.Val))
	if err != nil {
		return 0, &ParseError{SQL: sql, cause: err}
	}
	return n, nil
}

func (t *Translator) translateExpr(sql string, schema *index.Schema, expr sqlparser.Expr) (Expr, error) {
	switch expr := expr.(type) {
	case *sqlparser.AndExpr:
		left, err := t.translateExpr(sql, schema, expr.Left)
		if err != nil {
			return nil, err
		}
		right, err := t.translateExpr(sql, schema, expr.Right)
		if err != nil {
			return nil, err
		}
		return &And{Left: left, Right: right}, nil

	case *sqlparser.OrExpr:
		left, err := t.translateExpr(sql, schema, expr.Left)
		if err != nil {
			return nil, err
		}
		right, err := t.translateExpr(sql, schema, expr.Right)
		if err != nil {
			return nil, err
		}
		return &Or{Left: left, Right: right}, nil

	case *sqlparser.NotExpr:
		input, err := t.translateExpr(sql, schema, expr.Expr)
		if err != nil {
			return nil, err
		}
		return &Not{Input: input}, nil

	case *sqlparser.ParenExpr:
		return t.translateExpr(sql, schema, expr.Expr)

	case *sqlparser.ComparisonExpr:
		op, ok := compareOps[expr.Operator]
		if !ok {
			return nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported operator %q", expr.Operator)}
		}
		left, err := t.translateOperand(sql, schema, expr.Left)
		if err != nil {
			return nil, err
		}
		right, err := t.translateOperand(sql, schema, expr.Right)
		if err != nil {
			return nil, err
		}
		return &Compare{Op: op, Left: left, Right: right}, nil

	default:
		return nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported expression %T", expr)}
	}
}

var compareOps = map[string]CompareOp{
	sqlparser.EqualStr:        CompareEq,
	sqlparser.NotEqualStr:     CompareNe,
	sqlparser.LessThanStr:     CompareLt,
	sqlparser.LessEqualStr:    CompareLe,
	sqlparser.GreaterThanStr:  CompareGt,
	sqlparser.GreaterEqualStr: CompareGe,
}

func (t *Translator) translateOperand(sql string, schema *index.Schema, expr sqlparser.Expr) (Expr, error) {
	if col, ok := expr.(*sqlparser.ColName); ok {
		name := col.Name.String()
		if _, ok := schema.Field(name); !ok {
			return nil, &ResolutionError{Kind: "column", Name: name}
		}
		return &ColumnRef{Name: name}, nil
	}
	return t.translateLiteral(sql, expr)
}

func (t *Translator) translateLiteral(sql string, expr sqlparser.Expr) (Expr, error) {
	switch expr := expr.(type) {
	case *sqlparser.SQLVal:
		switch expr.Type {
		case sqlparser.IntVal:
			n, err := strconv.ParseInt(string(expr.Val), 10, 64)
			if err != nil {
				return nil, &ParseError{SQL: sql, cause: err}
			}
			return &Literal{Value: n}, nil
		case sqlparser.FloatVal:
			f, err := strconv.ParseFloat(string(expr.Val), 64)
			if err != nil {
				return nil, &ParseError{SQL: sql, cause: err}
			}
			return &Literal{Value: f}, nil
		case sqlparser.StrVal:
			return &Literal{Value: string(expr.Val)}, nil
		default:
			return nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported literal type %d", expr.Type)}
		}
	case sqlparser.BoolVal:
		return &Literal{Value: bool(expr)}, nil
	default:
		return nil, &ParseError{SQL: sql, cause: fmt.Errorf("unsupported literal %T", expr)}
	}
}
