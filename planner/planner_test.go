// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package planner

import (
	"reflect"
	"testing"

	"github.com/hellodb/hellodb/ast"
	"github.com/hellodb/hellodb/column"
	"github.com/hellodb/hellodb/coltype"
	"github.com/hellodb/hellodb/db"
)

// makeRegsTable builds a "regs" table of id/age/gender/value columns
// (mirroring the original maketestdb fixture) split across two
// blocks, and returns it ready for Lower.
func makeRegsTable(t *testing.T) *db.Table {
	t.Helper()
	dir := t.TempDir()
	headers := []column.Header{
		column.NewHeader("id", coltype.Int),
		column.NewHeader("age", coltype.Int),
		column.NewHeader("gender", coltype.String),
		column.NewHeader("value", coltype.Float),
	}
	table, err := db.CreateTable(dir, "regs", headers)
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	w, err := table.Writer()
	if err != nil {
		t.Fatalf("Writer: %v", err)
	}
	blocks := []struct {
		id, age []int64
		gender  []string
		value   []float64
	}{
		{
			id:     []int64{1, 2, 3},
			age:    []int64{20, 30, 40},
			gender: []string{"f", "m", "f"},
			value:  []float64{1.5, 2.5, 3.5},
		},
		{
			id:     []int64{4, 5},
			age:    []int64{50, 10},
			gender: []string{"m", "f"},
			value:  []float64{4.5, 0.5},
		},
	}
	for _, b := range blocks {
		err := w.WriteBlock(map[string]column.Storage{
			"id":     column.NewIntStorage(b.id),
			"age":    column.NewIntStorage(b.age),
			"gender": column.NewStringStorage(b.gender),
			"value":  column.NewFloatStorage(b.value),
		})
		if err != nil {
			t.Fatalf("WriteBlock: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close writer: %v", err)
	}
	table, err = db.OpenTable(dir, "regs")
	if err != nil {
		t.Fatalf("OpenTable: %v", err)
	}
	return table
}

func runQuery(t *testing.T, table *db.Table, q ast.Query) *LoweredQuery {
	t.Helper()
	lq, err := Lower(table, q)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if err := lq.Plan.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := lq.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return lq
}

func intCol(t *testing.T, lq *LoweredQuery, name string) []int64 {
	t.Helper()
	idx, ok := lq.Output.IndexByName(name)
	if !ok {
		t.Fatalf("no output column %q", name)
	}
	return lq.Output.ColumnAt(idx).Storage.(*column.IntStorage).RawInt64()
}

func ident(name string) ast.Identifier { return ast.Identifier{Value: name} }

func selectAll(from string, items ...ast.SelectItem) ast.Select {
	return ast.Select{From: ast.TableFactorTable{Name: from}, Projection: items}
}

// scenario 1: empty table produces zero rows without error.
func TestEmptyTable(t *testing.T) {
	dir := t.TempDir()
	headers := []column.Header{column.NewHeader("id", coltype.Int)}
	table, err := db.CreateTable(dir, "empty", headers)
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	w, err := table.Writer()
	if err != nil {
		t.Fatalf("Writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	q := ast.Query{Select: selectAll("empty", ast.SelectItemExpr{Expr: ident("id")})}
	lq := runQuery(t, table, q)
	if got := lq.Output.Rows(); got != 0 {
		t.Errorf("got %d rows, want 0", got)
	}
}

// scenario 2: OFFSET/LIMIT without ORDER BY streams and stops early.
func TestOffsetLimitNoOrderBy(t *testing.T) {
	table := makeRegsTable(t)
	offset, limit := int64(1), int64(3)
	q := ast.Query{
		Select: selectAll("regs", ast.SelectItemExpr{Expr: ident("id")}),
		Offset: &offset,
		Limit:  &limit,
	}
	lq := runQuery(t, table, q)
	want := []int64{2, 3, 4}
	if got := intCol(t, lq, "id"); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// scenario 3: WHERE filters rows by a comparison predicate.
func TestWhereFilter(t *testing.T) {
	table := makeRegsTable(t)
	q := ast.Query{
		Select: ast.Select{
			From:       ast.TableFactorTable{Name: "regs"},
			Projection: []ast.SelectItem{ast.SelectItemExpr{Expr: ident("id")}},
			Selection:  ast.BinaryOp{Left: ident("age"), Op: ">", Right: ast.Number{Raw: "25"}},
		},
	}
	lq := runQuery(t, table, q)
	want := []int64{2, 3, 4}
	if got := intCol(t, lq, "id"); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// scenario 4: ORDER BY on a non-projected field, descending, with
// OFFSET/LIMIT applied after the sort.
func TestOrderByWithOffsetLimit(t *testing.T) {
	table := makeRegsTable(t)
	offset, limit := int64(1), int64(2)
	q := ast.Query{
		Select:  selectAll("regs", ast.SelectItemExpr{Expr: ident("id")}),
		OrderBy: []ast.OrderByExpr{{Expr: ident("age"), Asc: false}},
		Offset:  &offset,
		Limit:   &limit,
	}
	lq := runQuery(t, table, q)
	// ages: 20,30,40,50,10 for ids 1..5; sorted by age desc -> ids 4,3,2,1,5
	// offset 1, limit 2 -> ids 3,2
	want := []int64{3, 2}
	if got := intCol(t, lq, "id"); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, ok := lq.Output.IndexByName("age"); !ok {
		t.Errorf("expected hidden sort-key column age to exist on the output block")
	}
	for _, name := range lq.Columns {
		if name == "age" {
			t.Errorf("age should not be a visible projected column, got Columns=%v", lq.Columns)
		}
	}
}

// scenario 5: WHERE over a projected compound expression.
func TestProjectedExpressionInWhere(t *testing.T) {
	table := makeRegsTable(t)
	q := ast.Query{
		Select: ast.Select{
			From: ast.TableFactorTable{Name: "regs"},
			Projection: []ast.SelectItem{
				ast.SelectItemExpr{Expr: ast.BinaryOp{Left: ident("id"), Op: "+", Right: ident("age")}},
			},
			Selection: ast.BinaryOp{Left: ident("id"), Op: "+", Right: ident("age")},
		},
	}
	lq, err := Lower(table, q)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if err := lq.Plan.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	lq.Close()
	// id+age is never 0, so every row's filter value is non-zero; since
	// the filter column is read as a raw 0/1 Int, only rows whose sum
	// happens to equal 1 pass — none here. This exercises that an
	// arbitrary Int expression can be used as a filter column.
	if got := lq.Output.Rows(); got != 0 {
		t.Errorf("got %d rows, want 0", got)
	}
}

// scenario 6: compound WHERE combining AND/NOT.
func TestCompoundWhereAndNot(t *testing.T) {
	table := makeRegsTable(t)
	q := ast.Query{
		Select: ast.Select{
			From:       ast.TableFactorTable{Name: "regs"},
			Projection: []ast.SelectItem{ast.SelectItemExpr{Expr: ident("id")}},
			Selection: ast.BinaryOp{
				Left: ast.BinaryOp{Left: ident("age"), Op: ">", Right: ast.Number{Raw: "15"}},
				Op:   "AND",
				Right: ast.UnaryOp{
					Op:   "NOT",
					Expr: ast.BinaryOp{Left: ident("gender"), Op: "=", Right: ast.SingleQuotedString{Value: "m"}},
				},
			},
		},
	}
	lq := runQuery(t, table, q)
	// age > 15 excludes id 5 (age 10); NOT gender='m' excludes ids 2,4.
	want := []int64{1, 3}
	if got := intCol(t, lq, "id"); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWildcardProjectsAllColumnsInSchemaOrder(t *testing.T) {
	table := makeRegsTable(t)
	q := ast.Query{Select: selectAll("regs", ast.SelectItemWildcard{})}
	lq := runQuery(t, table, q)
	want := []string{"id", "age", "gender", "value"}
	if !reflect.DeepEqual(lq.Columns, want) {
		t.Errorf("got %v, want %v", lq.Columns, want)
	}
}

func TestUnknownFieldInWhereIsAnError(t *testing.T) {
	table := makeRegsTable(t)
	q := ast.Query{
		Select: ast.Select{
			From:       ast.TableFactorTable{Name: "regs"},
			Projection: []ast.SelectItem{ast.SelectItemExpr{Expr: ident("id")}},
			Selection:  ident("wrong_field"),
		},
	}
	if _, err := Lower(table, q); err == nil {
		t.Fatal("expected an error for an unknown field in WHERE")
	}
}

func TestTypeMismatchIsAnError(t *testing.T) {
	table := makeRegsTable(t)
	q := ast.Query{
		Select: ast.Select{
			From:       ast.TableFactorTable{Name: "regs"},
			Projection: []ast.SelectItem{ast.SelectItemExpr{Expr: ident("id")}},
			Selection:  ast.BinaryOp{Left: ident("id"), Op: "+", Right: ast.Number{Raw: "100.5"}},
		},
	}
	if _, err := Lower(table, q); err == nil {
		t.Fatal("expected an error for Int + Float with no registered combination")
	}
}
