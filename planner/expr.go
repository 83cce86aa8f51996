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
	"fmt"
	"strconv"

	"github.com/hellodb/hellodb/ast"
	"github.com/hellodb/hellodb/column"
	"github.com/hellodb/hellodb/coltype"
	"github.com/hellodb/hellodb/db"
	"github.com/hellodb/hellodb/function"
	"github.com/hellodb/hellodb/vm"
)

// exprConstructor compiles ast.Expr trees into columns of an input
// vm.ColumnBlock, memoizing by the expression's stringified form
// (spec.md §4.9): compiling the same text twice reuses the column
// already built for it rather than duplicating work.
type exprConstructor struct {
	table  *db.Table
	reader *db.TableReader
	input  *vm.ColumnBlock
}

func newExprConstructor(table *db.Table, reader *db.TableReader, input *vm.ColumnBlock) *exprConstructor {
	return &exprConstructor{table: table, reader: reader, input: input}
}

// compile returns the name of the input column holding expr's value,
// compiling it first if this is the first time this exact stringified
// form has been seen.
func (c *exprConstructor) compile(expr ast.Expr) (string, error) {
	name := expr.String()
	if c.input.HasColumn(name) {
		return name, nil
	}

	switch e := expr.(type) {
	case ast.Identifier:
		return c.compileIdentifier(e)
	case ast.BinaryOp:
		return c.compileBinaryOp(name, e)
	case ast.UnaryOp:
		return c.compileUnaryOp(name, e)
	case ast.Nested:
		return c.compile(e.Expr)
	case ast.Number:
		return c.compileNumber(name, e)
	case ast.SingleQuotedString:
		return c.compileStringLiteral(name, e.Value)
	case ast.DoubleQuotedString:
		return c.compileStringLiteral(name, e.Value)
	default:
		return "", fmt.Errorf("planner: %T is not supported yet", expr)
	}
}

// processWildcard compiles every column of the table's schema, in
// schema order, and returns their names.
func (c *exprConstructor) processWildcard() ([]string, error) {
	names := make([]string, 0, c.table.Schema.Len())
	for _, h := range c.table.Schema.Headers() {
		if _, err := c.compileIdentifier(ast.Identifier{Value: h.Name}); err != nil {
			return nil, err
		}
		names = append(names, h.Name)
	}
	return names, nil
}

func (c *exprConstructor) compileIdentifier(ident ast.Identifier) (string, error) {
	if c.input.HasColumn(ident.Value) {
		return ident.Value, nil
	}
	header, ok := c.table.Schema.HeaderByName(ident.Value)
	if !ok {
		return "", fmt.Errorf("planner: field %q not found in table %s", ident.Value, c.table.Name)
	}
	chunkReader, err := c.reader.Column(ident.Value)
	if err != nil {
		return "", err
	}
	c.input.Add(column.NewColumn(header), vm.NewExternalSource(chunkReader))
	return ident.Value, nil
}

func (c *exprConstructor) compileBinaryOp(name string, e ast.BinaryOp) (string, error) {
	leftName, err := c.compile(e.Left)
	if err != nil {
		return "", err
	}
	rightName, err := c.compile(e.Right)
	if err != nil {
		return "", err
	}
	leftIdx, _ := c.input.IndexByName(leftName)
	rightIdx, _ := c.input.IndexByName(rightName)
	leftType := c.input.ColumnAt(leftIdx).Header.Type
	rightType := c.input.ColumnAt(rightIdx).Header.Type

	op := function.Op(e.Op)
	resultType, err := function.ResultType(op, leftType, rightType)
	if err != nil {
		return "", fmt.Errorf("planner: %s: %w", name, err)
	}
	fn, err := function.Build(op, leftType, rightType)
	if err != nil {
		return "", fmt.Errorf("planner: %s: %w", name, err)
	}
	c.input.Add(
		column.NewColumn(column.NewHeader(name, resultType)),
		vm.NewFunctionSource([]int{leftIdx, rightIdx}, fn),
	)
	return name, nil
}

func (c *exprConstructor) compileUnaryOp(name string, e ast.UnaryOp) (string, error) {
	argName, err := c.compile(e.Expr)
	if err != nil {
		return "", err
	}
	argIdx, _ := c.input.IndexByName(argName)
	argType := c.input.ColumnAt(argIdx).Header.Type

	op := function.Op(e.Op)
	resultType, err := function.ResultType(op, argType)
	if err != nil {
		return "", fmt.Errorf("planner: %s: %w", name, err)
	}
	fn, err := function.Build(op, argType)
	if err != nil {
		return "", fmt.Errorf("planner: %s: %w", name, err)
	}
	c.input.Add(
		column.NewColumn(column.NewHeader(name, resultType)),
		vm.NewFunctionSource([]int{argIdx}, fn),
	)
	return name, nil
}

func (c *exprConstructor) compileNumber(name string, e ast.Number) (string, error) {
	if v, err := strconv.ParseInt(e.Raw, 10, 64); err == nil {
		c.input.Add(column.NewColumn(column.NewHeader(name, coltype.Int)), vm.IntConstantSource{Value: v})
		return name, nil
	}
	v, err := strconv.ParseFloat(e.Raw, 64)
	if err != nil {
		return "", fmt.Errorf("planner: %q is not a valid number", e.Raw)
	}
	c.input.Add(column.NewColumn(column.NewHeader(name, coltype.Float)), vm.FloatConstantSource{Value: v})
	return name, nil
}

func (c *exprConstructor) compileStringLiteral(name, value string) (string, error) {
	c.input.Add(column.NewColumn(column.NewHeader(name, coltype.String)), vm.StringConstantSource{Value: value})
	return name, nil
}
