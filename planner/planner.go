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

// Package planner lowers an ast.Query against an open db.Table into a
// vm.Plan: it compiles the projection and WHERE clause into the
// plan's input block, wires the driving processor chain, and (per the
// redesigned ORDER BY placement, see DESIGN.md) compiles ORDER BY keys
// into the output block so they sort rows that have already passed
// WHERE.
package planner

import (
	"fmt"

	"github.com/hellodb/hellodb/ast"
	"github.com/hellodb/hellodb/db"
	"github.com/hellodb/hellodb/vm"
)

// LoweredQuery bundles the plan ready for vm.Plan.Execute together
// with the output block it fills and the subset of its columns that
// should actually be shown to the caller, in projection order. ORDER
// BY keys that are not already part of the projection are appended to
// the output block as hidden trailing columns, used only to sort.
type LoweredQuery struct {
	Plan    *vm.Plan
	Output  *vm.ColumnBlock
	Columns []string

	reader *db.TableReader
}

// Close releases the table reader backing the plan's input block. It
// must be called once the caller is done pulling rows (i.e. once
// Plan.Execute has returned).
func (q *LoweredQuery) Close() error {
	return q.reader.Close()
}

// Lower compiles query against table and returns an executable plan.
func Lower(table *db.Table, query ast.Query) (*LoweredQuery, error) {
	reader, err := table.Reader()
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}

	input := vm.NewColumnBlock()
	output := vm.NewColumnBlock()
	ec := newExprConstructor(table, reader, input)

	var visible []string
	for _, item := range query.Select.Projection {
		switch it := item.(type) {
		case ast.SelectItemWildcard:
			names, err := ec.processWildcard()
			if err != nil {
				reader.Close()
				return nil, fmt.Errorf("planner: %w", err)
			}
			visible = append(visible, names...)
		case ast.SelectItemExpr:
			name, err := ec.compile(it.Expr)
			if err != nil {
				reader.Close()
				return nil, fmt.Errorf("planner: %w", err)
			}
			visible = append(visible, name)
		default:
			reader.Close()
			return nil, fmt.Errorf("planner: unsupported select item %T", item)
		}
	}

	for _, name := range visible {
		idx, ok := input.IndexByName(name)
		if !ok {
			reader.Close()
			return nil, fmt.Errorf("planner: internal error: projected column %q was not compiled", name)
		}
		output.Add(input.ColumnAt(idx).CloneEmpty(), vm.NoOpSource{})
	}

	var filterColName string
	if query.Select.Selection != nil {
		name, err := ec.compile(query.Select.Selection)
		if err != nil {
			reader.Close()
			return nil, fmt.Errorf("planner: %w", err)
		}
		filterColName = name
	}

	var orderFields []vm.OrderField
	for _, ob := range query.OrderBy {
		name := ob.Expr.String()
		if !output.HasColumn(name) {
			if _, err := ec.compile(ob.Expr); err != nil {
				reader.Close()
				return nil, fmt.Errorf("planner: %w", err)
			}
			idx, _ := input.IndexByName(name)
			output.Add(input.ColumnAt(idx).CloneEmpty(), vm.NoOpSource{})
		}
		orderFields = append(orderFields, vm.OrderField{ColumnName: name, Ascending: ob.Asc})
	}

	hasLimit := query.Limit != nil
	limit := 0
	if hasLimit {
		limit = int(*query.Limit)
	}
	offset := 0
	if query.Offset != nil {
		offset = int(*query.Offset)
	}

	var appendProc *vm.FilteredAppendToOutput
	plan := vm.NewPlan(input, output)
	plan.AddProcessor(vm.NewChunkedDriver(reader))
	if len(orderFields) > 0 {
		// ORDER BY gathers every matching row first; offset/limit are
		// applied by OrderByPostProcessor once the full result is sorted.
		appendProc = vm.NewFilteredAppendToOutput(filterColName, 0, 0, false)
		plan.AddProcessor(appendProc)
		plan.AddPostProcessor(appendProc.AsPostProcessor())
		plan.AddPostProcessor(vm.NewOrderByPostProcessor(orderFields, offset, limit, hasLimit))
	} else {
		appendProc = vm.NewFilteredAppendToOutput(filterColName, offset, limit, hasLimit)
		plan.AddProcessor(appendProc)
		plan.AddPostProcessor(appendProc.AsPostProcessor())
	}

	return &LoweredQuery{Plan: plan, Output: output, Columns: visible, reader: reader}, nil
}
