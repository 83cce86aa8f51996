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

package function

import (
	"github.com/hellodb/hellodb/column"
	"github.com/hellodb/hellodb/coltype"
)

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

type intCmp struct{ cmp func(a, b int64) bool }

func (f intCmp) Apply(args []column.Storage, out column.Storage) error {
	if len(args) != 2 {
		panic("function: comparison op expects 2 arguments")
	}
	a := args[0].(*column.IntStorage).RawInt64()
	b := args[1].(*column.IntStorage).RawInt64()
	o := out.(*column.IntStorage).RawInt64()
	for i := range o {
		o[i] = boolToInt(f.cmp(a[i], b[i]))
	}
	return nil
}

type floatCmp struct{ cmp func(a, b float64) bool }

func (f floatCmp) Apply(args []column.Storage, out column.Storage) error {
	if len(args) != 2 {
		panic("function: comparison op expects 2 arguments")
	}
	a := args[0].(*column.FloatStorage).RawFloat64()
	b := args[1].(*column.FloatStorage).RawFloat64()
	o := out.(*column.IntStorage).RawInt64()
	for i := range o {
		o[i] = boolToInt(f.cmp(a[i], b[i]))
	}
	return nil
}

type stringCmp struct{ cmp func(a, b string) bool }

func (f stringCmp) Apply(args []column.Storage, out column.Storage) error {
	if len(args) != 2 {
		panic("function: comparison op expects 2 arguments")
	}
	a := args[0].(*column.StringStorage).RawStrings()
	b := args[1].(*column.StringStorage).RawStrings()
	o := out.(*column.IntStorage).RawInt64()
	for i := range o {
		o[i] = boolToInt(f.cmp(a[i], b[i]))
	}
	return nil
}

func registerComparison() {
	ops := []struct {
		op      Op
		intFn   func(a, b int64) bool
		floatFn func(a, b float64) bool
		strFn   func(a, b string) bool
	}{
		{Eq, func(a, b int64) bool { return a == b }, func(a, b float64) bool { return a == b }, func(a, b string) bool { return a == b }},
		{Ne, func(a, b int64) bool { return a != b }, func(a, b float64) bool { return a != b }, func(a, b string) bool { return a != b }},
		{Lt, func(a, b int64) bool { return a < b }, func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b }},
		{Le, func(a, b int64) bool { return a <= b }, func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b }},
		{Gt, func(a, b int64) bool { return a > b }, func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b }},
		{Ge, func(a, b int64) bool { return a >= b }, func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b }},
	}
	for _, o := range ops {
		intFn, floatFn, strFn := o.intFn, o.floatFn, o.strFn
		register(o.op, coltype.Int, func() Func { return intCmp{cmp: intFn} }, coltype.Int, coltype.Int)
		register(o.op, coltype.Int, func() Func { return floatCmp{cmp: floatFn} }, coltype.Float, coltype.Float)
		register(o.op, coltype.Int, func() Func { return stringCmp{cmp: strFn} }, coltype.String, coltype.String)
	}
}
