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

type intArith struct {
	apply func(a, b int64) int64
}

func (f intArith) Apply(args []column.Storage, out column.Storage) error {
	if len(args) != 2 {
		panic("function: arithmetic op expects 2 arguments")
	}
	a := args[0].(*column.IntStorage).RawInt64()
	b := args[1].(*column.IntStorage).RawInt64()
	o := out.(*column.IntStorage).RawInt64()
	for i := range o {
		o[i] = f.apply(a[i], b[i])
	}
	return nil
}

type floatArith struct {
	apply func(a, b float64) float64
}

func (f floatArith) Apply(args []column.Storage, out column.Storage) error {
	if len(args) != 2 {
		panic("function: arithmetic op expects 2 arguments")
	}
	a := args[0].(*column.FloatStorage).RawFloat64()
	b := args[1].(*column.FloatStorage).RawFloat64()
	o := out.(*column.FloatStorage).RawFloat64()
	for i := range o {
		o[i] = f.apply(a[i], b[i])
	}
	return nil
}

func registerArithmetic() {
	ops := []struct {
		op      Op
		intFn   func(a, b int64) int64
		floatFn func(a, b float64) float64
	}{
		{Add, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }},
		{Sub, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }},
		{Mul, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }},
		{Div, func(a, b int64) int64 { return a / b }, func(a, b float64) float64 { return a / b }},
	}
	for _, o := range ops {
		intFn := o.intFn
		register(o.op, coltype.Int, func() Func { return intArith{apply: intFn} }, coltype.Int, coltype.Int)
		floatFn := o.floatFn
		register(o.op, coltype.Float, func() Func { return floatArith{apply: floatFn} }, coltype.Float, coltype.Float)
	}
}
