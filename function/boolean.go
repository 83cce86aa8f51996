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

type boolBinary struct{ apply func(a, b int64) int64 }

func (f boolBinary) Apply(args []column.Storage, out column.Storage) error {
	if len(args) != 2 {
		panic("function: boolean op expects 2 arguments")
	}
	a := args[0].(*column.IntStorage).RawInt64()
	b := args[1].(*column.IntStorage).RawInt64()
	o := out.(*column.IntStorage).RawInt64()
	for i := range o {
		o[i] = f.apply(a[i], b[i])
	}
	return nil
}

type boolNot struct{}

func (boolNot) Apply(args []column.Storage, out column.Storage) error {
	if len(args) != 1 {
		panic("function: NOT expects 1 argument")
	}
	a := args[0].(*column.IntStorage).RawInt64()
	o := out.(*column.IntStorage).RawInt64()
	for i := range o {
		if a[i] == 0 {
			o[i] = 1
		} else {
			o[i] = 0
		}
	}
	return nil
}

func registerBoolean() {
	register(And, coltype.Int, func() Func {
		return boolBinary{apply: func(a, b int64) int64 {
			if a != 0 && b != 0 {
				return 1
			}
			return 0
		}}
	}, coltype.Int, coltype.Int)
	register(Or, coltype.Int, func() Func {
		return boolBinary{apply: func(a, b int64) int64 {
			if a != 0 || b != 0 {
				return 1
			}
			return 0
		}}
	}, coltype.Int, coltype.Int)
	register(Not, coltype.Int, func() Func { return boolNot{} }, coltype.Int)
}
