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
	"fmt"

	"github.com/hellodb/hellodb/coltype"
)

// builder computes the result type for argTypes (or rejects the
// combination) and constructs a Func specialized to those types.
type builder struct {
	resultType coltype.Type
	build      func() Func
}

// table is keyed by (op, arg-type signature), mirroring the
// (shape) -> (constructor) dispatch table vm/ops_gen.go generates for
// bytecode ops, except here it is hand-written: this library has a
// handful of ops over three types rather than hundreds of SIMD
// kernels, so code generation buys nothing.
var table = map[string]builder{}

func key(op Op, argTypes ...coltype.Type) string {
	s := string(op)
	for _, t := range argTypes {
		s += "/" + t.String()
	}
	return s
}

func register(op Op, result coltype.Type, build func() Func, argTypes ...coltype.Type) {
	table[key(op, argTypes...)] = builder{resultType: result, build: build}
}

// ResultType returns the result type of op applied to argTypes, or
// an error if the combination is not supported.
func ResultType(op Op, argTypes ...coltype.Type) (coltype.Type, error) {
	b, ok := table[key(op, argTypes...)]
	if !ok {
		return coltype.Invalid, fmt.Errorf("function: no %s for argument types %v", op, argTypes)
	}
	return b.resultType, nil
}

// Build constructs a Func implementing op over argTypes, or an error
// if the combination is not supported.
func Build(op Op, argTypes ...coltype.Type) (Func, error) {
	b, ok := table[key(op, argTypes...)]
	if !ok {
		return nil, fmt.Errorf("function: no %s for argument types %v", op, argTypes)
	}
	return b.build(), nil
}

func init() {
	registerArithmetic()
	registerComparison()
	registerBoolean()
}
