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

// Package function implements the vectorized scalar function library:
// arithmetic, comparison, and boolean operators dispatched by
// (op, argument types) at plan-build time.
package function

import (
	"github.com/hellodb/hellodb/column"
)

// Op names a scalar operator kind.
type Op string

const (
	Add Op = "+"
	Sub Op = "-"
	Mul Op = "*"
	Div Op = "/"

	Eq Op = "="
	Ne Op = "!="
	Lt Op = "<"
	Le Op = "<="
	Gt Op = ">"
	Ge Op = ">="

	And Op = "AND"
	Or  Op = "OR"
	Not Op = "NOT"
)

// Func applies a scalar operator element-wise across its input
// columns and writes into out, which is already resized to the
// shared input length.
type Func interface {
	Apply(args []column.Storage, out column.Storage) error
}
