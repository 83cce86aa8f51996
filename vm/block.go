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

package vm

import (
	"golang.org/x/exp/maps"

	"github.com/hellodb/hellodb/column"
)

// ColumnBlock is an ordered collection of columns with parallel
// sources, plus a name -> index map for lookup. It is the vectorized
// evaluation unit: Process(n) resizes every column to exactly n rows,
// then walks sources in declaration order, each filling its own
// column.
type ColumnBlock struct {
	columns   []column.Column
	sources   []Source
	nameIndex map[string]int
}

// NewColumnBlock returns an empty block.
func NewColumnBlock() *ColumnBlock {
	return &ColumnBlock{nameIndex: make(map[string]int)}
}

// Add appends a column and its source. src may only read columns at
// indices strictly less than the new column's own index (the forward
// dependency invariant of spec §3/§4.4); a violation, including
// self-reference, is a contract violation and panics.
func (b *ColumnBlock) Add(col column.Column, src Source) *ColumnBlock {
	if _, dup := b.nameIndex[col.Header.Name]; dup {
		panic("vm: duplicate column name " + col.Header.Name)
	}
	newIdx := len(b.columns)
	if fs, ok := src.(FunctionSource); ok {
		for _, argIdx := range fs.Args {
			if argIdx >= newIdx {
				panic("vm: function source may only reference earlier columns")
			}
		}
	}
	b.nameIndex[col.Header.Name] = newIdx
	b.columns = append(b.columns, col)
	b.sources = append(b.sources, src)
	return b
}

// Len returns the number of columns in the block.
func (b *ColumnBlock) Len() int { return len(b.columns) }

// Rows returns the current row count (the length of column 0, or 0
// if the block has no columns).
func (b *ColumnBlock) Rows() int {
	if len(b.columns) == 0 {
		return 0
	}
	return b.columns[0].Storage.Len()
}

// HasColumn reports whether name names a column in this block.
func (b *ColumnBlock) HasColumn(name string) bool {
	_, ok := b.nameIndex[name]
	return ok
}

// IndexByName returns the index of the column named name, or false.
func (b *ColumnBlock) IndexByName(name string) (int, bool) {
	i, ok := b.nameIndex[name]
	return i, ok
}

// ColumnAt returns the column at index i.
func (b *ColumnBlock) ColumnAt(i int) column.Column { return b.columns[i] }

// Names returns every column name the block currently declares, in
// no particular order (it is the key set of the name index, via
// golang.org/x/exp/maps; declaration order is the order of
// b.columns).
func (b *ColumnBlock) Names() []string {
	return maps.Keys(b.nameIndex)
}

// Resize resizes every column to exactly n rows.
func (b *ColumnBlock) Resize(n int) {
	for i := range b.columns {
		b.columns[i].Storage.Resize(n)
	}
}

// FitOffsetLimit applies the offset/limit trim to every column.
func (b *ColumnBlock) FitOffsetLimit(off, limit int, hasLimit bool) {
	for i := range b.columns {
		b.columns[i].Storage.FitOffsetLimit(off, limit, hasLimit)
	}
}

// Permute reorders every column's rows by idxs.
func (b *ColumnBlock) Permute(idxs []int) {
	for i := range b.columns {
		b.columns[i].Storage.Permute(idxs)
	}
}

// Process resizes every column to n rows then fills them by invoking
// each source in declaration order. A function source observes only
// columns filled earlier in this same call.
func (b *ColumnBlock) Process(n int) error {
	b.Resize(n)
	for i, src := range b.sources {
		if err := src.Fill(b.columns, i); err != nil {
			return err
		}
	}
	return nil
}
