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
	"fmt"

	"github.com/hellodb/hellodb/blockfmt"
	"github.com/hellodb/hellodb/column"
	"github.com/hellodb/hellodb/function"
)

// Source describes how a column's data for the current block is
// produced. Fill is called with the block's full column slice and
// the index of the column it must fill; it may only read columns at
// indices strictly less than idx (enforced by ColumnBlock.Add).
type Source interface {
	Fill(cols []column.Column, idx int) error
}

// NoOpSource leaves the column's data as whatever Resize already put
// there. Used for output columns that processors fill directly
// rather than sources.
type NoOpSource struct{}

func (NoOpSource) Fill(cols []column.Column, idx int) error { return nil }

// ExternalSource reads the next block's worth of values for one
// column from an open table column file. Resizing the target is the
// reader's responsibility (the resize-by-reader contract); the block
// has already resized it to the same row count from the shared sizes
// stream, so this is a confirming re-resize, not a conflicting one.
type ExternalSource struct {
	Reader *blockfmt.ChunkReader
}

func NewExternalSource(r *blockfmt.ChunkReader) ExternalSource {
	return ExternalSource{Reader: r}
}

func (s ExternalSource) Fill(cols []column.Column, idx int) error {
	if err := s.Reader.ReadCol(cols[idx].Storage); err != nil {
		return fmt.Errorf("vm: external source: %w", err)
	}
	return nil
}

// IntConstantSource overwrites every slot of an Int column with a
// fixed value.
type IntConstantSource struct{ Value int64 }

func (s IntConstantSource) Fill(cols []column.Column, idx int) error {
	data := cols[idx].Storage.(*column.IntStorage).RawInt64()
	for i := range data {
		data[i] = s.Value
	}
	return nil
}

// FloatConstantSource overwrites every slot of a Float column with a
// fixed value.
type FloatConstantSource struct{ Value float64 }

func (s FloatConstantSource) Fill(cols []column.Column, idx int) error {
	data := cols[idx].Storage.(*column.FloatStorage).RawFloat64()
	for i := range data {
		data[i] = s.Value
	}
	return nil
}

// StringConstantSource overwrites every slot of a String column with
// a fixed value.
type StringConstantSource struct{ Value string }

func (s StringConstantSource) Fill(cols []column.Column, idx int) error {
	data := cols[idx].Storage.(*column.StringStorage).RawStrings()
	for i := range data {
		data[i] = s.Value
	}
	return nil
}

// FunctionSource invokes a scalar function over named input columns
// (by index into the same block) and writes into this column.
type FunctionSource struct {
	Args []int
	Func function.Func
}

func NewFunctionSource(args []int, fn function.Func) FunctionSource {
	return FunctionSource{Args: args, Func: fn}
}

func (s FunctionSource) Fill(cols []column.Column, idx int) error {
	args := make([]column.Storage, len(s.Args))
	for i, argIdx := range s.Args {
		args[i] = cols[argIdx].Storage
	}
	if err := s.Func.Apply(args, cols[idx].Storage); err != nil {
		return fmt.Errorf("vm: function source: %w", err)
	}
	return nil
}
