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
	"io"

	"golang.org/x/exp/slices"

	"github.com/hellodb/hellodb/column"
)

// Status is the result of one Processor iteration.
type Status int

const (
	Continue Status = iota
	Stop
)

// Processor is a stateful pull-based pipeline stage.
type Processor interface {
	Run(input, output *ColumnBlock) (Status, error)
}

// PostProcessor runs once over the output block after the driving
// loop ends.
type PostProcessor interface {
	Run(output *ColumnBlock) error
}

// SizeSource yields the row count of the next block, or io.EOF once
// exhausted. db.TableReader satisfies this.
type SizeSource interface {
	NextSize() (int, error)
}

// ChunkedDriver pulls the next block size and advances the input
// block. It never touches the output block.
type ChunkedDriver struct {
	Sizes SizeSource
}

func NewChunkedDriver(sizes SizeSource) *ChunkedDriver {
	return &ChunkedDriver{Sizes: sizes}
}

func (d *ChunkedDriver) Run(input, output *ColumnBlock) (Status, error) {
	n, err := d.Sizes.NextSize()
	if err != nil {
		if err == io.EOF {
			return Stop, nil
		}
		return Stop, err
	}
	if err := input.Process(n); err != nil {
		return Stop, err
	}
	return Continue, nil
}

// FilteredAppendToOutput copies input columns matched by name into
// output, optionally filtered by a 0/1 Int column, optionally
// streaming offset/limit when there is no ORDER BY (spec §4.7.2).
// It acts as both a Processor (during the driving loop) and a
// PostProcessor (to trim the partial-skip prefix and any tail
// overshoot once the loop ends).
type FilteredAppendToOutput struct {
	FilterColName string // empty means no filter
	Offset        int
	Limit         int
	HasLimit      bool

	processed  int
	restOffset int
	sawOffset  bool
}

func NewFilteredAppendToOutput(filterColName string, offset, limit int, hasLimit bool) *FilteredAppendToOutput {
	return &FilteredAppendToOutput{FilterColName: filterColName, Offset: offset, Limit: limit, HasLimit: hasLimit}
}

func (p *FilteredAppendToOutput) Run(input, output *ColumnBlock) (Status, error) {
	if p.HasLimit && p.processed >= p.Limit+p.Offset {
		return Stop, nil
	}

	var filterIdx int
	hasFilter := p.FilterColName != ""
	if hasFilter {
		idx, ok := input.IndexByName(p.FilterColName)
		if !ok {
			panic("vm: unknown filter column " + p.FilterColName)
		}
		filterIdx = idx
	}

	addSize := input.Rows()
	if hasFilter {
		filterData := input.ColumnAt(filterIdx).Storage.(*column.IntStorage).RawInt64()
		addSize = 0
		for _, v := range filterData {
			if v == 1 {
				addSize++
			}
		}
	}

	if p.processed+addSize <= p.Offset {
		p.processed += addSize
		return Continue, nil
	}

	if !p.sawOffset {
		p.restOffset = p.Offset - p.processed
		p.sawOffset = true
	}

	base := output.Rows()
	output.Resize(base + addSize)
	for i := 0; i < output.Len(); i++ {
		outCol := output.ColumnAt(i)
		inIdx, ok := input.IndexByName(outCol.Header.Name)
		if !ok {
			continue
		}
		inCol := input.ColumnAt(inIdx)
		if hasFilter {
			inCol.Storage.CopyFilteredTo(outCol.Storage, base, input.ColumnAt(filterIdx).Storage)
		} else {
			inCol.Storage.CopyTo(outCol.Storage, base)
		}
	}

	p.processed += addSize
	return Continue, nil
}

func (p *FilteredAppendToOutput) PostRun(output *ColumnBlock) error {
	off := p.restOffset
	if !p.sawOffset {
		off = 0
	}
	output.FitOffsetLimit(off, p.Limit, p.HasLimit)
	return nil
}

// postProcessorAdapter lets FilteredAppendToOutput.PostRun satisfy
// PostProcessor without renaming Run (which already has the
// Processor signature).
type postProcessorAdapter struct {
	p *FilteredAppendToOutput
}

func (a postProcessorAdapter) Run(output *ColumnBlock) error { return a.p.PostRun(output) }

// AsPostProcessor returns the PostProcessor view of p.
func (p *FilteredAppendToOutput) AsPostProcessor() PostProcessor {
	return postProcessorAdapter{p: p}
}

// OrderField names one ORDER BY key: the output column to compare on
// and its direction.
type OrderField struct {
	ColumnName string
	Ascending  bool
}

// OrderByPostProcessor sorts the output block's rows by a
// lexicographic comparator over Fields, then trims to [offset,
// offset+limit). An empty Fields list is a no-op.
type OrderByPostProcessor struct {
	Fields   []OrderField
	Offset   int
	Limit    int
	HasLimit bool
}

func NewOrderByPostProcessor(fields []OrderField, offset, limit int, hasLimit bool) *OrderByPostProcessor {
	return &OrderByPostProcessor{Fields: fields, Offset: offset, Limit: limit, HasLimit: hasLimit}
}

func (p *OrderByPostProcessor) Run(output *ColumnBlock) error {
	if len(p.Fields) == 0 {
		return nil
	}
	n := output.Rows()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	cols := make([]column.Storage, len(p.Fields))
	for i, f := range p.Fields {
		idx, ok := output.IndexByName(f.ColumnName)
		if !ok {
			panic("vm: unknown order-by column " + f.ColumnName)
		}
		cols[i] = output.ColumnAt(idx).Storage
	}

	slices.SortFunc(perm, func(a, b int) bool {
		for i, f := range p.Fields {
			var cmp int
			if f.Ascending {
				cmp = cols[i].ElemsCmp(a, b)
			} else {
				cmp = cols[i].ElemsCmp(b, a)
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})

	to := len(perm)
	if p.HasLimit {
		if p.Limit+p.Offset < to {
			to = p.Limit + p.Offset
		}
	}
	if p.Offset > to {
		p.Offset = to
	}
	output.Permute(perm[p.Offset:to])
	return nil
}
