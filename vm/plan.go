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

// Plan is one execute step: an input block, an output block and the
// ordered processors/post-processors that connect them. Future
// multi-step composition is an open extension, not implemented here.
type Plan struct {
	Input  *ColumnBlock
	Output *ColumnBlock

	processors     []Processor
	postProcessors []PostProcessor
}

// NewPlan builds a plan around the given input/output blocks.
func NewPlan(input, output *ColumnBlock) *Plan {
	return &Plan{Input: input, Output: output}
}

// AddProcessor appends p to the driving loop, in registration order.
func (pl *Plan) AddProcessor(p Processor) *Plan {
	pl.processors = append(pl.processors, p)
	return pl
}

// AddPostProcessor appends p to the post-processing pass, in
// registration order.
func (pl *Plan) AddPostProcessor(p PostProcessor) *Plan {
	pl.postProcessors = append(pl.postProcessors, p)
	return pl
}

// Execute runs the driving loop until any processor reports Stop,
// then runs every post-processor once, in registration order.
func (pl *Plan) Execute() error {
	for {
		stop := false
		for _, p := range pl.processors {
			status, err := p.Run(pl.Input, pl.Output)
			if err != nil {
				return err
			}
			if status == Stop {
				stop = true
				break
			}
		}
		if stop {
			break
		}
	}
	for _, pp := range pl.postProcessors {
		if err := pp.Run(pl.Output); err != nil {
			return err
		}
	}
	return nil
}
