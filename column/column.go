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

package column

// Column pairs a Header with its Storage.
type Column struct {
	Header  Header
	Storage Storage
}

// NewColumn builds an empty Column for the given header, allocating
// storage of the header's declared type.
func NewColumn(h Header) Column {
	return Column{Header: h, Storage: New(h.Type)}
}

// CloneEmpty returns a zero-length Column with the same name/type as
// c but freshly allocated storage; used when building an output
// block's shell columns from an input block's headers.
func (c Column) CloneEmpty() Column {
	return NewColumn(c.Header)
}
