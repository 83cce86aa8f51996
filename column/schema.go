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

import (
	"fmt"
)

// Schema is an ordered sequence of headers with unique names.
type Schema struct {
	headers []Header
	index   map[string]int
}

// NewSchema builds a Schema from headers, failing if any name
// repeats.
func NewSchema(headers []Header) (Schema, error) {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := idx[h.Name]; dup {
			return Schema{}, fmt.Errorf("column: duplicate column name %q", h.Name)
		}
		idx[h.Name] = i
	}
	cp := make([]Header, len(headers))
	copy(cp, headers)
	return Schema{headers: cp, index: idx}, nil
}

// Headers returns the schema's headers in declaration order.
func (s Schema) Headers() []Header {
	return s.headers
}

// Len returns the number of columns in the schema.
func (s Schema) Len() int {
	return len(s.headers)
}

// HeaderByName looks up a header by name.
func (s Schema) HeaderByName(name string) (Header, bool) {
	i, ok := s.index[name]
	if !ok {
		return Header{}, false
	}
	return s.headers[i], true
}

// Names returns the schema's column names in declaration order,
// taken from the ordered header list, matching the way the planner
// enumerates a wildcard projection.
func (s Schema) Names() []string {
	names := make([]string, len(s.headers))
	for i, h := range s.headers {
		names[i] = h.Name
	}
	return names
}
