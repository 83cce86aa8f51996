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

import "github.com/hellodb/hellodb/coltype"

// Header names and types a column. Name is unique within whatever
// Schema or Block it is declared in.
type Header struct {
	Name string
	Type coltype.Type
}

// NewHeader builds a Header for name/typ.
func NewHeader(name string, typ coltype.Type) Header {
	return Header{Name: name, Type: typ}
}
