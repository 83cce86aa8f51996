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

// Package coltype declares the closed set of scalar column types
// that flows through storage, the block codec, and the scalar
// function library.
package coltype

import "fmt"

// Type is one of the scalar column types.
//
// Extending the set means adding a case here and at every
// switch that dispatches on Type below.
type Type byte

const (
	Int Type = iota
	Float
	String

	// Invalid is the Type returned alongside an error when no valid
	// type applies, e.g. by Parse for an unknown name. (The zero value
	// of Type is Int, not Invalid.)
	Invalid = Type(0xff)
)

func (t Type) String() string {
	switch t {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	default:
		return fmt.Sprintf("Type(%d)", byte(t))
	}
}

// Parse turns one of the on-disk/SQL type names ("Int", "Float",
// "String") into a Type, or reports an error for anything else.
func Parse(name string) (Type, error) {
	switch name {
	case "Int":
		return Int, nil
	case "Float":
		return Float, nil
	case "String":
		return String, nil
	default:
		return Invalid, fmt.Errorf("coltype: unknown type name %q", name)
	}
}

// Valid reports whether t is one of the declared scalar types.
func (t Type) Valid() bool {
	switch t {
	case Int, Float, String:
		return true
	default:
		return false
	}
}
