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

// Package column implements the type-erased, per-type columnar
// storage that every other package in this module builds on: block
// codecs read and write it, column sources fill it, scalar functions
// read and write it, and processors copy/permute it.
package column

import (
	"github.com/hellodb/hellodb/coltype"
)

// Storage is the uniform, type-erased contract implemented once per
// scalar type. All operations are type-agnostic at this interface;
// the concrete backings dispatch internally.
//
// Two storages of identical declared Type may always be compared,
// copied, and filter-copied between each other. Calling any
// cross-type operation (e.g. CopyTo from an Int storage into a
// Float storage) is a programming error and panics.
type Storage interface {
	// Type returns the scalar type this storage holds.
	Type() coltype.Type

	// Len returns the number of elements currently stored.
	Len() int

	// Resize grows or shrinks the storage to exactly n elements.
	// Growth fills new slots with the type's default value (0, 0.0,
	// or "").
	Resize(n int)

	// FitOffsetLimit drops the first off elements and truncates the
	// remainder to at most limit elements. hasLimit distinguishes
	// "limit absent" from "limit == 0". Never reallocates the
	// backing buffer.
	FitOffsetLimit(off int, limit int, hasLimit bool)

	// ToStringAt returns the display text of element i.
	ToStringAt(i int) string

	// CopyTo copies min(Len(), dest.Len()-destOff) elements from
	// position 0 of the receiver into position destOff of dest.
	// dest must have the same Type as the receiver.
	CopyTo(dest Storage, destOff int)

	// CopyFilteredTo copies element i of the receiver into the next
	// free slot of dest starting at destOff, for every i where
	// IntAt(filter, i) == 1. filter must be an Int storage with the
	// same length as the receiver; dest must share the receiver's
	// Type.
	CopyFilteredTo(dest Storage, destOff int, filter Storage)

	// PackValueTo appends the binary encoding of element i to buf
	// and returns the grown slice, using the wire format of the
	// block codec (fixed-width raw bytes for Int/Float, u32 length
	// prefix + UTF-8 bytes for String).
	PackValueTo(i int, buf []byte) []byte

	// UnpackValueFrom decodes one value from the front of buf into
	// element i, returning the remaining, unconsumed bytes.
	UnpackValueFrom(i int, buf []byte) ([]byte, error)

	// ElemsCmp returns a total order comparison of element a versus
	// element b: negative if a < b, zero if equal, positive if
	// a > b. Float storage places NaN last instead of panicking.
	ElemsCmp(a, b int) int

	// Permute replaces the storage's contents with a new buffer of
	// length len(idxs), where position k holds the former value at
	// idxs[k]. Out-of-range indices are undefined behavior.
	Permute(idxs []int)
}

// New constructs an empty, zero-length Storage of the given type.
func New(t coltype.Type) Storage {
	switch t {
	case coltype.Int:
		return &IntStorage{}
	case coltype.Float:
		return &FloatStorage{}
	case coltype.String:
		return &StringStorage{}
	default:
		panic("column: unknown type " + t.String())
	}
}

// IntAt is a convenience accessor for reading element i of a column
// known to be Int (e.g. a 0/1 filter column) without a type assertion
// at the call site.
func IntAt(s Storage, i int) int64 {
	is, ok := s.(*IntStorage)
	if !ok {
		panic("column: IntAt called on non-Int storage")
	}
	return is.data[i]
}

func mismatchedTypes(a, b coltype.Type) string {
	return "column: mismatched types " + a.String() + " and " + b.String()
}
