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
	"encoding/binary"
	"strconv"

	"github.com/hellodb/hellodb/coltype"
)

// IntStorage holds a sequence of 64-bit signed integers.
type IntStorage struct {
	data []int64
}

// NewIntStorage builds an IntStorage wrapping the given values
// directly (no copy); useful for tests and Constant-source literals.
func NewIntStorage(vals []int64) *IntStorage {
	return &IntStorage{data: vals}
}

func (s *IntStorage) Type() coltype.Type { return coltype.Int }
func (s *IntStorage) Len() int           { return len(s.data) }

func (s *IntStorage) Resize(n int) {
	if n <= len(s.data) {
		s.data = s.data[:n]
		return
	}
	grown := make([]int64, n)
	copy(grown, s.data)
	s.data = grown
}

func (s *IntStorage) FitOffsetLimit(off, limit int, hasLimit bool) {
	remaining := len(s.data) - off
	if hasLimit && limit < remaining {
		remaining = limit
	}
	if off > 0 {
		copy(s.data, s.data[off:off+remaining])
	}
	s.data = s.data[:remaining]
}

func (s *IntStorage) ToStringAt(i int) string {
	return strconv.FormatInt(s.data[i], 10)
}

func (s *IntStorage) CopyTo(dest Storage, destOff int) {
	d, ok := dest.(*IntStorage)
	if !ok {
		panic(mismatchedTypes(coltype.Int, dest.Type()))
	}
	n := len(s.data)
	if room := len(d.data) - destOff; room < n {
		n = room
	}
	copy(d.data[destOff:destOff+n], s.data[:n])
}

func (s *IntStorage) CopyFilteredTo(dest Storage, destOff int, filter Storage) {
	d, ok := dest.(*IntStorage)
	if !ok {
		panic(mismatchedTypes(coltype.Int, dest.Type()))
	}
	f, ok := filter.(*IntStorage)
	if !ok {
		panic("column: filter storage must be Int")
	}
	if len(f.data) != len(s.data) {
		panic("column: filter length mismatch")
	}
	next := destOff
	for i, v := range s.data {
		if f.data[i] == 1 {
			d.data[next] = v
			next++
		}
	}
}

func (s *IntStorage) PackValueTo(i int, buf []byte) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(s.data[i]))
	return append(buf, tmp[:]...)
}

func (s *IntStorage) UnpackValueFrom(i int, buf []byte) ([]byte, error) {
	if len(buf) < 8 {
		return nil, errShortBuffer
	}
	s.data[i] = int64(binary.LittleEndian.Uint64(buf[:8]))
	return buf[8:], nil
}

func (s *IntStorage) ElemsCmp(a, b int) int {
	va, vb := s.data[a], s.data[b]
	switch {
	case va < vb:
		return -1
	case va > vb:
		return 1
	default:
		return 0
	}
}

// RawInt64 exposes the backing slice directly for the block codec's
// bulk encode/decode path, which needs the whole buffer rather than
// one element at a time.
func (s *IntStorage) RawInt64() []int64 { return s.data }

func (s *IntStorage) Permute(idxs []int) {
	out := make([]int64, len(idxs))
	for k, idx := range idxs {
		out[k] = s.data[idx]
	}
	s.data = out
}
