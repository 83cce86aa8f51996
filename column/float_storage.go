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
	"math"
	"strconv"

	"github.com/hellodb/hellodb/coltype"
)

// FloatStorage holds a sequence of IEEE-754 double-precision floats.
type FloatStorage struct {
	data []float64
}

// NewFloatStorage builds a FloatStorage wrapping the given values
// directly (no copy).
func NewFloatStorage(vals []float64) *FloatStorage {
	return &FloatStorage{data: vals}
}

func (s *FloatStorage) Type() coltype.Type { return coltype.Float }
func (s *FloatStorage) Len() int           { return len(s.data) }

func (s *FloatStorage) Resize(n int) {
	if n <= len(s.data) {
		s.data = s.data[:n]
		return
	}
	grown := make([]float64, n)
	copy(grown, s.data)
	s.data = grown
}

func (s *FloatStorage) FitOffsetLimit(off, limit int, hasLimit bool) {
	remaining := len(s.data) - off
	if hasLimit && limit < remaining {
		remaining = limit
	}
	if off > 0 {
		copy(s.data, s.data[off:off+remaining])
	}
	s.data = s.data[:remaining]
}

func (s *FloatStorage) ToStringAt(i int) string {
	return strconv.FormatFloat(s.data[i], 'f', 6, 64)
}

func (s *FloatStorage) CopyTo(dest Storage, destOff int) {
	d, ok := dest.(*FloatStorage)
	if !ok {
		panic(mismatchedTypes(coltype.Float, dest.Type()))
	}
	n := len(s.data)
	if room := len(d.data) - destOff; room < n {
		n = room
	}
	copy(d.data[destOff:destOff+n], s.data[:n])
}

func (s *FloatStorage) CopyFilteredTo(dest Storage, destOff int, filter Storage) {
	d, ok := dest.(*FloatStorage)
	if !ok {
		panic(mismatchedTypes(coltype.Float, dest.Type()))
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

func (s *FloatStorage) PackValueTo(i int, buf []byte) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(s.data[i]))
	return append(buf, tmp[:]...)
}

func (s *FloatStorage) UnpackValueFrom(i int, buf []byte) ([]byte, error) {
	if len(buf) < 8 {
		return nil, errShortBuffer
	}
	s.data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[:8]))
	return buf[8:], nil
}

// ElemsCmp implements a total order that places NaN last, per the
// NaN-handling design note: spec.md's reference implementation
// panics on NaN via a partial comparison; this total order avoids
// that panic so ORDER BY never aborts.
func (s *FloatStorage) ElemsCmp(a, b int) int {
	va, vb := s.data[a], s.data[b]
	aNaN, bNaN := math.IsNaN(va), math.IsNaN(vb)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case va < vb:
		return -1
	case va > vb:
		return 1
	default:
		return 0
	}
}

// RawFloat64 exposes the backing slice directly; see
// (*IntStorage).RawInt64.
func (s *FloatStorage) RawFloat64() []float64 { return s.data }

func (s *FloatStorage) Permute(idxs []int) {
	out := make([]float64, len(idxs))
	for k, idx := range idxs {
		out[k] = s.data[idx]
	}
	s.data = out
}
