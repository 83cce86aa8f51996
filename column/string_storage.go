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
	"errors"

	"github.com/hellodb/hellodb/coltype"
)

var errShortBuffer = errors.New("column: buffer too short to unpack value")

// StringStorage holds a sequence of UTF-8 strings.
type StringStorage struct {
	data []string
}

// NewStringStorage builds a StringStorage wrapping the given values
// directly (no copy).
func NewStringStorage(vals []string) *StringStorage {
	return &StringStorage{data: vals}
}

func (s *StringStorage) Type() coltype.Type { return coltype.String }
func (s *StringStorage) Len() int           { return len(s.data) }

func (s *StringStorage) Resize(n int) {
	if n <= len(s.data) {
		s.data = s.data[:n]
		return
	}
	grown := make([]string, n)
	copy(grown, s.data)
	s.data = grown
}

func (s *StringStorage) FitOffsetLimit(off, limit int, hasLimit bool) {
	remaining := len(s.data) - off
	if hasLimit && limit < remaining {
		remaining = limit
	}
	if off > 0 {
		copy(s.data, s.data[off:off+remaining])
	}
	s.data = s.data[:remaining]
}

func (s *StringStorage) ToStringAt(i int) string {
	return s.data[i]
}

func (s *StringStorage) CopyTo(dest Storage, destOff int) {
	d, ok := dest.(*StringStorage)
	if !ok {
		panic(mismatchedTypes(coltype.String, dest.Type()))
	}
	n := len(s.data)
	if room := len(d.data) - destOff; room < n {
		n = room
	}
	copy(d.data[destOff:destOff+n], s.data[:n])
}

func (s *StringStorage) CopyFilteredTo(dest Storage, destOff int, filter Storage) {
	d, ok := dest.(*StringStorage)
	if !ok {
		panic(mismatchedTypes(coltype.String, dest.Type()))
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

func (s *StringStorage) PackValueTo(i int, buf []byte) []byte {
	v := s.data[i]
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(len(v)))
	buf = append(buf, tmp[:]...)
	return append(buf, v...)
}

func (s *StringStorage) UnpackValueFrom(i int, buf []byte) ([]byte, error) {
	if len(buf) < 4 {
		return nil, errShortBuffer
	}
	n := int(binary.LittleEndian.Uint32(buf[:4]))
	buf = buf[4:]
	if len(buf) < n {
		return nil, errShortBuffer
	}
	s.data[i] = string(buf[:n])
	return buf[n:], nil
}

// ElemsCmp compares lexicographically over UTF-8 bytes.
func (s *StringStorage) ElemsCmp(a, b int) int {
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

// RawStrings exposes the backing slice directly; see
// (*IntStorage).RawInt64.
func (s *StringStorage) RawStrings() []string { return s.data }

func (s *StringStorage) Permute(idxs []int) {
	out := make([]string, len(idxs))
	for k, idx := range idxs {
		out[k] = s.data[idx]
	}
	s.data = out
}
