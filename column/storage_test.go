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
	"math"
	"reflect"
	"testing"

	"github.com/hellodb/hellodb/coltype"
)

func TestResizeGrowDefaults(t *testing.T) {
	s := New(coltype.Int)
	s.Resize(3)
	if s.Len() != 3 {
		t.Fatalf("want len 3, got %d", s.Len())
	}
	for i := 0; i < 3; i++ {
		if got := s.ToStringAt(i); got != "0" {
			t.Fatalf("want zero-value default, got %q", got)
		}
	}
}

func TestFitOffsetLimit(t *testing.T) {
	cases := []struct {
		name       string
		vals       []int64
		off, limit int
		hasLimit   bool
		want       []int64
	}{
		{"noop", []int64{1, 2, 3}, 0, 0, false, []int64{1, 2, 3}},
		{"offset only", []int64{1, 2, 3, 4, 5}, 2, 0, false, []int64{3, 4, 5}},
		{"offset and limit", []int64{1, 2, 3, 4, 5}, 1, 2, true, []int64{2, 3}},
		{"limit beyond remaining", []int64{1, 2, 3}, 1, 10, true, []int64{2, 3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewIntStorage(append([]int64(nil), c.vals...))
			s.FitOffsetLimit(c.off, c.limit, c.hasLimit)
			if !reflect.DeepEqual(s.data, c.want) {
				t.Fatalf("want %v, got %v", c.want, s.data)
			}
		})
	}
}

func TestCopyFilteredTo(t *testing.T) {
	src := NewIntStorage([]int64{10, 20, 30, 40, 50})
	filter := NewIntStorage([]int64{1, 0, 1, 0, 1})
	dest := New(coltype.Int)
	dest.Resize(3)
	src.CopyFilteredTo(dest, 0, filter)
	want := []int64{10, 30, 50}
	if !reflect.DeepEqual(dest.(*IntStorage).data, want) {
		t.Fatalf("want %v, got %v", want, dest.(*IntStorage).data)
	}
}

func TestCopyFilteredToWithOffset(t *testing.T) {
	src := NewStringStorage([]string{"a", "b", "c"})
	filter := NewIntStorage([]int64{0, 1, 1})
	dest := New(coltype.String)
	dest.Resize(3)
	dest.(*StringStorage).data[0] = "x"
	src.CopyFilteredTo(dest, 1, filter)
	want := []string{"x", "b", "c"}
	if !reflect.DeepEqual(dest.(*StringStorage).data, want) {
		t.Fatalf("want %v, got %v", want, dest.(*StringStorage).data)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	ints := NewIntStorage([]int64{-1, 42, math.MaxInt32})
	var buf []byte
	for i := range ints.data {
		buf = ints.PackValueTo(i, buf)
	}
	out := New(coltype.Int)
	out.Resize(len(ints.data))
	rest := buf
	var err error
	for i := range ints.data {
		rest, err = out.UnpackValueFrom(i, rest)
		if err != nil {
			t.Fatalf("unpack: %v", err)
		}
	}
	if len(rest) != 0 {
		t.Fatalf("expected no leftover bytes, got %d", len(rest))
	}
	if !reflect.DeepEqual(out.(*IntStorage).data, ints.data) {
		t.Fatalf("round trip mismatch: want %v got %v", ints.data, out.(*IntStorage).data)
	}
}

func TestPackUnpackStringRoundTrip(t *testing.T) {
	strs := NewStringStorage([]string{"", "hello", "unicode: éè"})
	var buf []byte
	for i := range strs.data {
		buf = strs.PackValueTo(i, buf)
	}
	out := New(coltype.String)
	out.Resize(len(strs.data))
	rest := buf
	var err error
	for i := range strs.data {
		rest, err = out.UnpackValueFrom(i, rest)
		if err != nil {
			t.Fatalf("unpack: %v", err)
		}
	}
	if !reflect.DeepEqual(out.(*StringStorage).data, strs.data) {
		t.Fatalf("round trip mismatch: want %v got %v", strs.data, out.(*StringStorage).data)
	}
}

func TestElemsCmpFloatNaNLast(t *testing.T) {
	s := NewFloatStorage([]float64{1.0, math.NaN(), 2.0, math.NaN()})
	if s.ElemsCmp(0, 2) >= 0 {
		t.Fatalf("expected 1.0 < 2.0")
	}
	if s.ElemsCmp(1, 0) <= 0 {
		t.Fatalf("expected NaN to sort after a real value")
	}
	if s.ElemsCmp(1, 3) != 0 {
		t.Fatalf("expected NaN == NaN under the total order")
	}
}

func TestPermute(t *testing.T) {
	s := NewStringStorage([]string{"a", "b", "c", "d"})
	s.Permute([]int{3, 1, 1, 0})
	want := []string{"d", "b", "b", "a"}
	if !reflect.DeepEqual(s.data, want) {
		t.Fatalf("want %v, got %v", want, s.data)
	}
}

func TestCopyToTruncatesAtDestRoom(t *testing.T) {
	src := NewIntStorage([]int64{1, 2, 3, 4})
	dest := New(coltype.Int)
	dest.Resize(3)
	src.CopyTo(dest, 1)
	want := []int64{0, 1, 2}
	if !reflect.DeepEqual(dest.(*IntStorage).data, want) {
		t.Fatalf("want %v, got %v", want, dest.(*IntStorage).data)
	}
}
