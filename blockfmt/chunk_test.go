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

package blockfmt

import (
	"bytes"
	"io"
	"testing"

	"github.com/hellodb/hellodb/column"
)

func TestChunkRoundTripInt(t *testing.T) {
	var buf bytes.Buffer
	w := NewChunkWriter(&buf)
	src := column.NewIntStorage([]int64{1, 2, 3, 4, 5})
	if err := w.WriteCol(src); err != nil {
		t.Fatalf("WriteCol: %v", err)
	}

	r := NewChunkReader(&buf)
	dst := column.NewIntStorage(nil)
	if err := r.ReadCol(dst); err != nil {
		t.Fatalf("ReadCol: %v", err)
	}
	if dst.Len() != 5 {
		t.Fatalf("got %d rows, want 5", dst.Len())
	}
	for i, want := range []int64{1, 2, 3, 4, 5} {
		if dst.RawInt64()[i] != want {
			t.Errorf("row %d: got %d, want %d", i, dst.RawInt64()[i], want)
		}
	}
}

func TestChunkRoundTripString(t *testing.T) {
	var buf bytes.Buffer
	w := NewChunkWriter(&buf)
	src := column.NewStringStorage([]string{"alpha", "", "gamma delta", "x"})
	if err := w.WriteCol(src); err != nil {
		t.Fatalf("WriteCol: %v", err)
	}

	r := NewChunkReader(&buf)
	dst := column.NewStringStorage(nil)
	if err := r.ReadCol(dst); err != nil {
		t.Fatalf("ReadCol: %v", err)
	}
	want := []string{"alpha", "", "gamma delta", "x"}
	got := dst.RawStrings()
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunkRoundTripFloat(t *testing.T) {
	var buf bytes.Buffer
	w := NewChunkWriter(&buf)
	src := column.NewFloatStorage([]float64{1.5, -2.25, 0, 3.14159})
	if err := w.WriteCol(src); err != nil {
		t.Fatalf("WriteCol: %v", err)
	}

	r := NewChunkReader(&buf)
	dst := column.NewFloatStorage(nil)
	if err := r.ReadCol(dst); err != nil {
		t.Fatalf("ReadCol: %v", err)
	}
	want := []float64{1.5, -2.25, 0, 3.14159}
	got := dst.RawFloat64()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestChunkMultipleChunksStreaming(t *testing.T) {
	var buf bytes.Buffer
	w := NewChunkWriter(&buf)
	chunks := [][]int64{
		{1, 2, 3},
		{4, 5},
		{6},
	}
	for _, c := range chunks {
		if err := w.WriteCol(column.NewIntStorage(c)); err != nil {
			t.Fatalf("WriteCol: %v", err)
		}
	}

	r := NewChunkReader(&buf)
	dst := column.NewIntStorage(nil)
	for _, want := range chunks {
		if err := r.ReadCol(dst); err != nil {
			t.Fatalf("ReadCol: %v", err)
		}
		if dst.Len() != len(want) {
			t.Fatalf("got %d rows, want %d", dst.Len(), len(want))
		}
		for i, v := range want {
			if dst.RawInt64()[i] != v {
				t.Errorf("row %d: got %d, want %d", i, dst.RawInt64()[i], v)
			}
		}
	}
	if err := r.ReadCol(dst); err != io.EOF {
		t.Fatalf("expected io.EOF after last chunk, got %v", err)
	}
}

func TestChunkEmptyColumn(t *testing.T) {
	var buf bytes.Buffer
	w := NewChunkWriter(&buf)
	if err := w.WriteCol(column.NewIntStorage(nil)); err != nil {
		t.Fatalf("WriteCol: %v", err)
	}

	r := NewChunkReader(&buf)
	dst := column.NewIntStorage([]int64{99})
	if err := r.ReadCol(dst); err != nil {
		t.Fatalf("ReadCol: %v", err)
	}
	if dst.Len() != 0 {
		t.Fatalf("got %d rows, want 0", dst.Len())
	}
}

func TestChunkReaderEOFOnEmptyStream(t *testing.T) {
	r := NewChunkReader(bytes.NewReader(nil))
	dst := column.NewIntStorage(nil)
	if err := r.ReadCol(dst); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestChunkReaderTruncatedHeaderIsHardError(t *testing.T) {
	r := NewChunkReader(bytes.NewReader([]byte{1, 2, 3}))
	dst := column.NewIntStorage(nil)
	err := r.ReadCol(dst)
	if err == nil || err == io.EOF {
		t.Fatalf("expected hard error for truncated header, got %v", err)
	}
}

func TestChunkIncompressiblePayloadStoredRaw(t *testing.T) {
	// A single-row int column is 8 bytes, far too small for LZ4 to
	// shrink; this exercises the stored-raw fallback path.
	var buf bytes.Buffer
	w := NewChunkWriter(&buf)
	src := column.NewIntStorage([]int64{42})
	if err := w.WriteCol(src); err != nil {
		t.Fatalf("WriteCol: %v", err)
	}

	r := NewChunkReader(&buf)
	dst := column.NewIntStorage(nil)
	if err := r.ReadCol(dst); err != nil {
		t.Fatalf("ReadCol: %v", err)
	}
	if dst.Len() != 1 || dst.RawInt64()[0] != 42 {
		t.Fatalf("got %v, want [42]", dst.RawInt64())
	}
}

func TestSizesStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewSizesWriter(&buf)
	sizes := []int{1024, 1024, 37}
	for _, n := range sizes {
		if err := w.WriteSize(n); err != nil {
			t.Fatalf("WriteSize: %v", err)
		}
	}

	r := NewSizesReader(&buf)
	for _, want := range sizes {
		got, err := r.NextSize()
		if err != nil {
			t.Fatalf("NextSize: %v", err)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
	if _, err := r.NextSize(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}
