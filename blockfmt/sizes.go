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
	"encoding/binary"
	"fmt"
	"io"
)

// SizesWriter appends block row counts to a table's "_sizes.bin"
// stream, one little-endian u32 per block. Every column file in the
// table shares this single stream, so a block's row count only ever
// needs to be written once per block, not once per column.
type SizesWriter struct {
	dst io.Writer
	buf [4]byte
}

func NewSizesWriter(dst io.Writer) *SizesWriter {
	return &SizesWriter{dst: dst}
}

func (w *SizesWriter) WriteSize(rows int) error {
	binary.LittleEndian.PutUint32(w.buf[:], uint32(rows))
	if _, err := w.dst.Write(w.buf[:]); err != nil {
		return fmt.Errorf("blockfmt: write block size: %w", err)
	}
	return nil
}

// SizesReader reads a table's "_sizes.bin" stream in order, driving
// the chunked reader loop over every column file.
type SizesReader struct {
	src io.Reader
	buf [4]byte
}

func NewSizesReader(src io.Reader) *SizesReader {
	return &SizesReader{src: src}
}

// NextSize returns the row count of the next block, or io.EOF once
// the stream is exhausted cleanly. A partial trailing record is a
// hard error, since it means the writer was interrupted mid-record.
func (r *SizesReader) NextSize() (int, error) {
	n, err := io.ReadFull(r.src, r.buf[:])
	if err != nil {
		if err == io.EOF && n == 0 {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("blockfmt: read block size: %w", err)
	}
	return int(binary.LittleEndian.Uint32(r.buf[:])), nil
}
