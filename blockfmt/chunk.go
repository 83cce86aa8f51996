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
	"math"

	"github.com/hellodb/hellodb/column"
	"github.com/hellodb/hellodb/coltype"
)

// chunk header layout: three little-endian u32 fields.
const chunkHeaderSize = 12

// ChunkWriter appends one chunk per call to WriteCol for a single
// column file.
type ChunkWriter struct {
	dst io.Writer

	raw        []byte // scratch: uncompressed payload
	compressed []byte // scratch: compressed payload
	header     [chunkHeaderSize]byte
}

// NewChunkWriter wraps dst, which should be positioned at the
// column file's current write offset (typically its end, for
// append-only writes).
func NewChunkWriter(dst io.Writer) *ChunkWriter {
	return &ChunkWriter{dst: dst}
}

// WriteCol encodes storage's current contents as exactly one chunk
// and appends it to the underlying writer.
func (w *ChunkWriter) WriteCol(storage column.Storage) error {
	rows := storage.Len()
	w.raw = encodeRaw(storage, w.raw[:0])
	uncompressedSize := len(w.raw)

	bound := LZ4.Bound(uncompressedSize)
	if cap(w.compressed) < bound {
		w.compressed = make([]byte, bound)
	}
	compressed, err := LZ4.Compress(w.raw, w.compressed[:bound])
	if err != nil {
		return fmt.Errorf("blockfmt: write chunk: %w", err)
	}
	// LZ4.Compress can report 0 bytes when the payload is
	// incompressible; store the raw bytes verbatim in that case,
	// using the invariant that a genuine LZ4 block is never empty
	// unless the uncompressed payload itself is empty.
	if len(compressed) == 0 && uncompressedSize > 0 {
		compressed = w.raw
	}
	w.compressed = compressed

	binary.LittleEndian.PutUint32(w.header[0:4], uint32(rows))
	binary.LittleEndian.PutUint32(w.header[4:8], uint32(uncompressedSize))
	binary.LittleEndian.PutUint32(w.header[8:12], uint32(len(compressed)))
	if _, err := w.dst.Write(w.header[:]); err != nil {
		return fmt.Errorf("blockfmt: write chunk header: %w", err)
	}
	if _, err := w.dst.Write(compressed); err != nil {
		return fmt.Errorf("blockfmt: write chunk payload: %w", err)
	}
	return nil
}

// ChunkReader reads successive chunks from a single column file.
type ChunkReader struct {
	src io.Reader

	compressed []byte
	raw        []byte
}

// NewChunkReader wraps src, which should be positioned at the start
// of the next unread chunk.
func NewChunkReader(src io.Reader) *ChunkReader {
	return &ChunkReader{src: src}
}

// ReadCol reads the next chunk and decodes it into storage, resizing
// storage to the chunk's row count first (the resize-by-reader
// contract; see SPEC_FULL.md §4.2).
//
// Returns io.EOF if the stream is exhausted before any header bytes
// are read. A partial header or payload is a hard error.
func (r *ChunkReader) ReadCol(storage column.Storage) error {
	var header [chunkHeaderSize]byte
	n, err := io.ReadFull(r.src, header[:])
	if err != nil {
		if err == io.EOF && n == 0 {
			return io.EOF
		}
		return fmt.Errorf("blockfmt: read chunk header: %w", err)
	}
	rows := int(binary.LittleEndian.Uint32(header[0:4]))
	uncompressedSize := int(binary.LittleEndian.Uint32(header[4:8]))
	compressedSize := int(binary.LittleEndian.Uint32(header[8:12]))

	if cap(r.compressed) < compressedSize {
		r.compressed = make([]byte, compressedSize)
	}
	r.compressed = r.compressed[:compressedSize]
	if _, err := io.ReadFull(r.src, r.compressed); err != nil {
		return fmt.Errorf("blockfmt: read chunk payload: %w", err)
	}

	if cap(r.raw) < uncompressedSize {
		r.raw = make([]byte, uncompressedSize)
	}
	r.raw = r.raw[:uncompressedSize]
	switch {
	case uncompressedSize == 0:
		// nothing to decompress
	case compressedSize == uncompressedSize:
		// stored verbatim (incompressible payload; see ChunkWriter)
		copy(r.raw, r.compressed)
	default:
		if err := LZ4.Decompress(r.compressed, r.raw); err != nil {
			return fmt.Errorf("blockfmt: decode chunk: %w", err)
		}
	}

	storage.Resize(rows)
	return decodeRaw(storage, r.raw)
}

// encodeRaw appends storage's bulk on-disk payload (§4.2/§6: raw
// little-endian element bytes for Int/Float, a u32 length table
// followed by concatenated UTF-8 bytes for String) to buf.
func encodeRaw(storage column.Storage, buf []byte) []byte {
	switch storage.Type() {
	case coltype.Int:
		data := storage.(*column.IntStorage).RawInt64()
		for _, v := range data {
			var tmp [8]byte
			binary.LittleEndian.PutUint64(tmp[:], uint64(v))
			buf = append(buf, tmp[:]...)
		}
	case coltype.Float:
		data := storage.(*column.FloatStorage).RawFloat64()
		for _, v := range data {
			var tmp [8]byte
			binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
			buf = append(buf, tmp[:]...)
		}
	case coltype.String:
		data := storage.(*column.StringStorage).RawStrings()
		var tmp [4]byte
		for _, v := range data {
			binary.LittleEndian.PutUint32(tmp[:], uint32(len(v)))
			buf = append(buf, tmp[:]...)
		}
		for _, v := range data {
			buf = append(buf, v...)
		}
	default:
		panic("blockfmt: unknown column type")
	}
	return buf
}

// decodeRaw is the inverse of encodeRaw; storage must already be
// resized to the expected row count.
func decodeRaw(storage column.Storage, buf []byte) error {
	rows := storage.Len()
	switch storage.Type() {
	case coltype.Int:
		if len(buf) != rows*8 {
			return fmt.Errorf("blockfmt: expected %d bytes for %d ints, got %d", rows*8, rows, len(buf))
		}
		data := storage.(*column.IntStorage).RawInt64()
		for i := range data {
			data[i] = int64(binary.LittleEndian.Uint64(buf[i*8 : i*8+8]))
		}
	case coltype.Float:
		if len(buf) != rows*8 {
			return fmt.Errorf("blockfmt: expected %d bytes for %d floats, got %d", rows*8, rows, len(buf))
		}
		data := storage.(*column.FloatStorage).RawFloat64()
		for i := range data {
			data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8 : i*8+8]))
		}
	case coltype.String:
		if len(buf) < rows*4 {
			return fmt.Errorf("blockfmt: truncated string length table: want %d bytes, got %d", rows*4, len(buf))
		}
		lengths := make([]int, rows)
		total := 0
		for i := 0; i < rows; i++ {
			l := int(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
			lengths[i] = l
			total += l
		}
		body := buf[rows*4:]
		if len(body) != total {
			return fmt.Errorf("blockfmt: string payload size mismatch: want %d bytes, got %d", total, len(body))
		}
		data := storage.(*column.StringStorage).RawStrings()
		off := 0
		for i, l := range lengths {
			data[i] = string(body[off : off+l])
			off += l
		}
	default:
		panic("blockfmt: unknown column type")
	}
	return nil
}
