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

// Package blockfmt implements the on-disk chunk codec: each column
// file is a concatenation of LZ4-compressed chunks, and a sibling
// "_sizes.bin" stream records how many rows are in each chunk across
// every column file of a table.
package blockfmt

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Compressor and Decompressor mirror the seam the teacher repo uses
// to wrap third-party compression libraries (compr.Compressor /
// compr.Decompressor) so the codec underneath a chunk stays
// swappable. This module has exactly one concern that needs
// compression -- chunk payloads -- so there is exactly one
// implementation, backed by LZ4 block format.
type Compressor interface {
	// Name identifies the algorithm, stored nowhere on disk (the
	// format has only one codec) but useful in diagnostics.
	Name() string
	// Bound returns an upper bound on the compressed size of a
	// payload of the given length.
	Bound(n int) int
	// Compress compresses src into dst, returning the compressed
	// slice (which may alias dst).
	Compress(src, dst []byte) ([]byte, error)
}

type Decompressor interface {
	Name() string
	// Decompress decompresses src into dst, which must already be
	// sized to the expected uncompressed length.
	Decompress(src, dst []byte) error
}

type lz4Codec struct{}

// LZ4 is the sole Compressor/Decompressor this package uses.
var LZ4 = lz4Codec{}

func (lz4Codec) Name() string { return "lz4" }

func (lz4Codec) Bound(n int) int { return lz4.CompressBlockBound(n) }

func (lz4Codec) Compress(src, dst []byte) ([]byte, error) {
	if cap(dst) < lz4.CompressBlockBound(len(src)) {
		dst = make([]byte, lz4.CompressBlockBound(len(src)))
	}
	var c lz4.Compressor
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("blockfmt: lz4 compress: %w", err)
	}
	return dst[:n], nil
}

func (lz4Codec) Decompress(src, dst []byte) error {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return fmt.Errorf("blockfmt: lz4 decompress: %w", err)
	}
	if n != len(dst) {
		return fmt.Errorf("blockfmt: lz4 decompress: expected %d bytes, got %d", len(dst), n)
	}
	return nil
}
