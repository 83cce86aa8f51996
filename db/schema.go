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

// Package db implements the on-disk table/database layout: one
// directory per table holding a schema file, a block-sizes stream
// and one block-codec file per column.
package db

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hellodb/hellodb/column"
	"github.com/hellodb/hellodb/coltype"
)

// WriteSchema encodes headers as schema.bin (§6): col_count u32 LE,
// then per column a (name_len, name, type_name_len, type_name)
// record.
func WriteSchema(w io.Writer, headers []column.Header) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(len(headers)))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("db: write schema: %w", err)
	}
	for _, h := range headers {
		if err := writeLenPrefixed(w, []byte(h.Name)); err != nil {
			return fmt.Errorf("db: write schema: %w", err)
		}
		if err := writeLenPrefixed(w, []byte(h.Type.String())); err != nil {
			return fmt.Errorf("db: write schema: %w", err)
		}
	}
	return nil
}

func writeLenPrefixed(w io.Writer, b []byte) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(len(b)))
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadSchema decodes a schema.bin stream into an ordered header list.
func ReadSchema(r io.Reader) ([]column.Header, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("db: read schema: %w", err)
	}
	count := int(binary.LittleEndian.Uint32(buf[:]))
	headers := make([]column.Header, count)
	for i := 0; i < count; i++ {
		name, err := readLenPrefixed(r)
		if err != nil {
			return nil, fmt.Errorf("db: read schema: %w", err)
		}
		typeName, err := readLenPrefixed(r)
		if err != nil {
			return nil, fmt.Errorf("db: read schema: %w", err)
		}
		typ, err := coltype.Parse(string(typeName))
		if err != nil {
			return nil, fmt.Errorf("db: read schema: %w", err)
		}
		headers[i] = column.NewHeader(string(name), typ)
	}
	return headers, nil
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint32(buf[:]))
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
