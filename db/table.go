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

package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hellodb/hellodb/blockfmt"
	"github.com/hellodb/hellodb/column"
)

const schemaFileName = "schema.bin"
const sizesFileName = "_sizes.bin"

// Table is a (path, name, schema) record: a directory holding a
// schema file, a block-sizes stream and one block-codec file per
// column.
type Table struct {
	Path   string
	Name   string
	Schema column.Schema
}

// CreateTable makes a new table directory under dbPath and persists
// its schema. The column and sizes files are created lazily by the
// first writer.
func CreateTable(dbPath, name string, headers []column.Header) (*Table, error) {
	schema, err := column.NewSchema(headers)
	if err != nil {
		return nil, fmt.Errorf("db: create table %s: %w", name, err)
	}
	path := filepath.Join(dbPath, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("db: create table %s: %w", name, err)
	}
	f, err := os.Create(filepath.Join(path, schemaFileName))
	if err != nil {
		return nil, fmt.Errorf("db: create table %s: %w", name, err)
	}
	defer f.Close()
	if err := WriteSchema(f, schema.Headers()); err != nil {
		return nil, fmt.Errorf("db: create table %s: %w", name, err)
	}
	return &Table{Path: path, Name: name, Schema: schema}, nil
}

// OpenTable reads an existing table's schema from dbPath/name.
func OpenTable(dbPath, name string) (*Table, error) {
	path := filepath.Join(dbPath, name)
	f, err := os.Open(filepath.Join(path, schemaFileName))
	if err != nil {
		return nil, fmt.Errorf("db: open table %s: %w", name, err)
	}
	defer f.Close()
	headers, err := ReadSchema(f)
	if err != nil {
		return nil, fmt.Errorf("db: open table %s: %w", name, err)
	}
	schema, err := column.NewSchema(headers)
	if err != nil {
		return nil, fmt.Errorf("db: open table %s: %w", name, err)
	}
	return &Table{Path: path, Name: name, Schema: schema}, nil
}

func (t *Table) columnPath(colName string) string {
	return filepath.Join(t.Path, colName+".bin")
}

func (t *Table) sizesPath() string {
	return filepath.Join(t.Path, sizesFileName)
}

// Writer opens a new TableWriter appending blocks to every declared
// column file plus the shared sizes stream.
func (t *Table) Writer() (*TableWriter, error) {
	sizesFile, err := os.OpenFile(t.sizesPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("db: open sizes file for %s: %w", t.Name, err)
	}
	w := &TableWriter{
		table:  t,
		sizes:  blockfmt.NewSizesWriter(sizesFile),
		sizesF: sizesFile,
		colW:   make(map[string]*blockfmt.ChunkWriter, t.Schema.Len()),
		colF:   make(map[string]*os.File, t.Schema.Len()),
	}
	for _, h := range t.Schema.Headers() {
		f, err := os.OpenFile(t.columnPath(h.Name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("db: open column file %s: %w", h.Name, err)
		}
		w.colF[h.Name] = f
		w.colW[h.Name] = blockfmt.NewChunkWriter(f)
	}
	return w, nil
}

// TableWriter appends one block at a time to every column file of a
// table, keeping the shared sizes stream in lockstep.
type TableWriter struct {
	table  *Table
	sizes  *blockfmt.SizesWriter
	sizesF *os.File
	colW   map[string]*blockfmt.ChunkWriter
	colF   map[string]*os.File
}

// WriteBlock appends one chunk to every column named in cols and
// records the shared row count in the sizes stream. cols must carry
// exactly the table's declared columns (order does not matter).
func (w *TableWriter) WriteBlock(cols map[string]column.Storage) error {
	rows := -1
	for _, h := range w.table.Schema.Headers() {
		storage, ok := cols[h.Name]
		if !ok {
			return fmt.Errorf("db: write block: missing column %q", h.Name)
		}
		if rows == -1 {
			rows = storage.Len()
		} else if storage.Len() != rows {
			return fmt.Errorf("db: write block: column %q has %d rows, want %d", h.Name, storage.Len(), rows)
		}
		if err := w.colW[h.Name].WriteCol(storage); err != nil {
			return fmt.Errorf("db: write block: %w", err)
		}
	}
	if rows == -1 {
		rows = 0
	}
	return w.sizes.WriteSize(rows)
}

// Close flushes and closes every underlying file.
func (w *TableWriter) Close() error {
	var firstErr error
	for _, f := range w.colF {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if w.sizesF != nil {
		if err := w.sizesF.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Reader opens a new TableReader that streams blocks from the start
// of every column file, driven by the shared sizes stream.
func (t *Table) Reader() (*TableReader, error) {
	sizesFile, err := os.Open(t.sizesPath())
	if err != nil {
		return nil, fmt.Errorf("db: open sizes file for %s: %w", t.Name, err)
	}
	r := &TableReader{
		table:  t,
		sizes:  blockfmt.NewSizesReader(sizesFile),
		sizesF: sizesFile,
		colR:   make(map[string]*blockfmt.ChunkReader, t.Schema.Len()),
		colF:   make(map[string]*os.File, t.Schema.Len()),
	}
	for _, h := range t.Schema.Headers() {
		f, err := os.Open(t.columnPath(h.Name))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("db: open column file %s: %w", h.Name, err)
		}
		r.colF[h.Name] = f
		r.colR[h.Name] = blockfmt.NewChunkReader(f)
	}
	return r, nil
}

// TableReader streams (row count, per-column chunk reader) tuples
// across all of a table's column files in lockstep with the shared
// sizes stream.
type TableReader struct {
	table  *Table
	sizes  *blockfmt.SizesReader
	sizesF *os.File
	colR   map[string]*blockfmt.ChunkReader
	colF   map[string]*os.File
}

// NextSize returns the row count of the next block across the whole
// table, or io.EOF when the table is exhausted.
func (r *TableReader) NextSize() (int, error) {
	return r.sizes.NextSize()
}

// Column returns the chunk reader for colName, used by an External
// column source to pull the next block's worth of values.
func (r *TableReader) Column(colName string) (*blockfmt.ChunkReader, error) {
	cr, ok := r.colR[colName]
	if !ok {
		return nil, fmt.Errorf("db: no such column %q in table %s", colName, r.table.Name)
	}
	return cr, nil
}

// Close closes every underlying file.
func (r *TableReader) Close() error {
	var firstErr error
	for _, f := range r.colF {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.sizesF != nil {
		if err := r.sizesF.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
