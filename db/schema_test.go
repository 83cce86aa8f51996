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
	"bytes"
	"testing"

	"github.com/hellodb/hellodb/column"
	"github.com/hellodb/hellodb/coltype"
)

func TestSchemaRoundTrip(t *testing.T) {
	headers := []column.Header{
		column.NewHeader("id", coltype.Int),
		column.NewHeader("value", coltype.Float),
		column.NewHeader("gender", coltype.String),
	}
	var buf bytes.Buffer
	if err := WriteSchema(&buf, headers); err != nil {
		t.Fatalf("WriteSchema: %v", err)
	}
	got, err := ReadSchema(&buf)
	if err != nil {
		t.Fatalf("ReadSchema: %v", err)
	}
	if len(got) != len(headers) {
		t.Fatalf("got %d headers, want %d", len(got), len(headers))
	}
	for i, h := range headers {
		if got[i] != h {
			t.Errorf("header %d: got %+v, want %+v", i, got[i], h)
		}
	}
}

func TestSchemaRoundTripEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSchema(&buf, nil); err != nil {
		t.Fatalf("WriteSchema: %v", err)
	}
	got, err := ReadSchema(&buf)
	if err != nil {
		t.Fatalf("ReadSchema: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d headers, want 0", len(got))
	}
}

func TestReadSchemaRejectsUnknownType(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 0, 0, 0}) // col_count = 1
	buf.Write([]byte{1, 0, 0, 0})
	buf.WriteString("x")
	buf.Write([]byte{4, 0, 0, 0})
	buf.WriteString("Bool")
	if _, err := ReadSchema(&buf); err == nil {
		t.Fatal("expected error for unknown type name")
	}
}
