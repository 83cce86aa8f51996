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
)

// Database is a (root path, name -> table) mapping, built by
// scanning the immediate subdirectories of root.
type Database struct {
	Path   string
	tables map[string]*Table
}

// Open scans root's immediate subdirectories and opens each as a
// table, reading its schema.bin.
func Open(root string) (*Database, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("db: open database %s: %w", root, err)
	}
	d := &Database{Path: root, tables: make(map[string]*Table)}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		t, err := OpenTable(root, e.Name())
		if err != nil {
			return nil, fmt.Errorf("db: open database %s: %w", root, err)
		}
		d.tables[t.Name] = t
	}
	return d, nil
}

// Table returns the named table, or an error if it does not exist
// (§7 kind 2: schema/catalog error).
func (d *Database) Table(name string) (*Table, error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, fmt.Errorf("db: unknown table %q", name)
	}
	return t, nil
}

// TableNames returns every known table name, in no particular order.
func (d *Database) TableNames() []string {
	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	return names
}
