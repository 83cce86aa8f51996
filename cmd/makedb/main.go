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

// makedb writes a small "regs" test fixture (id:Int, age:Int,
// gender:String, value:Float) split across a handful of blocks, for
// exercising the scenarios documented alongside the planner and db
// packages.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/hellodb/hellodb/column"
	"github.com/hellodb/hellodb/coltype"
	"github.com/hellodb/hellodb/db"
)

func exitf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func main() {
	dbPath := flag.String("db", "./testdb", "database directory to create (must not already contain a \"regs\" table)")
	rows := flag.Int("rows", 1000, "total number of rows to generate")
	blockSize := flag.Int("block", 100, "rows per block")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if err := os.MkdirAll(*dbPath, 0o755); err != nil {
		exitf("mkdir %s: %s", *dbPath, err)
	}

	headers := []column.Header{
		column.NewHeader("id", coltype.Int),
		column.NewHeader("age", coltype.Int),
		column.NewHeader("gender", coltype.String),
		column.NewHeader("value", coltype.Float),
	}
	table, err := db.CreateTable(*dbPath, "regs", headers)
	if err != nil {
		exitf("create table: %s", err)
	}
	w, err := table.Writer()
	if err != nil {
		exitf("open writer: %s", err)
	}
	defer w.Close()

	rng := rand.New(rand.NewSource(*seed))
	genders := []string{"f", "m"}
	written := 0
	for written < *rows {
		n := *blockSize
		if remain := *rows - written; remain < n {
			n = remain
		}
		ids := make([]int64, n)
		ages := make([]int64, n)
		genderCol := make([]string, n)
		values := make([]float64, n)
		for i := 0; i < n; i++ {
			ids[i] = int64(written + i + 1)
			ages[i] = int64(18 + rng.Intn(60))
			genderCol[i] = genders[rng.Intn(len(genders))]
			values[i] = rng.Float64() * 1000
		}
		err := w.WriteBlock(map[string]column.Storage{
			"id":     column.NewIntStorage(ids),
			"age":    column.NewIntStorage(ages),
			"gender": column.NewStringStorage(genderCol),
			"value":  column.NewFloatStorage(values),
		})
		if err != nil {
			exitf("write block: %s", err)
		}
		written += n
	}

	if err := w.Close(); err != nil {
		exitf("close writer: %s", err)
	}
	fmt.Printf("wrote %d rows to %s/regs\n", *rows, *dbPath)
}
