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

// hellodb is an interactive REPL over a local columnar database
// directory: it reads one SQL line at a time, lowers it to a plan and
// prints the result as a table.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/hellodb/hellodb/db"
	"github.com/hellodb/hellodb/planner"
)

func exitf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "", "YAML config file (alternative to passing <db_path>)")
	flag.Parse()

	var dbPath string
	switch {
	case *configPath != "":
		cfg, err := loadConfig(*configPath)
		if err != nil {
			exitf("%s", err)
		}
		dbPath = cfg.DBPath
	case flag.NArg() == 1:
		dbPath = flag.Arg(0)
	default:
		exitf("usage: hellodb <db_path> | hellodb -config <file.yaml>")
	}

	database, err := db.Open(dbPath)
	if err != nil {
		exitf("open database %s: %s", dbPath, err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	repl(database, logger, os.Stdin, os.Stdout)
}

func repl(database *db.Database, logger *log.Logger, in *os.File, out *os.File) {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "hellodb> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			runLine(database, logger, out, line)
		}
		fmt.Fprint(out, "hellodb> ")
	}
	if err := scanner.Err(); err != nil {
		logger.Printf("reading input: %s", err)
	}
}

func runLine(database *db.Database, logger *log.Logger, out *os.File, line string) {
	queryID := uuid.New().String()

	query, err := parseQuery(line)
	if err != nil {
		logger.Printf("query %s: parse error: %s", queryID, err)
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}

	table, err := database.Table(query.Select.From.Name)
	if err != nil {
		logger.Printf("query %s: %s", queryID, err)
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}

	lowered, err := planner.Lower(table, query)
	if err != nil {
		logger.Printf("query %s: lowering failed: %s", queryID, err)
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}
	defer lowered.Close()

	if err := lowered.Plan.Execute(); err != nil {
		logger.Printf("query %s: execution failed: %s", queryID, err)
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}

	logger.Printf("query %s: %d rows", queryID, lowered.Output.Rows())
	printResult(out, lowered)
}

func printResult(out *os.File, lq *planner.LoweredQuery) {
	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	for i, name := range lq.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, name)
	}
	fmt.Fprintln(w)

	rows := lq.Output.Rows()
	for r := 0; r < rows; r++ {
		for i, name := range lq.Columns {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			idx, _ := lq.Output.IndexByName(name)
			fmt.Fprint(w, lq.Output.ColumnAt(idx).Storage.ToStringAt(r))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}
