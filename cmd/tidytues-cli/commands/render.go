package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"tidytuesday-go/lib/tabular"
	"tidytuesday-go/services/tuesdata"

	"github.com/jedib0t/go-pretty/v6/table"
)

// fetchMetadataArg resolves the shared <date|year> positional argument
// of the dataset commands: a plain date, or a year when --week is set.
func fetchMetadataArg(ctx context.Context, identifier string, week int) tuesdata.DatasetMetadata {
	var ref tuesdata.DatasetRef
	var err error
	if week > 0 {
		ref, err = service.ResolveWeek(ctx, identifier, week)
	} else {
		ref, err = service.ResolveDate(identifier)
	}
	if err != nil {
		fatal("failed to resolve dataset", err)
	}

	meta, err := service.FetchMetadata(ctx, ref)
	if err != nil {
		fatal("failed to fetch dataset metadata", err)
	}
	return meta
}

// renderTable previews up to maxRows rows of a parsed table.
func renderTable(name string, tbl tabular.Table, maxRows int) {
	fmt.Printf("%s (%d rows, %d columns)\n", name, len(tbl.Rows), len(tbl.Columns))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	header := make(table.Row, len(tbl.Columns))
	for i, column := range tbl.Columns {
		header[i] = column
	}
	t.AppendHeader(header)

	for i, row := range tbl.Rows {
		if maxRows >= 0 && i >= maxRows {
			break
		}
		cells := make(table.Row, len(row))
		for c, cell := range row {
			if cell == nil {
				cells[c] = ""
				continue
			}
			cells[c] = cell
		}
		t.AppendRow(cells)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	if maxRows >= 0 && len(tbl.Rows) > maxRows {
		fmt.Printf("... %d more rows\n", len(tbl.Rows)-maxRows)
	}
}

// renderTables previews a download result in stable key order.
func renderTables(tables map[string]tabular.Table, maxRows int) {
	stems := make([]string, 0, len(tables))
	for stem := range tables {
		stems = append(stems, stem)
	}
	sort.Strings(stems)
	for _, stem := range stems {
		renderTable(stem, tables[stem], maxRows)
	}
}
