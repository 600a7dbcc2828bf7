// Package tabular deserializes raw dataset files into a uniform
// in-memory table keyed by extension. Cell values stay format-native:
// delimited text and spreadsheets produce strings, json and parquet
// produce whatever the document encodes.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat marks extensions outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrParse marks bytes that do not match the format their
	// extension promises.
	ErrParse = errors.New("malformed file")
)

type Table struct {
	Columns []string
	Rows    [][]any
}

// Stem returns the file name with its extension removed. Download
// results are keyed by stem.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Load picks a deserializer by the case-insensitive extension of name.
// Supported: .csv, .tsv, .xls, .xlsx, .json, .parquet.
func Load(name string, raw []byte) (Table, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		return loadDelimited(raw, ',')
	case ".tsv":
		return loadDelimited(raw, '\t')
	case ".xls", ".xlsx":
		return loadWorkbook(raw)
	case ".json":
		return loadJson(raw)
	case ".parquet":
		return loadParquet(raw)
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func loadDelimited(raw []byte, comma rune) (Table, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = comma
	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("%w: missing header row", ErrParse)
	}

	table := Table{Columns: records[0]}
	for _, record := range records[1:] {
		row := make([]any, len(record))
		for i, cell := range record {
			row[i] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// loadWorkbook reads the first sheet of an OOXML workbook. Legacy
// binary .xls files are not understood and surface as ErrParse; the
// datasets published with an .xls name are OOXML in practice.
func loadWorkbook(raw []byte) (Table, error) {
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("%w: missing header row", ErrParse)
	}

	table := Table{Columns: rows[0]}
	for _, cells := range rows[1:] {
		// GetRows drops trailing empty cells, keep rows rectangular
		row := make([]any, len(table.Columns))
		for i := range row {
			if i < len(cells) {
				row[i] = cells[i]
			} else {
				row[i] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
