package tabular

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// loadJson accepts the two tabular json layouts the datasets use: an
// array of records and an object of equal-length column arrays. Column
// order follows first appearance in the document. Numbers decode as
// json.Number so their source text survives into the table.
func loadJson(raw []byte) (Table, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	open, err := dec.Token()
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var table Table
	switch open {
	case json.Delim('['):
		table, err = jsonRecords(dec)
	case json.Delim('{'):
		table, err = jsonColumns(dec)
	default:
		return Table{}, fmt.Errorf("%w: top-level value is not an array or object", ErrParse)
	}
	if err != nil {
		return Table{}, err
	}

	_, err = dec.Token()
	if !errors.Is(err, io.EOF) {
		return Table{}, fmt.Errorf("%w: trailing data after document", ErrParse)
	}
	return table, nil
}

// jsonRecords reads `[{...}, {...}]` with the opening bracket already
// consumed. Records may be ragged, absent keys become nil cells.
func jsonRecords(dec *json.Decoder) (Table, error) {
	var columns []string
	seen := map[string]bool{}
	var records []map[string]any

	for dec.More() {
		open, err := dec.Token()
		if err != nil {
			return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if open != json.Delim('{') {
			return Table{}, fmt.Errorf("%w: array elements must be objects", ErrParse)
		}

		record := map[string]any{}
		for dec.More() {
			keyToken, err := dec.Token()
			if err != nil {
				return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
			}
			key, ok := keyToken.(string)
			if !ok {
				return Table{}, fmt.Errorf("%w: object key is not a string", ErrParse)
			}
			var value any
			err = dec.Decode(&value)
			if err != nil {
				return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
			}
			record[key] = value
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
		_, err = dec.Token()
		if err != nil {
			return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
		}
		records = append(records, record)
	}
	_, err := dec.Token()
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	table := Table{Columns: columns}
	for _, record := range records {
		row := make([]any, len(columns))
		for i, column := range columns {
			row[i] = record[column]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// jsonColumns reads `{"col": [...], ...}` with the opening brace
// already consumed.
func jsonColumns(dec *json.Decoder) (Table, error) {
	var columns []string
	var values [][]any

	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
		}
		key, ok := keyToken.(string)
		if !ok {
			return Table{}, fmt.Errorf("%w: object key is not a string", ErrParse)
		}
		var column []any
		err = dec.Decode(&column)
		if err != nil {
			return Table{}, fmt.Errorf("%w: column %q is not an array: %w", ErrParse, key, err)
		}
		columns = append(columns, key)
		values = append(values, column)
	}
	_, err := dec.Token()
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	table := Table{Columns: columns}
	if len(columns) == 0 {
		return table, nil
	}
	length := len(values[0])
	for i, column := range values {
		if len(column) != length {
			return Table{}, fmt.Errorf(
				"%w: column %q has %d values, expected %d",
				ErrParse, columns[i], len(column), length,
			)
		}
	}
	for r := 0; r < length; r++ {
		row := make([]any, len(columns))
		for c := range columns {
			row[c] = values[c][r]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
