package tabular

import (
	"fmt"
	"strings"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/reader"
)

// loadParquet flattens a parquet file column by column. Cell values
// keep the file's physical types (int64, float64, bool, string) and
// null slots become nil. The datasets only publish flat tables, so
// nested or repeated columns are rejected instead of half-flattened.
func loadParquet(raw []byte) (Table, error) {
	columnReader, err := reader.NewParquetColumnReader(buffer.NewBufferFileFromBytes(raw), 4)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	defer columnReader.ReadStop()

	rowCount := columnReader.GetNumRows()
	table := Table{}
	cells := make([][]any, 0, len(columnReader.SchemaHandler.ValueColumns))
	for i, inPath := range columnReader.SchemaHandler.ValueColumns {
		segments := common.StrToPath(columnReader.SchemaHandler.InPathToExPath[inPath])
		if len(segments) != 2 {
			return Table{}, fmt.Errorf(
				"%w: nested column %q", ErrParse, strings.Join(segments[1:], "."),
			)
		}
		values, _, _, err := columnReader.ReadColumnByIndex(int64(i), rowCount)
		if err != nil {
			return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if int64(len(values)) != rowCount {
			return Table{}, fmt.Errorf("%w: column %q is repeated", ErrParse, segments[1])
		}
		table.Columns = append(table.Columns, segments[1])
		cells = append(cells, values)
	}

	if len(table.Columns) == 0 {
		return table, nil
	}
	for r := 0; r < int(rowCount); r++ {
		row := make([]any, len(cells))
		for c := range cells {
			row[c] = cells[c][r]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
