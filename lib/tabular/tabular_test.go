package tabular

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"github.com/xuri/excelize/v2"
)

func TestLoadDelimited(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		columns []string
		rows    [][]any
	}{
		{
			name:    "table.csv",
			raw:     "a,b\n1,2\n",
			columns: []string{"a", "b"},
			rows:    [][]any{{"1", "2"}},
		},
		{
			name:    "table.tsv",
			raw:     "a\tb\nhello world\t2\n",
			columns: []string{"a", "b"},
			rows:    [][]any{{"hello world", "2"}},
		},
		{
			name:    "quoted.csv",
			raw:     "name,notes\nalice,\"likes, commas\"\n",
			columns: []string{"name", "notes"},
			rows:    [][]any{{"alice", "likes, commas"}},
		},
		{
			name:    "header_only.csv",
			raw:     "a,b\n",
			columns: []string{"a", "b"},
			rows:    nil,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			table, err := Load(testCase.name, []byte(testCase.raw))
			require.NoError(t, err)
			require.Equal(t, testCase.columns, table.Columns)
			require.Equal(t, testCase.rows, table.Rows)
		})
	}
}

func TestLoadDelimitedMalformed(t *testing.T) {
	_, err := Load("broken.csv", []byte("a,b\n\"unterminated\n"))
	require.ErrorIs(t, err, ErrParse)

	_, err = Load("empty.csv", nil)
	require.ErrorIs(t, err, ErrParse)
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("table.xyz", []byte("a,b\n1,2\n"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load("LICENSE", []byte("text"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadJsonRecords(t *testing.T) {
	raw := `[{"a": 1, "b": "x"}, {"b": "y", "c": true}]`
	table, err := Load("records.json", []byte(raw))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, table.Columns)
	require.Equal(t, [][]any{
		{json.Number("1"), "x", nil},
		{nil, "y", true},
	}, table.Rows)
}

func TestLoadJsonColumns(t *testing.T) {
	raw := `{"a": [1, 2], "b": ["x", "y"]}`
	table, err := Load("columns.json", []byte(raw))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, table.Columns)
	require.Equal(t, [][]any{
		{json.Number("1"), "x"},
		{json.Number("2"), "y"},
	}, table.Rows)
}

func TestLoadJsonMalformed(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "scalar", raw: `5`},
		{name: "array_of_scalars", raw: `[1, 2]`},
		{name: "ragged_columns", raw: `{"a": [1, 2], "b": [3]}`},
		{name: "column_not_array", raw: `{"a": 1}`},
		{name: "trailing_data", raw: `[] []`},
		{name: "truncated", raw: `[{"a": 1`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Load("bad.json", []byte(testCase.raw))
			require.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestLoadWorkbook(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"a", "b"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{1, 2}))
	require.NoError(t, book.SetSheetRow(sheet, "A3", &[]any{3}))
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, book.Close())

	table, err := Load("numbers.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, table.Columns)
	// short rows come back padded to the header width
	require.Equal(t, [][]any{
		{"1", "2"},
		{"3", ""},
	}, table.Rows)
}

func TestLoadWorkbookMalformed(t *testing.T) {
	_, err := Load("legacy.xls", []byte("not a workbook"))
	require.ErrorIs(t, err, ErrParse)
}

func TestLoadParquet(t *testing.T) {
	schema := `{"Tag":"name=parquet_go_root, repetitiontype=REQUIRED","Fields":[` +
		`{"Tag":"name=name, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"},` +
		`{"Tag":"name=reign_years, type=INT64, repetitiontype=OPTIONAL"},` +
		`{"Tag":"name=deposed, type=BOOLEAN, repetitiontype=OPTIONAL"}]}`

	buf := &bytes.Buffer{}
	file := writerfile.NewWriterFile(buf)
	pw, err := writer.NewJSONWriter(schema, file, 4)
	require.NoError(t, err)
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	require.NoError(t, pw.Write(`{"name":"Aethelstan","reign_years":15,"deposed":false}`))
	require.NoError(t, pw.Write(`{"name":"Edmund I","reign_years":7}`))
	require.NoError(t, pw.WriteStop())
	require.NoError(t, file.Close())

	table, err := Load("monarchs.parquet", buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, []string{"name", "reign_years", "deposed"}, table.Columns)
	// the absent field survives as a nil cell
	require.Equal(t, [][]any{
		{"Aethelstan", int64(15), false},
		{"Edmund I", int64(7), nil},
	}, table.Rows)
}

func TestLoadParquetMalformed(t *testing.T) {
	_, err := Load("table.parquet", []byte("not a parquet footer"))
	require.ErrorIs(t, err, ErrParse)
}

func TestStem(t *testing.T) {
	require.Equal(t, "monarchs", Stem("monarchs.csv"))
	require.Equal(t, "readme", Stem("readme.md"))
	require.Equal(t, "archive.tar", Stem("archive.tar.gz"))
	require.Equal(t, "plain", Stem("plain"))
}
