package tuesdata

import (
	"context"
	"encoding/json"
	"testing"
	"tidytuesday-go/lib/ghapi"
	"tidytuesday-go/lib/tabular"
	"tidytuesday-go/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var monarchsRef = DatasetRef{Year: "2024", Date: "2024-08-20"}

func monarchsParams(name string) testutil.RepoParams {
	return testutil.RepoParams{
		Name: name,
		Data: map[string]map[string][]testutil.File{
			"2024": {
				"2024-08-20": {
					{Name: "README.md", Body: "# English Monarchs"},
					{Name: "monarchs.csv", Body: "name,reign\nalfred,871\nathelstan,924\n"},
					{Name: "reigns.tsv", Body: "start\tend\n871\t899\n"},
					{Name: "sources.json", Body: `[{"title": "wiki", "year": 2024}]`},
				},
			},
		},
	}
}

func fetchMonarchs(t *testing.T, service Service) DatasetMetadata {
	meta, err := service.FetchMetadata(context.Background(), monarchsRef)
	require.NoError(t, err)
	return meta
}

func TestDownloadAll(t *testing.T) {
	service, _, _ := setupService(t, monarchsParams("tuesdata.download_all"))
	meta := fetchMonarchs(t, service)

	tables, err := service.Download(context.Background(), meta, AllFiles())
	require.NoError(t, err)

	expected := map[string]tabular.Table{
		"monarchs": {
			Columns: []string{"name", "reign"},
			Rows:    [][]any{{"alfred", "871"}, {"athelstan", "924"}},
		},
		"reigns": {
			Columns: []string{"start", "end"},
			Rows:    [][]any{{"871", "899"}},
		},
		"sources": {
			Columns: []string{"title", "year"},
			Rows:    [][]any{{"wiki", json.Number("2024")}},
		},
	}
	diff := cmp.Diff(expected, tables)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestDownloadSubset(t *testing.T) {
	service, _, _ := setupService(t, monarchsParams("tuesdata.download_subset"))
	meta := fetchMonarchs(t, service)
	ctx := context.Background()

	tables, err := service.Download(ctx, meta, Files("reigns.tsv", "monarchs.csv"))
	require.NoError(t, err)
	require.Len(t, tables, 2)
	require.Contains(t, tables, "reigns")
	require.Contains(t, tables, "monarchs")

	// a name that matches nothing is skipped, the rest still download
	tables, err = service.Download(ctx, meta, Files("missing.csv", "monarchs.csv"))
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Contains(t, tables, "monarchs")

	tables, err = service.Download(ctx, meta, Files("missing.csv"))
	require.NoError(t, err)
	require.Empty(t, tables)
}

func TestDownloadSkipsBadFiles(t *testing.T) {
	service, _, _ := setupService(t, testutil.RepoParams{
		Name: "tuesdata.download_bad_files",
		Data: map[string]map[string][]testutil.File{
			"2024": {
				"2024-08-20": {
					{Name: "good.csv", Body: "a,b\n1,2\n"},
					{Name: "gone.csv", Status: 404},
					{Name: "malformed.csv", Body: "a,b\n\"unterminated\n"},
					{Name: "notes.docx", Body: "unsupported format"},
				},
			},
		},
	})
	meta := fetchMonarchs(t, service)
	require.Len(t, meta.Files, 4)

	tables, err := service.Download(context.Background(), meta, AllFiles())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Contains(t, tables, "good")
}

func TestDownloadStemCollision(t *testing.T) {
	service, _, _ := setupService(t, testutil.RepoParams{
		Name: "tuesdata.download_collision",
		Data: map[string]map[string][]testutil.File{
			"2024": {
				"2024-08-20": {
					{Name: "x.csv", Body: "from_csv\n1\n"},
					{Name: "x.json", Body: `[{"from_json": 1}]`},
				},
			},
		},
	})
	meta := fetchMonarchs(t, service)

	tables, err := service.Download(context.Background(), meta, AllFiles())
	require.NoError(t, err)
	// both files share the stem "x"; the one processed last wins
	require.Len(t, tables, 1)
	require.Equal(t, []string{"from_json"}, tables["x"].Columns)
}

func TestDownloadCanceledContext(t *testing.T) {
	service, _, _ := setupService(t, monarchsParams("tuesdata.download_canceled"))
	meta := fetchMonarchs(t, service)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tables, err := service.Download(ctx, meta, AllFiles())
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, tables)
}

func TestDownloadFile(t *testing.T) {
	service, _, _ := setupService(t, monarchsParams("tuesdata.download_file"))
	meta := fetchMonarchs(t, service)
	ctx := context.Background()

	table, err := service.DownloadFile(ctx, meta, "monarchs.csv")
	require.NoError(t, err)
	require.Equal(t, []string{"name", "reign"}, table.Columns)
	require.Len(t, table.Rows, 2)

	_, err = service.DownloadFile(ctx, meta, "kings.csv")
	require.ErrorIs(t, err, ErrNotFound)

	// a near-miss gets a suggestion in the error text
	_, err = service.DownloadFile(ctx, meta, "monarch.csv")
	require.ErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), `did you mean "monarchs.csv"`)
}

func TestDownloadFileTransportFailure(t *testing.T) {
	service, _, _ := setupService(t, testutil.RepoParams{
		Name: "tuesdata.download_file_transport",
		Data: map[string]map[string][]testutil.File{
			"2024": {
				"2024-08-20": {
					{Name: "gone.csv", Status: 404},
				},
			},
		},
	})
	meta := fetchMonarchs(t, service)

	_, err := service.DownloadFile(context.Background(), meta, "gone.csv")
	require.ErrorIs(t, err, ghapi.ErrTransport)
}

func TestDownloadFileBadFormat(t *testing.T) {
	service, _, _ := setupService(t, testutil.RepoParams{
		Name: "tuesdata.download_file_format",
		Data: map[string]map[string][]testutil.File{
			"2024": {
				"2024-08-20": {
					{Name: "notes.docx", Body: "words"},
					{Name: "broken.json", Body: "{"},
				},
			},
		},
	})
	meta := fetchMonarchs(t, service)
	ctx := context.Background()

	_, err := service.DownloadFile(ctx, meta, "notes.docx")
	require.ErrorIs(t, err, tabular.ErrUnsupportedFormat)

	_, err = service.DownloadFile(ctx, meta, "broken.json")
	require.ErrorIs(t, err, tabular.ErrParse)
}

func TestDownloadFileAt(t *testing.T) {
	service, _, _ := setupService(t, monarchsParams("tuesdata.download_file_at"))
	meta := fetchMonarchs(t, service)
	ctx := context.Background()

	// files are listed in remote order: monarchs.csv, reigns.tsv, sources.json
	table, err := service.DownloadFileAt(ctx, meta, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"start", "end"}, table.Columns)

	for _, index := range []int{-1, 3} {
		_, err := service.DownloadFileAt(ctx, meta, index)
		require.ErrorIs(t, err, ErrNotFound, "index %d", index)
	}
}

func TestLoadDate(t *testing.T) {
	service, _, repo := setupService(t, monarchsParams("tuesdata.load_date"))

	data, err := service.LoadDate(context.Background(), "2024-08-20", AllFiles())
	require.NoError(t, err)
	require.Equal(t, "2024", data.Year)
	require.Equal(t, "2024-08-20", data.Date)
	require.Equal(t, "# English Monarchs", data.ReadmeContent)
	require.Contains(t, data.ReadmeHtml, "<h1>English Monarchs</h1>")
	require.Len(t, data.Tables, 3)

	require.Equal(t, int64(1), repo.RateLimitHits.Load())
}

func TestLoadDateMalformed(t *testing.T) {
	service, _, repo := setupService(t, monarchsParams("tuesdata.load_date_malformed"))

	_, err := service.LoadDate(context.Background(), "08/20/2024", AllFiles())
	require.Error(t, err)
	// failed before spending any of the request budget
	require.Equal(t, int64(0), repo.RateLimitHits.Load())
}

func TestLoadWeek(t *testing.T) {
	service, _, _ := setupService(t, testutil.RepoParams{
		Name: "tuesdata.load_week",
		Data: map[string]map[string][]testutil.File{
			"2024": {
				"2024-08-13": {
					{Name: "README.md", Body: "# Week One"},
					{Name: "one.csv", Body: "a\n1\n"},
				},
				"2024-08-20": {
					{Name: "README.md", Body: "# Week Two"},
					{Name: "two.csv", Body: "b\n2\n"},
				},
			},
		},
	})
	ctx := context.Background()

	data, err := service.LoadWeek(ctx, "2024", 2, AllFiles())
	require.NoError(t, err)
	require.Equal(t, "2024-08-20", data.Date)
	require.Equal(t, "# Week Two", data.ReadmeContent)
	require.Contains(t, data.Tables, "two")

	_, err = service.LoadWeek(ctx, "2024", 3, AllFiles())
	require.ErrorIs(t, err, ErrOutOfRange)
}
