package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"tidytuesday-go/lib/telemetry"
)

const (
	repo   = "rfordatascience/tidytuesday"
	branch = "master"
)

// File is one downloadable file inside a fake dataset folder.
type File struct {
	Name string
	Body string
	// when non-zero, downloads of this file answer with this status
	// instead of the body
	Status int
	// list as a subdirectory instead of a file; Body and Status are
	// ignored
	Dir bool
}

type RepoParams struct {
	Name string
	// remaining core budget reported by the rate limit endpoint,
	// defaults to 5000 when zero
	RateRemaining int
	// year -> date folder -> files
	Data map[string]map[string][]File
	// extra non-folder names listed at the catalog root
	RootFiles []string
	// year -> extra non-folder names listed under that year
	YearFiles map[string][]string
}

type RepoResult struct {
	// base url of the fake server, valid for both the listing api and
	// the raw content host
	BaseUrl string
	// number of rate limit probes the server has answered
	RateLimitHits *atomic.Int64
}

type contentEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Path        string `json:"path"`
	DownloadUrl string `json:"download_url,omitempty"`
}

func writeJson(t testing.TB, w http.ResponseWriter, value any) {
	w.Header().Set("content-type", "application/json")
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		t.Error(err)
	}
}

// SetupRepo serves a fake dataset repository over local http: directory
// listings under /repos/.../contents/data, file bodies under the raw
// path scheme and a rate limit endpoint. Both client base urls should
// point at RepoResult.BaseUrl.
func SetupRepo(t testing.TB, params RepoParams) (RepoResult, func()) {
	telemetryCleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	rateRemaining := params.RateRemaining
	if rateRemaining == 0 {
		rateRemaining = 5000
	}
	rateLimitHits := &atomic.Int64{}

	var server *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		rateLimitHits.Add(1)
		writeJson(t, w, map[string]any{
			"resources": map[string]any{
				"core": map[string]any{"remaining": rateRemaining},
			},
		})
	})

	listingPrefix := fmt.Sprintf("/repos/%s/contents/data", repo)
	handleListing := func(w http.ResponseWriter, r *http.Request) {
		rest := strings.Trim(strings.TrimPrefix(r.URL.Path, listingPrefix), "/")
		switch {
		case rest == "":
			var entries []contentEntry
			for year := range params.Data {
				entries = append(entries, contentEntry{
					Name: year,
					Type: "dir",
					Path: "data/" + year,
				})
			}
			for _, name := range params.RootFiles {
				entries = append(entries, contentEntry{
					Name: name,
					Type: "file",
					Path: "data/" + name,
				})
			}
			sortEntries(entries)
			writeJson(t, w, entries)

		case !strings.Contains(rest, "/"):
			dates, ok := params.Data[rest]
			if !ok {
				http.NotFound(w, r)
				return
			}
			var entries []contentEntry
			for date := range dates {
				entries = append(entries, contentEntry{
					Name: date,
					Type: "dir",
					Path: fmt.Sprintf("data/%s/%s", rest, date),
				})
			}
			for _, name := range params.YearFiles[rest] {
				entries = append(entries, contentEntry{
					Name: name,
					Type: "file",
					Path: fmt.Sprintf("data/%s/%s", rest, name),
				})
			}
			sortEntries(entries)
			writeJson(t, w, entries)

		default:
			year, date, _ := strings.Cut(rest, "/")
			files, ok := params.Data[year][date]
			if !ok {
				http.NotFound(w, r)
				return
			}
			var entries []contentEntry
			for _, f := range files {
				if f.Dir {
					entries = append(entries, contentEntry{
						Name: f.Name,
						Type: "dir",
						Path: fmt.Sprintf("data/%s/%s/%s", year, date, f.Name),
					})
					continue
				}
				entries = append(entries, contentEntry{
					Name: f.Name,
					Type: "file",
					Path: fmt.Sprintf("data/%s/%s/%s", year, date, f.Name),
					DownloadUrl: fmt.Sprintf(
						"%s/%s/%s/data/%s/%s/%s",
						server.URL, repo, branch, year, date, f.Name,
					),
				})
			}
			sortEntries(entries)
			writeJson(t, w, entries)
		}
	}
	mux.HandleFunc(listingPrefix, handleListing)
	mux.HandleFunc(listingPrefix+"/", handleListing)

	rawPrefix := fmt.Sprintf("/%s/%s/data/", repo, branch)
	mux.HandleFunc(rawPrefix, func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, rawPrefix)
		segments := strings.SplitN(rest, "/", 3)
		if len(segments) != 3 {
			http.NotFound(w, r)
			return
		}
		for _, f := range params.Data[segments[0]][segments[1]] {
			if f.Name != segments[2] || f.Dir {
				continue
			}
			if f.Status != 0 {
				w.WriteHeader(f.Status)
				return
			}
			_, err := w.Write([]byte(f.Body))
			if err != nil {
				t.Error(err)
			}
			return
		}
		http.NotFound(w, r)
	})

	server = httptest.NewServer(mux)

	return RepoResult{
			BaseUrl:       server.URL,
			RateLimitHits: rateLimitHits,
		}, func() {
			server.Close()
			telemetryCleanup()
		}
}

func sortEntries(entries []contentEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}
