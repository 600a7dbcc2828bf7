// Package tuesdata resolves, lists and downloads the weekly datasets
// published in the TidyTuesday repository. Every value it produces is
// request-scoped; the service keeps no state between calls beyond its
// two collaborators.
package tuesdata

import (
	"context"
	"errors"
	"fmt"
	"tidytuesday-go/lib/ghapi"
	"tidytuesday-go/lib/tabular"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("tidytuesday.services.tuesdata")

var (
	// ErrCapacity means the remaining api request budget dipped below
	// the safety threshold and the operation refused to start.
	ErrCapacity = errors.New("api rate budget too low")
	// ErrNotFound covers unmatched file names, indexes outside a
	// dataset's file list and years without any dataset folders.
	ErrNotFound = errors.New("not found")
	// ErrOutOfRange means a week number outside [1, N] for the year's
	// N chronological dataset folders.
	ErrOutOfRange = errors.New("week number out of range")
)

// operations refuse to start below this many remaining api requests,
// so a listing plus its per-folder readme fetches never strands a
// half-finished result against an exhausted quota
const minRateBudget = 5

// DatasetRef names exactly one dataset folder. Date always starts with
// Year.
type DatasetRef struct {
	Year string
	Date string
}

// DatasetSummary is one row of a year's catalog listing. Title is
// best-effort and falls back to "Unknown" when the folder's readme is
// missing or has no heading.
type DatasetSummary struct {
	Date  string
	Title string
	Path  string
}

// FileRef describes one data file of a dataset folder.
type FileRef struct {
	Name        string
	DownloadUrl string
	Path        string
}

// DatasetMetadata is a dataset folder's file inventory plus its readme
// in raw and rendered form. ReadmeContent is empty when the folder has
// no readme; ReadmeHtml still wraps it in the full document shell, so
// it is only empty on the zero value.
type DatasetMetadata struct {
	Date          string
	Year          string
	Files         []FileRef
	ReadmeContent string
	ReadmeHtml    string
}

// LoadedDataset is the terminal artifact of the load operations:
// metadata plus every requested file parsed into a table, keyed by
// file name with the extension stripped.
type LoadedDataset struct {
	Date          string
	Year          string
	ReadmeContent string
	ReadmeHtml    string
	Tables        map[string]tabular.Table
}

// Repo is the remote dataset repository the way this service consumes
// it: directory listings, raw file bodies, absolute-url downloads and
// the remaining request budget. Satisfied by *ghapi.Client.
type Repo interface {
	ListContents(ctx context.Context, segments ...string) ([]ghapi.ContentEntry, error)
	RawFile(ctx context.Context, year, date, name string) ([]byte, error)
	Download(ctx context.Context, url string) ([]byte, error)
	RateLimit(ctx context.Context) (int, error)
}

// Viewer is a side-effecting sink that displays a rendered readme
// document. Satisfied by mdview.BrowserViewer.
type Viewer interface {
	View(document string) error
}

type Service struct {
	repo   Repo
	viewer Viewer
}

func NewService(repo Repo, viewer Viewer) Service {
	return Service{
		repo:   repo,
		viewer: viewer,
	}
}

// checkRateBudget probes the remaining request budget once. Top-level
// operations call this exactly once before touching the listing api;
// raw-host downloads do not count against the budget and are never
// gated.
func (s Service) checkRateBudget(ctx context.Context) error {
	remaining, err := s.repo.RateLimit(ctx)
	if err != nil {
		return fmt.Errorf("check rate budget: %w", err)
	}
	if remaining < minRateBudget {
		return fmt.Errorf("%w: %d requests remaining", ErrCapacity, remaining)
	}
	return nil
}

// RateBudget reports the remaining api request budget.
func (s Service) RateBudget(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "RateBudget")
	defer span.End()

	remaining, err := s.repo.RateLimit(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.Int("remaining", remaining))
	return remaining, nil
}
