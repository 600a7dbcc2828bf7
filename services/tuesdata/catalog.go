package tuesdata

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"tidytuesday-go/lib/ghapi"
	"tidytuesday-go/lib/mdview"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// dataset folders are named by their publication date
var datasetFolderPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// readme file fetched from the raw host when deriving titles and
// metadata. The exclusion check on file listings is broader (any name
// starting with "readme", case-insensitive), but the raw host is
// case-sensitive and the repository consistently publishes README.md.
const readmeFileName = "README.md"

const unknownTitle = "Unknown"

// ListYears reports the year directories at the catalog root, in
// remote listing order.
func (s Service) ListYears(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "ListYears")
	defer span.End()

	if err := s.checkRateBudget(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	years, err := s.listYears(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return years, nil
}

func (s Service) listYears(ctx context.Context) ([]string, error) {
	entries, err := s.repo.ListContents(ctx)
	if err != nil {
		return nil, err
	}
	var years []string
	for _, entry := range entries {
		if entry.Type != ghapi.TypeDir {
			continue
		}
		years = append(years, entry.Name)
	}
	return years, nil
}

// ListDatasets lists one year's dataset folders in chronological
// order, with titles taken from the first heading of each folder's
// readme. A folder whose readme cannot be fetched or has no heading
// keeps the "Unknown" title rather than failing the listing.
func (s Service) ListDatasets(ctx context.Context, year string) ([]DatasetSummary, error) {
	ctx, span := tracer.Start(ctx, "ListDatasets")
	defer span.End()
	span.SetAttributes(attribute.String("year", year))

	if err := s.checkRateBudget(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	datasets, err := s.listDatasets(ctx, year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return datasets, nil
}

func (s Service) listDatasets(ctx context.Context, year string) ([]DatasetSummary, error) {
	entries, err := s.repo.ListContents(ctx, year)
	if err != nil {
		return nil, err
	}

	var datasets []DatasetSummary
	for _, entry := range entries {
		if entry.Type != ghapi.TypeDir || !datasetFolderPattern.MatchString(entry.Name) {
			continue
		}
		date := entry.Name

		title := unknownTitle
		readme, err := s.repo.RawFile(ctx, year, date, readmeFileName)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch dataset readme", "year", year, "date", date, "err", err)
		} else if heading, ok := mdview.Title(string(readme)); ok {
			title = heading
		}

		datasets = append(datasets, DatasetSummary{
			Date:  date,
			Title: title,
			Path:  fmt.Sprintf("%s/%s", year, date),
		})
	}

	// iso dates sort chronologically as strings
	sort.Slice(datasets, func(i, j int) bool {
		return datasets[i].Date < datasets[j].Date
	})
	return datasets, nil
}

// ListAll lists every year's datasets. A year whose listing fails is
// omitted from the result with a diagnostic; only a failure at the
// catalog root aborts.
func (s Service) ListAll(ctx context.Context) (map[string][]DatasetSummary, error) {
	ctx, span := tracer.Start(ctx, "ListAll")
	defer span.End()

	if err := s.checkRateBudget(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	years, err := s.listYears(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	all := make(map[string][]DatasetSummary, len(years))
	for _, year := range years {
		datasets, err := s.listDatasets(ctx, year)
		if err != nil {
			slog.WarnContext(ctx, "failed to list datasets for year", "year", year, "err", err)
			continue
		}
		all[year] = datasets
	}
	return all, nil
}
