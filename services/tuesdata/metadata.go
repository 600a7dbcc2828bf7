package tuesdata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"tidytuesday-go/lib/ghapi"
	"tidytuesday-go/lib/mdview"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FetchMetadata lists a dataset folder's files and fetches its readme.
// Directory entries and readme files are excluded from Files; a
// missing readme degrades to empty content rather than failing since
// several early folders never shipped one.
func (s Service) FetchMetadata(ctx context.Context, ref DatasetRef) (DatasetMetadata, error) {
	ctx, span := tracer.Start(ctx, "FetchMetadata")
	defer span.End()
	span.SetAttributes(
		attribute.String("year", ref.Year),
		attribute.String("date", ref.Date),
	)

	if err := s.checkRateBudget(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return DatasetMetadata{}, err
	}

	meta, err := s.fetchMetadata(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return DatasetMetadata{}, err
	}
	span.SetAttributes(attribute.Int("files", len(meta.Files)))
	return meta, nil
}

func (s Service) fetchMetadata(ctx context.Context, ref DatasetRef) (DatasetMetadata, error) {
	entries, err := s.repo.ListContents(ctx, ref.Year, ref.Date)
	if err != nil {
		return DatasetMetadata{}, fmt.Errorf("list dataset %s: %w", ref.Date, err)
	}

	var files []FileRef
	for _, entry := range entries {
		if entry.Type != ghapi.TypeFile {
			continue
		}
		if strings.HasPrefix(strings.ToLower(entry.Name), "readme") {
			continue
		}
		files = append(files, FileRef{
			Name:        entry.Name,
			DownloadUrl: entry.DownloadUrl,
			Path:        entry.Path,
		})
	}

	readme := ""
	raw, err := s.repo.RawFile(ctx, ref.Year, ref.Date, readmeFileName)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch readme", "year", ref.Year, "date", ref.Date, "err", err)
	} else {
		readme = string(raw)
	}

	return DatasetMetadata{
		Date:          ref.Date,
		Year:          ref.Year,
		Files:         files,
		ReadmeContent: readme,
		ReadmeHtml:    mdview.Render(readme),
	}, nil
}

// ShowReadme hands the rendered readme to the viewer.
func (s Service) ShowReadme(meta DatasetMetadata) error {
	if meta.ReadmeHtml == "" {
		return fmt.Errorf("%w: dataset %s has no readme", ErrNotFound, meta.Date)
	}
	return s.viewer.View(meta.ReadmeHtml)
}
