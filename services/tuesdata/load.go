package tuesdata

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LoadDate resolves a date, fetches the folder's metadata and
// downloads the selected files, as one operation with a single rate
// budget probe.
func (s Service) LoadDate(ctx context.Context, date string, sel Selection) (LoadedDataset, error) {
	ctx, span := tracer.Start(ctx, "LoadDate")
	defer span.End()
	span.SetAttributes(attribute.String("date", date))

	ref, err := s.ResolveDate(date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return LoadedDataset{}, err
	}

	if err := s.checkRateBudget(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return LoadedDataset{}, err
	}
	return s.loadResolved(ctx, span, ref, sel)
}

// LoadWeek is LoadDate for a (year, week number) pair.
func (s Service) LoadWeek(ctx context.Context, year string, week int, sel Selection) (LoadedDataset, error) {
	ctx, span := tracer.Start(ctx, "LoadWeek")
	defer span.End()
	span.SetAttributes(
		attribute.String("year", year),
		attribute.Int("week", week),
	)

	if err := s.checkRateBudget(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return LoadedDataset{}, err
	}

	ref, err := s.resolveWeek(ctx, year, week)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return LoadedDataset{}, err
	}
	return s.loadResolved(ctx, span, ref, sel)
}

func (s Service) loadResolved(ctx context.Context, span trace.Span, ref DatasetRef, sel Selection) (LoadedDataset, error) {
	meta, err := s.fetchMetadata(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return LoadedDataset{}, err
	}

	tables, err := s.Download(ctx, meta, sel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return LoadedDataset{}, err
	}

	return LoadedDataset{
		Date:          meta.Date,
		Year:          meta.Year,
		ReadmeContent: meta.ReadmeContent,
		ReadmeHtml:    meta.ReadmeHtml,
		Tables:        tables,
	}, nil
}
