package tuesdata

import (
	"context"
	"fmt"
	"tidytuesday-go/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ResolveDate names the dataset folder for a YYYY-MM-DD date. The
// date is taken as given; whether the folder actually exists is only
// discovered by FetchMetadata. Malformed dates are a parse error.
func (s Service) ResolveDate(date string) (DatasetRef, error) {
	if _, err := timezone.ParseDate(date); err != nil {
		return DatasetRef{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return DatasetRef{
		Year: date[:4],
		Date: date,
	}, nil
}

// ResolveWeek names the dataset folder for the week-th dataset of a
// year, counting chronologically from 1.
func (s Service) ResolveWeek(ctx context.Context, year string, week int) (DatasetRef, error) {
	ctx, span := tracer.Start(ctx, "ResolveWeek")
	defer span.End()
	span.SetAttributes(
		attribute.String("year", year),
		attribute.Int("week", week),
	)

	if err := s.checkRateBudget(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return DatasetRef{}, err
	}

	ref, err := s.resolveWeek(ctx, year, week)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return DatasetRef{}, err
	}
	return ref, nil
}

func (s Service) resolveWeek(ctx context.Context, year string, week int) (DatasetRef, error) {
	datasets, err := s.listDatasets(ctx, year)
	if err != nil {
		return DatasetRef{}, err
	}
	if len(datasets) == 0 {
		return DatasetRef{}, fmt.Errorf("%w: no datasets for year %s", ErrNotFound, year)
	}
	if week < 1 || week > len(datasets) {
		return DatasetRef{}, fmt.Errorf(
			"%w: week %d, year %s has weeks 1 to %d",
			ErrOutOfRange, week, year, len(datasets),
		)
	}
	return DatasetRef{
		Year: year,
		Date: datasets[week-1].Date,
	}, nil
}
