package storage

import (
	"context"

	"airbnb-analysis/models"
)

// ResultWriter is the interface any file-based export backend must satisfy.
type ResultWriter interface {
	WriteRankings(path string, rankings []models.GroupRanking) error
	WriteSeasonal(path string, seasonal []models.SeasonalAverage) error
	WriteMonthly(path string, trends []models.MonthlyTrend) error
	WriteListings(path string, listings []*models.Listing) error
}

// RunStore persists one pipeline run to a database.
type RunStore interface {
	WriteListings(ctx context.Context, listings []*models.Listing) error
	WriteRankings(ctx context.Context, rankings []models.GroupRanking) error
	WriteMonthly(ctx context.Context, trends []models.MonthlyTrend) error
	Close() error
}

var (
	_ ResultWriter = (*CSVWriter)(nil)
	_ RunStore     = (*PostgresWriter)(nil)
)
