package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"airbnb-analysis/models"
	"airbnb-analysis/utils"
)

// CSVWriter writes derived frames to flat CSV files. Each call opens,
// writes and closes its own file.
type CSVWriter struct {
	logger *utils.Logger
}

// NewCSVWriter creates a CSVWriter with the given logger.
func NewCSVWriter(logger *utils.Logger) *CSVWriter {
	return &CSVWriter{logger: logger}
}

// WriteFrame creates (or truncates) path and writes df with its header row.
// Intermediate directories are created automatically.
func (c *CSVWriter) WriteFrame(path string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("csv: frame for %q: %w", path, df.Err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	if err := df.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv: close %q: %w", path, err)
	}

	c.logger.Debug("[csv] Wrote %d rows to %s", df.Nrow(), path)
	return nil
}

// WriteRankings writes the per neighbourhood group aggregate.
func (c *CSVWriter) WriteRankings(path string, rankings []models.GroupRanking) error {
	return c.WriteFrame(path, RankingsFrame(rankings))
}

// WriteSeasonal writes the month-name indexed average prices.
func (c *CSVWriter) WriteSeasonal(path string, seasonal []models.SeasonalAverage) error {
	return c.WriteFrame(path, SeasonalFrame(seasonal))
}

// WriteMonthly writes the month-end resample.
func (c *CSVWriter) WriteMonthly(path string, trends []models.MonthlyTrend) error {
	return c.WriteFrame(path, MonthlyFrame(trends))
}

// WriteListings writes a snapshot of the cleaned working set.
func (c *CSVWriter) WriteListings(path string, listings []*models.Listing) error {
	return c.WriteFrame(path, ListingsFrame(listings))
}

// ReadRankings reads an aggregate file produced by WriteRankings.
func ReadRankings(path string) ([]models.GroupRanking, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.DetectTypes(false),
		dataframe.WithTypes(map[string]series.Type{
			ColNeighbourhoodGroup: series.String,
			ColTotalListings:      series.Int,
			ColAveragePrice:       series.Float,
			ColRanking:            series.Float,
			ColRank:               series.Int,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, df.Err)
	}

	for _, name := range []string{ColNeighbourhoodGroup, ColAveragePrice, ColRanking} {
		if s := df.Col(name); s.Err != nil {
			return nil, fmt.Errorf("%w: %q: column %q", ErrSchema, path, name)
		}
	}
	totals, err := intColumn(df, ColTotalListings)
	if err != nil {
		return nil, err
	}
	ranks, err := intColumn(df, ColRank)
	if err != nil {
		return nil, err
	}
	groups := df.Col(ColNeighbourhoodGroup).Records()
	avgs := df.Col(ColAveragePrice).Float()
	scores := df.Col(ColRanking).Float()

	out := make([]models.GroupRanking, df.Nrow())
	for i := range out {
		out[i] = models.GroupRanking{
			NeighbourhoodGroup: groups[i],
			TotalListings:      totals[i],
			AveragePrice:       avgs[i],
			Ranking:            scores[i],
			Rank:               ranks[i],
		}
	}
	return out, nil
}
