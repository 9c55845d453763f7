// Package pipeline wires the loader, cleaning, analysis and export steps into
// a single batch run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"airbnb-analysis/charts"
	"airbnb-analysis/config"
	"airbnb-analysis/models"
	"airbnb-analysis/services"
	"airbnb-analysis/storage"
	"airbnb-analysis/utils"
)

// Prepared is the cleaned working set together with the frames it came from.
type Prepared struct {
	Dataset    *storage.Dataset
	Listings   []*models.Listing
	CleanStats services.CleanStats
	Dropped    int
}

// Result is everything a full run produced.
type Result struct {
	RunID    uuid.UUID
	Prepared *Prepared
	Report   *models.InsightReport
	Trends   models.TrendReport
	Files    []string
	Charts   []charts.Output
}

type Pipeline struct {
	cfg    *config.Config
	logger *utils.Logger
	out    io.Writer
}

// New creates a Pipeline. Inspector dumps and summary tables go to out; a
// nil out discards them.
func New(cfg *config.Config, logger *utils.Logger, out io.Writer) *Pipeline {
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{cfg: cfg, logger: logger, out: out}
}

// Prepare loads path, cleans and categorizes every listing, then drops those
// priced at or below zero. The loaded frame is never modified.
func (p *Pipeline) Prepare(path string) (*Prepared, error) {
	ds, err := storage.NewLoader(p.logger).Load(path)
	if err != nil {
		return nil, err
	}
	services.PrintFrameInfo(p.out, services.Inspect(ds.Frame, "DataFrame before cleaning"))

	cleaner := services.NewCleaner(p.logger)
	stats := cleaner.Clean(ds.Listings)
	services.NewCategorizer(p.cfg.Thresholds).Apply(ds.Listings)
	services.PrintFrameInfo(p.out, services.Inspect(storage.ListingsFrame(ds.Listings), "DataFrame after filling and categorizing"))

	kept := cleaner.DropNonPositivePrice(ds.Listings)
	services.PrintFrameInfo(p.out, services.Inspect(storage.ListingsFrame(kept), "DataFrame after cleaning"))

	return &Prepared{
		Dataset:    ds,
		Listings:   kept,
		CleanStats: stats,
		Dropped:    len(ds.Listings) - len(kept),
	}, nil
}

// Analyze computes the aggregate views and the time-series summaries.
func (p *Pipeline) Analyze(listings []*models.Listing) (*models.InsightReport, models.TrendReport, error) {
	svc := services.NewInsightService(p.logger, p.cfg.RankingMethod)
	report, err := svc.Generate(listings, p.cfg.Filter)
	if err != nil {
		return nil, models.TrendReport{}, err
	}
	trends := services.Summarize(listings)
	p.logger.Info("[trends] %d monthly buckets, %d calendar months, %d undated listings excluded",
		len(trends.Monthly), len(trends.Seasonal), trends.Undated)
	return report, trends, nil
}

// Run executes the whole pipeline and writes every configured output.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.New()}
	p.logger.Info("=== Airbnb analysis run %s starting ===", res.RunID)

	prep, err := p.Prepare(p.cfg.InputPath)
	if err != nil {
		return nil, err
	}
	res.Prepared = prep

	res.Report, res.Trends, err = p.Analyze(prep.Listings)
	if err != nil {
		return nil, err
	}
	services.PrintInsights(p.out, res.Report)
	services.PrintTrends(p.out, res.Trends)

	if err := p.writeFiles(res); err != nil {
		return nil, err
	}

	if p.cfg.Postgres.Enabled {
		p.exportPostgres(ctx, res)
	}

	if p.cfg.Charts.Enabled {
		outs, err := charts.NewRenderer(p.cfg.Charts, p.logger).Render(ctx, p.cfg.OutputDir, res.Trends.Monthly)
		if err != nil {
			return nil, err
		}
		res.Charts = outs
	}

	p.logger.Info("=== Run %s complete: %d files written ===", res.RunID, len(res.Files))
	return res, nil
}

func (p *Pipeline) writeFiles(res *Result) error {
	csv := storage.NewCSVWriter(p.logger)
	writes := []struct {
		name  string
		write func(string) error
	}{
		{p.cfg.AggregatesFile, func(path string) error { return csv.WriteRankings(path, res.Report.Rankings) }},
		{p.cfg.SeasonalFile, func(path string) error { return csv.WriteSeasonal(path, res.Trends.Seasonal) }},
		{p.cfg.MonthlyFile, func(path string) error { return csv.WriteMonthly(path, res.Trends.Monthly) }},
		{p.cfg.CleanedFile, func(path string) error { return csv.WriteListings(path, res.Prepared.Listings) }},
		{p.cfg.XLSXFile, func(path string) error {
			return storage.NewXLSXWriter(p.logger).Write(path, storage.WorkbookData{
				Rankings: res.Report.Rankings,
				Seasonal: res.Trends.Seasonal,
				Monthly:  res.Trends.Monthly,
				Pivot:    res.Report.Pivot,
			})
		}},
	}

	for _, w := range writes {
		if w.name == "" {
			continue
		}
		path := p.cfg.OutputPath(w.name)
		if err := w.write(path); err != nil {
			return err
		}
		p.logger.Info("[report] Saved %s", path)
		res.Files = append(res.Files, path)
	}
	return nil
}

// exportPostgres is best effort: failures are logged and the run continues.
func (p *Pipeline) exportPostgres(ctx context.Context, res *Result) {
	retry := &utils.RetryConfig{
		MaxAttempts: p.cfg.Postgres.MaxRetries,
		BaseDelay:   time.Second,
		Logger:      p.logger,
	}
	pw, err := storage.NewPostgresWriter(ctx, p.cfg.Postgres.DSN(), res.RunID, retry)
	if err != nil {
		p.logger.Warn("[postgres] Export skipped: %v", err)
		return
	}
	defer pw.Close()

	if err := exportRun(ctx, pw, res); err != nil {
		p.logger.Warn("[postgres] Export incomplete: %v", err)
		return
	}
	if stored, err := pw.FetchRankings(ctx); err == nil {
		p.logger.Debug("[postgres] %d rankings readable for run %s", len(stored), res.RunID)
	}
	p.logger.Info("[postgres] Stored run %s (%d listings)", res.RunID, len(res.Prepared.Listings))
}

func exportRun(ctx context.Context, store storage.RunStore, res *Result) error {
	if err := store.WriteListings(ctx, res.Prepared.Listings); err != nil {
		return fmt.Errorf("listings: %w", err)
	}
	if err := store.WriteRankings(ctx, res.Report.Rankings); err != nil {
		return fmt.Errorf("rankings: %w", err)
	}
	if err := store.WriteMonthly(ctx, res.Trends.Monthly); err != nil {
		return fmt.Errorf("monthly trends: %w", err)
	}
	return nil
}
