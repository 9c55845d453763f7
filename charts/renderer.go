package charts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"airbnb-analysis/config"
	"airbnb-analysis/models"
	"airbnb-analysis/utils"
)

// Chart file base names written into the output directory.
const (
	ReviewsChart  = "monthly_reviews"
	PriceChart    = "monthly_average_price"
	CombinedChart = "monthly_trends_combined"
)

// Series colors, the usual blue/red pairing of a twin-axis plot.
const (
	ColorBlue = "#1f77b4"
	ColorRed  = "#d62728"
)

const (
	reviewsLabel = "Number of Reviews"
	priceLabel   = "Average Price"
)

// Renderer writes the monthly trend charts as echarts HTML pages, and
// optionally rasterises them to PNG through headless Chrome.
type Renderer struct {
	cfg    config.ChartConfig
	logger *utils.Logger
}

// NewRenderer creates a Renderer for the given chart settings.
func NewRenderer(cfg config.ChartConfig, logger *utils.Logger) *Renderer {
	return &Renderer{cfg: cfg, logger: logger}
}

// Output lists the files produced for one chart.
type Output struct {
	Name string
	HTML string
	PNG  string
}

// MonthlyCharts builds the review count, average price and twin-axis charts.
func (r *Renderer) MonthlyCharts(trends []models.MonthlyTrend) map[string]*echarts.Line {
	dates := make([]string, 0, len(trends))
	reviews := make([]opts.LineData, 0, len(trends))
	prices := make([]opts.LineData, 0, len(trends))
	for _, t := range trends {
		dates = append(dates, t.MonthEnd.Format("2006-01-02"))
		reviews = append(reviews, opts.LineData{Value: t.NumberOfReviews})
		prices = append(prices, opts.LineData{Value: t.AveragePrice})
	}

	reviewLine := r.newLine("Monthly Number of Reviews", reviewsLabel)
	reviewLine.SetXAxis(dates).AddSeries(reviewsLabel, reviews, withColor(ColorBlue))

	priceLine := r.newLine("Monthly Average Price", priceLabel)
	priceLine.SetXAxis(dates).AddSeries(priceLabel, prices, withColor(ColorRed))

	combined := r.newLine("Number of Reviews and Average Price", reviewsLabel)
	combined.ExtendYAxis(opts.YAxis{Name: priceLabel, Position: "right"})
	combined.SetXAxis(dates).
		AddSeries(reviewsLabel, reviews, withColor(ColorBlue)).
		AddSeries(priceLabel, prices, withColor(ColorRed),
			echarts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))

	return map[string]*echarts.Line{
		ReviewsChart:  reviewLine,
		PriceChart:    priceLine,
		CombinedChart: combined,
	}
}

func (r *Renderer) newLine(title, yName string) *echarts.Line {
	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     fmt.Sprintf("%dpx", r.cfg.Width),
			Height:    fmt.Sprintf("%dpx", r.cfg.Height),
		}),
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		echarts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		echarts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	return line
}

func withColor(c string) echarts.SeriesOpts {
	return echarts.WithLineStyleOpts(opts.LineStyle{Color: c})
}

// Render writes every chart into dir. PNG failures are logged and leave the
// PNG field empty; HTML failures are returned.
func (r *Renderer) Render(ctx context.Context, dir string, trends []models.MonthlyTrend) ([]Output, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("charts: create dir: %w", err)
	}

	lines := r.MonthlyCharts(trends)
	var outs []Output
	for _, name := range []string{ReviewsChart, PriceChart, CombinedChart} {
		out, err := r.writeChart(dir, name, lines[name])
		if err != nil {
			return outs, err
		}
		outs = append(outs, out)
	}

	if !r.cfg.PNG {
		return outs, nil
	}
	for i := range outs {
		png := filepath.Join(dir, outs[i].Name+".png")
		if err := r.Rasterize(ctx, outs[i].HTML, png); err != nil {
			r.logger.Warn("[charts] PNG export of %s skipped: %v", outs[i].Name, err)
			continue
		}
		outs[i].PNG = png
	}
	return outs, nil
}

func (r *Renderer) writeChart(dir, name string, line *echarts.Line) (Output, error) {
	out := Output{Name: name, HTML: filepath.Join(dir, name+".html")}

	f, err := os.Create(out.HTML)
	if err != nil {
		return out, fmt.Errorf("charts: create %s: %w", out.HTML, err)
	}
	err = line.Render(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return out, fmt.Errorf("charts: write %s: %w", out.HTML, err)
	}

	r.logger.Debug("[charts] Wrote %s", out.HTML)
	return out, nil
}

// Rasterize opens htmlPath in headless Chrome, waits for the chart canvas and
// saves a screenshot. The page loads echarts from its assets host.
func (r *Renderer) Rasterize(ctx context.Context, htmlPath, pngPath string) error {
	chromeBin := r.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	if chromeBin == "" {
		return fmt.Errorf("no Chrome or Chromium binary found")
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return err
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.ExecPath(chromeBin),
	)

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout())
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var buf []byte
	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(r.cfg.Width), int64(r.cfg.Height)),
		chromedp.Navigate("file://"+abs),
		chromedp.WaitVisible("canvas", chromedp.ByQuery),
		// let the series animation finish
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return fmt.Errorf("screenshot %s: %w", htmlPath, err)
	}
	if err := os.WriteFile(pngPath, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", pngPath, err)
	}
	r.logger.Info("[charts] Saved %s", pngPath)
	return nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
