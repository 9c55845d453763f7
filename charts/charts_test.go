package charts

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-analysis/config"
	"airbnb-analysis/models"
	"airbnb-analysis/utils"
)

func sampleTrends() []models.MonthlyTrend {
	return []models.MonthlyTrend{
		{MonthEnd: time.Date(2019, 1, 31, 0, 0, 0, 0, time.UTC), NumberOfReviews: 2, AveragePrice: 150},
		{MonthEnd: time.Date(2019, 2, 28, 0, 0, 0, 0, time.UTC), NumberOfReviews: 40, AveragePrice: 95.5},
		{MonthEnd: time.Date(2019, 4, 30, 0, 0, 0, 0, time.UTC), NumberOfReviews: 13, AveragePrice: 210},
	}
}

func TestMonthlyCharts(t *testing.T) {
	r := NewRenderer(config.ChartConfig{Width: 800, Height: 400}, utils.NewLoggerTo(io.Discard))
	lines := r.MonthlyCharts(sampleTrends())
	require.Len(t, lines, 3)

	assert.Len(t, lines[ReviewsChart].MultiSeries, 1)
	assert.Len(t, lines[PriceChart].MultiSeries, 1)
	assert.Len(t, lines[CombinedChart].MultiSeries, 2)
	assert.Len(t, lines[CombinedChart].YAxisList, 2, "combined chart carries a second y axis")

	var page bytes.Buffer
	require.NoError(t, lines[CombinedChart].Render(&page))
	html := page.String()
	assert.Contains(t, html, "Number of Reviews and Average Price")
	assert.Contains(t, html, "2019-01-31")
	assert.Contains(t, html, "2019-04-30")
	assert.Contains(t, html, `"yAxisIndex":1`)
	assert.Contains(t, html, ColorBlue)
	assert.Contains(t, html, ColorRed)
}

func TestRenderWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	r := NewRenderer(config.ChartConfig{Enabled: true, Width: 800, Height: 400}, utils.NewLoggerTo(io.Discard))

	outs, err := r.Render(context.Background(), dir, sampleTrends())
	require.NoError(t, err)
	require.Len(t, outs, 3)

	for _, o := range outs {
		assert.FileExists(t, o.HTML)
		assert.Empty(t, o.PNG)

		page, err := os.ReadFile(o.HTML)
		require.NoError(t, err)
		assert.Contains(t, string(page), "echarts")
	}
}

func TestRenderEmptyTrends(t *testing.T) {
	r := NewRenderer(config.ChartConfig{Width: 400, Height: 300}, utils.NewLoggerTo(io.Discard))
	outs, err := r.Render(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Len(t, outs, 3)
}
