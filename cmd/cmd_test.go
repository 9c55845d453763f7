package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-analysis/config"
	"airbnb-analysis/models"
)

func baseConfig() *config.Config {
	return &config.Config{
		InputPath:      "AB_NYC_2019.csv",
		OutputDir:      "output",
		AggregatesFile: "aggregated_airbnb_data.csv",
		SeasonalFile:   "time_series_airbnb_data.csv",
		MonthlyFile:    "monthly_trends.csv",
		RankingMethod:  "raw",
		Thresholds:     models.DefaultThresholds(),
		Filter:         models.DefaultListingFilter(),
		Charts:         config.ChartConfig{Enabled: true, Width: 1200, Height: 600},
		Postgres:       config.PostgresConfig{Port: 5432, MaxRetries: 3},
	}
}

func newRunFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "run"}
	f := c.Flags()
	f.StringVarP(&runOutDir, "out-dir", "o", "", "")
	f.BoolVar(&runCharts, "charts", true, "")
	f.BoolVar(&runNoCharts, "no-charts", false, "")
	f.BoolVar(&runPNG, "png", false, "")
	f.StringVar(&runXLSX, "xlsx", "", "")
	f.Lookup("xlsx").NoOptDefVal = "airbnb_summary.xlsx"
	f.BoolVar(&runPostgres, "postgres", false, "")
	f.StringVar(&runRankingMethod, "ranking-method", "", "")
	f.StringVar(&runCleaned, "cleaned", "", "")
	f.Lookup("cleaned").NoOptDefVal = "cleaned_listings.csv"
	require.NoError(t, f.Parse(args))
	return c
}

func TestApplyRunFlags(t *testing.T) {
	c := baseConfig()
	cmd := newRunFlags(t, "--out-dir", "reports", "--no-charts", "--xlsx", "--ranking-method", "minmax", "--cleaned")

	require.NoError(t, applyRunFlags(cmd, c))
	assert.Equal(t, "reports", c.OutputDir)
	assert.False(t, c.Charts.Enabled)
	assert.Equal(t, "airbnb_summary.xlsx", c.XLSXFile)
	assert.Equal(t, "minmax", c.RankingMethod)
	assert.Equal(t, "cleaned_listings.csv", c.CleanedFile)
	assert.False(t, c.Postgres.Enabled)
}

func TestApplyRunFlagsPNGEnablesCharts(t *testing.T) {
	c := baseConfig()
	c.Charts.Enabled = false
	cmd := newRunFlags(t, "--png")

	require.NoError(t, applyRunFlags(cmd, c))
	assert.True(t, c.Charts.Enabled)
	assert.True(t, c.Charts.PNG)
}

func TestApplyRunFlagsRejectsUnknownMethod(t *testing.T) {
	c := baseConfig()
	cmd := newRunFlags(t, "--ranking-method", "zscore")

	err := applyRunFlags(cmd, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RankingMethod")
}

func TestInputPath(t *testing.T) {
	c := baseConfig()
	assert.Equal(t, "AB_NYC_2019.csv", inputPath(c, nil))
	assert.Equal(t, "other.csv", inputPath(c, []string{"other.csv"}))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "se****et", mask("secret"))
}

func TestAggregatePrintsMeltHeadByDefault(t *testing.T) {
	f := aggregateCmd.Flags().Lookup("melt-head")
	require.NotNil(t, f)
	assert.Equal(t, "5", f.DefValue)
}
