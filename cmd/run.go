package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"airbnb-analysis/config"
	"airbnb-analysis/pipeline"
)

var (
	runOutDir        string
	runCharts        bool
	runNoCharts      bool
	runPNG           bool
	runXLSX          string
	runPostgres      bool
	runRankingMethod string
	runCleaned       string
)

var runCmd = &cobra.Command{
	Use:   "run [csv]",
	Short: "Run the full analysis and write every output",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		c.InputPath = inputPath(c, args)
		if err := applyRunFlags(cmd, c); err != nil {
			return err
		}

		res, err := pipeline.New(c, logger, os.Stdout).Run(cmd.Context())
		if err != nil {
			return err
		}

		var body strings.Builder
		fmt.Fprintf(&body, "run id    : %s\n", res.RunID)
		fmt.Fprintf(&body, "listings  : %d kept, %d dropped (price <= 0)\n", len(res.Prepared.Listings), res.Prepared.Dropped)
		for _, f := range res.Files {
			fmt.Fprintf(&body, "file      : %s\n", f)
		}
		for _, ch := range res.Charts {
			fmt.Fprintf(&body, "chart     : %s\n", ch.HTML)
			if ch.PNG != "" {
				fmt.Fprintf(&body, "chart     : %s\n", ch.PNG)
			}
		}
		printSummaryBox("Analysis complete", strings.TrimRight(body.String(), "\n"))
		return nil
	},
}

// applyRunFlags copies explicitly set flags onto c and revalidates it.
func applyRunFlags(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()
	if f.Changed("out-dir") {
		c.OutputDir = runOutDir
	}
	if f.Changed("charts") {
		c.Charts.Enabled = runCharts
	}
	if f.Changed("no-charts") && runNoCharts {
		c.Charts.Enabled = false
	}
	if f.Changed("png") {
		c.Charts.PNG = runPNG
		if runPNG {
			c.Charts.Enabled = true
		}
	}
	if f.Changed("xlsx") {
		c.XLSXFile = runXLSX
	}
	if f.Changed("postgres") {
		c.Postgres.Enabled = runPostgres
	}
	if f.Changed("ranking-method") {
		c.RankingMethod = runRankingMethod
	}
	if f.Changed("cleaned") {
		c.CleanedFile = runCleaned
	}
	return c.Validate()
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVarP(&runOutDir, "out-dir", "o", "", "directory for CSV, XLSX and chart outputs")
	f.BoolVar(&runCharts, "charts", true, "render monthly trend charts")
	f.BoolVar(&runNoCharts, "no-charts", false, "skip chart rendering")
	f.BoolVar(&runPNG, "png", false, "also rasterise charts to PNG with headless Chrome")
	f.StringVar(&runXLSX, "xlsx", "", "write a summary workbook (default name airbnb_summary.xlsx)")
	f.Lookup("xlsx").NoOptDefVal = "airbnb_summary.xlsx"
	f.BoolVar(&runPostgres, "postgres", false, "export the run to PostgreSQL")
	f.StringVar(&runRankingMethod, "ranking-method", "", "raw or minmax")
	f.StringVar(&runCleaned, "cleaned", "", "write the cleaned listings snapshot (default name cleaned_listings.csv)")
	f.Lookup("cleaned").NoOptDefVal = "cleaned_listings.csv"
}
