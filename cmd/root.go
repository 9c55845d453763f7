package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"airbnb-analysis/config"
	"airbnb-analysis/utils"
)

var (
	// Global flags
	cfgFile string
	envFile string
	debug   bool

	// Loaded configuration
	cfg    *config.Config
	cfgErr error
	logger = utils.NewLogger()
)

var rootCmd = &cobra.Command{
	Use:   "airbnb-analysis",
	Short: "Clean, categorize and summarise the Airbnb NYC 2019 listings",
	Long: `airbnb-analysis loads the AB_NYC_2019 listings CSV, fills missing values,
derives price, length-of-stay and availability categories, ranks neighbourhood
groups and summarises review trends by month. Results are written as CSV, an
optional XLSX workbook, optional Postgres tables and HTML/PNG charts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.airbnb-analysis/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading AIRBNB_* variables (default .env if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	cfg, cfgErr = config.Load(cfgFile, envFile)
	if cfgErr != nil {
		return
	}
	if debug {
		cfg.Debug = true
	}
	logger.SetDebug(cfg.Debug)
}

// requireConfig returns the loaded configuration or the reason it failed.
func requireConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// inputPath prefers the positional argument over the configured input.
func inputPath(c *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return c.InputPath
}
