package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"airbnb-analysis/pipeline"
	"airbnb-analysis/services"
)

var trendsCmd = &cobra.Command{
	Use:   "trends [csv]",
	Short: "Print monthly review trends and seasonal average prices",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		prep, err := pipeline.New(c, logger, io.Discard).Prepare(inputPath(c, args))
		if err != nil {
			return err
		}
		services.PrintTrends(os.Stdout, services.Summarize(prep.Listings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trendsCmd)
}
