package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"airbnb-analysis/services"
	"airbnb-analysis/storage"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [csv]",
	Short: "Print shape, column types, missing values and descriptive statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		ds, err := storage.NewLoader(logger).Load(inputPath(c, args))
		if err != nil {
			return err
		}

		info := services.Inspect(ds.Frame, "DataFrame "+ds.Path)
		services.PrintFrameInfo(os.Stdout, info)
		services.PrintDescribe(os.Stdout, services.Describe(ds.Listings))
		if info.RowsWithMissing > 0 {
			printInfo("%d of %d rows have at least one missing value", info.RowsWithMissing, info.Rows)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
