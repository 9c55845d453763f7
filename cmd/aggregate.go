package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"airbnb-analysis/pipeline"
	"airbnb-analysis/services"
)

var (
	aggRankingMethod string
	aggTop           int
	aggIDs           []int64
	aggMeltHead      int
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [csv]",
	Short: "Clean, categorize and print the neighbourhood group ranking and pivots",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("ranking-method") {
			c.RankingMethod = aggRankingMethod
			if err := c.Validate(); err != nil {
				return err
			}
		}

		p := pipeline.New(c, logger, io.Discard)
		prep, err := p.Prepare(inputPath(c, args))
		if err != nil {
			return err
		}
		report, _, err := p.Analyze(prep.Listings)
		if err != nil {
			return err
		}
		services.PrintInsights(os.Stdout, report)

		if aggTop > 0 {
			sorted := services.SortByPriceThenReviews(prep.Listings)
			services.PrintListings(os.Stdout, "Most expensive listings", sorted, aggTop)
		}
		if len(aggIDs) > 0 {
			services.PrintListings(os.Stdout, "Selected listings", services.SelectByIDs(prep.Listings, aggIDs...), 0)
		}
		if aggMeltHead > 0 {
			services.PrintMelted(os.Stdout, services.Melt(prep.Listings), aggMeltHead)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	aggregateCmd.Flags().StringVar(&aggRankingMethod, "ranking-method", "", "raw or minmax")
	aggregateCmd.Flags().IntVar(&aggTop, "top", 0, "print the N most expensive listings (ties by fewest reviews)")
	aggregateCmd.Flags().Int64SliceVar(&aggIDs, "ids", nil, "print the listings with these ids")
	aggregateCmd.Flags().IntVar(&aggMeltHead, "melt-head", 5, "print the first N long-format (melted) records, 0 to skip")
}
