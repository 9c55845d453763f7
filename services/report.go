package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"airbnb-analysis/models"
)

// PrintInsights writes the ranking, cross aggregate, pivot, describe and
// label count tables of r.
func PrintInsights(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	fmt.Fprintln(w, titleStyle.Render("📊 AIRBNB NYC 2019 INSIGHTS"))
	fmt.Fprintf(w, "  Listings analysed : ")
	valueColor.Fprintf(w, "%d\n\n", r.TotalListings)

	headingColor.Fprintf(w, "  Neighbourhood group ranking\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  %-4s %-16s %8s %12s %12s\n", "Rank", "Group", "Listings", "Avg price", "Score")
	for _, g := range r.Rankings {
		fmt.Fprintf(w, "  %-4d %-16s %8d %12.2f %12.4f\n",
			g.Rank, truncate(g.NeighbourhoodGroup, 16), g.TotalListings, g.AveragePrice, g.Ranking)
	}
	fmt.Fprintln(w)

	if len(r.Cross) > 0 {
		headingColor.Fprintf(w, "  Filtered means by group and price category\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %-14s %-7s %5s %9s %8s %8s %8s\n", "Group", "Price", "n", "price", "nights", "reviews", "avail")
		for _, c := range r.Cross {
			fmt.Fprintf(w, "  %-14s %-7s %5d %9.2f %8.2f %8.2f %8.2f\n",
				truncate(c.NeighbourhoodGroup, 14), c.PriceCategory, c.Count,
				c.MeanPrice, c.MeanMinimumNights, c.MeanNumberOfReviews, c.MeanAvailability365)
		}
		fmt.Fprintln(w)
	}

	if r.Pivot != nil && len(r.Pivot.Rows) > 0 {
		headingColor.Fprintf(w, "  Mean price by group and room type\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %-14s", "")
		for _, c := range r.Pivot.Columns {
			fmt.Fprintf(w, " %16s", truncate(c, 16))
		}
		fmt.Fprintln(w)
		for _, row := range r.Pivot.Rows {
			fmt.Fprintf(w, "  %-14s", truncate(row, 14))
			for _, c := range r.Pivot.Columns {
				if v, ok := r.Pivot.Cell(row, c); ok {
					fmt.Fprintf(w, " %16.2f", v)
				} else {
					fmt.Fprintf(w, " %16s", "-")
				}
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	if len(r.Describe) > 0 {
		PrintDescribe(w, r.Describe)
	}

	printCounts(w, "Price categories", r.PriceCounts)
	printCounts(w, "Length of stay", r.StayCounts)
	printCounts(w, "Availability", r.Availability)

	fmt.Fprintf(w, "%s\n\n", sep)
}

// PrintDescribe writes the describe() table, one column per metric.
func PrintDescribe(w io.Writer, stats []models.ColumnStats) {
	headingColor.Fprintf(w, "  Descriptive statistics\n")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", 64))
	fmt.Fprintf(w, "  %-6s", "")
	for _, s := range stats {
		fmt.Fprintf(w, " %18s", s.Column)
	}
	fmt.Fprintln(w)

	rows := []struct {
		label string
		get   func(models.ColumnStats) float64
	}{
		{"count", func(s models.ColumnStats) float64 { return float64(s.Count) }},
		{"mean", func(s models.ColumnStats) float64 { return s.Mean }},
		{"std", func(s models.ColumnStats) float64 { return s.Std }},
		{"min", func(s models.ColumnStats) float64 { return s.Min }},
		{"25%", func(s models.ColumnStats) float64 { return s.Q25 }},
		{"50%", func(s models.ColumnStats) float64 { return s.Median }},
		{"75%", func(s models.ColumnStats) float64 { return s.Q75 }},
		{"max", func(s models.ColumnStats) float64 { return s.Max }},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-6s", row.label)
		for _, s := range stats {
			fmt.Fprintf(w, " %18.2f", row.get(s))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// PrintTrends writes the monthly and seasonal tables.
func PrintTrends(w io.Writer, tr models.TrendReport) {
	thin := strings.Repeat("─", 48)

	fmt.Fprintln(w, titleStyle.Render("📈 REVIEW TRENDS"))
	headingColor.Fprintf(w, "  Monthly (month end)\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  %-12s %12s %12s\n", "Month end", "Reviews", "Avg price")
	for _, m := range tr.Monthly {
		fmt.Fprintf(w, "  %-12s %12d %12.2f\n", m.MonthEnd.Format("2006-01-02"), m.NumberOfReviews, m.AveragePrice)
	}
	fmt.Fprintln(w)

	headingColor.Fprintf(w, "  Seasonal average price\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, s := range tr.Seasonal {
		fmt.Fprintf(w, "  %-12s %12.2f\n", s.Name, s.AveragePrice)
	}
	if tr.Undated > 0 {
		missingColor.Fprintf(w, "\n  %d listings without a review date were left out\n", tr.Undated)
	}
	fmt.Fprintln(w)
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	type labelCount struct {
		label string
		count int
	}
	var lcs []labelCount
	for l, c := range counts {
		lcs = append(lcs, labelCount{l, c})
	}
	sort.Slice(lcs, func(i, j int) bool {
		if lcs[i].count != lcs[j].count {
			return lcs[i].count > lcs[j].count
		}
		return lcs[i].label < lcs[j].label
	})

	headingColor.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", 64))
	for _, lc := range lcs {
		fmt.Fprintf(w, "  %-26s %d\n", lc.label, lc.count)
	}
	fmt.Fprintln(w)
}

// PrintListings writes up to n listings as a compact table.
func PrintListings(w io.Writer, title string, listings []*models.Listing, n int) {
	if n > len(listings) || n <= 0 {
		n = len(listings)
	}
	headingColor.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", 64))
	for _, l := range listings[:n] {
		fmt.Fprintf(w, "  %-10d %-30s %-10s %7d %6d\n",
			l.ID, truncate(l.Name.String, 30), truncate(l.NeighbourhoodGroup, 10), l.Price, l.NumberOfReviews)
	}
	fmt.Fprintln(w)
}

// PrintMelted writes the first n long-format records.
func PrintMelted(w io.Writer, records []models.MetricRecord, n int) {
	if n > len(records) || n <= 0 {
		n = len(records)
	}
	headingColor.Fprintf(w, "  Long format (%d of %d records)\n", n, len(records))
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", 64))
	fmt.Fprintf(w, "  %-10s %-24s %-10s %-15s %8s\n", "ID", "Name", "Group", "Metric", "Value")
	for _, m := range records[:n] {
		fmt.Fprintf(w, "  %-10d %-24s %-10s %-15s %8.0f\n",
			m.ID, truncate(m.Name, 24), truncate(m.NeighbourhoodGroup, 10), m.Metric, m.Value)
	}
	fmt.Fprintln(w)
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
