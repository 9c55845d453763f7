package models

import (
	"database/sql"
	"time"
)

// Listing is one row of the AB_NYC_2019 dataset. It is read once from CSV and
// then mutated in place by the cleaning and categorization steps.
type Listing struct {
	ID                 int64
	Name               sql.NullString
	HostID             int64
	HostName           sql.NullString
	NeighbourhoodGroup string
	Neighbourhood      string
	RoomType           string
	Price              int
	MinimumNights      int
	NumberOfReviews    int
	Availability365    int

	// LastReviewRaw is the text found in the CSV; LastReview is only set once
	// the cleaner has coerced it.
	LastReviewRaw string
	LastReview    sql.NullTime

	PriceCategory        string
	LengthOfStayCategory string
	AvailabilityStatus   string
}

// GroupRanking is the aggregate record written to aggregated_airbnb_data.csv.
type GroupRanking struct {
	NeighbourhoodGroup string
	TotalListings      int
	AveragePrice       float64
	Ranking            float64
	Rank               int
}

// CrossAggregate holds mean metrics per (neighbourhood group, price category).
type CrossAggregate struct {
	NeighbourhoodGroup  string
	PriceCategory       string
	Count               int
	MeanPrice           float64
	MeanMinimumNights   float64
	MeanNumberOfReviews float64
	MeanAvailability365 float64
}

// PivotTable is a dense view of mean price by neighbourhood group and room
// type. Cells with no listings are absent from Values.
type PivotTable struct {
	Rows    []string
	Columns []string
	Values  map[string]map[string]float64
}

// Cell returns the value at (row, col) and whether any listing contributed to it.
func (p *PivotTable) Cell(row, col string) (float64, bool) {
	r, ok := p.Values[row]
	if !ok {
		return 0, false
	}
	v, ok := r[col]
	return v, ok
}

// MetricRecord is one row of the melted (long format) listing table.
type MetricRecord struct {
	ID                 int64
	Name               string
	HostID             int64
	NeighbourhoodGroup string
	RoomType           string
	Metric             string
	Value              float64
}

// ColumnStats mirrors a describe() row set for one numeric column.
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// MonthlyTrend is one month-end bucket of the resampled review data.
type MonthlyTrend struct {
	MonthEnd        time.Time
	NumberOfReviews int
	AveragePrice    float64
	Listings        int
}

// SeasonalAverage is the mean price for a calendar month across all years.
type SeasonalAverage struct {
	Month        time.Month
	Name         string
	AveragePrice float64
	Listings     int
}

// TrendReport bundles both time views with the number of listings that had
// no usable review date and were left out.
type TrendReport struct {
	Monthly  []MonthlyTrend
	Seasonal []SeasonalAverage
	Undated  int
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalListings int
	Rankings      []GroupRanking
	Cross         []CrossAggregate
	Pivot         *PivotTable
	Describe      []ColumnStats
	PriceCounts   map[string]int
	StayCounts    map[string]int
	Availability  map[string]int
}
