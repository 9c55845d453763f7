package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"airbnb-analysis/models"
)

func sampleRankings() []models.GroupRanking {
	return []models.GroupRanking{
		{NeighbourhoodGroup: "B", TotalListings: 5, AveragePrice: 210, Ranking: 107.5, Rank: 1},
		{NeighbourhoodGroup: "A", TotalListings: 10, AveragePrice: 200, Ranking: 105, Rank: 2},
	}
}

func TestRankingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "aggregated_airbnb_data.csv")
	w := NewCSVWriter(quietLogger())

	require.NoError(t, w.WriteRankings(path, sampleRankings()))

	got, err := ReadRankings(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i, want := range sampleRankings() {
		assert.Equal(t, want.NeighbourhoodGroup, got[i].NeighbourhoodGroup)
		assert.Equal(t, want.TotalListings, got[i].TotalListings)
		assert.Equal(t, want.Rank, got[i].Rank)
		assert.InDelta(t, want.AveragePrice, got[i].AveragePrice, 1e-6)
		assert.InDelta(t, want.Ranking, got[i].Ranking, 1e-6)
	}
}

func TestReadRankingsRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	_, err := ReadRankings(path)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestWriteSeasonalHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time_series_airbnb_data.csv")
	seasonal := []models.SeasonalAverage{
		{Month: time.January, Name: "January", AveragePrice: 150},
		{Month: time.March, Name: "March", AveragePrice: 90.5},
	}
	require.NoError(t, NewCSVWriter(quietLogger()).WriteSeasonal(path, seasonal))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Month,Average Price", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "January,150"))
	assert.True(t, strings.HasPrefix(lines[2], "March,90.5"))
}

func TestListingsFrameMarksMissing(t *testing.T) {
	listings := []*models.Listing{
		{
			ID: 1, Name: sql.NullString{String: "Loft", Valid: true}, HostID: 9,
			NeighbourhoodGroup: "Queens", Price: 70,
			LastReview: sql.NullTime{Time: time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		},
		{ID: 2, HostID: 9, NeighbourhoodGroup: "Queens", Price: 80},
	}

	df := ListingsFrame(listings)
	require.NoError(t, df.Err)
	assert.Equal(t, len(RequiredColumns), df.Ncol(), "category columns only appear once categorized")

	dates := df.Col(ColLastReview)
	assert.Equal(t, "2019-05-01", dates.Elem(0).String())
	assert.True(t, dates.Elem(1).IsNA())
	assert.True(t, df.Col(ColName).Elem(1).IsNA())

	listings[0].PriceCategory = models.PriceLow
	assert.Equal(t, len(RequiredColumns)+3, ListingsFrame(listings).Ncol())
}

func TestXLSXWriterSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	data := WorkbookData{
		Rankings: sampleRankings(),
		Seasonal: []models.SeasonalAverage{{Month: time.January, Name: "January", AveragePrice: 150}},
		Monthly: []models.MonthlyTrend{
			{MonthEnd: time.Date(2019, 1, 31, 0, 0, 0, 0, time.UTC), NumberOfReviews: 2, AveragePrice: 150},
		},
		Pivot: &models.PivotTable{
			Rows:    []string{"Brooklyn"},
			Columns: []string{"Entire home/apt", "Shared room"},
			Values:  map[string]map[string]float64{"Brooklyn": {"Entire home/apt": 180}},
		},
	}
	require.NoError(t, NewXLSXWriter(quietLogger()).Write(path, data))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetAggregates, SheetSeasonal, SheetMonthly, SheetPivot}, f.GetSheetList())

	rows, err := f.GetRows(SheetAggregates)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"neighbourhood_group", "total_listings", "average_price", "ranking", "rank"}, rows[0])
	assert.Equal(t, "B", rows[1][0])

	monthly, err := f.GetRows(SheetMonthly)
	require.NoError(t, err)
	assert.Equal(t, "2019-01-31", monthly[1][0])

	pivot, err := f.GetRows(SheetPivot)
	require.NoError(t, err)
	require.Len(t, pivot, 2)
	assert.Equal(t, []string{"neighbourhood_group", "Entire home/apt", "Shared room"}, pivot[0])
	assert.Equal(t, "180", pivot[1][1])
}

func TestValuesClause(t *testing.T) {
	assert.Equal(t, "($1,$2),($3,$4)", valuesClause(2, 2))
	assert.Equal(t, "($1,$2,$3)", valuesClause(1, 3))
	assert.Empty(t, valuesClause(0, 3))
}
