package services

import (
	"bytes"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"airbnb-analysis/models"
)

func dated(y int, m time.Month, d, price, reviews int) *models.Listing {
	return &models.Listing{
		Price:           price,
		NumberOfReviews: reviews,
		LastReview:      sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true},
	}
}

func TestMonthEnd(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC), "2019-01-31"},
		{time.Date(2019, 2, 28, 0, 0, 0, 0, time.UTC), "2019-02-28"},
		{time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC), "2016-02-29"},
		{time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC), "2018-12-31"},
	}
	for _, tt := range tests {
		if got := MonthEnd(tt.in).Format("2006-01-02"); got != tt.want {
			t.Errorf("MonthEnd(%v) = %s; want %s", tt.in, got, tt.want)
		}
	}
}

func TestMonthlyTrendsBucket(t *testing.T) {
	listings := []*models.Listing{
		dated(2019, time.January, 5, 100, 1),
		dated(2019, time.January, 20, 200, 1),
		dated(2018, time.March, 2, 80, 4),
		{Price: 999, NumberOfReviews: 50},
	}

	got := MonthlyTrends(listings)
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2 (no zero-filled months)", len(got))
	}
	if got[0].MonthEnd.Format("2006-01-02") != "2018-03-31" {
		t.Errorf("first bucket = %v; want 2018-03-31", got[0].MonthEnd)
	}
	jan := got[1]
	if jan.MonthEnd.Format("2006-01-02") != "2019-01-31" {
		t.Errorf("second bucket = %v; want 2019-01-31", jan.MonthEnd)
	}
	if jan.AveragePrice != 150 || jan.NumberOfReviews != 2 || jan.Listings != 2 {
		t.Errorf("January 2019 = %+v; want mean 150, sum 2", jan)
	}
}

func TestSeasonalAveragesOrderAndNames(t *testing.T) {
	listings := []*models.Listing{
		dated(2019, time.December, 1, 300, 1),
		dated(2018, time.January, 1, 100, 1),
		dated(2019, time.January, 1, 200, 1),
		dated(2019, time.June, 1, 90, 1),
	}

	got := SeasonalAverages(listings)
	var names []string
	for _, s := range got {
		names = append(names, s.Name)
	}
	if strings.Join(names, ",") != "January,June,December" {
		t.Errorf("names = %v", names)
	}
	if got[0].AveragePrice != 150 || got[0].Listings != 2 {
		t.Errorf("January = %+v; want mean 150 across years", got[0])
	}
}

func TestSummarizeCountsUndated(t *testing.T) {
	listings := []*models.Listing{dated(2019, time.May, 3, 100, 2), {Price: 50}, {Price: 60}}

	tr := Summarize(listings)
	if tr.Undated != 2 {
		t.Errorf("Undated = %d; want 2", tr.Undated)
	}
	if len(tr.Monthly) != 1 || len(tr.Seasonal) != 1 {
		t.Errorf("monthly %d, seasonal %d; want 1, 1", len(tr.Monthly), len(tr.Seasonal))
	}

	var buf bytes.Buffer
	PrintTrends(&buf, tr)
	if !strings.Contains(buf.String(), "May") || !strings.Contains(buf.String(), "2019-05-31") {
		t.Errorf("printed trends missing rows:\n%s", buf.String())
	}
}

func TestInspect(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"a", "NaN", "NaN"}, series.String, "name"),
		series.New([]int{1, 2, 3}, series.Int, "price"),
	)

	info := Inspect(df, "before cleaning")
	if info.Rows != 3 || info.Cols != 2 {
		t.Errorf("shape = (%d, %d); want (3, 2)", info.Rows, info.Cols)
	}
	if info.MissingIn("name") != 2 || info.MissingIn("price") != 0 {
		t.Errorf("missing = %d, %d; want 2, 0", info.MissingIn("name"), info.MissingIn("price"))
	}
	if info.MissingIn("nope") != -1 {
		t.Error("unknown column should report -1")
	}
	if info.RowsWithMissing != 2 {
		t.Errorf("RowsWithMissing = %d; want 2", info.RowsWithMissing)
	}
	if info.Columns[1].Type != "int" {
		t.Errorf("price type = %q; want int", info.Columns[1].Type)
	}

	var buf bytes.Buffer
	PrintFrameInfo(&buf, info)
	if !strings.Contains(buf.String(), "before cleaning") {
		t.Error("printed info missing label")
	}
}
