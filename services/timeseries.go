package services

import (
	"sort"
	"time"

	"airbnb-analysis/models"
)

// MonthEnd returns midnight UTC on the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1)
}

// MonthlyTrends buckets dated listings by the month end of last_review. Each
// bucket carries the sum of number_of_reviews and the mean price. Months
// without listings are absent; buckets are in ascending order.
func MonthlyTrends(listings []*models.Listing) []models.MonthlyTrend {
	type acc struct {
		reviews, count int
		price          float64
	}
	buckets := make(map[time.Time]*acc)
	for _, l := range listings {
		if !l.LastReview.Valid {
			continue
		}
		end := MonthEnd(l.LastReview.Time)
		a, ok := buckets[end]
		if !ok {
			a = &acc{}
			buckets[end] = a
		}
		a.reviews += l.NumberOfReviews
		a.price += float64(l.Price)
		a.count++
	}

	out := make([]models.MonthlyTrend, 0, len(buckets))
	for end, a := range buckets {
		out = append(out, models.MonthlyTrend{
			MonthEnd:        end,
			NumberOfReviews: a.reviews,
			AveragePrice:    a.price / float64(a.count),
			Listings:        a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthEnd.Before(out[j].MonthEnd) })
	return out
}

// SeasonalAverages is the mean price per calendar month across all years,
// labelled with the full month name and ordered January to December.
func SeasonalAverages(listings []*models.Listing) []models.SeasonalAverage {
	var sums [13]float64
	var counts [13]int
	for _, l := range listings {
		if !l.LastReview.Valid {
			continue
		}
		m := l.LastReview.Time.Month()
		sums[m] += float64(l.Price)
		counts[m]++
	}

	var out []models.SeasonalAverage
	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		out = append(out, models.SeasonalAverage{
			Month:        m,
			Name:         m.String(),
			AveragePrice: sums[m] / float64(counts[m]),
			Listings:     counts[m],
		})
	}
	return out
}

// Summarize computes both time views and counts the undated listings they
// leave out.
func Summarize(listings []*models.Listing) models.TrendReport {
	undated := 0
	for _, l := range listings {
		if !l.LastReview.Valid {
			undated++
		}
	}
	return models.TrendReport{
		Monthly:  MonthlyTrends(listings),
		Seasonal: SeasonalAverages(listings),
		Undated:  undated,
	}
}
