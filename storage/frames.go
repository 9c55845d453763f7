package storage

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"airbnb-analysis/models"
)

const dateLayout = "2006-01-02"

// Output column names.
const (
	ColTotalListings = "total_listings"
	ColAveragePrice  = "average_price"
	ColRanking       = "ranking"
	ColRank          = "rank"

	ColMonth             = "Month"
	ColSeasonalAverage   = "Average Price"
	ColMonthEnd          = "month_end"
	ColPriceCategory     = "price_category"
	ColLengthOfStay      = "length_of_stay_category"
	ColAvailabilityState = "availability_status"
)

// missing is the literal gota reads back as a NaN string element.
const missing = "NaN"

// ListingsFrame builds a frame from the working set. last_review holds the
// coerced date, so it must be called after cleaning to be meaningful.
func ListingsFrame(listings []*models.Listing) dataframe.DataFrame {
	n := len(listings)
	ids := make([]int, n)
	names := make([]string, n)
	hostIDs := make([]int, n)
	hostNames := make([]string, n)
	groups := make([]string, n)
	hoods := make([]string, n)
	rooms := make([]string, n)
	prices := make([]int, n)
	nights := make([]int, n)
	reviews := make([]int, n)
	lastReviews := make([]string, n)
	avail := make([]int, n)
	priceCats := make([]string, n)
	stayCats := make([]string, n)
	availCats := make([]string, n)

	categorized := false
	for i, l := range listings {
		ids[i] = int(l.ID)
		names[i] = nullable(l.Name.String, l.Name.Valid)
		hostIDs[i] = int(l.HostID)
		hostNames[i] = nullable(l.HostName.String, l.HostName.Valid)
		groups[i] = l.NeighbourhoodGroup
		hoods[i] = l.Neighbourhood
		rooms[i] = l.RoomType
		prices[i] = l.Price
		nights[i] = l.MinimumNights
		reviews[i] = l.NumberOfReviews
		avail[i] = l.Availability365
		if l.LastReview.Valid {
			lastReviews[i] = l.LastReview.Time.Format(dateLayout)
		} else {
			lastReviews[i] = missing
		}
		priceCats[i] = nullable(l.PriceCategory, l.PriceCategory != "")
		stayCats[i] = nullable(l.LengthOfStayCategory, l.LengthOfStayCategory != "")
		availCats[i] = nullable(l.AvailabilityStatus, l.AvailabilityStatus != "")
		if l.PriceCategory != "" {
			categorized = true
		}
	}

	cols := []series.Series{
		series.New(ids, series.Int, ColID),
		series.New(names, series.String, ColName),
		series.New(hostIDs, series.Int, ColHostID),
		series.New(hostNames, series.String, ColHostName),
		series.New(groups, series.String, ColNeighbourhoodGroup),
		series.New(hoods, series.String, ColNeighbourhood),
		series.New(rooms, series.String, ColRoomType),
		series.New(prices, series.Int, ColPrice),
		series.New(nights, series.Int, ColMinimumNights),
		series.New(reviews, series.Int, ColNumberOfReviews),
		series.New(lastReviews, series.String, ColLastReview),
		series.New(avail, series.Int, ColAvailability365),
	}
	if categorized {
		cols = append(cols,
			series.New(priceCats, series.String, ColPriceCategory),
			series.New(stayCats, series.String, ColLengthOfStay),
			series.New(availCats, series.String, ColAvailabilityState),
		)
	}
	return dataframe.New(cols...)
}

// RankingsFrame is the aggregated_airbnb_data.csv layout, indexed by
// neighbourhood group.
func RankingsFrame(rankings []models.GroupRanking) dataframe.DataFrame {
	n := len(rankings)
	groups := make([]string, n)
	totals := make([]int, n)
	avgs := make([]float64, n)
	scores := make([]float64, n)
	ranks := make([]int, n)
	for i, r := range rankings {
		groups[i] = r.NeighbourhoodGroup
		totals[i] = r.TotalListings
		avgs[i] = r.AveragePrice
		scores[i] = r.Ranking
		ranks[i] = r.Rank
	}
	return dataframe.New(
		series.New(groups, series.String, ColNeighbourhoodGroup),
		series.New(totals, series.Int, ColTotalListings),
		series.New(avgs, series.Float, ColAveragePrice),
		series.New(scores, series.Float, ColRanking),
		series.New(ranks, series.Int, ColRank),
	)
}

// SeasonalFrame is the time_series_airbnb_data.csv layout, indexed by month name.
func SeasonalFrame(seasonal []models.SeasonalAverage) dataframe.DataFrame {
	names := make([]string, len(seasonal))
	avgs := make([]float64, len(seasonal))
	for i, s := range seasonal {
		names[i] = s.Name
		avgs[i] = s.AveragePrice
	}
	return dataframe.New(
		series.New(names, series.String, ColMonth),
		series.New(avgs, series.Float, ColSeasonalAverage),
	)
}

// MonthlyFrame holds the month-end resample handed to the chart renderer.
func MonthlyFrame(trends []models.MonthlyTrend) dataframe.DataFrame {
	ends := make([]string, len(trends))
	reviews := make([]int, len(trends))
	avgs := make([]float64, len(trends))
	for i, t := range trends {
		ends[i] = t.MonthEnd.Format(dateLayout)
		reviews[i] = t.NumberOfReviews
		avgs[i] = t.AveragePrice
	}
	return dataframe.New(
		series.New(ends, series.String, ColMonthEnd),
		series.New(reviews, series.Int, ColNumberOfReviews),
		series.New(avgs, series.Float, ColAveragePrice),
	)
}

func nullable(s string, valid bool) string {
	if !valid {
		return missing
	}
	return s
}
