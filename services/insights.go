package services

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/series"

	"airbnb-analysis/models"
	"airbnb-analysis/utils"
)

// Ranking methods accepted by RankNeighbourhoodGroups.
const (
	RankingRaw    = "raw"
	RankingMinMax = "minmax"
)

// Metric names used by Melt and Describe.
const (
	MetricPrice           = "price"
	MetricMinimumNights   = "minimum_nights"
	MetricNumberOfReviews = "number_of_reviews"
)

var priceOrder = map[string]int{models.PriceLow: 0, models.PriceMedium: 1, models.PriceHigh: 2}

// InsightService computes the aggregate views of a cleaned listing set.
type InsightService struct {
	logger *utils.Logger
	method string
}

// NewInsightService creates an InsightService ranking with method, raw when
// empty.
func NewInsightService(logger *utils.Logger, method string) *InsightService {
	if method == "" {
		method = RankingRaw
	}
	return &InsightService{logger: logger, method: method}
}

// Generate computes every aggregate view over the cleaned, categorized
// listings. The cross aggregation only covers listings matching filter.
func (s *InsightService) Generate(listings []*models.Listing, filter models.ListingFilter) (*models.InsightReport, error) {
	report := &models.InsightReport{TotalListings: len(listings)}

	rankings, err := RankNeighbourhoodGroups(listings, s.method)
	if err != nil {
		return nil, err
	}
	report.Rankings = rankings

	filtered := FilterListings(listings, filter)
	s.logger.Debug("[insights] %d of %d listings match the filter", len(filtered), len(listings))

	report.Cross = AggregateByGroupAndPriceCategory(filtered)
	report.Pivot = PricePivot(listings)
	report.Describe = Describe(listings)
	report.PriceCounts = ValueCounts(listings, func(l *models.Listing) string { return l.PriceCategory })
	report.StayCounts = ValueCounts(listings, func(l *models.Listing) string { return l.LengthOfStayCategory })
	report.Availability = ValueCounts(listings, func(l *models.Listing) string { return l.AvailabilityStatus })

	s.logger.Info("[insights] Ranked %d neighbourhood groups (%s)", len(rankings), s.method)
	return report, nil
}

type groupAcc struct {
	count int
	total float64
}

// RankNeighbourhoodGroups groups listings by neighbourhood group and scores
// each group as the mean of its average price and listing count. With
// RankingMinMax both terms are first scaled to [0,1] across groups. The
// result is ordered by score descending, ties by name, and densely ranked.
func RankNeighbourhoodGroups(listings []*models.Listing, method string) ([]models.GroupRanking, error) {
	if method != RankingRaw && method != RankingMinMax {
		return nil, fmt.Errorf("insights: unknown ranking method %q", method)
	}

	groups := make(map[string]*groupAcc)
	for _, l := range listings {
		g, ok := groups[l.NeighbourhoodGroup]
		if !ok {
			g = &groupAcc{}
			groups[l.NeighbourhoodGroup] = g
		}
		g.count++
		g.total += float64(l.Price)
	}

	out := make([]models.GroupRanking, 0, len(groups))
	for name, g := range groups {
		out = append(out, models.GroupRanking{
			NeighbourhoodGroup: name,
			TotalListings:      g.count,
			AveragePrice:       g.total / float64(g.count),
		})
	}

	if method == RankingMinMax {
		minMaxScore(out)
	} else {
		for i := range out {
			out[i].Ranking = RankingScore(out[i].AveragePrice, out[i].TotalListings)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Ranking != out[j].Ranking {
			return out[i].Ranking > out[j].Ranking
		}
		return out[i].NeighbourhoodGroup < out[j].NeighbourhoodGroup
	})
	DenseRank(out)
	return out, nil
}

// RankingScore is the unnormalised composite of price and count.
func RankingScore(averagePrice float64, totalListings int) float64 {
	return (averagePrice + float64(totalListings)) / 2
}

func minMaxScore(rs []models.GroupRanking) {
	if len(rs) == 0 {
		return
	}
	minP, maxP := rs[0].AveragePrice, rs[0].AveragePrice
	minC, maxC := rs[0].TotalListings, rs[0].TotalListings
	for _, r := range rs[1:] {
		minP = min(minP, r.AveragePrice)
		maxP = max(maxP, r.AveragePrice)
		minC = min(minC, r.TotalListings)
		maxC = max(maxC, r.TotalListings)
	}
	for i := range rs {
		p := scale(rs[i].AveragePrice, minP, maxP)
		c := scale(float64(rs[i].TotalListings), float64(minC), float64(maxC))
		rs[i].Ranking = (p + c) / 2
	}
}

// scale maps v into [0,1]; a zero-width range maps to 0.
func scale(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// DenseRank assigns ranks to rankings already sorted by score descending.
// Equal scores share a rank and the next distinct score gets rank+1.
func DenseRank(rs []models.GroupRanking) {
	rank := 0
	for i := range rs {
		if i == 0 || rs[i].Ranking != rs[i-1].Ranking {
			rank++
		}
		rs[i].Rank = rank
	}
}

type crossKey struct{ group, category string }

type crossAcc struct {
	count                          int
	price, nights, reviews, avail float64
}

// AggregateByGroupAndPriceCategory returns the mean metrics for each
// (neighbourhood group, price category) pair, ordered by group then by
// Low, Medium, High.
func AggregateByGroupAndPriceCategory(listings []*models.Listing) []models.CrossAggregate {
	accs := make(map[crossKey]*crossAcc)
	for _, l := range listings {
		k := crossKey{l.NeighbourhoodGroup, l.PriceCategory}
		a, ok := accs[k]
		if !ok {
			a = &crossAcc{}
			accs[k] = a
		}
		a.count++
		a.price += float64(l.Price)
		a.nights += float64(l.MinimumNights)
		a.reviews += float64(l.NumberOfReviews)
		a.avail += float64(l.Availability365)
	}

	out := make([]models.CrossAggregate, 0, len(accs))
	for k, a := range accs {
		n := float64(a.count)
		out = append(out, models.CrossAggregate{
			NeighbourhoodGroup:  k.group,
			PriceCategory:       k.category,
			Count:               a.count,
			MeanPrice:           a.price / n,
			MeanMinimumNights:   a.nights / n,
			MeanNumberOfReviews: a.reviews / n,
			MeanAvailability365: a.avail / n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NeighbourhoodGroup != out[j].NeighbourhoodGroup {
			return out[i].NeighbourhoodGroup < out[j].NeighbourhoodGroup
		}
		oi, iok := priceOrder[out[i].PriceCategory]
		oj, jok := priceOrder[out[j].PriceCategory]
		if iok && jok {
			return oi < oj
		}
		return out[i].PriceCategory < out[j].PriceCategory
	})
	return out
}

// FilterListings keeps listings in one of filter.Groups (any group when the
// list is empty) with price and review count strictly above the minimums.
func FilterListings(listings []*models.Listing, filter models.ListingFilter) []*models.Listing {
	groups := make(map[string]struct{}, len(filter.Groups))
	for _, g := range filter.Groups {
		groups[g] = struct{}{}
	}
	var out []*models.Listing
	for _, l := range listings {
		if len(groups) > 0 {
			if _, ok := groups[l.NeighbourhoodGroup]; !ok {
				continue
			}
		}
		if l.Price <= filter.MinPrice || l.NumberOfReviews <= filter.MinReviews {
			continue
		}
		out = append(out, l)
	}
	return out
}

// SelectByIDs returns the listings with the given ids in the order the ids
// are given. Unknown ids are skipped.
func SelectByIDs(listings []*models.Listing, ids ...int64) []*models.Listing {
	byID := make(map[int64]*models.Listing, len(listings))
	for _, l := range listings {
		if _, ok := byID[l.ID]; !ok {
			byID[l.ID] = l
		}
	}
	var out []*models.Listing
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// PricePivot is the mean price by neighbourhood group (rows) and room type
// (columns), both sorted by name.
func PricePivot(listings []*models.Listing) *models.PivotTable {
	sums := make(map[string]map[string]*groupAcc)
	roomSet := make(map[string]struct{})
	for _, l := range listings {
		row, ok := sums[l.NeighbourhoodGroup]
		if !ok {
			row = make(map[string]*groupAcc)
			sums[l.NeighbourhoodGroup] = row
		}
		a, ok := row[l.RoomType]
		if !ok {
			a = &groupAcc{}
			row[l.RoomType] = a
		}
		a.count++
		a.total += float64(l.Price)
		roomSet[l.RoomType] = struct{}{}
	}

	p := &models.PivotTable{Values: make(map[string]map[string]float64, len(sums))}
	for g, row := range sums {
		p.Rows = append(p.Rows, g)
		p.Values[g] = make(map[string]float64, len(row))
		for room, a := range row {
			p.Values[g][room] = a.total / float64(a.count)
		}
	}
	for room := range roomSet {
		p.Columns = append(p.Columns, room)
	}
	sort.Strings(p.Rows)
	sort.Strings(p.Columns)
	return p
}

// Melt turns each listing into two long-format records, all price records
// first followed by all minimum_nights records.
func Melt(listings []*models.Listing) []models.MetricRecord {
	out := make([]models.MetricRecord, 0, 2*len(listings))
	for _, metric := range []string{MetricPrice, MetricMinimumNights} {
		for _, l := range listings {
			v := l.Price
			if metric == MetricMinimumNights {
				v = l.MinimumNights
			}
			out = append(out, models.MetricRecord{
				ID:                 l.ID,
				Name:               l.Name.String,
				HostID:             l.HostID,
				NeighbourhoodGroup: l.NeighbourhoodGroup,
				RoomType:           l.RoomType,
				Metric:             metric,
				Value:              float64(v),
			})
		}
	}
	return out
}

// SortByPriceThenReviews returns a copy ordered by price descending, then
// number_of_reviews ascending. Equal keys keep their input order.
func SortByPriceThenReviews(listings []*models.Listing) []*models.Listing {
	out := make([]*models.Listing, len(listings))
	copy(out, listings)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price > out[j].Price
		}
		return out[i].NumberOfReviews < out[j].NumberOfReviews
	})
	return out
}

// Describe computes count, mean, std, min, quartiles and max for price,
// minimum_nights and number_of_reviews.
func Describe(listings []*models.Listing) []models.ColumnStats {
	if len(listings) == 0 {
		return nil
	}
	cols := map[string][]int{
		MetricPrice:           make([]int, len(listings)),
		MetricMinimumNights:   make([]int, len(listings)),
		MetricNumberOfReviews: make([]int, len(listings)),
	}
	for i, l := range listings {
		cols[MetricPrice][i] = l.Price
		cols[MetricMinimumNights][i] = l.MinimumNights
		cols[MetricNumberOfReviews][i] = l.NumberOfReviews
	}

	var out []models.ColumnStats
	for _, name := range []string{MetricPrice, MetricMinimumNights, MetricNumberOfReviews} {
		s := series.New(cols[name], series.Int, name)
		out = append(out, models.ColumnStats{
			Column: name,
			Count:  s.Len(),
			Mean:   s.Mean(),
			Std:    s.StdDev(),
			Min:    s.Min(),
			Q25:    s.Quantile(0.25),
			Median: s.Median(),
			Q75:    s.Quantile(0.75),
			Max:    s.Max(),
		})
	}
	return out
}
