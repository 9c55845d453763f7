package services

import "airbnb-analysis/models"

// Categorizer derives the label columns from configurable thresholds. Every
// method returns a label for any integer input.
type Categorizer struct {
	th models.Thresholds
}

// NewCategorizer creates a Categorizer using th.
func NewCategorizer(th models.Thresholds) *Categorizer {
	return &Categorizer{th: th}
}

// CategorizePrice labels price Low, Medium or High.
func (c *Categorizer) CategorizePrice(price int) string {
	switch {
	case price < c.th.PriceLow:
		return models.PriceLow
	case price < c.th.PriceHigh:
		return models.PriceMedium
	default:
		return models.PriceHigh
	}
}

// CategorizeLengthOfStay labels a minimum_nights value as a short, medium or
// long stay.
func (c *Categorizer) CategorizeLengthOfStay(minNights int) string {
	switch {
	case minNights <= c.th.ShortTermMaxNights:
		return models.StayShort
	case minNights <= c.th.MediumTermMaxNights:
		return models.StayMedium
	default:
		return models.StayLong
	}
}

// ClassifyAvailability labels availability_365 days.
func (c *Categorizer) ClassifyAvailability(days int) string {
	switch {
	case days < c.th.RarelyBelow:
		return models.AvailabilityRare
	case days <= c.th.HighlyAbove:
		return models.AvailabilityOccasional
	default:
		return models.AvailabilityHigh
	}
}

// Apply sets all three labels on every listing.
func (c *Categorizer) Apply(listings []*models.Listing) {
	for _, l := range listings {
		l.PriceCategory = c.CategorizePrice(l.Price)
		l.LengthOfStayCategory = c.CategorizeLengthOfStay(l.MinimumNights)
		l.AvailabilityStatus = c.ClassifyAvailability(l.Availability365)
	}
}

// ValueCounts tallies the label returned by key for each listing.
func ValueCounts(listings []*models.Listing, key func(*models.Listing) string) map[string]int {
	counts := make(map[string]int)
	for _, l := range listings {
		counts[key(l)]++
	}
	return counts
}
