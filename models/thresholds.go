package models

// Category labels produced by the categorizer.
const (
	PriceLow    = "Low"
	PriceMedium = "Medium"
	PriceHigh   = "High"

	StayShort  = "Short-term"
	StayMedium = "Medium-term"
	StayLong   = "Long-term"

	AvailabilityRare       = "Rarely Available"
	AvailabilityOccasional = "Occasionally Available"
	AvailabilityHigh       = "Highly Available"
)

// Thresholds configures the categorization rules.
//
//	price:        < PriceLow Low, < PriceHigh Medium, otherwise High
//	stay:         <= ShortTermMaxNights Short-term, <= MediumTermMaxNights Medium-term, otherwise Long-term
//	availability: < RarelyBelow Rarely, <= HighlyAbove Occasionally, otherwise Highly
type Thresholds struct {
	PriceLow            int `mapstructure:"price_low" yaml:"price_low" validate:"gt=0,ltfield=PriceHigh"`
	PriceHigh           int `mapstructure:"price_high" yaml:"price_high" validate:"gt=0"`
	ShortTermMaxNights  int `mapstructure:"short_term_max_nights" yaml:"short_term_max_nights" validate:"gt=0,ltfield=MediumTermMaxNights"`
	MediumTermMaxNights int `mapstructure:"medium_term_max_nights" yaml:"medium_term_max_nights" validate:"gt=0"`
	RarelyBelow         int `mapstructure:"rarely_below" yaml:"rarely_below" validate:"gt=0,ltefield=HighlyAbove"`
	HighlyAbove         int `mapstructure:"highly_above" yaml:"highly_above" validate:"gt=0,lte=365"`
}

// DefaultThresholds returns the thresholds used for the 2019 NYC analysis.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PriceLow:            100,
		PriceHigh:           300,
		ShortTermMaxNights:  3,
		MediumTermMaxNights: 14,
		RarelyBelow:         50,
		HighlyAbove:         200,
	}
}

// ListingFilter selects the premium subset used for cross aggregation.
type ListingFilter struct {
	Groups     []string `mapstructure:"groups" yaml:"groups"`
	MinPrice   int      `mapstructure:"min_price" yaml:"min_price" validate:"gte=0"`
	MinReviews int      `mapstructure:"min_reviews" yaml:"min_reviews" validate:"gte=0"`
}

// DefaultListingFilter keeps Manhattan and Brooklyn listings priced above 100
// with more than 10 reviews.
func DefaultListingFilter() ListingFilter {
	return ListingFilter{
		Groups:     []string{"Manhattan", "Brooklyn"},
		MinPrice:   100,
		MinReviews: 10,
	}
}
