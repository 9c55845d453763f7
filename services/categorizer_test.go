package services

import (
	"testing"

	"airbnb-analysis/models"
)

func TestCategorizePriceBoundaries(t *testing.T) {
	c := NewCategorizer(models.DefaultThresholds())

	tests := []struct {
		price int
		want  string
	}{
		{-5, models.PriceLow},
		{0, models.PriceLow},
		{99, models.PriceLow},
		{100, models.PriceMedium},
		{299, models.PriceMedium},
		{300, models.PriceHigh},
		{10000, models.PriceHigh},
	}
	for _, tt := range tests {
		if got := c.CategorizePrice(tt.price); got != tt.want {
			t.Errorf("CategorizePrice(%d) = %q; want %q", tt.price, got, tt.want)
		}
	}
}

func TestCategorizeLengthOfStayBoundaries(t *testing.T) {
	c := NewCategorizer(models.DefaultThresholds())

	tests := []struct {
		nights int
		want   string
	}{
		{1, models.StayShort},
		{3, models.StayShort},
		{4, models.StayMedium},
		{14, models.StayMedium},
		{15, models.StayLong},
		{1250, models.StayLong},
	}
	for _, tt := range tests {
		if got := c.CategorizeLengthOfStay(tt.nights); got != tt.want {
			t.Errorf("CategorizeLengthOfStay(%d) = %q; want %q", tt.nights, got, tt.want)
		}
	}
}

func TestClassifyAvailabilityBoundaries(t *testing.T) {
	c := NewCategorizer(models.DefaultThresholds())

	tests := []struct {
		days int
		want string
	}{
		{0, models.AvailabilityRare},
		{49, models.AvailabilityRare},
		{50, models.AvailabilityOccasional},
		{200, models.AvailabilityOccasional},
		{201, models.AvailabilityHigh},
		{365, models.AvailabilityHigh},
	}
	for _, tt := range tests {
		if got := c.ClassifyAvailability(tt.days); got != tt.want {
			t.Errorf("ClassifyAvailability(%d) = %q; want %q", tt.days, got, tt.want)
		}
	}
}

func TestCategorizerCustomThresholds(t *testing.T) {
	th := models.DefaultThresholds()
	th.PriceLow, th.PriceHigh = 50, 150
	c := NewCategorizer(th)

	if got := c.CategorizePrice(120); got != models.PriceMedium {
		t.Errorf("CategorizePrice(120) = %q; want %q", got, models.PriceMedium)
	}
	if got := c.CategorizePrice(150); got != models.PriceHigh {
		t.Errorf("CategorizePrice(150) = %q; want %q", got, models.PriceHigh)
	}
}

func TestCategorizerApplyAndCounts(t *testing.T) {
	c := NewCategorizer(models.DefaultThresholds())
	listings := []*models.Listing{
		{Price: 50, MinimumNights: 1, Availability365: 10},
		{Price: 150, MinimumNights: 30, Availability365: 365},
		{Price: 80, MinimumNights: 7, Availability365: 100},
	}
	c.Apply(listings)

	if listings[1].LengthOfStayCategory != models.StayLong {
		t.Errorf("stay category = %q; want %q", listings[1].LengthOfStayCategory, models.StayLong)
	}
	counts := ValueCounts(listings, func(l *models.Listing) string { return l.PriceCategory })
	if counts[models.PriceLow] != 2 || counts[models.PriceMedium] != 1 {
		t.Errorf("price counts = %v", counts)
	}
}
