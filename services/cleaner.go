package services

import (
	"database/sql"
	"strings"
	"time"

	"airbnb-analysis/models"
	"airbnb-analysis/utils"
)

// Unknown replaces missing listing and host names.
const Unknown = "Unknown"

// reviewLayouts are tried in order when coercing last_review.
var reviewLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// CleanStats summarises what a cleaning pass changed.
type CleanStats struct {
	FilledNames     int
	FilledHostNames int
	MissingDates    int
	DuplicateIDs    int
}

// Cleaner repairs loaded listings in place.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean fills missing text, coerces review dates and reports duplicate ids.
// No rows are removed.
func (c *Cleaner) Clean(listings []*models.Listing) CleanStats {
	var stats CleanStats
	stats.FilledNames, stats.FilledHostNames = c.FillMissingText(listings)
	stats.MissingDates = c.CoerceLastReview(listings)
	stats.DuplicateIDs = c.countDuplicateIDs(listings)

	c.logger.Info("[cleaner] Filled %d names, %d host names; %d listings without a review date",
		stats.FilledNames, stats.FilledHostNames, stats.MissingDates)
	return stats
}

// FillMissingText sets absent name and host_name values to Unknown. Running
// it twice changes nothing the second time.
func (c *Cleaner) FillMissingText(listings []*models.Listing) (names, hostNames int) {
	for _, l := range listings {
		if !l.Name.Valid {
			l.Name = sql.NullString{String: Unknown, Valid: true}
			names++
		}
		if !l.HostName.Valid {
			l.HostName = sql.NullString{String: Unknown, Valid: true}
			hostNames++
		}
	}
	return names, hostNames
}

// CoerceLastReview parses LastReviewRaw into LastReview. Unparseable values
// become a missing date rather than an error. It returns how many listings
// end up without a date.
func (c *Cleaner) CoerceLastReview(listings []*models.Listing) int {
	missing := 0
	for _, l := range listings {
		t, ok := parseReviewDate(l.LastReviewRaw)
		if !ok {
			if strings.TrimSpace(l.LastReviewRaw) != "" {
				c.logger.Debug("[cleaner] Unparseable last_review %q for listing %d", l.LastReviewRaw, l.ID)
			}
			l.LastReview = sql.NullTime{}
			missing++
			continue
		}
		l.LastReview = sql.NullTime{Time: t, Valid: true}
	}
	return missing
}

// DropNonPositivePrice returns the listings whose price is above zero. The
// input slice is left untouched.
func (c *Cleaner) DropNonPositivePrice(listings []*models.Listing) []*models.Listing {
	kept := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price <= 0 {
			continue
		}
		kept = append(kept, l)
	}
	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d with price <= 0)",
		len(listings), len(kept), len(listings)-len(kept))
	return kept
}

func (c *Cleaner) countDuplicateIDs(listings []*models.Listing) int {
	seen := utils.NewIDSet()
	dups := 0
	for _, l := range listings {
		if !seen.Add(l.ID) {
			c.logger.Warn("[cleaner] Duplicate listing id %d", l.ID)
			dups++
		}
	}
	c.logger.Debug("[cleaner] %d unique listing ids", seen.Size())
	return dups
}

func parseReviewDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range reviewLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
