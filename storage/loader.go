package storage

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"airbnb-analysis/models"
	"airbnb-analysis/utils"
)

// ErrSchema reports a CSV whose header or required values do not match the
// listings schema.
var ErrSchema = errors.New("listings schema mismatch")

// Column names of the AB_NYC_2019 dataset used by the pipeline.
const (
	ColID                 = "id"
	ColName               = "name"
	ColHostID             = "host_id"
	ColHostName           = "host_name"
	ColNeighbourhoodGroup = "neighbourhood_group"
	ColNeighbourhood      = "neighbourhood"
	ColRoomType           = "room_type"
	ColPrice              = "price"
	ColMinimumNights      = "minimum_nights"
	ColNumberOfReviews    = "number_of_reviews"
	ColLastReview         = "last_review"
	ColAvailability365    = "availability_365"

	colLatitude        = "latitude"
	colLongitude       = "longitude"
	colReviewsPerMonth = "reviews_per_month"
	colHostListings    = "calculated_host_listings_count"
)

// RequiredColumns lists the header fields every input file must carry.
var RequiredColumns = []string{
	ColID, ColName, ColHostID, ColHostName, ColNeighbourhoodGroup, ColNeighbourhood,
	ColRoomType, ColPrice, ColMinimumNights, ColNumberOfReviews, ColLastReview, ColAvailability365,
}

// schemaTypes pins the gota column types so that sparse or numeric-looking
// text columns are never re-typed by detection. Columns not listed stay
// strings.
var schemaTypes = map[string]series.Type{
	ColID:              series.Int,
	ColHostID:          series.Int,
	ColPrice:           series.Int,
	ColMinimumNights:   series.Int,
	ColNumberOfReviews: series.Int,
	ColAvailability365: series.Int,
	colLatitude:        series.Float,
	colLongitude:       series.Float,
	colReviewsPerMonth: series.Float,
	colHostListings:    series.Int,
}

// nanValues are the cell contents treated as missing.
var nanValues = []string{"", "NA", "NaN", "<nil>", "null"}

// Dataset is a loaded file: the untouched frame plus the typed records.
type Dataset struct {
	Path     string
	Frame    dataframe.DataFrame
	Listings []*models.Listing
}

// Loader reads listings CSV files.
type Loader struct {
	logger *utils.Logger
}

// NewLoader creates a Loader with the given logger.
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the whole file into memory and converts it to listings.
func (l *Loader) Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %q: %w", path, err)
	}
	if err := checkHasRows(data); err != nil {
		return nil, fmt.Errorf("loader: %q: %w", path, err)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(schemaTypes),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("loader: read %q: %w", path, df.Err)
	}

	listings, err := FrameToListings(df)
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %w", path, err)
	}

	rows, cols := df.Dims()
	l.logger.Info("[loader] Loaded %s: %d rows x %d columns", path, rows, cols)
	return &Dataset{Path: path, Frame: df, Listings: listings}, nil
}

// checkHasRows returns ErrSchema for an empty file or one holding only a
// header line.
func checkHasRows(data []byte) error {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	if _, err := r.Read(); err == io.EOF {
		return fmt.Errorf("%w: empty file", ErrSchema)
	}
	if _, err := r.Read(); err == io.EOF {
		return fmt.Errorf("%w: header without listing rows", ErrSchema)
	}
	return nil
}

// CheckColumns returns ErrSchema naming the first required column absent
// from df.
func CheckColumns(df dataframe.DataFrame) error {
	present := make(map[string]struct{}, df.Ncol())
	for _, n := range df.Names() {
		present[n] = struct{}{}
	}
	for _, c := range RequiredColumns {
		if _, ok := present[c]; !ok {
			return fmt.Errorf("%w: missing column %q", ErrSchema, c)
		}
	}
	return nil
}

// FrameToListings converts a loaded frame into listing records. Text columns
// may be missing; numeric columns must be present on every row.
func FrameToListings(df dataframe.DataFrame) ([]*models.Listing, error) {
	if err := CheckColumns(df); err != nil {
		return nil, err
	}

	ids, err := intColumn(df, ColID)
	if err != nil {
		return nil, err
	}
	hostIDs, err := intColumn(df, ColHostID)
	if err != nil {
		return nil, err
	}
	prices, err := intColumn(df, ColPrice)
	if err != nil {
		return nil, err
	}
	nights, err := intColumn(df, ColMinimumNights)
	if err != nil {
		return nil, err
	}
	reviews, err := intColumn(df, ColNumberOfReviews)
	if err != nil {
		return nil, err
	}
	avail, err := intColumn(df, ColAvailability365)
	if err != nil {
		return nil, err
	}

	names := nullStringColumn(df, ColName)
	hostNames := nullStringColumn(df, ColHostName)
	groups := nullStringColumn(df, ColNeighbourhoodGroup)
	hoods := nullStringColumn(df, ColNeighbourhood)
	rooms := nullStringColumn(df, ColRoomType)
	lastReviews := nullStringColumn(df, ColLastReview)

	out := make([]*models.Listing, df.Nrow())
	for i := range out {
		out[i] = &models.Listing{
			ID:                 int64(ids[i]),
			Name:               names[i],
			HostID:             int64(hostIDs[i]),
			HostName:           hostNames[i],
			NeighbourhoodGroup: groups[i].String,
			Neighbourhood:      hoods[i].String,
			RoomType:           rooms[i].String,
			Price:              prices[i],
			MinimumNights:      nights[i],
			NumberOfReviews:    reviews[i],
			Availability365:    avail[i],
			LastReviewRaw:      lastReviews[i].String,
		}
	}
	return out, nil
}

func intColumn(df dataframe.DataFrame, name string) ([]int, error) {
	s := df.Col(name)
	if s.Err != nil {
		return nil, fmt.Errorf("%w: column %q: %v", ErrSchema, name, s.Err)
	}
	out := make([]int, s.Len())
	for i := range out {
		e := s.Elem(i)
		if e.IsNA() {
			return nil, fmt.Errorf("%w: column %q row %d: missing or non-integer value", ErrSchema, name, i+1)
		}
		v, err := e.Int()
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %v", ErrSchema, name, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func nullStringColumn(df dataframe.DataFrame, name string) []sql.NullString {
	s := df.Col(name)
	missing := s.IsNaN()
	values := s.Records()
	out := make([]sql.NullString, len(values))
	for i, v := range values {
		if missing[i] {
			continue
		}
		out[i] = sql.NullString{String: v, Valid: true}
	}
	return out
}
