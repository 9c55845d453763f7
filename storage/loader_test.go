package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-analysis/utils"
)

const sampleHeader = "id,name,host_id,host_name,neighbourhood_group,neighbourhood,latitude,longitude,room_type,price,minimum_nights,number_of_reviews,last_review,reviews_per_month,calculated_host_listings_count,availability_365\n"

func quietLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard) }

func writeSample(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesRows(t *testing.T) {
	path := writeSample(t, sampleHeader+
		"2539,Clean & quiet apt,2787,John,Brooklyn,Kensington,40.64749,-73.97237,Private room,149,1,9,2018-10-19,0.21,6,365\n"+
		"3647,,4632,Elisabeth,Manhattan,Harlem,40.80902,-73.9419,Private room,150,3,0,,,1,365\n")

	ds, err := NewLoader(quietLogger()).Load(path)
	require.NoError(t, err)
	require.Len(t, ds.Listings, 2)

	rows, cols := ds.Frame.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 16, cols)

	first := ds.Listings[0]
	assert.Equal(t, int64(2539), first.ID)
	assert.True(t, first.Name.Valid)
	assert.Equal(t, "Clean & quiet apt", first.Name.String)
	assert.Equal(t, "Brooklyn", first.NeighbourhoodGroup)
	assert.Equal(t, 149, first.Price)
	assert.Equal(t, "2018-10-19", first.LastReviewRaw)
	assert.False(t, first.LastReview.Valid, "dates are only coerced by the cleaner")

	second := ds.Listings[1]
	assert.False(t, second.Name.Valid)
	assert.Empty(t, second.LastReviewRaw)
	assert.Equal(t, 0, second.NumberOfReviews)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(quietLogger()).Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeSample(t, "id,name,host_id\n1,a,2\n")

	_, err := NewLoader(quietLogger()).Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "host_name")
}

func TestLoadNonIntegerPrice(t *testing.T) {
	path := writeSample(t, sampleHeader+
		"1,a,2,b,Queens,Astoria,40.7,-73.9,Entire home/apt,cheap,1,1,2019-01-01,0.1,1,10\n")

	_, err := NewLoader(quietLogger()).Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), `"price"`)
}

func TestLoadMissingRequiredNumeric(t *testing.T) {
	path := writeSample(t, sampleHeader+
		"1,a,2,b,Queens,Astoria,40.7,-73.9,Entire home/apt,80,,1,2019-01-01,0.1,1,10\n")

	_, err := NewLoader(quietLogger()).Load(path)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestLoadHeaderOnly(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"header only", sampleHeader, "header without listing rows"},
		{"empty file", "", "empty file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(quietLogger()).Load(writeSample(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
