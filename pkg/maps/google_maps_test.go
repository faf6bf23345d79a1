package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"routebook/internal/models"
)

func newGoogleGeocoder(t *testing.T, body string) *GoogleGeocoder {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	geocoder, err := NewGoogleGeocoder("test-key", maps.WithBaseURL(server.URL))
	require.NoError(t, err)
	return geocoder
}

func TestGoogleGeocodeFirstResult(t *testing.T) {
	geocoder := newGoogleGeocoder(t, `{"status":"OK","results":[
		{"formatted_address":"Saint Petersburg","geometry":{"location":{"lat":59.9343,"lng":30.3351}}}
	]}`)

	coordinate, err := geocoder.Geocode(context.Background(), "Санкт-Петербург")
	require.NoError(t, err)
	assert.Equal(t, models.Coordinate{Latitude: 59.9343, Longitude: 30.3351}, coordinate)
}

func TestGoogleGeocodeZeroResults(t *testing.T) {
	geocoder := newGoogleGeocoder(t, `{"status":"ZERO_RESULTS","results":[]}`)

	_, err := geocoder.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, models.ErrAddressNotFound)
}

func TestGoogleGeocodeProviderError(t *testing.T) {
	geocoder := newGoogleGeocoder(t, `{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`)

	_, err := geocoder.Geocode(context.Background(), "Москва")
	assert.ErrorIs(t, err, models.ErrGeocodingUnavailable)
}
