package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routebook/internal/models"
)

var (
	moscow = models.Coordinate{Latitude: 55.7505412, Longitude: 37.6174782}
	spb    = models.Coordinate{Latitude: 59.9606739, Longitude: 30.1586551}
)

const moscowSPBResponse = `{
	"code": "Ok",
	"routes": [{
		"geometry": {"type": "LineString", "coordinates": [[37.617478, 55.750541], [33.5, 57.9], [30.158655, 59.960674]]},
		"duration": 30241.4,
		"distance": 635012.3,
		"weight": 30241.4,
		"weight_name": "routability",
		"legs": [{"summary": "М-11", "duration": 30241.4, "distance": 635012.3, "steps": [
			{"name": "", "mode": "driving", "duration": 10, "distance": 50,
			 "maneuver": {"type": "depart", "location": [37.617478, 55.750541]}}
		]}]
	}],
	"waypoints": [
		{"name": "Red Square", "location": [37.617478, 55.750541]},
		{"name": "", "location": [30.158655, 59.960674]}
	]
}`

func newOSRMServer(t *testing.T, handler http.HandlerFunc) *OSRMRouter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOSRMRouter(ClientConfig{BaseURL: server.URL})
}

func TestOSRMRouteURLSwapsAxes(t *testing.T) {
	router := NewOSRMRouter(ClientConfig{BaseURL: "https://routing.example"})

	got := router.RouteURL(
		models.Coordinate{Latitude: 55.75, Longitude: 37.61},
		models.Coordinate{Latitude: 59.96, Longitude: 30.15},
		models.TravelModeFoot,
	)

	assert.Equal(t, "https://routing.example/routed-foot/route/v1/foot/37.61,55.75;30.15,59.96?overview=full&geometries=geojson&steps=true", got)
}

func TestOSRMRouteURLProfiles(t *testing.T) {
	router := NewOSRMRouter(ClientConfig{BaseURL: "https://routing.example"})

	tests := []struct {
		mode    models.TravelMode
		profile string
	}{
		{models.TravelModeCar, "car"},
		{models.TravelModeFoot, "foot"},
		{models.TravelModeBike, "bike"},
		{"", "car"},
		{"scooter", "car"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := router.RouteURL(moscow, spb, tt.mode)
			assert.Contains(t, got, "/routed-"+tt.profile+"/route/v1/"+tt.profile+"/")
		})
	}
}

func TestOSRMRouteMoscowToSaintPetersburg(t *testing.T) {
	router := newOSRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/routed-car/route/v1/car/37.6174782,55.7505412;30.1586551,59.9606739", r.URL.Path)
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		assert.Equal(t, "true", r.URL.Query().Get("steps"))
		_, _ = w.Write([]byte(moscowSPBResponse))
	})

	result, err := router.Route(context.Background(), moscow, spb, models.TravelModeCar)
	require.NoError(t, err)

	first, ok := result.FirstPath()
	require.True(t, ok)
	assert.InDelta(t, 635000, first.Distance, 1000)
	assert.Greater(t, first.Duration, 0.0)
	require.Len(t, first.Geometry.Coordinates, 3)
	assert.Equal(t, 55.750541, first.Geometry.Path()[0].Latitude)

	require.Len(t, result.Waypoints, 2)
	assert.Equal(t, 37.617478, result.Waypoints[0].Location.Longitude())
}

func TestOSRMRoutePassesThroughEmptyRoutes(t *testing.T) {
	router := newOSRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[],"waypoints":[]}`))
	})

	result, err := router.Route(context.Background(), moscow, spb, models.TravelModeCar)
	require.NoError(t, err)

	_, ok := result.FirstPath()
	assert.False(t, ok)
}

func TestOSRMRouteNoRouteStatusIsEmptyResult(t *testing.T) {
	for _, code := range []string{"NoRoute", "NoSegment"} {
		t.Run(code, func(t *testing.T) {
			router := newOSRMServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"code":"` + code + `","message":"Impossible route between points","routes":[],"waypoints":[]}`))
			})

			result, err := router.Route(context.Background(), moscow, spb, models.TravelModeFoot)
			require.NoError(t, err)
			assert.Equal(t, code, result.Code)

			_, ok := result.FirstPath()
			assert.False(t, ok)
		})
	}
}

func TestOSRMRouteClientErrorWithoutCode(t *testing.T) {
	router := newOSRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	})

	_, err := router.Route(context.Background(), moscow, spb, models.TravelModeCar)
	assert.ErrorIs(t, err, models.ErrRoutingUnavailable)
}

func TestOSRMRouteServerError(t *testing.T) {
	router := newOSRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := router.Route(context.Background(), moscow, spb, models.TravelModeCar)
	assert.ErrorIs(t, err, models.ErrRoutingUnavailable)
}

func TestOSRMRouteTransportError(t *testing.T) {
	router := NewOSRMRouter(ClientConfig{
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("timeout")
		})},
	})

	_, err := router.Route(context.Background(), moscow, spb, models.TravelModeCar)
	assert.ErrorIs(t, err, models.ErrRoutingUnavailable)
}

func TestOSRMRouteMalformedPayload(t *testing.T) {
	payloads := map[string]string{
		"not json":           `<html>`,
		"short position":     `{"routes":[{"geometry":{"type":"LineString","coordinates":[[37.6]]},"duration":1,"distance":1}],"waypoints":[]}`,
		"negative distance":  `{"routes":[{"geometry":{"type":"LineString","coordinates":[]},"duration":1,"distance":-5}],"waypoints":[]}`,
		"waypoint off globe": `{"routes":[],"waypoints":[{"location":[200,10]}]}`,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			router := newOSRMServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(payload))
			})

			_, err := router.Route(context.Background(), moscow, spb, models.TravelModeCar)
			assert.ErrorIs(t, err, models.ErrMalformedRouteResponse)
		})
	}
}
