package maps

import (
	"context"
	"net/http"
	"time"

	"routebook/internal/models"
)

// Geocoder resolves a free-text address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

// Router resolves two coordinates and a travel mode to a routed path.
type Router interface {
	Route(ctx context.Context, start, end models.Coordinate, mode models.TravelMode) (*models.RouteResult, error)
}

type ClientConfig struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func (c ClientConfig) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
