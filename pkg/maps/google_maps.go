package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"routebook/internal/models"
)

// GoogleGeocoder resolves addresses with the Google Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
}

func NewGoogleGeocoder(apiKey string, options ...maps.ClientOption) (*GoogleGeocoder, error) {
	options = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, options...)

	client, err := maps.NewClient(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleGeocoder{
		client: client,
	}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.Coordinate{}, models.ErrInvalidAddress
	}

	resp, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return models.Coordinate{}, fmt.Errorf("%w: %q", models.ErrAddressNotFound, address)
		}
		return models.Coordinate{}, fmt.Errorf("%w: %w", models.ErrGeocodingUnavailable, err)
	}

	if len(resp) == 0 {
		return models.Coordinate{}, fmt.Errorf("%w: %q", models.ErrAddressNotFound, address)
	}

	location := resp[0].Geometry.Location
	coordinate := models.Coordinate{Latitude: location.Lat, Longitude: location.Lng}
	if err := coordinate.Validate(); err != nil {
		return models.Coordinate{}, err
	}

	return coordinate, nil
}
