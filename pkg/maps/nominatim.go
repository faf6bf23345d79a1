package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"routebook/internal/models"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimGeocoder resolves addresses with the OpenStreetMap Nominatim search API.
type NominatimGeocoder struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

type nominatimCandidate struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewNominatimGeocoder(config ClientConfig) *NominatimGeocoder {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimGeocoder{
		httpClient: config.httpClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  config.UserAgent,
	}
}

// Geocode returns the coordinate of the first search candidate.
func (n *NominatimGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.Coordinate{}, models.ErrInvalidAddress
	}

	apiURL := fmt.Sprintf("%s/search?format=json&q=%s", n.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: %w", models.ErrGeocodingUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: failed to read response: %w", models.ErrGeocodingUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Coordinate{}, fmt.Errorf("%w: nominatim returned status %d", models.ErrGeocodingUnavailable, resp.StatusCode)
	}

	var candidates []nominatimCandidate
	if err := json.Unmarshal(body, &candidates); err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: failed to unmarshal response: %w", models.ErrGeocodingUnavailable, err)
	}

	if len(candidates) == 0 {
		return models.Coordinate{}, fmt.Errorf("%w: %q", models.ErrAddressNotFound, address)
	}

	first := candidates[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to parse latitude %q: %w", first.Lat, err)
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to parse longitude %q: %w", first.Lon, err)
	}

	coordinate := models.Coordinate{Latitude: lat, Longitude: lon}
	if err := coordinate.Validate(); err != nil {
		return models.Coordinate{}, err
	}

	return coordinate, nil
}
