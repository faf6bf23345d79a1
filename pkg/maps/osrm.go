package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"routebook/internal/models"
)

const DefaultRoutingURL = "https://routing.openstreetmap.de"

// OSRMRouter requests routes from the FOSSGIS OSRM deployment, which serves
// one backend per travel profile under /routed-{profile}.
type OSRMRouter struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewOSRMRouter(config ClientConfig) *OSRMRouter {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultRoutingURL
	}
	return &OSRMRouter{
		httpClient: config.httpClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  config.UserAgent,
	}
}

// RouteURL builds the request URL. Coordinates go out in longitude,latitude order.
func (o *OSRMRouter) RouteURL(start, end models.Coordinate, mode models.TravelMode) string {
	profile := mode.Profile()
	return fmt.Sprintf("%s/routed-%s/route/v1/%s/%s,%s;%s,%s?overview=full&geometries=geojson&steps=true",
		o.baseURL, profile, profile,
		formatCoordinate(start.Longitude), formatCoordinate(start.Latitude),
		formatCoordinate(end.Longitude), formatCoordinate(end.Latitude),
	)
}

// Route passes the provider result through as-is, including results with
// no routes. Callers check FirstPath before using it.
func (o *OSRMRouter) Route(ctx context.Context, start, end models.Coordinate, mode models.TravelMode) (*models.RouteResult, error) {
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}
	if err := end.Validate(); err != nil {
		return nil, fmt.Errorf("invalid end: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.RouteURL(start, end, mode), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if o.userAgent != "" {
		req.Header.Set("User-Agent", o.userAgent)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRoutingUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", models.ErrRoutingUnavailable, err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return noRouteResult(body, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: routing returned status %d", models.ErrRoutingUnavailable, resp.StatusCode)
	}

	var result models.RouteResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrMalformedRouteResponse, err)
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return &result, nil
}

// noRouteResult turns a 4xx answer carrying a provider code (NoRoute,
// NoSegment, ...) into an empty result. Anything else stays unavailable.
func noRouteResult(body []byte, status int) (*models.RouteResult, error) {
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == "" || payload.Code == "Ok" {
		return nil, fmt.Errorf("%w: routing returned status %d", models.ErrRoutingUnavailable, status)
	}
	return &models.RouteResult{Code: payload.Code}, nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
