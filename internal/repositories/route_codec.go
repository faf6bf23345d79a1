package repositories

import (
	"encoding/json"
	"fmt"

	"routebook/internal/models"
)

// RouteCodec converts route paths and waypoints to and from the opaque
// strings stored on a record. A nil slice encodes to nil, which is distinct
// from the encoding of an empty slice.
type RouteCodec struct{}

func (RouteCodec) Encode(path []models.RoutePath, waypoints []models.Waypoint) (*string, *string, error) {
	encodedPath, err := encodeJSON(path, path == nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode path: %w", err)
	}
	encodedWaypoints, err := encodeJSON(waypoints, waypoints == nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode waypoints: %w", err)
	}
	return encodedPath, encodedWaypoints, nil
}

func (RouteCodec) Decode(encodedPath, encodedWaypoints *string) ([]models.RoutePath, []models.Waypoint, error) {
	var path []models.RoutePath
	if encodedPath != nil {
		if err := json.Unmarshal([]byte(*encodedPath), &path); err != nil {
			return nil, nil, fmt.Errorf("%w: path: %w", models.ErrCorruptRouteData, err)
		}
	}

	var waypoints []models.Waypoint
	if encodedWaypoints != nil {
		if err := json.Unmarshal([]byte(*encodedWaypoints), &waypoints); err != nil {
			return nil, nil, fmt.Errorf("%w: waypoints: %w", models.ErrCorruptRouteData, err)
		}
	}

	return path, waypoints, nil
}

func encodeJSON(value interface{}, absent bool) (*string, error) {
	if absent {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	encoded := string(data)
	return &encoded, nil
}
