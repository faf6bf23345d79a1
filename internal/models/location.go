package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Coordinate is a point in the app-internal (latitude, longitude) order.
type Coordinate struct {
	Latitude  float64 `json:"lat" bson:"lat"`
	Longitude float64 `json:"lng" bson:"lng"`
}

func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// Position converts to provider (longitude, latitude) order.
func (c Coordinate) Position() Position {
	return Position{c.Longitude, c.Latitude}
}

// Position is a GeoJSON position: [longitude, latitude].
type Position [2]float64

func (p Position) Longitude() float64 {
	return p[0]
}

func (p Position) Latitude() float64 {
	return p[1]
}

// Coordinate swaps the provider axis order into the internal one.
func (p Position) Coordinate() Coordinate {
	return Coordinate{Latitude: p[1], Longitude: p[0]}
}

// UnmarshalJSON accepts exactly two finite numbers.
func (p *Position) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: position: %v", ErrMalformedRouteResponse, err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("%w: position has %d components", ErrMalformedRouteResponse, len(raw))
	}
	for _, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: position component is not finite", ErrMalformedRouteResponse)
		}
	}
	p[0], p[1] = raw[0], raw[1]
	return nil
}
