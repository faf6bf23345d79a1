package models

import (
	"fmt"
	"math"
	"time"
)

type TravelMode string

const (
	TravelModeCar  TravelMode = "car"
	TravelModeFoot TravelMode = "foot"
	TravelModeBike TravelMode = "bike"
)

// Profile returns the routing profile for the mode. Anything unrecognised is
// routed as a car.
func (m TravelMode) Profile() string {
	switch m {
	case TravelModeFoot:
		return string(TravelModeFoot)
	case TravelModeBike:
		return string(TravelModeBike)
	default:
		return string(TravelModeCar)
	}
}

func (m TravelMode) IsKnown() bool {
	return m == TravelModeCar || m == TravelModeFoot || m == TravelModeBike
}

// RouteResult is the routing provider response narrowed to the fields the
// pipeline uses.
type RouteResult struct {
	Code      string      `json:"code,omitempty"`
	Routes    []RoutePath `json:"routes"`
	Waypoints []Waypoint  `json:"waypoints"`
}

// FirstPath returns the first candidate path, if the provider found any.
func (r *RouteResult) FirstPath() (*RoutePath, bool) {
	if r == nil || len(r.Routes) == 0 {
		return nil, false
	}
	return &r.Routes[0], true
}

func (r *RouteResult) Validate() error {
	for i, route := range r.Routes {
		if !nonNegative(route.Duration) || !nonNegative(route.Distance) {
			return fmt.Errorf("%w: route %d has invalid duration or distance", ErrMalformedRouteResponse, i)
		}
		for _, p := range route.Geometry.Coordinates {
			if err := p.Coordinate().Validate(); err != nil {
				return fmt.Errorf("%w: route %d geometry: %v", ErrMalformedRouteResponse, i, err)
			}
		}
	}
	for i, wp := range r.Waypoints {
		if err := wp.Location.Coordinate().Validate(); err != nil {
			return fmt.Errorf("%w: waypoint %d: %v", ErrMalformedRouteResponse, i, err)
		}
	}
	return nil
}

type RoutePath struct {
	Geometry   Geometry   `json:"geometry"`
	Duration   float64    `json:"duration" validate:"min=0"` // seconds
	Distance   float64    `json:"distance" validate:"min=0"` // meters
	Weight     float64    `json:"weight,omitempty"`
	WeightName string     `json:"weight_name,omitempty"`
	Legs       []RouteLeg `json:"legs,omitempty"`
}

// Geometry is a GeoJSON LineString.
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates []Position `json:"coordinates"`
}

// Path returns the geometry in internal (latitude, longitude) order.
func (g Geometry) Path() []Coordinate {
	path := make([]Coordinate, len(g.Coordinates))
	for i, p := range g.Coordinates {
		path[i] = p.Coordinate()
	}
	return path
}

type RouteLeg struct {
	Summary  string      `json:"summary"`
	Duration float64     `json:"duration"`
	Distance float64     `json:"distance"`
	Steps    []RouteStep `json:"steps,omitempty"`
}

type RouteStep struct {
	Name     string       `json:"name"`
	Mode     string       `json:"mode"`
	Duration float64      `json:"duration"`
	Distance float64      `json:"distance"`
	Geometry *Geometry    `json:"geometry,omitempty"`
	Maneuver StepManeuver `json:"maneuver"`
}

type StepManeuver struct {
	Type     string   `json:"type"`
	Modifier string   `json:"modifier,omitempty"`
	Location Position `json:"location"`
}

// Waypoint is a provider anchor point. Location is in provider axis order.
type Waypoint struct {
	Name     string   `json:"name,omitempty"`
	Hint     string   `json:"hint,omitempty"`
	Distance float64  `json:"distance,omitempty"`
	Location Position `json:"location" validate:"position"`
}

// SavedRouteRecord is the persisted shape of a route.
type SavedRouteRecord struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"owner_id"`
	CreatedAt        time.Time  `json:"created_at"`
	StartAddress     string     `json:"start_address"`
	EndAddress       string     `json:"end_address"`
	Mode             TravelMode `json:"mode"`
	EncodedPath      *string    `json:"encoded_path"`
	EncodedWaypoints *string    `json:"encoded_waypoints"`
	Duration         *float64   `json:"duration,omitempty"`
	Distance         *float64   `json:"distance,omitempty"`
}

// LoadedRoute is a saved route with its path and waypoints decoded.
type LoadedRoute struct {
	ID           string      `json:"id"`
	OwnerID      string      `json:"owner_id"`
	CreatedAt    time.Time   `json:"created_at"`
	StartAddress string      `json:"start_address"`
	EndAddress   string      `json:"end_address"`
	Mode         TravelMode  `json:"mode"`
	Path         []RoutePath `json:"routes"`
	Waypoints    []Waypoint  `json:"waypoints"`
	Duration     *float64    `json:"duration,omitempty"`
	Distance     *float64    `json:"distance,omitempty"`
}

// Endpoints returns the start and end markers of the route in internal order.
func (r *LoadedRoute) Endpoints() (start, end Coordinate, err error) {
	if len(r.Waypoints) < 2 {
		return Coordinate{}, Coordinate{}, fmt.Errorf("route %s has %d waypoints, need 2", r.ID, len(r.Waypoints))
	}
	return r.Waypoints[0].Location.Coordinate(), r.Waypoints[1].Location.Coordinate(), nil
}

type ComputeRequest struct {
	StartAddress string     `json:"start_address" validate:"required,address,max=512"`
	EndAddress   string     `json:"end_address" validate:"required,address,max=512"`
	Mode         TravelMode `json:"mode" validate:"omitempty,travel_mode"`
}

// ComputedRoute is a routing result together with the request it answers.
type ComputedRoute struct {
	StartAddress string       `json:"start_address"`
	EndAddress   string       `json:"end_address"`
	Mode         TravelMode   `json:"mode"`
	Start        Coordinate   `json:"start"`
	End          Coordinate   `json:"end"`
	Result       *RouteResult `json:"result"`
	Summary      RouteSummary `json:"summary"`
}

type RouteSummary struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Time     string `json:"time"`
	Distance string `json:"distance"`
}

type SaveRouteRequest struct {
	StartAddress string      `json:"start_address" validate:"required,address,max=512"`
	EndAddress   string      `json:"end_address" validate:"required,address,max=512"`
	Mode         TravelMode  `json:"mode" validate:"omitempty,travel_mode"`
	Routes       []RoutePath `json:"routes" validate:"omitempty,dive"`
	Waypoints    []Waypoint  `json:"waypoints" validate:"omitempty,dive"`
}

func (r *SaveRouteRequest) ToComputedRoute() *ComputedRoute {
	route := &ComputedRoute{
		StartAddress: r.StartAddress,
		EndAddress:   r.EndAddress,
		Mode:         r.Mode,
	}
	if r.Routes != nil || r.Waypoints != nil {
		route.Result = &RouteResult{Routes: r.Routes, Waypoints: r.Waypoints}
	}
	return route
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
