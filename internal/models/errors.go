package models

import "errors"

var ErrAddressNotFound = errors.New("address not found")
var ErrGeocodingUnavailable = errors.New("geocoding service unavailable")
var ErrRoutingUnavailable = errors.New("routing service unavailable")
var ErrCorruptRouteData = errors.New("corrupt route data")
var ErrMissingOwner = errors.New("owner id is required")
var ErrNotOwner = errors.New("requester does not own this route")
var ErrPersistence = errors.New("route storage failure")

var ErrInvalidAddress = errors.New("address must not be empty")
var ErrInvalidCoordinate = errors.New("coordinate out of range")

// ErrMalformedRouteResponse means the routing provider answered with a payload
// that does not match the expected route shape.
var ErrMalformedRouteResponse = errors.New("malformed routing response")

// ErrNoRoute is returned alongside a routing result that carries no first path.
var ErrNoRoute = errors.New("no route between the given points")

var ErrRouteNotFound = errors.New("route not found")

// ErrSuperseded reports a planning result discarded because a newer request
// from the same session started after it.
var ErrSuperseded = errors.New("route computation superseded by a newer request")

// ErrNotFound is returned by document stores for missing documents.
var ErrNotFound = errors.New("document not found")
