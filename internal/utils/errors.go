package utils

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"routebook/internal/models"
)

// ErrorKind is the transport-neutral classification of a pipeline error.
type ErrorKind struct {
	Status int
	Code   string
}

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{models.ErrInvalidAddress, ErrorKind{http.StatusBadRequest, "INVALID_ADDRESS"}},
	{models.ErrInvalidCoordinate, ErrorKind{http.StatusBadRequest, "INVALID_COORDINATE"}},
	{models.ErrMissingOwner, ErrorKind{http.StatusUnauthorized, "MISSING_OWNER"}},
	{models.ErrNotOwner, ErrorKind{http.StatusForbidden, "NOT_OWNER"}},
	{models.ErrRouteNotFound, ErrorKind{http.StatusNotFound, "ROUTE_NOT_FOUND"}},
	{models.ErrAddressNotFound, ErrorKind{http.StatusUnprocessableEntity, "ADDRESS_NOT_FOUND"}},
	{models.ErrNoRoute, ErrorKind{http.StatusUnprocessableEntity, "NO_ROUTE"}},
	{models.ErrSuperseded, ErrorKind{http.StatusConflict, "SUPERSEDED"}},
	{models.ErrMalformedRouteResponse, ErrorKind{http.StatusBadGateway, "MALFORMED_ROUTE_RESPONSE"}},
	{models.ErrGeocodingUnavailable, ErrorKind{http.StatusServiceUnavailable, "GEOCODING_UNAVAILABLE"}},
	{models.ErrRoutingUnavailable, ErrorKind{http.StatusServiceUnavailable, "ROUTING_UNAVAILABLE"}},
	{models.ErrCorruptRouteData, ErrorKind{http.StatusInternalServerError, "CORRUPT_ROUTE_DATA"}},
	{models.ErrPersistence, ErrorKind{http.StatusInternalServerError, "PERSISTENCE_FAILURE"}},
	{context.DeadlineExceeded, ErrorKind{http.StatusGatewayTimeout, "TIMEOUT"}},
	{context.Canceled, ErrorKind{http.StatusRequestTimeout, "REQUEST_CANCELLED"}},
}

var internalErrorKind = ErrorKind{http.StatusInternalServerError, "INTERNAL_ERROR"}

// ClassifyError returns the first matching kind in priority order.
func ClassifyError(err error) ErrorKind {
	kind, _ := classify(err)
	return kind
}

func classify(err error) (ErrorKind, error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind, k.err
		}
	}
	return internalErrorKind, nil
}

// PublicMessage hides the details of server-side failures. Upstream failures
// (502, 503, 504) are named by their kind only; the wrapped transport error
// stays in the logs.
func PublicMessage(err error) string {
	kind, sentinel := classify(err)
	switch {
	case kind.Status < http.StatusInternalServerError:
		return err.Error()
	case kind.Status == http.StatusBadGateway, kind.Status == http.StatusServiceUnavailable, kind.Status == http.StatusGatewayTimeout:
		return sentinel.Error()
	default:
		return ErrInternalServer
	}
}

// DomainErrorResponse writes err with the status of its kind.
func DomainErrorResponse(c *gin.Context, err error) {
	kind := ClassifyError(err)
	ErrorResponse(c, kind.Status, kind.Code, PublicMessage(err))
}
