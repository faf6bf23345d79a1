package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"routebook/internal/middleware"
	"routebook/internal/models"
	"routebook/internal/utils"
	"routebook/internal/validators"
)

type RouteService interface {
	ComputeRoute(ctx context.Context, req models.ComputeRequest) (*models.ComputedRoute, error)
	SaveRoute(ctx context.Context, route *models.ComputedRoute, ownerID string) (string, error)
	ListRoutes(ctx context.Context, ownerID string, criteria models.FilterCriteria) ([]models.LoadedRoute, error)
	DeleteRoute(ctx context.Context, routeID, requesterID string) error
	RouteStats(ctx context.Context, ownerID string) ([]models.StatRow, error)
}

type RouteHandler struct {
	routeService RouteService
}

func NewRouteHandler(routeService RouteService) *RouteHandler {
	return &RouteHandler{
		routeService: routeService,
	}
}

// ComputeRoute geocodes and routes between two addresses without saving.
func (h *RouteHandler) ComputeRoute(c *gin.Context) {
	var request models.ComputeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateComputeRequest(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	route, err := h.routeService.ComputeRoute(c.Request.Context(), request)
	if errors.Is(err, models.ErrNoRoute) && route != nil {
		// The summary still carries the addresses for display.
		utils.ErrorResponseWithData(c, http.StatusUnprocessableEntity, "NO_ROUTE", err.Error(), route)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponse(c, "Route computed successfully", route)
}

// SaveRoute stores a previously computed route for the caller.
func (h *RouteHandler) SaveRoute(c *gin.Context) {
	var request models.SaveRouteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateSaveRouteRequest(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	id, err := h.routeService.SaveRoute(c.Request.Context(), request.ToComputedRoute(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.CreatedResponse(c, "Route saved successfully", gin.H{"id": id})
}

// ListRoutes returns the caller's routes, newest first, narrowed by the
// from, to, mode and date query parameters.
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	var criteria models.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		utils.BadRequestResponse(c, "Invalid filter: "+err.Error())
		return
	}
	if errs := validators.ValidateFilterCriteria(&criteria); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	routes, err := h.routeService.ListRoutes(c.Request.Context(), middleware.OwnerID(c), criteria)
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Routes retrieved successfully", routes, &utils.Meta{
		Total: len(routes),
		Count: len(routes),
	})
}

func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.routeService.DeleteRoute(c.Request.Context(), c.Param("id"), middleware.OwnerID(c)); err != nil {
		h.fail(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *RouteHandler) RouteStats(c *gin.Context) {
	rows, err := h.routeService.RouteStats(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponse(c, "Route statistics retrieved successfully", rows)
}

func (h *RouteHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	utils.DomainErrorResponse(c, err)
}
