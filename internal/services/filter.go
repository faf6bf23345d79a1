package services

import (
	"strings"

	"routebook/internal/models"
	"routebook/internal/utils"
	"routebook/pkg/logger"
)

// RouteFilter narrows a set of loaded routes. It never reorders.
type RouteFilter struct {
	logger *logger.Logger
}

func NewRouteFilter(log *logger.Logger) *RouteFilter {
	return &RouteFilter{logger: log}
}

type activeCriteria struct {
	from string
	to   string
	mode models.TravelMode
	date string
}

func normalizeCriteria(criteria models.FilterCriteria) activeCriteria {
	active := activeCriteria{
		from: strings.ToLower(strings.TrimSpace(criteria.StartAddress)),
		to:   strings.ToLower(strings.TrimSpace(criteria.EndAddress)),
		mode: models.TravelMode(strings.TrimSpace(string(criteria.Mode))),
		date: strings.TrimSpace(criteria.Date),
	}
	if parsed, err := utils.ParseDate(active.date); err == nil {
		active.date = utils.FormatDate(parsed)
	}
	return active
}

func (a activeCriteria) isEmpty() bool {
	return a.from == "" && a.to == "" && a.mode == "" && a.date == ""
}

// Apply returns the routes matching every active criterion. With no active
// criteria the input slice itself is returned.
func (f *RouteFilter) Apply(routes []models.LoadedRoute, criteria models.FilterCriteria) []models.LoadedRoute {
	active := normalizeCriteria(criteria)
	if active.isEmpty() {
		return routes
	}

	filtered := make([]models.LoadedRoute, 0, len(routes))
	for i := range routes {
		if f.matches(&routes[i], active) {
			filtered = append(filtered, routes[i])
		}
	}
	return filtered
}

func (f *RouteFilter) matches(route *models.LoadedRoute, criteria activeCriteria) bool {
	if criteria.from != "" && !strings.Contains(strings.ToLower(route.StartAddress), criteria.from) {
		return false
	}
	if criteria.to != "" && !strings.Contains(strings.ToLower(route.EndAddress), criteria.to) {
		return false
	}
	if criteria.mode != "" && route.Mode != criteria.mode {
		return false
	}
	if criteria.date != "" {
		if route.CreatedAt.IsZero() {
			f.logger.WithRouteID(route.ID).Warn("Route has no valid creation time, excluded from date filter")
			return false
		}
		if utils.FormatDate(route.CreatedAt) != criteria.date {
			return false
		}
	}
	return true
}
