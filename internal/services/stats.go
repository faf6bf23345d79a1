package services

import (
	"strconv"
	"time"

	"routebook/internal/models"
	"routebook/internal/utils"
)

const (
	LabelRouteCount    = "Количество сохраненных маршрутов"
	LabelTotalDistance = "Общая дистанция"
	LabelCarDistance   = "Общее расстояние (на авто)"
	LabelFootDistance  = "Общее расстояние (пешком)"
	LabelBikeDistance  = "Общее расстояние (на велосипеде)"
	LabelTotalDuration = "Суммарное время в пути"
)

// Aggregate sums distances and durations. Missing values count as zero and
// routes with an unknown mode only reach the overall totals.
func Aggregate(routes []models.LoadedRoute) models.RouteTotals {
	var totals models.RouteTotals

	for i := range routes {
		route := &routes[i]
		distance := valueOrZero(route.Distance)

		totals.TotalDistance += distance
		totals.TotalDuration += valueOrZero(route.Duration)

		switch route.Mode {
		case models.TravelModeCar:
			totals.CarDistance += distance
		case models.TravelModeFoot:
			totals.FootDistance += distance
		case models.TravelModeBike:
			totals.BikeDistance += distance
		}
	}

	return totals
}

// BuildStatRows compares the previous calendar month, in now's location,
// against all time.
func BuildStatRows(routes []models.LoadedRoute, now time.Time) []models.StatRow {
	lastMonth := make([]models.LoadedRoute, 0, len(routes))
	for i := range routes {
		if !routes[i].CreatedAt.IsZero() && utils.InPreviousMonth(routes[i].CreatedAt, now) {
			lastMonth = append(lastMonth, routes[i])
		}
	}

	month := Aggregate(lastMonth)
	all := Aggregate(routes)

	return []models.StatRow{
		{Label: LabelRouteCount, LastMonth: strconv.Itoa(len(lastMonth)), AllTime: strconv.Itoa(len(routes))},
		{Label: LabelTotalDistance, LastMonth: utils.FormatDistance(month.TotalDistance), AllTime: utils.FormatDistance(all.TotalDistance)},
		{Label: LabelCarDistance, LastMonth: utils.FormatDistance(month.CarDistance), AllTime: utils.FormatDistance(all.CarDistance)},
		{Label: LabelFootDistance, LastMonth: utils.FormatDistance(month.FootDistance), AllTime: utils.FormatDistance(all.FootDistance)},
		{Label: LabelBikeDistance, LastMonth: utils.FormatDistance(month.BikeDistance), AllTime: utils.FormatDistance(all.BikeDistance)},
		{Label: LabelTotalDuration, LastMonth: utils.FormatDuration(month.TotalDuration), AllTime: utils.FormatDuration(all.TotalDuration)},
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
