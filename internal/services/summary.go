package services

import (
	"routebook/internal/models"
	"routebook/internal/utils"
)

// Summarize describes the first path of a result for display.
func Summarize(from, to string, result *models.RouteResult) models.RouteSummary {
	summary := models.RouteSummary{
		From:     from,
		To:       to,
		Time:     utils.NotAvailable,
		Distance: utils.NotAvailable,
	}

	if first, ok := result.FirstPath(); ok {
		summary.Time = utils.FormatDuration(first.Duration)
		summary.Distance = utils.FormatDistance(first.Distance)
	}

	return summary
}
