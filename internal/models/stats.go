package models

// RouteTotals holds aggregated distances in meters and durations in seconds.
type RouteTotals struct {
	TotalDistance float64 `json:"total_distance"`
	CarDistance   float64 `json:"car_distance"`
	FootDistance  float64 `json:"foot_distance"`
	BikeDistance  float64 `json:"bike_distance"`
	TotalDuration float64 `json:"total_duration"`
}

// StatRow is one displayable statistic with last-month and all-time columns.
type StatRow struct {
	Label     string `json:"label"`
	LastMonth string `json:"last_month"`
	AllTime   string `json:"all_time"`
}

// FilterCriteria selects saved routes. Empty fields are inactive.
type FilterCriteria struct {
	StartAddress string     `form:"from" json:"from"`
	EndAddress   string     `form:"to" json:"to"`
	Mode         TravelMode `form:"mode" json:"mode" validate:"omitempty,travel_mode"`
	Date         string     `form:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (c FilterCriteria) IsEmpty() bool {
	return c.StartAddress == "" && c.EndAddress == "" && c.Mode == "" && c.Date == ""
}
