package utils

import (
	"fmt"
	"math"
)

// FormatDistance renders meters as kilometers with two decimals.
func FormatDistance(meters float64) string {
	return FormatKilometers(meters / MetersPerKilometer)
}

func FormatKilometers(km float64) string {
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0.01 {
		return ZeroDistance
	}
	return fmt.Sprintf("%.2f %s", km, UnitKilometers)
}
