package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatDuration renders seconds as at most the two largest non-zero units
// among days, hours and minutes. Seconds appear only when no larger unit does.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return ZeroDuration
	}

	total := int64(math.Floor(seconds))
	days := total / SecondsPerDay
	hours := (total % SecondsPerDay) / SecondsPerHour
	minutes := (total % SecondsPerHour) / SecondsPerMinute
	secs := total % SecondsPerMinute

	parts := make([]string, 0, 2)
	for _, unit := range []struct {
		value int64
		name  string
	}{
		{days, UnitDays},
		{hours, UnitHours},
		{minutes, UnitMinutes},
	} {
		if unit.value > 0 && len(parts) < 2 {
			parts = append(parts, fmt.Sprintf("%d %s", unit.value, unit.name))
		}
	}
	if len(parts) == 0 && secs > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", secs, UnitSeconds))
	}

	if len(parts) == 0 {
		return ZeroDuration
	}
	return strings.Join(parts, " ")
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

func StartOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

// StartOfPreviousMonth handles January by rolling the year back.
func StartOfPreviousMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, -1, 0)
}

// InPreviousMonth reports whether t falls in [start of previous month, start of current month) relative to now.
func InPreviousMonth(t, now time.Time) bool {
	return !t.Before(StartOfPreviousMonth(now)) && t.Before(StartOfMonth(now))
}
