package core

import (
	"fmt"
	"time"
)

// MonthString formats a month number as the two-digit key used by the budget
// store ("01".."12").
func MonthString(month int) string {
	return fmt.Sprintf("%02d", month)
}

// MonthLabel formats a year/month pair as "YYYY-MM". The lexicographic order
// of labels matches chronological order.
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// ValidMonth reports whether month is in 1..12.
func ValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// MonthBounds returns the first and last day of the given calendar month.
// The end bound is the first day of the next month minus one day, so
// December rolls over to January of the following year.
func MonthBounds(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return start, end
}

// PreviousMonth steps one month back with explicit year rollover.
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
