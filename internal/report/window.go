package report

import (
	"fmt"
	"time"
)

// Window is a report period. Both endpoints are inclusive at second
// granularity and expressed in the stored absolute frame (UTC).
type Window struct {
	Start time.Time
	End   time.Time
}

// loadLocation resolves an IANA timezone name. Unknown or empty names
// fall back to UTC, the stored frame, instead of failing the request.
func loadLocation(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// daysIn returns the length of the civil month; leap February included.
func daysIn(year, month int) int {
	// first of next month minus a day
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1).Day()
}

// MonthWindow resolves a civil calendar month in the named timezone into
// an absolute window: local first-of-month 00:00:00 through local
// last-of-month 23:59:59. The zone's offset at that date applies, so a
// DST change inside the month shifts only the boundary it affects.
func MonthWindow(year, month int, tz string) (Window, error) {
	if month < 1 || month > 12 {
		return Window{}, fmt.Errorf("invalid month %d", month)
	}
	loc := loadLocation(tz)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := time.Date(year, time.Month(month), daysIn(year, month), 23, 59, 59, 0, loc)
	return Window{Start: start.UTC(), End: end.UTC()}, nil
}

// DayWindow resolves a civil calendar day in the named timezone into an
// absolute window: local 00:00:00 through local 23:59:59. Out-of-range
// days (such as February 29 in a non-leap year) are an error, never a
// silent roll-over into the next month.
func DayWindow(year, month, day int, tz string) (Window, error) {
	if month < 1 || month > 12 {
		return Window{}, fmt.Errorf("invalid month %d", month)
	}
	if day < 1 || day > daysIn(year, month) {
		return Window{}, fmt.Errorf("invalid day %d for %d-%02d", day, year, month)
	}
	loc := loadLocation(tz)
	start := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	end := time.Date(year, time.Month(month), day, 23, 59, 59, 0, loc)
	return Window{Start: start.UTC(), End: end.UTC()}, nil
}
