package stats

import (
	"time"

	"github.com/heartmarshall/wordclass/internal/domain"
)

// Today returns the calendar date of now in tz, formatted as YYYY-MM-DD.
func Today(now time.Time, tz *time.Location) string {
	return now.In(tz).Format(domain.DateLayout)
}

// DayStart returns the start of the current day in tz, converted to UTC.
func DayStart(now time.Time, tz *time.Location) time.Time {
	local := now.In(tz)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz).UTC()
}

// NextDayStart returns the moment the daily counters roll over, in UTC.
func NextDayStart(now time.Time, tz *time.Location) time.Time {
	// AddDate handles DST correctly, Add(24h) does not
	next := DayStart(now, tz).In(tz).AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, tz).UTC()
}

// ParseTimezone parses a timezone string, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
