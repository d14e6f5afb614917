// Package dateutils provides the calendar helpers used by statistics
// periods, CLI flags and the CSV collaborator.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts accepted from users and files.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutDateTime = "02.01.2006 15:04"
	DateLayoutFull     = "2006-01-02 15:04:05"
	MonthLayout        = "2006-01"
)

// CommonFormats is the list of formats ParseDate tries, in order.
var CommonFormats = []string{
	DateLayoutDateTime,
	DateLayoutEuropean,
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutISO + "T15:04:05Z07:00",
	"2.1.2006 15:04",
	"2.1.2006",
	"02/01/2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseDate parses a date string using CommonFormats.
// Returns the parsed time and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("date is empty")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseMonth parses a YYYY-MM string into its year and month.
func ParseMonth(monthStr string) (int, time.Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(monthStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month '%s', expected YYYY-MM: %w", monthStr, err)
	}
	return t.Year(), t.Month(), nil
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// TruncateDay returns midnight UTC of the date's calendar day, read in the
// date's own location.
func TruncateDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InDayRange reports whether date's calendar day lies in [start, end],
// both ends inclusive and compared by day only.
func InDayRange(date, start, end time.Time) bool {
	day := TruncateDay(date)
	return !day.Before(TruncateDay(start)) && !day.After(TruncateDay(end))
}

// StartOfMonth returns the first day of the given month at midnight UTC.
func StartOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of the given month at midnight UTC.
func EndOfMonth(year int, month time.Month) time.Time {
	return StartOfMonth(year, month).AddDate(0, 1, -1)
}

// CompareDates compares two dates by calendar day and returns -1, 0 or 1.
func CompareDates(date1, date2 time.Time) int {
	d1, d2 := TruncateDay(date1), TruncateDay(date2)
	switch {
	case d1.Before(d2):
		return -1
	case d1.After(d2):
		return 1
	default:
		return 0
	}
}

// ToISODate formats a date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
