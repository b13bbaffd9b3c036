// Package dates parses the date formats found on billing documents and builds
// the date-of-service windows used to narrow order searches.
package dates

import (
	"strings"
	"time"
)

// ISOLayout is the storage format for dates of service.
const ISOLayout = "2006-01-02"

// DaysPerMonth approximates a month when widening a search window. Calendar
// month arithmetic is deliberately not used.
const DaysPerMonth = 30

const secondsPerDay = 24 * 60 * 60

// layouts are tried in order; the first that parses wins. Single digit months
// and days are accepted.
var layouts = []string{
	"2006-1-2", // YYYY-MM-DD
	"1/2/2006", // MM/DD/YYYY
	"20060102", // YYYYMMDD
	"1-2-2006", // MM-DD-YYYY
}

// Parse parses s using the accepted layouts. Surrounding whitespace is
// ignored.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Range returns the window of months*30 days either side of the parsed date,
// formatted as YYYY-MM-DD. ok is false when s does not parse.
func Range(s string, months int) (start, end string, ok bool) {
	t, ok := Parse(s)
	if !ok {
		return "", "", false
	}

	days := DaysPerMonth * months
	return t.AddDate(0, 0, -days).Format(ISOLayout), t.AddDate(0, 0, days).Format(ISOLayout), true
}

// DaysBetween returns the absolute number of whole calendar days between two
// dates. Times of day and zones are ignored.
func DaysBetween(a, b time.Time) int {
	days := dayNumber(a) - dayNumber(b)
	if days < 0 {
		return int(-days)
	}
	return int(days)
}

// dayNumber counts days since the Unix epoch. Midnight UTC divides exactly,
// so dates before 1970 need no flooring.
func dayNumber(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}
