// Package dateutils provides the date normalization used for display and
// summarization.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutDisplay   = "Jan 2, 2006"
	DateLayoutMonth     = "January 2006"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutUS        = "01/02/2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutWithMonth = "2-Jan-2006"
)

// CommonFormats is the list of formats tried, in order, when parsing a
// statement date of unknown layout.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutUS,
	DateLayoutFull,
	DateLayoutWithMonth,
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"02 Jan 2006",
	DateLayoutDisplay,
	"January 2, 2006",
}

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// NormalizeDate renders a YYYY-MM-DD date as "Jan 2, 2006". The date is read
// as a UTC calendar date, so the result never depends on the local time zone.
// Any other input, including impossible dates such as 2023-02-30, is returned
// unchanged.
func NormalizeDate(raw string) string {
	if !isoDatePattern.MatchString(raw) {
		return raw
	}
	t, err := time.ParseInLocation(DateLayoutISO, raw, time.UTC)
	if err != nil {
		return raw
	}
	return t.Format(DateLayoutDisplay)
}

// ParseDate attempts to parse a date string using CommonFormats.
// Returns the parsed time and the detected format
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.ParseInLocation(format, dateStr, time.UTC); err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims and collapses whitespace runs.
func CleanDateString(dateStr string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD) in UTC.
func ToISODate(date time.Time) string {
	return date.UTC().Format(DateLayoutISO)
}

// DominantMonth returns the label ("January 2023") of the month holding the
// most parseable dates. Ties go to the earliest month. ok is false when no date
// parses.
func DominantMonth(dates []string) (label string, ok bool) {
	counts := make(map[time.Time]int)
	for _, d := range dates {
		t, _, err := ParseDate(d)
		if err != nil {
			continue
		}
		counts[time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)]++
	}

	var best time.Time
	bestCount := 0
	for month, n := range counts {
		if n > bestCount || (n == bestCount && month.Before(best)) {
			best, bestCount = month, n
		}
	}
	if bestCount == 0 {
		return "", false
	}
	return best.Format(DateLayoutMonth), true
}
