// Package extract turns cleaned order text into typed facts: case metadata,
// case-type and outcome classification, the hearing timeline, cause/effect
// relations, and the financial dues breakdown.
//
// Every extractor is rule-based: fixed pattern tables compiled once and
// reused across documents. Extractors hold no per-document state, never
// panic on malformed input, and report "nothing found" as empty results.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateTokenRE matches any day-first numeric date fragment. Shared by the
// timeline extractor for context-window bounding.
var dateTokenRE = regexp.MustCompile(`\d{1,2}[./-]\d{1,2}[./-]\d{4}`)

// monthsByName covers the textual-month date form ("5 March 2023").
var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// NormalizeDate converts a day-first numeric date fragment ("15.08.2018",
// "2/7/2018") to ISO YYYY-MM-DD. The value must be a real calendar date:
// "68-07-2025" or month 13 yield "", never the raw string.
func NormalizeDate(fragment string) string {
	clean := strings.NewReplacer("/", "-", ".", "-").Replace(fragment)
	parts := strings.Split(clean, "-")
	if len(parts) != 3 {
		return ""
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ""
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return ""
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return ""
	}

	return calendarDate(year, month, day)
}

// NormalizeTextualDate converts a "D Month YYYY" triple to ISO, with the
// same calendar validation as NormalizeDate.
func NormalizeTextualDate(dayStr, monthName, yearStr string) string {
	day, err := strconv.Atoi(strings.TrimSpace(dayStr))
	if err != nil {
		return ""
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		return ""
	}

	key := strings.ToLower(strings.TrimSpace(monthName))
	if len(key) > 3 {
		key = key[:3]
	}
	month, ok := monthsByName[key]
	if !ok {
		return ""
	}

	return calendarDate(year, int(month), day)
}

// calendarDate validates (year, month, day) as a real calendar date and
// formats it as ISO. time.Date normalizes overflow (Feb 30 → Mar 2), so the
// round-trip comparison is the validity check.
func calendarDate(year, month, day int) string {
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1 {
		return ""
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return ""
	}
	return t.Format("2006-01-02")
}
