package extract

import (
	"regexp"
	"strings"
)

// Metadata holds the order-level identifiers parsed from cleaned text.
// Empty fields mean "absent": a missing case ID or an invalid order date is
// a data-quality gap, not an error.
type Metadata struct {
	CaseID    string
	OrderDate string // ISO YYYY-MM-DD, "" when absent or invalid
}

var (
	// Case identifier: anchored on a "Case ID" / "No." label, captured up
	// to the nearest boundary (a Date(d) keyword, a period+space, a
	// newline, or end of input).
	caseIDRE = regexp.MustCompile(`(?i)(?:case\s*id|case\s*no\.?|\bno\.)\s*[:\-]?\s*([0-9A-Za-z][0-9A-Za-z/\- ]*?)\s*(?:dated?\b|\.\s|\n|$)`)

	// Order date, numeric form: "Date: 15-08-2018", "Dated 2/7/2018".
	numericOrderDateRE = regexp.MustCompile(`(?i)dated?\s*[:\s]\s*(\d{1,2}[-./]\d{1,2}[-./]\d{4})`)

	// Order date, textual-month form: "Dated: 5th March 2023".
	textualOrderDateRE = regexp.MustCompile(`(?i)dated?\s*[:\s]\s*(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]{3,9})[,.]?\s+(\d{4})`)
)

// ParseMetadata extracts the case identifier and order date from cleaned
// text. Dates that are not valid calendar dates are reported as absent.
func ParseMetadata(text string) Metadata {
	var md Metadata
	if isBlank(text) {
		return md
	}

	if m := caseIDRE.FindStringSubmatch(text); m != nil {
		md.CaseID = strings.TrimSpace(m[1])
	}

	if m := numericOrderDateRE.FindStringSubmatch(text); m != nil {
		md.OrderDate = NormalizeDate(m[1])
	}
	if md.OrderDate == "" {
		if m := textualOrderDateRE.FindStringSubmatch(text); m != nil {
			md.OrderDate = NormalizeTextualDate(m[1], m[2], m[3])
		}
	}

	return md
}
