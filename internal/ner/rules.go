package ner

import (
	"context"
	"regexp"
	"strings"
)

// Rules is the deterministic extractor: fixed pattern tables per entity
// type, tuned to the phrasing of provident-fund compliance orders.
// Construct once and reuse; it holds no per-document state.
type Rules struct {
	table []entityPatternSet
}

type entityPatternSet struct {
	entityType string
	patterns   []*regexp.Regexp
}

// NewRules compiles the entity pattern tables. Name-bearing patterns stay
// case-sensitive so the capital-letter anchors hold; label-only patterns
// are case-insensitive.
func NewRules() *Rules {
	return &Rules{
		table: []entityPatternSet{
			{TypeJudge, compilePatterns(
				`(?:[Bb]efore|BEFORE)\s+(?:Shri\.?|Smt\.?|Sri\.?)?\s*([A-Z][A-Za-z. ]+?),?\s*(?:APFC|RPFC|Assistant\s+Provident\s+Fund\s+Commissioner|Regional\s+Provident\s+Fund\s+Commissioner|Presiding\s+Officer)`,
				`(?:APFC|RPFC|Commissioner)\s+(?:Shri\.?|Smt\.?|Sri\.?)\s*([A-Z][A-Za-z. ]+?)(?:\s*\n|,|\.\s)`,
			)},
			{TypeEstablishment, compilePatterns(
				`M/s\.?\s*([A-Z][A-Za-z0-9&.\- ]*?(?:Pvt\.?\s*Ltd\.?|Private\s+Limited|Ltd\.?|Limited))`,
				`(?:establishment|employer),?\s+([A-Z][A-Za-z0-9&.\- ]*?(?:Pvt\.?\s*Ltd\.?|Private\s+Limited|Ltd\.?|Limited))`,
			)},
			{TypeRepresentative, compilePatterns(
				`(?:Shri\.?|Smt\.?|Sri\.?)\s*([A-Z][A-Za-z. ]+?)\s*(?:\([^)]*\)\s*)?(?:appeared|present|represent)`,
				`([A-Z][A-Za-z. ]+?),?\s*(?:Authori[sz]ed\s+Representative|Advocate|Counsel)`,
			)},
			{TypeAct, compilePatterns(
				`((?:the\s+)?Employees['\x60]?\s+Provident\s+Funds?(?:\s+(?:and|&)\s+Miscellaneous\s+Provisions)?\s+Act,?\s*(?:1952)?)`,
				`(?i)((?:the\s+)?EPF\s*&?\s*MP\s+Act,?\s*(?:1952)?)`,
			)},
			{TypeSection, compilePatterns(
				`(?i)section\s+(\d+[A-Z]?(?:\(\w+\))?)`,
				`(?i)u/s\.?\s*(\d+[A-Z]?(?:\(\w+\))?)`,
			)},
			{TypeAmount, compilePatterns(
				`((?:Rs\.?|₹)\s*[\d,]+(?:\.\d+)?(?:\s*/-)?)`,
			)},
			{TypeDate, compilePatterns(
				`(\d{1,2}[./-]\d{1,2}[./-]\d{4})`,
			)},
		},
	}
}

// Extract runs every pattern of every type and dedupes values
// case-insensitively in first-seen order. Never returns an error; the
// signature matches the Extractor contract.
func (r *Rules) Extract(_ context.Context, text string) (map[string][]string, error) {
	entities := map[string][]string{}
	if strings.TrimSpace(text) == "" {
		return entities, nil
	}

	for _, set := range r.table {
		seen := map[string]bool{}
		var values []string
		for _, re := range set.patterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				if len(m) < 2 {
					continue
				}
				value := strings.TrimSpace(m[1])
				if value == "" {
					continue
				}
				key := strings.ToLower(value)
				if seen[key] {
					continue
				}
				seen[key] = true
				values = append(values, value)
			}
		}
		if len(values) > 0 {
			entities[set.entityType] = values
		}
	}
	return entities, nil
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}
