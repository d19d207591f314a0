package ner

import "strings"

// minEntityLength is the shortest entity text worth persisting. Shorter
// values are OCR shrapnel far more often than real entities.
const minEntityLength = 3

// DefaultNoiseTokens are values the extractors produce on noisy scans
// that carry no information. Compared case-insensitively.
var DefaultNoiseTokens = []string{
	"the", "and", "for", "that", "this", "with",
	"page", "nil", "n/a", "sub", "ref", "order",
}

// Merge unions entity maps by type with case-insensitive deduplication.
// First appearance wins for both ordering and casing, so the
// deterministic layer's spelling takes precedence over later layers.
func Merge(maps ...map[string][]string) map[string][]string {
	merged := map[string][]string{}
	seen := map[string]map[string]bool{}

	for _, m := range maps {
		for entityType, values := range m {
			if seen[entityType] == nil {
				seen[entityType] = map[string]bool{}
			}
			for _, value := range values {
				value = strings.TrimSpace(value)
				if value == "" {
					continue
				}
				key := strings.ToLower(value)
				if seen[entityType][key] {
					continue
				}
				seen[entityType][key] = true
				merged[entityType] = append(merged[entityType], value)
			}
		}
	}
	return merged
}

// FilterEntities applies the persistence filters: minimum length and the
// noise blacklist. Types left with no values are dropped from the map.
func FilterEntities(entities map[string][]string, noiseTokens []string) map[string][]string {
	noise := map[string]bool{}
	for _, tok := range noiseTokens {
		noise[strings.ToLower(tok)] = true
	}

	filtered := map[string][]string{}
	for entityType, values := range entities {
		var kept []string
		for _, value := range values {
			if len(value) < minEntityLength {
				continue
			}
			if noise[strings.ToLower(value)] {
				continue
			}
			kept = append(kept, value)
		}
		if len(kept) > 0 {
			filtered[entityType] = kept
		}
	}
	return filtered
}
