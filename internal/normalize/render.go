package normalize

import (
	"strings"
	"unicode"
)

// Header promotion bounds: shorter lines are labels ("No."), longer ones are
// shouted body text, neither should become a section header.
const (
	headerMinLength = 5
	headerMaxLength = 100
)

// Render formats cleaned text for human reading. Short fully-uppercase lines
// are promoted to markdown-style section headers in title case.
func Render(clean string) string {
	if clean == "" {
		return ""
	}

	lines := strings.Split(clean, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isHeaderLine(line) {
			out = append(out, "\n### "+titleCase(line)+"\n")
			continue
		}
		out = append(out, line)
	}

	rendered := strings.Join(out, "\n")
	rendered = reMultiBlank.ReplaceAllString(rendered, "\n\n")
	return strings.TrimSpace(rendered)
}

func isHeaderLine(line string) bool {
	if len(line) <= headerMinLength || len(line) >= headerMaxLength {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
