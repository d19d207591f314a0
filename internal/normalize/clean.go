// Package normalize cleans raw OCR output from scanned compliance orders.
//
// Scanned provident-fund orders arrive as noisy OCR text: broken hyphenation,
// symbol runs from table borders, garbage lines where the engine chewed on a
// stamp or signature, and a handful of recurring character substitutions.
// Clean produces the working text every downstream extractor consumes;
// Render produces a human-readable view with promoted section headers.
package normalize

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)

	// Hyphenated word split across a line break, continuation lowercase.
	reHyphenBreak = regexp.MustCompile(`(\w+)-\s*\n\s*([a-z]\w*)`)

	// Symbol runs left behind by table borders and signature rules.
	reDashRun       = regexp.MustCompile(`-{3,}`)
	reUnderscoreRun = regexp.MustCompile(`_{2,}`)
	rePipeRun       = regexp.MustCompile(`\|{2,}`)
	reEqualsRun     = regexp.MustCompile(`={3,}`)
	reHashRun       = regexp.MustCompile(`\s*##+\s*`)
)

// knownArtifacts are literal noise strings the OCR engine produces on this
// document corpus (stamp fragments, border remnants).
var knownArtifacts = []string{
	"Jag=",
	"bE |",
	"3a DES",
	"|",
}

// substitutions fixes recurring OCR character-confusion errors.
var substitutions = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`\btbe\b`), "the"},
	{regexp.MustCompile(`\bTbe\b`), "The"},
	{regexp.MustCompile(`\baod\b`), "and"},
	{regexp.MustCompile(`\bOrgaoisation\b`), "Organisation"},
	{regexp.MustCompile(`\bOrgaoization\b`), "Organization"},
	{regexp.MustCompile(`\bProvideot\b`), "Provident"},
	{regexp.MustCompile(`\bEstablishmeot\b`), "Establishment"},
}

// garbageMinLength is the non-space length above which the density filter
// applies. Short fragments like "No." or "20-10-2023" must survive.
const garbageMinLength = 5

// Clean removes OCR artifacts and garbage lines from raw text.
// It never fails: empty input yields empty output.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	text := reCRLF.ReplaceAllString(raw, "\n")
	text = reTabs.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			// Collapse runs of blank lines to a single separator.
			if len(kept) > 0 && kept[len(kept)-1] != "" {
				kept = append(kept, "")
			}
			continue
		}

		if isGarbageLine(stripped) {
			continue
		}

		for _, artifact := range knownArtifacts {
			stripped = strings.ReplaceAll(stripped, artifact, "")
		}
		stripped = strings.TrimSpace(stripped)
		if stripped != "" {
			kept = append(kept, stripped)
		}
	}

	text = strings.Join(kept, "\n")

	// Rejoin words hyphenated across line breaks.
	text = reHyphenBreak.ReplaceAllString(text, "$1$2")

	text = reDashRun.ReplaceAllString(text, "")
	text = reUnderscoreRun.ReplaceAllString(text, " ")
	text = rePipeRun.ReplaceAllString(text, "")
	text = reEqualsRun.ReplaceAllString(text, "")
	text = reHashRun.ReplaceAllString(text, " ")

	for _, sub := range substitutions {
		text = sub.re.ReplaceAllString(text, sub.replacement)
	}

	text = reMultiSpace.ReplaceAllString(text, " ")
	text = reMultiBlank.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// isGarbageLine reports whether a line is mostly non-alphanumeric symbols.
// A line longer than garbageMinLength non-space characters with under 50%
// alphanumeric density is OCR noise ("||..//", border fragments).
func isGarbageLine(line string) bool {
	alnum := 0
	total := 0
	for _, r := range line {
		if r == ' ' {
			continue
		}
		total++
		if isAlnum(r) {
			alnum++
		}
	}
	if total <= garbageMinLength {
		return false
	}
	return float64(alnum)/float64(total) < 0.5
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
