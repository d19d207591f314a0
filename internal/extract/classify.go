package extract

import "regexp"

// Case-type labels. 7A orders determine dues; 14B orders levy damages for
// delayed remittance. A document scoring equally for both is "mixed".
const (
	CaseType7A      = "7A"
	CaseType14B     = "14B"
	CaseTypeMixed   = "mixed"
	CaseTypeUnknown = "unknown"
)

// Compliance outcome labels.
const (
	OutcomeCompliant    = "compliant"
	OutcomeNonCompliant = "non_compliant"
	OutcomeUnknown      = "unknown"
)

// Classification is the scored result of classifying one document.
type Classification struct {
	CaseType      string
	Outcome       string
	Confidence    float64
	TypeScores    map[string]int
	OutcomeScores map[string]int
}

// Classifier scores case type and compliance outcome from weighted pattern
// matches. Construct once and reuse; it is read-only after creation.
type Classifier struct {
	typeIndicators    map[string][]*regexp.Regexp
	outcomeIndicators map[string][]*regexp.Regexp
}

// NewClassifier compiles the indicator pattern tables.
func NewClassifier() *Classifier {
	return &Classifier{
		typeIndicators: map[string][]*regexp.Regexp{
			CaseType7A: compileAll(
				`section\s*7[- ]?a`,
				`7a\s*(?:order|determination)`,
				`determination\s+of\s+dues`,
				`arrears?\s+(?:of|assessment)`,
			),
			CaseType14B: compileAll(
				`section\s*14[- ]?b`,
				`14b\s*(?:order|penalty)`,
				`penalty\s+(?:for|under)`,
				`delayed\s+remittance`,
				`penal\s+damages?`,
			),
		},
		outcomeIndicators: map[string][]*regexp.Regexp{
			OutcomeNonCompliant: compileAll(
				`failed\s+to\s+comply`,
				`non-?compliance`,
				`dues?\s+(?:confirmed|assessed)`,
				`default\s+assessment`,
				`penalty\s+(?:imposed|levied)`,
				`liable\s+to\s+pay`,
			),
			OutcomeCompliant: compileAll(
				`no\s+discrepancy`,
				`records?\s+verified`,
				`(?:case|matter)\s+disposed`,
				`compliant`,
				`in\s+order`,
			),
		},
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

// Classify scores the document. Score per category is the total match count
// across its patterns; confidence is min(1, total matches across both
// tables / 10). Empty input is deterministically unknown/unknown/0.
func (c *Classifier) Classify(text string) Classification {
	result := Classification{
		CaseType:      CaseTypeUnknown,
		Outcome:       OutcomeUnknown,
		TypeScores:    map[string]int{},
		OutcomeScores: map[string]int{},
	}
	if isBlank(text) {
		return result
	}

	for caseType, patterns := range c.typeIndicators {
		result.TypeScores[caseType] = countMatches(patterns, text)
	}
	for outcome, patterns := range c.outcomeIndicators {
		result.OutcomeScores[outcome] = countMatches(patterns, text)
	}

	score7A := result.TypeScores[CaseType7A]
	score14B := result.TypeScores[CaseType14B]
	switch {
	case score7A > 0 && score14B > 0 && score7A > score14B:
		result.CaseType = CaseType7A
	case score7A > 0 && score14B > 0 && score14B > score7A:
		result.CaseType = CaseType14B
	case score7A > 0 && score14B > 0:
		result.CaseType = CaseTypeMixed
	case score7A > 0:
		result.CaseType = CaseType7A
	case score14B > 0:
		result.CaseType = CaseType14B
	}

	nonCompliant := result.OutcomeScores[OutcomeNonCompliant]
	compliant := result.OutcomeScores[OutcomeCompliant]
	switch {
	case nonCompliant > compliant:
		result.Outcome = OutcomeNonCompliant
	case compliant > 0:
		result.Outcome = OutcomeCompliant
	}

	total := score7A + score14B + nonCompliant + compliant
	result.Confidence = float64(total) / 10.0
	if result.Confidence > 1.0 {
		result.Confidence = 1.0
	}

	return result
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	total := 0
	for _, re := range patterns {
		total += len(re.FindAllStringIndex(text, -1))
	}
	return total
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
