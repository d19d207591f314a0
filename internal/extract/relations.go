package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Relation type labels.
const (
	RelationOfficerDirective  = "officer_directive"
	RelationFailureToSubmit   = "failure_to_submit"
	RelationConsequence       = "consequence"
	RelationPenalty           = "penalty"
	RelationDefaultAssessment = "default_assessment"
)

// relationContextPad is the surrounding context attached to each match.
const relationContextPad = 50

// Relation is one cause/effect or directive statement tied to its source
// position. Start orders relations by narrative position in the document.
type Relation struct {
	Type        string
	Text        string // full matched statement
	Object      string // first capture group
	Consequence string // second capture group, where the pattern has one
	Context     string // ±50 chars around the match
	Start       int
	End         int
}

// ComplianceGaps holds the requested / submitted / missing phrase families.
// The lists may overlap: the same phrase can legitimately appear in more
// than one list, and reconciliation is left to the consumer.
type ComplianceGaps struct {
	Requested []string
	Submitted []string
	Missing   []string
}

// RelationExtractor finds cause/effect statements using a fixed ordered
// pattern table. Construct once and reuse.
type RelationExtractor struct {
	table         []relationPatternSet
	requestedPats []*regexp.Regexp
	submittedPats []*regexp.Regexp
	missingPats   []*regexp.Regexp
}

type relationPatternSet struct {
	relationType string
	patterns     []*regexp.Regexp
}

// NewRelationExtractor compiles the relation pattern tables.
func NewRelationExtractor() *RelationExtractor {
	return &RelationExtractor{
		table: []relationPatternSet{
			{RelationOfficerDirective, compileAll(
				`(?:officer|apfc|rpfc|commissioner)\s+(?:directed|instructed|ordered)\s+(?:the\s+)?(?:employer\s+)?to\s+([^.]+)`,
				`(?:directed|instructed)\s+to\s+(?:produce|submit|provide)\s+([^.]+)`,
			)},
			{RelationFailureToSubmit, compileAll(
				`(?:employer\s+)?failed\s+to\s+(?:submit|produce|provide)\s+([^.]+)`,
				`(?:non-?submission|non-?production)\s+of\s+([^.]+)`,
				`did\s+not\s+(?:submit|produce|provide)\s+([^.]+)`,
			)},
			{RelationConsequence, compileAll(
				`(?:as\s+a\s+)?result\s+of\s+([^,]+),\s*([^.]+)`,
				`due\s+to\s+([^,]+),\s*([^.]+)`,
				`(?:therefore|hence|consequently),?\s*([^.]+)`,
			)},
			{RelationPenalty, compileAll(
				`penalty\s+(?:was\s+)?(?:imposed|levied)\s+(?:under\s+)?(?:section\s+)?(\d+[AB]?)`,
				`liable\s+(?:to\s+pay|for)\s+([^.]+)`,
			)},
			{RelationDefaultAssessment, compileAll(
				`default\s+(?:assessment|rate)\s+(?:was\s+)?applied`,
				`(?:assumed|presumed)\s+(?:at\s+)?(?:minimum|maximum)\s+wages?`,
			)},
		},
		requestedPats: compileAll(
			`(?:directed|instructed|requested)\s+to\s+(?:submit|produce|provide)\s+([^.]+)`,
			`(?:submit|produce|provide)\s+(?:the\s+)?following[:\s]+([^.]+)`,
		),
		submittedPats: compileAll(
			`(?:employer\s+)?(?:produced|submitted|provided)\s+([^.]+)`,
		),
		missingPats: compileAll(
			`(?:not\s+)?(?:submitted|produced|provided)\s+(?:the\s+)?([^.]+)`,
			`(?:failed|failure)\s+to\s+(?:submit|produce|provide)\s+([^.]+)`,
		),
	}
}

// Extract pools matches from every pattern of every relation type and sorts
// them by source offset, the stand-in for narrative/causal order.
func (e *RelationExtractor) Extract(text string) []Relation {
	if isBlank(text) {
		return nil
	}

	var relations []Relation
	for _, set := range e.table {
		for _, re := range set.patterns {
			for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
				rel := Relation{
					Type:  set.relationType,
					Text:  strings.TrimSpace(text[loc[0]:loc[1]]),
					Start: loc[0],
					End:   loc[1],
				}
				if len(loc) >= 4 && loc[2] >= 0 {
					rel.Object = strings.TrimSpace(text[loc[2]:loc[3]])
				}
				if len(loc) >= 6 && loc[4] >= 0 {
					rel.Consequence = strings.TrimSpace(text[loc[4]:loc[5]])
				}

				ctxStart := loc[0] - relationContextPad
				if ctxStart < 0 {
					ctxStart = 0
				}
				ctxEnd := loc[1] + relationContextPad
				if ctxEnd > len(text) {
					ctxEnd = len(text)
				}
				rel.Context = strings.TrimSpace(text[ctxStart:ctxEnd])

				relations = append(relations, rel)
			}
		}
	}

	sort.SliceStable(relations, func(i, j int) bool { return relations[i].Start < relations[j].Start })
	return relations
}

// ExtractComplianceGaps scans independently for the requested, submitted and
// missing phrase families. Overlap between the lists is expected.
func (e *RelationExtractor) ExtractComplianceGaps(text string) ComplianceGaps {
	var gaps ComplianceGaps
	if isBlank(text) {
		return gaps
	}
	gaps.Requested = collectGroups(e.requestedPats, text)
	gaps.Submitted = collectGroups(e.submittedPats, text)
	gaps.Missing = collectGroups(e.missingPats, text)
	return gaps
}

func collectGroups(patterns []*regexp.Regexp, text string) []string {
	var out []string
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) > 1 {
				if v := strings.TrimSpace(m[1]); v != "" {
					out = append(out, v)
				}
			}
		}
	}
	return out
}
