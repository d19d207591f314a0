package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Hearing outcome labels produced by the keyword table.
const (
	HearingAdjourned   = "Adjourned"
	HearingConcluded   = "Concluded"
	HearingOrderIssued = "Order Issued"
	HearingUnknown     = "Unknown"
)

// contextWindow bounds how far past a date anchor the extractor reads when
// no later date token cuts the block short.
const contextWindow = 500

// discussionLimit truncates discussion snippets.
const discussionLimit = 200

// TimelineEvent is one hearing occurrence extracted from order text.
type TimelineEvent struct {
	Date       string   // ISO YYYY-MM-DD
	Appeared   []string // parties present, or ["No one"]
	Discussion string
	Outcome    string
	NextDate   string // ISO, "" when the order names no next hearing
}

// TimelineExtractor finds date-anchored hearing blocks and turns each into a
// structured event. Construct once and reuse.
type TimelineExtractor struct {
	anchors         []*regexp.Regexp
	appearancePats  []*regexp.Regexp
	noOneAppearedRE *regexp.Regexp
	actionPhraseRE  *regexp.Regexp
	nextDatePats    []*regexp.Regexp
	outcomeKeywords []outcomeKeywordSet
}

type outcomeKeywordSet struct {
	label    string
	keywords []string
}

// NewTimelineExtractor compiles the hearing-block pattern tables.
func NewTimelineExtractor() *TimelineExtractor {
	return &TimelineExtractor{
		anchors: []*regexp.Regexp{
			// Explicit prefix: "On 15.08.2018", "Dated: 2-7-2018",
			// "Hearing held on 10/09/2018".
			regexp.MustCompile(`(?i)(?:\bon|\bdated?|\bhearing\s*(?:on|held\s+on)?)\s*[:\s]\s*(\d{1,2}[./-]\d{1,2}[./-]\d{4})`),
			// Bare date opening a sentence.
			regexp.MustCompile(`(?m)(?:^|\.\s+)(\d{1,2}[./-]\d{1,2}[./-]\d{4})`),
		},
		appearancePats: []*regexp.Regexp{
			regexp.MustCompile(`(Shri\.?|Smt\.?|Mr\.?|Ms\.?)\s*([A-Z][A-Za-z. ]+?)(?:\s*\(([^)]+)\))?\s*(?:appeared|present)`),
			regexp.MustCompile(`([A-Z][A-Za-z. ]+?)\s*\(([^)]+)\)\s*(?:appeared|present)`),
		},
		noOneAppearedRE: regexp.MustCompile(`(?i)no\s*one\s*appeared`),
		actionPhraseRE:  regexp.MustCompile(`(?i)(?:directed|requested|submitted|produced)\s+[^.]+`),
		nextDatePats: []*regexp.Regexp{
			regexp.MustCompile(`(?i)adjourned\s+to\s+(\d{1,2}[./-]\d{1,2}[./-]\d{4})`),
			regexp.MustCompile(`(?i)next\s+date[:\s]+(\d{1,2}[./-]\d{1,2}[./-]\d{4})`),
			regexp.MustCompile(`(?i)put\s+up\s+(?:on|to)\s+(\d{1,2}[./-]\d{1,2}[./-]\d{4})`),
		},
		// Checked in order; first family with a hit wins.
		outcomeKeywords: []outcomeKeywordSet{
			{HearingAdjourned, []string{"adjourned", "postponed", "next date", "put up"}},
			{HearingConcluded, []string{"concluded", "closed", "disposed"}},
			{HearingOrderIssued, []string{"order issued", "order passed", "order was issued"}},
		},
	}
}

// Extract returns the hearing timeline for a document: one event per
// distinct date (first occurrence wins), sorted ascending. Fragments that
// fail calendar validation are excluded, never propagated as errors.
func (e *TimelineExtractor) Extract(text string) []TimelineEvent {
	if isBlank(text) {
		return nil
	}

	var events []TimelineEvent
	seen := map[string]bool{}

	for _, anchor := range e.anchors {
		for _, loc := range anchor.FindAllStringSubmatchIndex(text, -1) {
			fragment := text[loc[2]:loc[3]]
			date := NormalizeDate(fragment)
			if date == "" || seen[date] {
				continue
			}

			block, extended := e.contextAfter(text, loc[1])
			events = append(events, TimelineEvent{
				Date:       date,
				Appeared:   e.extractAppearances(block),
				Discussion: e.extractDiscussion(block),
				Outcome:    e.classifyOutcome(block),
				NextDate:   e.extractNextDate(block, extended),
			})
			seen[date] = true
		}
	}

	// ISO dates are fixed width, so the lexicographic sort is
	// chronologically correct.
	sort.Slice(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	return events
}

// contextAfter returns the hearing block following an anchor. The block
// stops at the next date-like token so one hearing never bleeds into the
// next; the extended window runs through that token so adjournment
// phrasing keeps its date.
func (e *TimelineExtractor) contextAfter(text string, start int) (block, extended string) {
	end := start + contextWindow
	if end > len(text) {
		end = len(text)
	}
	block = text[start:end]
	extended = block
	if loc := dateTokenRE.FindStringIndex(block); loc != nil {
		extended = block[:loc[1]]
		block = block[:loc[0]]
	}
	return block, extended
}

func (e *TimelineExtractor) extractAppearances(window string) []string {
	if e.noOneAppearedRE.MatchString(window) {
		return []string{"No one"}
	}

	set := map[string]bool{}
	var appearances []string
	for _, re := range e.appearancePats {
		for _, m := range re.FindAllStringSubmatch(window, -1) {
			parts := make([]string, 0, len(m)-1)
			for _, group := range m[1:] {
				if g := strings.TrimSpace(group); g != "" {
					parts = append(parts, g)
				}
			}
			name := strings.Join(parts, " ")
			if name == "" || set[name] {
				continue
			}
			set[name] = true
			appearances = append(appearances, name)
		}
	}
	sort.Strings(appearances)
	return appearances
}

func (e *TimelineExtractor) extractDiscussion(window string) string {
	if m := e.actionPhraseRE.FindString(window); m != "" {
		return truncate(strings.TrimSpace(m), discussionLimit)
	}
	first, _, _ := strings.Cut(window, ".")
	return truncate(strings.TrimSpace(first), discussionLimit)
}

func (e *TimelineExtractor) classifyOutcome(window string) string {
	lower := strings.ToLower(window)
	for _, set := range e.outcomeKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.label
			}
		}
	}
	return HearingUnknown
}

func (e *TimelineExtractor) extractNextDate(block, extended string) string {
	for _, re := range e.nextDatePats {
		loc := re.FindStringSubmatchIndex(extended)
		if loc == nil || loc[0] > len(block) {
			continue
		}
		if date := NormalizeDate(extended[loc[2]:loc[3]]); date != "" {
			return date
		}
	}
	return ""
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
