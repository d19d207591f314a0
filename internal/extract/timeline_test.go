package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestTimelineSortedRegardlessOfInputOrder(t *testing.T) {
	e := NewTimelineExtractor()
	text := "On 15.08.2018 the employer was directed to submit wage registers. " +
		"On 02.07.2018 no one appeared and the case was adjourned to 15.08.2018. " +
		"On 10.09.2018 the order was passed."

	events := e.Extract(text)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}

	var dates []string
	for _, ev := range events {
		dates = append(dates, ev.Date)
	}
	want := []string{"2018-07-02", "2018-08-15", "2018-09-10"}
	if !reflect.DeepEqual(dates, want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
}

func TestTimelineNoHearings(t *testing.T) {
	e := NewTimelineExtractor()
	if got := e.Extract("No hearings mentioned here."); len(got) != 0 {
		t.Fatalf("expected empty timeline, got %+v", got)
	}
	if got := e.Extract(""); len(got) != 0 {
		t.Fatalf("expected empty timeline for empty input, got %+v", got)
	}
}

func TestTimelineInvalidDatesExcluded(t *testing.T) {
	e := NewTimelineExtractor()
	text := "On 68.07.2025 nothing can have happened. On 15.08.2018 the hearing took place."

	events := e.Extract(text)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	if events[0].Date != "2018-08-15" {
		t.Fatalf("Date = %q, want 2018-08-15", events[0].Date)
	}
}

func TestTimelineDeduplicatesByDate(t *testing.T) {
	e := NewTimelineExtractor()
	text := "On 15.08.2018 the employer appeared. Hearing on 15/08/2018 was also recorded."

	events := e.Extract(text)
	if len(events) != 1 {
		t.Fatalf("expected deduplicated single event, got %d", len(events))
	}
}

func TestTimelineNoOneAppeared(t *testing.T) {
	e := NewTimelineExtractor()
	text := "On 02.07.2018 no one appeared on behalf of the establishment and the matter was adjourned."

	events := e.Extract(text)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !reflect.DeepEqual(events[0].Appeared, []string{"No one"}) {
		t.Fatalf("Appeared = %v, want [No one]", events[0].Appeared)
	}
	if events[0].Outcome != HearingAdjourned {
		t.Fatalf("Outcome = %q, want %q", events[0].Outcome, HearingAdjourned)
	}
}

func TestTimelineNamedAppearance(t *testing.T) {
	e := NewTimelineExtractor()
	text := "On 15.08.2018 Shri. Ramesh Kumar (Authorised Representative) appeared for the employer."

	events := e.Extract(text)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if len(events[0].Appeared) == 0 {
		t.Fatalf("expected a named appearance, got none")
	}
	joined := strings.Join(events[0].Appeared, "; ")
	if !strings.Contains(joined, "Ramesh Kumar") {
		t.Fatalf("Appeared = %v, want Ramesh Kumar mentioned", events[0].Appeared)
	}
}

func TestTimelineNextDate(t *testing.T) {
	e := NewTimelineExtractor()
	text := "On 02.07.2018 the case was adjourned. Next date: 15.08.2018 was fixed for compliance."

	events := e.Extract(text)
	if len(events) == 0 {
		t.Fatalf("expected at least one event")
	}
	first := events[0]
	if first.Date != "2018-07-02" {
		t.Fatalf("Date = %q, want 2018-07-02", first.Date)
	}
	if first.NextDate != "2018-08-15" {
		t.Fatalf("NextDate = %q, want 2018-08-15", first.NextDate)
	}
}

func TestTimelineDiscussionSnippet(t *testing.T) {
	e := NewTimelineExtractor()
	text := "On 15.08.2018 the officer directed the employer to produce balance sheets for the assessment period."

	events := e.Extract(text)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !strings.HasPrefix(events[0].Discussion, "directed") {
		t.Fatalf("Discussion = %q, want action phrase starting with 'directed'", events[0].Discussion)
	}
	if len(events[0].Discussion) > 200 {
		t.Fatalf("Discussion exceeds 200 chars: %d", len(events[0].Discussion))
	}
}
