package extract

import (
	"strings"
	"testing"
)

func TestRelationsEmptyInput(t *testing.T) {
	e := NewRelationExtractor()
	if got := e.Extract(""); got != nil {
		t.Fatalf("Extract(\"\") = %v, want nil", got)
	}
	if got := e.Extract("   \n\t"); got != nil {
		t.Fatalf("Extract(whitespace) = %v, want nil", got)
	}
}

func TestRelationsOfficerDirective(t *testing.T) {
	e := NewRelationExtractor()
	rels := e.Extract("The APFC directed the employer to submit wage registers for 2019.")
	if len(rels) != 1 {
		t.Fatalf("got %d relations, want 1: %v", len(rels), rels)
	}
	if rels[0].Type != RelationOfficerDirective {
		t.Errorf("Type = %q, want %q", rels[0].Type, RelationOfficerDirective)
	}
	if rels[0].Object != "submit wage registers for 2019" {
		t.Errorf("Object = %q", rels[0].Object)
	}
}

func TestRelationsFailureToSubmit(t *testing.T) {
	e := NewRelationExtractor()
	rels := e.Extract("The employer failed to submit the records.")
	if len(rels) != 1 {
		t.Fatalf("got %d relations, want 1: %v", len(rels), rels)
	}
	if rels[0].Type != RelationFailureToSubmit {
		t.Errorf("Type = %q, want %q", rels[0].Type, RelationFailureToSubmit)
	}
	if rels[0].Object != "the records" {
		t.Errorf("Object = %q", rels[0].Object)
	}
}

func TestRelationsConsequenceCapturesEffect(t *testing.T) {
	e := NewRelationExtractor()
	rels := e.Extract("Due to non-compliance, a penalty was imposed under section 14B.")

	var consequence *Relation
	for i := range rels {
		if rels[i].Type == RelationConsequence {
			consequence = &rels[i]
		}
	}
	if consequence == nil {
		t.Fatalf("no consequence relation in %v", rels)
	}
	if consequence.Object != "non-compliance" {
		t.Errorf("Object = %q, want %q", consequence.Object, "non-compliance")
	}
	if consequence.Consequence != "a penalty was imposed under section 14B" {
		t.Errorf("Consequence = %q", consequence.Consequence)
	}
}

func TestRelationsSortedBySourceOffset(t *testing.T) {
	e := NewRelationExtractor()
	// Penalty pattern family is declared after failure_to_submit, but the
	// penalty statement appears first in the text and must come out first.
	rels := e.Extract("Penalty was levied under section 14B. Later the employer failed to produce balance sheets.")
	if len(rels) != 2 {
		t.Fatalf("got %d relations, want 2: %v", len(rels), rels)
	}
	if rels[0].Type != RelationPenalty || rels[1].Type != RelationFailureToSubmit {
		t.Errorf("order = [%s, %s], want [penalty, failure_to_submit]", rels[0].Type, rels[1].Type)
	}
	if rels[0].Object != "14B" {
		t.Errorf("penalty Object = %q, want %q", rels[0].Object, "14B")
	}
	if rels[0].Start >= rels[1].Start {
		t.Errorf("offsets not ascending: %d, %d", rels[0].Start, rels[1].Start)
	}
}

func TestRelationsContextIsBounded(t *testing.T) {
	e := NewRelationExtractor()
	text := "MARKER0 " + strings.Repeat("pad ", 20) + "therefore, the dues were assessed."
	rels := e.Extract(text)
	if len(rels) != 1 {
		t.Fatalf("got %d relations, want 1: %v", len(rels), rels)
	}
	if strings.Contains(rels[0].Context, "MARKER0") {
		t.Errorf("context reaches past the 50-char pad: %q", rels[0].Context)
	}
	if !strings.Contains(rels[0].Context, "therefore") {
		t.Errorf("context missing the match itself: %q", rels[0].Context)
	}
}

func TestRelationsDefaultAssessmentHasNoObject(t *testing.T) {
	e := NewRelationExtractor()
	rels := e.Extract("The default assessment was applied for the period.")
	if len(rels) != 1 {
		t.Fatalf("got %d relations, want 1: %v", len(rels), rels)
	}
	if rels[0].Type != RelationDefaultAssessment {
		t.Errorf("Type = %q, want %q", rels[0].Type, RelationDefaultAssessment)
	}
	if rels[0].Object != "" {
		t.Errorf("Object = %q, want empty", rels[0].Object)
	}
}

func TestComplianceGapsOverlapAllowed(t *testing.T) {
	e := NewRelationExtractor()
	text := "The employer was directed to submit wage registers. " +
		"The employer produced attendance records. " +
		"The employer failed to submit balance sheets."
	gaps := e.ExtractComplianceGaps(text)

	if len(gaps.Requested) != 1 || gaps.Requested[0] != "wage registers" {
		t.Errorf("Requested = %v", gaps.Requested)
	}
	if len(gaps.Submitted) != 1 || gaps.Submitted[0] != "attendance records" {
		t.Errorf("Submitted = %v", gaps.Submitted)
	}
	// "produced attendance records" also matches the missing family; the
	// same phrase appearing in both lists is preserved, not reconciled.
	if len(gaps.Missing) != 2 {
		t.Fatalf("Missing = %v, want 2 entries", gaps.Missing)
	}
	if gaps.Missing[0] != "attendance records" || gaps.Missing[1] != "balance sheets" {
		t.Errorf("Missing = %v", gaps.Missing)
	}
}

func TestComplianceGapsEmptyInput(t *testing.T) {
	e := NewRelationExtractor()
	gaps := e.ExtractComplianceGaps("")
	if gaps.Requested != nil || gaps.Submitted != nil || gaps.Missing != nil {
		t.Errorf("gaps from empty input = %+v, want all nil", gaps)
	}
}
