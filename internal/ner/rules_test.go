package ner

import (
	"context"
	"testing"
)

const sampleOrder = `BEFORE Shri. A. K. Sharma, APFC
Proceedings against M/s. Sunrise Textiles Pvt. Ltd., Mumbai under Section 7A of
the Employees' Provident Funds and Miscellaneous Provisions Act, 1952.
Shri. Ramesh Kumar (Authorised Representative) appeared for the employer.
Dues of Rs. 1,00,000/- were assessed on 15.08.2018. Penalty u/s 14B followed.`

func TestRulesExtract(t *testing.T) {
	r := NewRules()
	got, err := r.Extract(context.Background(), sampleOrder)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	wantOne := map[string]string{
		TypeJudge:          "A. K. Sharma",
		TypeEstablishment:  "Sunrise Textiles Pvt. Ltd.",
		TypeRepresentative: "Ramesh Kumar",
		TypeAct:            "the Employees' Provident Funds and Miscellaneous Provisions Act, 1952",
		TypeAmount:         "Rs. 1,00,000/-",
		TypeDate:           "15.08.2018",
	}
	for entityType, want := range wantOne {
		values := got[entityType]
		found := false
		for _, v := range values {
			if v == want {
				found = true
			}
		}
		if !found {
			t.Errorf("%s = %v, want to contain %q", entityType, values, want)
		}
	}

	sections := got[TypeSection]
	if len(sections) != 2 || sections[0] != "7A" || sections[1] != "14B" {
		t.Errorf("Section = %v, want [7A 14B]", sections)
	}
}

func TestRulesExtractDeduplicatesCaseInsensitively(t *testing.T) {
	r := NewRules()
	got, err := r.Extract(context.Background(), "under Section 7A and again under section 7a of the Act")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if sections := got[TypeSection]; len(sections) != 1 || sections[0] != "7A" {
		t.Errorf("Section = %v, want [7A]", sections)
	}
}

func TestRulesExtractEmptyInput(t *testing.T) {
	r := NewRules()
	got, err := r.Extract(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("entities from blank input = %v, want empty map", got)
	}
}
