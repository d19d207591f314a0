// Package ner extracts named entities from order text.
//
// Two implementations satisfy the Extractor contract: Rules, a
// deterministic pattern layer that always runs, and Remote, a client for
// a model-backed tagger behind an HTTP endpoint. The pipeline runs both
// when available and union-merges their output per entity type.
package ner

import "context"

// Entity type labels shared across extractors and the store.
const (
	TypeJudge          = "Judge"
	TypeEstablishment  = "Establishment"
	TypeRepresentative = "Representative"
	TypeAct            = "Act"
	TypeSection        = "Section"
	TypeAmount         = "Amount"
	TypeDate           = "Date"
)

// Types lists every entity type in stable display order.
var Types = []string{
	TypeJudge,
	TypeEstablishment,
	TypeRepresentative,
	TypeAct,
	TypeSection,
	TypeAmount,
	TypeDate,
}

// Extractor turns order text into entity lists keyed by type. An
// implementation returns only the types it found; absent keys mean no
// entities of that type.
type Extractor interface {
	Extract(ctx context.Context, text string) (map[string][]string, error)
}
