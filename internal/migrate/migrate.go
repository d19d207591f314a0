// Package migrate converts the legacy single-table database layout into
// the relational schema.
//
// The legacy layout stored one row per case with a JSON blob in the
// entities column: entity-type keys mapping to string lists, plus a
// reserved "_enriched" sub-object carrying the structured timeline,
// relations, compliance gaps and financial data. The migration unpacks
// that blob into typed child records and commits each case atomically.
// The legacy database is opened read-only in effect: it is never written.
package migrate

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/elislabs/elis/internal/extract"
	"github.com/elislabs/elis/internal/store"

	_ "modernc.org/sqlite"
)

// enrichedKey is the reserved blob key holding structured data. Every
// other top-level key is an entity type.
const enrichedKey = "_enriched"

// gapVerb is the relation verb assigned to migrated compliance gaps.
const gapVerb = "non_compliance"

// legacyBlob mirrors the "_enriched" sub-object of the per-case JSON.
type legacyBlob struct {
	CaseType       string            `json:"case_type"`
	Outcome        string            `json:"outcome"`
	Confidence     float64           `json:"confidence"`
	Timeline       []legacyEvent     `json:"timeline"`
	Relations      []legacyRelation  `json:"relations"`
	ComplianceGaps []legacyGap       `json:"compliance_gaps"`
	FinancialData  map[string]amount `json:"financial_data"`
}

type legacyEvent struct {
	Date       string   `json:"date"`
	Appeared   []string `json:"appeared"`
	Discussion string   `json:"discussion"`
	Outcome    string   `json:"outcome"`
	NextDate   string   `json:"next_date"`
}

type legacyRelation struct {
	Type     string `json:"type"`
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
	Context  string `json:"context"`
}

type legacyGap struct {
	Entity      string `json:"entity"`
	Requirement string `json:"requirement"`
	Context     string `json:"context"`
}

// amount accepts both encodings the legacy writer produced: a JSON
// number or a formatted string like "1,00,000/-".
type amount struct {
	raw json.RawMessage
}

func (a *amount) UnmarshalJSON(data []byte) error {
	a.raw = append(a.raw[:0], data...)
	return nil
}

// CaseFailure records one legacy case that could not be migrated.
type CaseFailure struct {
	CaseID string
	Err    error
}

// Summary aggregates one migration run.
type Summary struct {
	Cases            int
	Entities         int
	TimelineEvents   int
	Relations        int
	FinancialRecords int
	Failures         []CaseFailure
}

// Migrator converts legacy cases and commits them to the target store.
type Migrator struct {
	store  *store.Store
	parser *extract.FinancialParser
}

// NewMigrator creates a migrator writing to the given store.
func NewMigrator(s *store.Store) *Migrator {
	return &Migrator{store: s, parser: extract.NewFinancialParser()}
}

// Run migrates every case from the legacy database at legacyPath. A case
// that fails to convert or commit is recorded in the summary and the run
// continues; the legacy database is left unchanged.
func (m *Migrator) Run(ctx context.Context, legacyPath string) (*Summary, error) {
	legacy, err := sql.Open("sqlite", legacyPath)
	if err != nil {
		return nil, fmt.Errorf("opening legacy database %s: %w", legacyPath, err)
	}
	defer legacy.Close()

	rows, err := legacy.QueryContext(ctx,
		`SELECT case_id, COALESCE(pdf_path, ''), COALESCE(order_date, ''),
		        COALESCE(text_content, ''), COALESCE(entities, '')
		 FROM cases ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("reading legacy cases: %w", err)
	}
	defer rows.Close()

	summary := &Summary{}
	for rows.Next() {
		var caseID, pdfPath, orderDate, text, blob string
		if err := rows.Scan(&caseID, &pdfPath, &orderDate, &text, &blob); err != nil {
			return nil, fmt.Errorf("scanning legacy case: %w", err)
		}

		rec, err := m.Convert(caseID, pdfPath, orderDate, text, []byte(blob))
		if err != nil {
			summary.Failures = append(summary.Failures, CaseFailure{CaseID: caseID, Err: err})
			continue
		}
		if _, err := m.store.CommitCase(ctx, rec); err != nil {
			summary.Failures = append(summary.Failures, CaseFailure{CaseID: caseID, Err: err})
			continue
		}

		summary.Cases++
		summary.Entities += len(rec.Entities)
		summary.TimelineEvents += len(rec.Timeline)
		summary.Relations += len(rec.Relations)
		summary.FinancialRecords += len(rec.Financial)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating legacy cases: %w", err)
	}
	return summary, nil
}

// Convert unpacks one legacy case into a full relational record. An
// empty or absent blob yields a bare case with unknown classification.
func (m *Migrator) Convert(caseID, pdfPath, orderDate, text string, blob []byte) (*store.CaseRecord, error) {
	top := map[string]json.RawMessage{}
	if len(blob) > 0 && string(blob) != "null" {
		if err := json.Unmarshal(blob, &top); err != nil {
			return nil, fmt.Errorf("decoding blob for case %s: %w", caseID, err)
		}
	}

	enriched := legacyBlob{CaseType: "unknown", Outcome: "unknown"}
	if raw, ok := top[enrichedKey]; ok {
		if err := json.Unmarshal(raw, &enriched); err != nil {
			return nil, fmt.Errorf("decoding enriched data for case %s: %w", caseID, err)
		}
	}

	rec := &store.CaseRecord{
		Case: store.Case{
			CaseID:     caseID,
			CaseType:   enriched.CaseType,
			Outcome:    enriched.Outcome,
			Confidence: enriched.Confidence,
			OrderDate:  strings.TrimSpace(orderDate),
			SourcePath: pdfPath,
			CleanText:  text,
		},
	}

	m.convertEntities(rec, top)
	for _, ev := range enriched.Timeline {
		rec.Timeline = append(rec.Timeline, store.TimelineEvent{
			EventDate:  ev.Date,
			Appeared:   ev.Appeared,
			Discussion: ev.Discussion,
			Outcome:    ev.Outcome,
			NextDate:   ev.NextDate,
		})
	}
	for _, rel := range enriched.Relations {
		rec.Relations = append(rec.Relations, store.Relation{
			Type:    rel.Type,
			Subject: rel.Subject,
			Verb:    rel.Relation,
			Object:  rel.Object,
			Context: rel.Context,
		})
	}
	for _, gap := range enriched.ComplianceGaps {
		rec.Relations = append(rec.Relations, store.Relation{
			Type:    "compliance_gap",
			Subject: gap.Entity,
			Verb:    gapVerb,
			Object:  gap.Requirement,
			Context: gap.Context,
		})
	}
	m.convertFinancial(rec, enriched.FinancialData)

	m.deriveSummary(rec)
	return rec, nil
}

// convertEntities unpacks the entity-type keys. Keys whose value is not a
// string list are skipped, matching the tolerant legacy reader.
func (m *Migrator) convertEntities(rec *store.CaseRecord, top map[string]json.RawMessage) {
	types := make([]string, 0, len(top))
	for entityType := range top {
		if entityType != enrichedKey {
			types = append(types, entityType)
		}
	}
	sort.Strings(types)

	for _, entityType := range types {
		var values []string
		if err := json.Unmarshal(top[entityType], &values); err != nil {
			continue
		}
		for _, value := range values {
			if value == "" {
				continue
			}
			rec.Entities = append(rec.Entities, store.Entity{Type: entityType, Text: value})
		}
	}
}

// convertFinancial parses each account amount, skipping values that are
// neither a number nor a cleanable amount string.
func (m *Migrator) convertFinancial(rec *store.CaseRecord, data map[string]amount) {
	accounts := make([]string, 0, len(data))
	for account := range data {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	for _, account := range accounts {
		value, ok := m.parseAmount(data[account])
		if !ok {
			continue
		}
		rec.Financial = append(rec.Financial, store.FinancialRecord{AccountType: account, Amount: value})
	}
}

func (m *Migrator) parseAmount(a amount) (float64, bool) {
	var num float64
	if err := json.Unmarshal(a.raw, &num); err == nil {
		return num, true
	}
	var str string
	if err := json.Unmarshal(a.raw, &str); err == nil {
		return m.parser.CleanAmount(str)
	}
	return 0, false
}

// deriveSummary fills the denormalized filter columns the legacy layout
// never had, so migrated cases participate in precedent filtering.
func (m *Migrator) deriveSummary(rec *store.CaseRecord) {
	var sections []string
	for _, ent := range rec.Entities {
		switch ent.Type {
		case "Judge":
			if rec.Case.JudgeName == "" {
				rec.Case.JudgeName = ent.Text
			}
		case "Establishment":
			if rec.Case.Establishment == "" {
				rec.Case.Establishment = ent.Text
			}
		case "Section":
			sections = append(sections, ent.Text)
		}
	}

	switch rec.Case.CaseType {
	case extract.CaseType7A, extract.CaseType14B:
		rec.Case.SectionCited = rec.Case.CaseType
	default:
		if len(sections) > 0 {
			rec.Case.SectionCited = sections[0]
		}
	}

	var total, sum float64
	haveTotal := false
	for _, fr := range rec.Financial {
		if fr.AccountType == extract.TotalDuesKey {
			total = fr.Amount
			haveTotal = true
		} else {
			sum += fr.Amount
		}
	}
	if haveTotal {
		rec.Case.TotalDues = total
	} else {
		rec.Case.TotalDues = sum
	}
}
