package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// CommitCase inserts the case and every child record in one transaction.
// The new case rowid is written back into rec.Case.ID and the children.
func (s *Store) CommitCase(ctx context.Context, rec *CaseRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO cases (case_id, case_type, outcome, confidence, order_date, source_path,
			raw_text, clean_text, rendered_text, section_cited, judge_name, establishment, total_dues)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Case.CaseID, rec.Case.CaseType, rec.Case.Outcome, rec.Case.Confidence,
		nullable(rec.Case.OrderDate), rec.Case.SourcePath, rec.Case.RawText, rec.Case.CleanText,
		rec.Case.RenderedText, nullable(rec.Case.SectionCited), nullable(rec.Case.JudgeName),
		nullable(rec.Case.Establishment), rec.Case.TotalDues,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting case %s: %w", rec.Case.CaseID, err)
	}
	caseID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading case rowid: %w", err)
	}
	rec.Case.ID = caseID

	for i := range rec.Entities {
		rec.Entities[i].CaseID = caseID
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entities (case_id, entity_type, entity_text, confidence) VALUES (?, ?, ?, ?)`,
			caseID, rec.Entities[i].Type, rec.Entities[i].Text, rec.Entities[i].Confidence,
		); err != nil {
			return 0, fmt.Errorf("inserting entity for case %s: %w", rec.Case.CaseID, err)
		}
	}

	for i := range rec.Timeline {
		rec.Timeline[i].CaseID = caseID
		appeared, err := json.Marshal(rec.Timeline[i].Appeared)
		if err != nil {
			return 0, fmt.Errorf("encoding appeared list: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO timeline_events (case_id, event_date, appeared, discussion, outcome, next_date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			caseID, rec.Timeline[i].EventDate, string(appeared), rec.Timeline[i].Discussion,
			rec.Timeline[i].Outcome, nullable(rec.Timeline[i].NextDate),
		); err != nil {
			return 0, fmt.Errorf("inserting timeline event for case %s: %w", rec.Case.CaseID, err)
		}
	}

	for i := range rec.Relations {
		rec.Relations[i].CaseID = caseID
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO relations (case_id, relation_type, subject, relation_verb, object, context, start_offset)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			caseID, rec.Relations[i].Type, rec.Relations[i].Subject, rec.Relations[i].Verb,
			rec.Relations[i].Object, rec.Relations[i].Context, rec.Relations[i].StartOffset,
		); err != nil {
			return 0, fmt.Errorf("inserting relation for case %s: %w", rec.Case.CaseID, err)
		}
	}

	for i := range rec.Financial {
		rec.Financial[i].CaseID = caseID
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO financial_records (case_id, account_type, amount, period_from, period_to)
			 VALUES (?, ?, ?, ?, ?)`,
			caseID, rec.Financial[i].AccountType, rec.Financial[i].Amount,
			nullable(rec.Financial[i].PeriodFrom), nullable(rec.Financial[i].PeriodTo),
		); err != nil {
			return 0, fmt.Errorf("inserting financial record for case %s: %w", rec.Case.CaseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing case %s: %w", rec.Case.CaseID, err)
	}
	return caseID, nil
}

// GetCase fetches a case row by its business identifier.
// Returns sql.ErrNoRows wrapped when the case does not exist.
func (s *Store) GetCase(ctx context.Context, caseID string) (*Case, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, case_id, case_type, outcome, confidence, order_date, source_path,
			raw_text, clean_text, rendered_text, section_cited, judge_name, establishment,
			total_dues, created_at
		 FROM cases WHERE case_id = ?`, caseID)
	c, err := scanCase(row)
	if err != nil {
		return nil, fmt.Errorf("getting case %s: %w", caseID, err)
	}
	return c, nil
}

// GetCaseRecord fetches a case with all of its children.
func (s *Store) GetCaseRecord(ctx context.Context, caseID string) (*CaseRecord, error) {
	c, err := s.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	rec := &CaseRecord{Case: *c}
	if rec.Entities, err = s.caseEntities(ctx, c.ID); err != nil {
		return nil, err
	}
	if rec.Timeline, err = s.caseTimeline(ctx, c.ID); err != nil {
		return nil, err
	}
	if rec.Relations, err = s.caseRelations(ctx, c.ID); err != nil {
		return nil, err
	}
	if rec.Financial, err = s.caseFinancial(ctx, c.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListCases returns case rows ordered by creation time, newest first.
func (s *Store) ListCases(ctx context.Context, limit int) ([]*Case, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, case_type, outcome, confidence, order_date, source_path,
			raw_text, clean_text, rendered_text, section_cited, judge_name, establishment,
			total_dues, created_at
		 FROM cases ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer rows.Close()

	var cases []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning case row: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// FilterCaseIDs returns which of the candidate case IDs exist and satisfy
// every supplied exact filter. The result is a membership set; ordering is
// the caller's concern.
func (s *Store) FilterCaseIDs(ctx context.Context, caseIDs []string, f Filters) (map[string]bool, error) {
	if len(caseIDs) == 0 {
		return map[string]bool{}, nil
	}

	placeholders := strings.Repeat("?,", len(caseIDs))
	placeholders = placeholders[:len(placeholders)-1]

	query := "SELECT case_id FROM cases WHERE case_id IN (" + placeholders + ")"
	args := make([]interface{}, 0, len(caseIDs)+2)
	for _, id := range caseIDs {
		args = append(args, id)
	}
	if f.Section != "" {
		query += " AND section_cited = ?"
		args = append(args, f.Section)
	}
	if f.Judge != "" {
		query += " AND judge_name = ?"
		args = append(args, f.Judge)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtering case ids: %w", err)
	}
	defer rows.Close()

	passed := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning case id: %w", err)
		}
		passed[id] = true
	}
	return passed, rows.Err()
}

// DeleteCase removes a case and, via cascade, all of its children.
func (s *Store) DeleteCase(ctx context.Context, caseID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE case_id = ?", caseID); err != nil {
		return fmt.Errorf("deleting chunks for case %s: %w", caseID, err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cases WHERE case_id = ?", caseID); err != nil {
		return fmt.Errorf("deleting case %s: %w", caseID, err)
	}
	return nil
}

// Reset wipes every table. Used by destructive batch reprocessing.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"chunks", "financial_records", "relations", "timeline_events", "entities", "cases"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func (s *Store) caseEntities(ctx context.Context, caseID int64) ([]Entity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, entity_type, entity_text, COALESCE(confidence, 0)
		 FROM entities WHERE case_id = ? ORDER BY id`, caseID)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var entities []Entity
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.ID, &e.CaseID, &e.Type, &e.Text, &e.Confidence); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

func (s *Store) caseTimeline(ctx context.Context, caseID int64) ([]TimelineEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, COALESCE(event_date, ''), COALESCE(appeared, '[]'),
			COALESCE(discussion, ''), COALESCE(outcome, ''), COALESCE(next_date, '')
		 FROM timeline_events WHERE case_id = ? ORDER BY event_date, id`, caseID)
	if err != nil {
		return nil, fmt.Errorf("querying timeline: %w", err)
	}
	defer rows.Close()

	var events []TimelineEvent
	for rows.Next() {
		var ev TimelineEvent
		var appeared string
		if err := rows.Scan(&ev.ID, &ev.CaseID, &ev.EventDate, &appeared, &ev.Discussion, &ev.Outcome, &ev.NextDate); err != nil {
			return nil, fmt.Errorf("scanning timeline event: %w", err)
		}
		if err := json.Unmarshal([]byte(appeared), &ev.Appeared); err != nil {
			return nil, fmt.Errorf("decoding appeared list: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *Store) caseRelations(ctx context.Context, caseID int64) ([]Relation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, relation_type, COALESCE(subject, ''), COALESCE(relation_verb, ''),
			COALESCE(object, ''), COALESCE(context, ''), start_offset
		 FROM relations WHERE case_id = ? ORDER BY start_offset, id`, caseID)
	if err != nil {
		return nil, fmt.Errorf("querying relations: %w", err)
	}
	defer rows.Close()

	var relations []Relation
	for rows.Next() {
		var r Relation
		if err := rows.Scan(&r.ID, &r.CaseID, &r.Type, &r.Subject, &r.Verb, &r.Object, &r.Context, &r.StartOffset); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		relations = append(relations, r)
	}
	return relations, rows.Err()
}

func (s *Store) caseFinancial(ctx context.Context, caseID int64) ([]FinancialRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, account_type, amount, COALESCE(period_from, ''), COALESCE(period_to, '')
		 FROM financial_records WHERE case_id = ? ORDER BY id`, caseID)
	if err != nil {
		return nil, fmt.Errorf("querying financial records: %w", err)
	}
	defer rows.Close()

	var records []FinancialRecord
	for rows.Next() {
		var fr FinancialRecord
		if err := rows.Scan(&fr.ID, &fr.CaseID, &fr.AccountType, &fr.Amount, &fr.PeriodFrom, &fr.PeriodTo); err != nil {
			return nil, fmt.Errorf("scanning financial record: %w", err)
		}
		records = append(records, fr)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCase(row rowScanner) (*Case, error) {
	var c Case
	var orderDate, section, judge, establishment sql.NullString
	var totalDues sql.NullFloat64
	err := row.Scan(&c.ID, &c.CaseID, &c.CaseType, &c.Outcome, &c.Confidence, &orderDate,
		&c.SourcePath, &c.RawText, &c.CleanText, &c.RenderedText, &section, &judge,
		&establishment, &totalDues, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.OrderDate = orderDate.String
	c.SectionCited = section.String
	c.JudgeName = judge.String
	c.Establishment = establishment.String
	c.TotalDues = totalDues.Float64
	return &c, nil
}

// nullable maps empty strings to NULL so absent values stay absent.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
