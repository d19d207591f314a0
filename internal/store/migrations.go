package store

import "fmt"

// migrate creates all tables if they don't exist.
func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cases (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			case_id       TEXT UNIQUE NOT NULL,
			case_type     TEXT,
			outcome       TEXT,
			confidence    REAL DEFAULT 0.0,
			order_date    TEXT,
			source_path   TEXT,
			raw_text      TEXT,
			clean_text    TEXT,
			rendered_text TEXT,
			section_cited TEXT,
			judge_name    TEXT,
			establishment TEXT,
			total_dues    REAL,
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_case_id ON cases(case_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_case_type ON cases(case_type)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_section ON cases(section_cited)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_judge ON cases(judge_name)`,

		`CREATE TABLE IF NOT EXISTS entities (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			case_id     INTEGER NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			entity_type TEXT NOT NULL,
			entity_text TEXT NOT NULL,
			confidence  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_case_id ON entities(case_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_type_text ON entities(entity_type, entity_text)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_entities_unique ON entities(case_id, entity_type, lower(entity_text))`,

		`CREATE TABLE IF NOT EXISTS timeline_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			case_id    INTEGER NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			event_date TEXT,
			appeared   TEXT,
			discussion TEXT,
			outcome    TEXT,
			next_date  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_timeline_case_id ON timeline_events(case_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_timeline_unique ON timeline_events(case_id, event_date)`,
		`CREATE INDEX IF NOT EXISTS idx_timeline_date ON timeline_events(event_date)`,

		`CREATE TABLE IF NOT EXISTS relations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			case_id       INTEGER NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			relation_type TEXT NOT NULL,
			subject       TEXT,
			relation_verb TEXT,
			object        TEXT,
			context       TEXT,
			start_offset  INTEGER DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_relations_case_id ON relations(case_id)`,
		`CREATE INDEX IF NOT EXISTS idx_relations_type ON relations(relation_type)`,

		`CREATE TABLE IF NOT EXISTS financial_records (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			case_id      INTEGER NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			account_type TEXT NOT NULL,
			amount       REAL NOT NULL,
			period_from  TEXT,
			period_to    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_financial_case_id ON financial_records(case_id)`,
		`CREATE INDEX IF NOT EXISTS idx_financial_account ON financial_records(account_type, amount)`,

		// Embedded content chunks for semantic search.
		`CREATE TABLE IF NOT EXISTS chunks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			case_id    TEXT NOT NULL,
			chunk_type TEXT NOT NULL,
			content    TEXT NOT NULL,
			embedding  BLOB NOT NULL,
			dimensions INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_case_id ON chunks(case_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}
	return nil
}
