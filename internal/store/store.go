// Package store provides the SQLite relational layer for processed cases.
//
// One database file holds everything: the case row itself, its cascade
// children (entities, timeline events, relations, financial records) and
// the embedded content chunks for semantic search. A case and its
// children are committed in a single transaction, so a case never exists
// without its derived records.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.elis/elis.db"

// Case is the main record for one processed order document.
type Case struct {
	ID           int64
	CaseID       string
	CaseType     string
	Outcome      string
	Confidence   float64
	OrderDate    string // ISO YYYY-MM-DD, empty when extraction failed
	SourcePath   string
	RawText      string
	CleanText    string
	RenderedText string

	// Denormalized summary fields the retriever filters on.
	SectionCited  string
	JudgeName     string
	Establishment string
	TotalDues     float64

	CreatedAt time.Time
}

// Entity is one extracted named entity.
type Entity struct {
	ID         int64
	CaseID     int64
	Type       string
	Text       string
	Confidence float64
}

// TimelineEvent is one hearing in the case timeline.
type TimelineEvent struct {
	ID         int64
	CaseID     int64
	EventDate  string // ISO
	Appeared   []string
	Discussion string
	Outcome    string
	NextDate   string // ISO, empty when none announced
}

// Relation is one cause/effect or directive statement.
type Relation struct {
	ID          int64
	CaseID      int64
	Type        string
	Subject     string
	Verb        string
	Object      string
	Context     string
	StartOffset int
}

// FinancialRecord is one dues amount for a statutory account.
type FinancialRecord struct {
	ID          int64
	CaseID      int64
	AccountType string
	Amount      float64
	PeriodFrom  string
	PeriodTo    string
}

// CaseRecord bundles a case with all of its children.
type CaseRecord struct {
	Case      Case
	Entities  []Entity
	Timeline  []TimelineEvent
	Relations []Relation
	Financial []FinancialRecord
}

// Filters are the exact-match constraints the retriever applies.
type Filters struct {
	Section string
	Judge   string
}

// CorpusStats holds observability counts for the store.
type CorpusStats struct {
	CaseCount      int64
	EntityCount    int64
	TimelineCount  int64
	RelationCount  int64
	FinancialCount int64
	ChunkCount     int64
	DBSizeBytes    int64
	ByCaseType     map[string]int64
	ByOutcome      map[string]int64
}

// Config holds configuration for NewStore.
type Config struct {
	DBPath string
}

// Store is the SQLite-backed persistence layer.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at cfg.DBPath.
// Pass ":memory:" for in-memory databases (testing).
func NewStore(cfg Config) (*Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = expandPath(DefaultDBPath)
	}

	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, dbPath: cfg.DBPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
