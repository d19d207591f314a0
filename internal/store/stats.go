package store

import (
	"context"
	"fmt"
)

// Stats returns corpus-level counts and breakdowns.
func (s *Store) Stats(ctx context.Context) (*CorpusStats, error) {
	stats := &CorpusStats{
		ByCaseType: map[string]int64{},
		ByOutcome:  map[string]int64{},
	}

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM cases", &stats.CaseCount},
		{"SELECT COUNT(*) FROM entities", &stats.EntityCount},
		{"SELECT COUNT(*) FROM timeline_events", &stats.TimelineCount},
		{"SELECT COUNT(*) FROM relations", &stats.RelationCount},
		{"SELECT COUNT(*) FROM financial_records", &stats.FinancialCount},
		{"SELECT COUNT(*) FROM chunks", &stats.ChunkCount},
	}
	for _, q := range counts {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("querying stats (%s): %w", q.query, err)
		}
	}

	breakdowns := []struct {
		query string
		dest  map[string]int64
	}{
		{"SELECT case_type, COUNT(*) FROM cases GROUP BY case_type", stats.ByCaseType},
		{"SELECT outcome, COUNT(*) FROM cases GROUP BY outcome", stats.ByOutcome},
	}
	for _, b := range breakdowns {
		rows, err := s.db.QueryContext(ctx, b.query)
		if err != nil {
			return nil, fmt.Errorf("querying stats (%s): %w", b.query, err)
		}
		for rows.Next() {
			var key string
			var count int64
			if err := rows.Scan(&key, &count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning stats row: %w", err)
			}
			b.dest[key] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("reading stats rows: %w", err)
		}
		rows.Close()
	}

	// DB size only works for file-based databases.
	if s.dbPath != ":memory:" {
		var pageCount, pageSize int64
		s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
		s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		stats.DBSizeBytes = pageCount * pageSize
	}

	return stats, nil
}
