package retrieve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/elislabs/elis/internal/store"
	"github.com/elislabs/elis/internal/vector"
)

// stubIndex returns a fixed semantic ranking.
type stubIndex struct {
	res *vector.Result
}

func (s stubIndex) Add(context.Context, vector.Document) error { return nil }

func (s stubIndex) Query(context.Context, string, int) (*vector.Result, error) {
	return s.res, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(store.Config{DBPath: filepath.Join(t.TempDir(), "elis.db")})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func commitCase(t *testing.T, s *store.Store, caseID, section string) {
	t.Helper()
	_, err := s.CommitCase(context.Background(), &store.CaseRecord{
		Case: store.Case{CaseID: caseID, CaseType: section, Outcome: "unknown", SectionCited: section},
	})
	if err != nil {
		t.Fatalf("committing case %s: %v", caseID, err)
	}
}

func TestGetPrecedentsPreservesSemanticOrder(t *testing.T) {
	s := newTestStore(t)
	commitCase(t, s, "A", "14B")
	commitCase(t, s, "B", "7A")
	commitCase(t, s, "C", "14B")

	ix := stubIndex{res: &vector.Result{
		Chunks: []vector.Chunk{
			{CaseID: "A", Text: "snippet A", Distance: 0.1},
			{CaseID: "B", Text: "snippet B", Distance: 0.2},
			{CaseID: "C", Text: "snippet C", Distance: 0.3},
		},
		Sources: []string{"A", "B", "C"},
	}}

	r := NewRetriever(ix, s)
	got, err := r.GetPrecedents(context.Background(), "damages under 14B", store.Filters{Section: "14B"}, 2)
	if err != nil {
		t.Fatalf("GetPrecedents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d precedents, want 2", len(got))
	}
	if got[0].Case.CaseID != "A" || got[1].Case.CaseID != "C" {
		t.Errorf("order = [%s, %s], want [A, C]", got[0].Case.CaseID, got[1].Case.CaseID)
	}
	if got[0].Snippet != "snippet A" {
		t.Errorf("Snippet = %q", got[0].Snippet)
	}
}

func TestGetPrecedentsDeduplicatesCases(t *testing.T) {
	s := newTestStore(t)
	commitCase(t, s, "A", "14B")

	ix := stubIndex{res: &vector.Result{
		Chunks: []vector.Chunk{
			{CaseID: "A", Text: "first hit"},
			{CaseID: "A", Text: "second hit"},
		},
		Sources: []string{"A"},
	}}

	r := NewRetriever(ix, s)
	got, err := r.GetPrecedents(context.Background(), "query", store.Filters{}, 5)
	if err != nil {
		t.Fatalf("GetPrecedents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d precedents, want 1", len(got))
	}
	if got[0].Snippet != "first hit" {
		t.Errorf("Snippet = %q, want the first-ranked chunk kept", got[0].Snippet)
	}
}

func TestGetPrecedentsNoQualifyingCases(t *testing.T) {
	s := newTestStore(t)
	commitCase(t, s, "A", "7A")

	ix := stubIndex{res: &vector.Result{
		Chunks:  []vector.Chunk{{CaseID: "A", Text: "hit"}},
		Sources: []string{"A"},
	}}

	r := NewRetriever(ix, s)
	got, err := r.GetPrecedents(context.Background(), "query", store.Filters{Section: "14B"}, 3)
	if err != nil {
		t.Fatalf("GetPrecedents: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty result", got)
	}
}

func TestGetPrecedentsEmptyIndex(t *testing.T) {
	s := newTestStore(t)
	r := NewRetriever(stubIndex{res: &vector.Result{}}, s)

	got, err := r.GetPrecedents(context.Background(), "query", store.Filters{}, 0)
	if err != nil {
		t.Fatalf("GetPrecedents: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
