// Package retrieve finds precedent cases for drafting support.
//
// The retriever reconciles two differently ordered result sets: the
// vector index ranks chunks by semantic relevance, while the relational
// store answers exact metadata questions. Filtering is applied as a
// membership test walked in the original semantic order, because a plain
// SQL join would reorder the results.
package retrieve

import (
	"context"
	"fmt"

	"github.com/elislabs/elis/internal/store"
	"github.com/elislabs/elis/internal/vector"
)

// DefaultK is the number of precedents returned when the caller does not
// ask for a specific count.
const DefaultK = 3

// overFetchFactor widens the semantic search so the metadata filter has
// candidates left to discard.
const overFetchFactor = 5

// Precedent is one retrieved case with the chunk that matched the query.
type Precedent struct {
	Case    store.Case
	Snippet string
}

// Retriever combines the vector index with the relational store.
type Retriever struct {
	index vector.Index
	store *store.Store
}

// NewRetriever creates a retriever over the given index and store.
func NewRetriever(ix vector.Index, s *store.Store) *Retriever {
	return &Retriever{index: ix, store: s}
}

// GetPrecedents returns up to k cases matching the query and every
// supplied exact filter, in semantic rank order. Fewer than k qualifying
// cases is not an error; the list is simply shorter, possibly empty.
func (r *Retriever) GetPrecedents(ctx context.Context, query string, f store.Filters, k int) ([]Precedent, error) {
	if k <= 0 {
		k = DefaultK
	}

	res, err := r.index.Query(ctx, query, k*overFetchFactor)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	if len(res.Chunks) == 0 {
		return nil, nil
	}

	seen := map[string]bool{}
	var candidates []string
	for _, chunk := range res.Chunks {
		if !seen[chunk.CaseID] {
			seen[chunk.CaseID] = true
			candidates = append(candidates, chunk.CaseID)
		}
	}

	passed, err := r.store.FilterCaseIDs(ctx, candidates, f)
	if err != nil {
		return nil, fmt.Errorf("metadata filter: %w", err)
	}

	// Walk the chunks in their original rank order, keeping each passing
	// case the first time it appears.
	var precedents []Precedent
	kept := map[string]bool{}
	for _, chunk := range res.Chunks {
		if !passed[chunk.CaseID] || kept[chunk.CaseID] {
			continue
		}
		c, err := r.store.GetCase(ctx, chunk.CaseID)
		if err != nil {
			return nil, fmt.Errorf("loading case %s: %w", chunk.CaseID, err)
		}
		kept[chunk.CaseID] = true
		precedents = append(precedents, Precedent{Case: *c, Snippet: chunk.Text})
		if len(precedents) >= k {
			break
		}
	}
	return precedents, nil
}
