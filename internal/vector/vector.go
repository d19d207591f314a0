// Package vector provides semantic search over chunked case content.
//
// Documents are split into a metadata chunk plus overlapping content
// windows, embedded, and stored alongside the relational data. Queries
// run a brute-force cosine scan, which is plenty for a corpus of orders
// measured in thousands of chunks.
package vector

import "context"

// Document is one case's indexable content.
type Document struct {
	CaseID    string
	OrderDate string
	Content   string
	Entities  map[string][]string
}

// Chunk is one ranked search hit.
type Chunk struct {
	Text      string
	CaseID    string
	ChunkType string
	Distance  float64 // 1 - cosine similarity, lower is closer
}

// Result is a ranked query response. Sources lists the distinct case IDs
// in rank order of their best chunk.
type Result struct {
	Chunks  []Chunk
	Sources []string
}

// Index is the semantic search contract the retriever consumes.
type Index interface {
	Add(ctx context.Context, doc Document) error
	Query(ctx context.Context, text string, n int) (*Result, error)
}
