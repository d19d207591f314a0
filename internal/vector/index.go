package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/elislabs/elis/internal/embed"
	"github.com/elislabs/elis/internal/store"
)

// SQLiteIndex stores embedded chunks in the case database and answers
// queries with a brute-force cosine scan.
type SQLiteIndex struct {
	store    *store.Store
	embedder embed.Embedder
}

// NewIndex creates an index over the given store and embedder.
func NewIndex(s *store.Store, e embed.Embedder) *SQLiteIndex {
	return &SQLiteIndex{store: s, embedder: e}
}

// Add chunks, embeds and stores one document. A document with no usable
// content is skipped silently, matching how empty scans behave upstream.
func (ix *SQLiteIndex) Add(ctx context.Context, doc Document) error {
	chunks := buildChunks(doc)
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.text
	}
	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks for case %s: %w", doc.CaseID, err)
	}

	for i, c := range chunks {
		if _, err := ix.store.AddChunk(ctx, &store.Chunk{
			CaseID:    doc.CaseID,
			ChunkType: c.chunkType,
			Content:   c.text,
			Embedding: vectors[i],
		}); err != nil {
			return fmt.Errorf("storing chunk for case %s: %w", doc.CaseID, err)
		}
	}
	return nil
}

// Query returns the n closest chunks, ranked by cosine similarity.
func (ix *SQLiteIndex) Query(ctx context.Context, text string, n int) (*Result, error) {
	if n <= 0 {
		n = 5
	}

	queryVec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	chunks, err := ix.store.AllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}

	type scored struct {
		chunk *store.Chunk
		sim   float64
	}
	ranked := make([]scored, 0, len(chunks))
	for _, c := range chunks {
		ranked = append(ranked, scored{chunk: c, sim: cosineSimilarity(queryVec, c.Embedding)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].sim > ranked[j].sim })

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	result := &Result{}
	seen := map[string]bool{}
	for _, r := range ranked {
		result.Chunks = append(result.Chunks, Chunk{
			Text:      r.chunk.Content,
			CaseID:    r.chunk.CaseID,
			ChunkType: r.chunk.ChunkType,
			Distance:  1 - r.sim,
		})
		if !seen[r.chunk.CaseID] {
			seen[r.chunk.CaseID] = true
			result.Sources = append(result.Sources, r.chunk.CaseID)
		}
	}
	return result, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
