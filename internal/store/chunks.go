package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
)

// Chunk is one embedded slice of a case's content.
type Chunk struct {
	ID        int64
	CaseID    string // business case identifier, not the rowid
	ChunkType string // "metadata" or "content"
	Content   string
	Embedding []float32
}

// AddChunk stores an embedded chunk.
func (s *Store) AddChunk(ctx context.Context, c *Chunk) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chunks (case_id, chunk_type, content, embedding, dimensions) VALUES (?, ?, ?, ?, ?)`,
		c.CaseID, c.ChunkType, c.Content, float32ToBytes(c.Embedding), len(c.Embedding),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting chunk for case %s: %w", c.CaseID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading chunk rowid: %w", err)
	}
	c.ID = id
	return id, nil
}

// AllChunks streams every stored chunk. The vector index scans these for
// brute-force similarity search.
func (s *Store) AllChunks(ctx context.Context) ([]*Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, chunk_type, content, embedding FROM chunks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*Chunk
	for rows.Next() {
		var c Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.CaseID, &c.ChunkType, &c.Content, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Embedding = bytesToFloat32(blob)
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}

// float32ToBytes converts a float32 slice to a byte slice (little-endian).
func float32ToBytes(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// bytesToFloat32 converts a byte slice back to float32 slice (little-endian).
func bytesToFloat32(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
