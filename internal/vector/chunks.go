package vector

import (
	"fmt"
	"sort"
	"strings"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
	// Windows shorter than this are tail fragments with no retrieval value.
	minChunkLen = 100
	// The metadata chunk carries only the head of the content as summary.
	summaryLen        = 500
	maxEntitiesPerTyp = 5
)

// chunkText is a to-be-embedded slice of a document.
type chunkText struct {
	chunkType string // "metadata" or "content"
	text      string
}

// buildChunks splits a document into a metadata chunk plus overlapping
// content windows. Empty content yields no chunks at all.
func buildChunks(doc Document) []chunkText {
	if strings.TrimSpace(doc.Content) == "" {
		return nil
	}

	chunks := []chunkText{{chunkType: "metadata", text: metadataText(doc)}}

	step := chunkSize - chunkOverlap
	for i := 0; i < len(doc.Content); i += step {
		end := i + chunkSize
		if end > len(doc.Content) {
			end = len(doc.Content)
		}
		window := doc.Content[i:end]
		if len(strings.TrimSpace(window)) < minChunkLen {
			continue
		}
		chunks = append(chunks, chunkText{chunkType: "content", text: window})
	}
	return chunks
}

// metadataText builds the searchable summary chunk: identifier, date, top
// entities per type, and the head of the content.
func metadataText(doc Document) string {
	caseID := doc.CaseID
	if caseID == "" {
		caseID = "Unknown"
	}
	parts := []string{fmt.Sprintf("Case ID: %s", caseID)}

	if doc.OrderDate != "" {
		parts = append(parts, fmt.Sprintf("Order Date: %s", doc.OrderDate))
	}

	types := make([]string, 0, len(doc.Entities))
	for entityType := range doc.Entities {
		types = append(types, entityType)
	}
	sort.Strings(types)
	for _, entityType := range types {
		values := doc.Entities[entityType]
		if len(values) == 0 {
			continue
		}
		if len(values) > maxEntitiesPerTyp {
			values = values[:maxEntitiesPerTyp]
		}
		parts = append(parts, fmt.Sprintf("%s: %s", entityType, strings.Join(values, ", ")))
	}

	summary := doc.Content
	if len(summary) > summaryLen {
		summary = summary[:summaryLen]
	}
	parts = append(parts, fmt.Sprintf("Summary: %s", strings.TrimSpace(summary)))

	return strings.Join(parts, "\n")
}
