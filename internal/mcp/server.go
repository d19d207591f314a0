// Package mcp provides a Model Context Protocol server over the case
// corpus.
//
// It exposes precedent search, case lookup and corpus statistics as MCP
// tools over stdio, so order-drafting assistants can pull structured
// precedent material directly.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/elislabs/elis/internal/retrieve"
	"github.com/elislabs/elis/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store     *store.Store
	Retriever *retrieve.Retriever // nil when no semantic index is configured
	Version   string
}

// dbMu serializes tool calls that touch the database. The mcp-go library
// dispatches handlers concurrently via goroutines; SQLite supports only
// one writer at a time and the pipeline contract is single-threaded.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with every corpus tool.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"ELIS",
		ver,
		server.WithToolCapabilities(false),
	)

	registerPrecedentsTool(s, cfg.Retriever)
	registerGetCaseTool(s, cfg.Store)
	registerStatsTool(s, cfg.Store)

	return s
}

// precedentResult is the wire shape returned by elis_search_precedents.
type precedentResult struct {
	CaseID        string  `json:"case_id"`
	CaseType      string  `json:"case_type"`
	Outcome       string  `json:"outcome"`
	OrderDate     string  `json:"order_date,omitempty"`
	SectionCited  string  `json:"section_cited,omitempty"`
	JudgeName     string  `json:"judge_name,omitempty"`
	Establishment string  `json:"establishment,omitempty"`
	TotalDues     float64 `json:"total_dues,omitempty"`
	Snippet       string  `json:"snippet,omitempty"`
}

func registerPrecedentsTool(s *server.MCPServer, retriever *retrieve.Retriever) {
	tool := mcp.NewTool("elis_search_precedents",
		mcp.WithDescription("Search decided provident-fund cases for precedents matching a draft query. Semantic ranking with exact metadata filters on section and judge."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text description of the matter being drafted"),
		),
		mcp.WithString("section",
			mcp.Description("Restrict to cases citing this section (e.g. '7A', '14B')"),
		),
		mcp.WithString("judge",
			mcp.Description("Restrict to cases decided by this officer"),
		),
		mcp.WithNumber("k",
			mcp.Description(fmt.Sprintf("Maximum precedents to return (default: %d)", retrieve.DefaultK)),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		if retriever == nil {
			return mcp.NewToolResultError("no semantic index configured; run process with an embedding backend first"), nil
		}

		query, err := req.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		var filters store.Filters
		if section, err := req.RequireString("section"); err == nil {
			filters.Section = section
		}
		if judge, err := req.RequireString("judge"); err == nil {
			filters.Judge = judge
		}

		k := retrieve.DefaultK
		if kVal, err := req.RequireFloat("k"); err == nil && int(kVal) > 0 {
			k = int(kVal)
		}

		precedents, err := retriever.GetPrecedents(ctx, query, filters, k)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("precedent search error: %v", err)), nil
		}

		results := make([]precedentResult, 0, len(precedents))
		for _, p := range precedents {
			results = append(results, precedentResult{
				CaseID:        p.Case.CaseID,
				CaseType:      p.Case.CaseType,
				Outcome:       p.Case.Outcome,
				OrderDate:     p.Case.OrderDate,
				SectionCited:  p.Case.SectionCited,
				JudgeName:     p.Case.JudgeName,
				Establishment: p.Case.Establishment,
				TotalDues:     p.Case.TotalDues,
				Snippet:       p.Snippet,
			})
		}

		data, _ := json.MarshalIndent(results, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerGetCaseTool(s *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool("elis_get_case",
		mcp.WithDescription("Fetch one case with all derived children: entities, hearing timeline, relations and the financial breakdown."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("case_id",
			mcp.Required(),
			mcp.Description("Case identifier, e.g. '7A/123/2023'"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		caseID, err := req.RequireString("case_id")
		if err != nil || strings.TrimSpace(caseID) == "" {
			return mcp.NewToolResultError("case_id is required"), nil
		}

		rec, err := st.GetCaseRecord(ctx, strings.TrimSpace(caseID))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("case lookup error: %v", err)), nil
		}

		// Full texts are bulky and rarely useful to a drafting assistant.
		rec.Case.RawText = ""
		rec.Case.RenderedText = ""

		data, _ := json.MarshalIndent(rec, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStatsTool(s *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool("elis_corpus_stats",
		mcp.WithDescription("Corpus statistics: case, entity, timeline, relation, financial and chunk counts plus case-type and outcome breakdowns."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := st.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stats error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(stats, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}
