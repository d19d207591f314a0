package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elislabs/elis/internal/retrieve"
	"github.com/elislabs/elis/internal/store"
	"github.com/elislabs/elis/internal/vector"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// helper: create a test store with a few decided cases
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(store.Config{DBPath: filepath.Join(t.TempDir(), "elis.db")})
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	cases := []*store.CaseRecord{
		{
			Case: store.Case{
				CaseID: "7A/123/2023", CaseType: "7A", Outcome: "non_compliant",
				SectionCited: "7A", JudgeName: "A. K. Sharma", TotalDues: 275000,
			},
			Entities: []store.Entity{{Type: "Judge", Text: "A. K. Sharma"}},
		},
		{
			Case: store.Case{
				CaseID: "14B/45/2022", CaseType: "14B", Outcome: "non_compliant",
				SectionCited: "14B", JudgeName: "R. Gupta",
			},
		},
	}
	for _, rec := range cases {
		if _, err := s.CommitCase(ctx, rec); err != nil {
			t.Fatalf("committing test case: %v", err)
		}
	}
	return s
}

// stubIndex returns a fixed ranking regardless of the query.
type stubIndex struct {
	result vector.Result
}

func (s *stubIndex) Add(context.Context, vector.Document) error { return nil }

func (s *stubIndex) Query(context.Context, string, int) (*vector.Result, error) {
	out := s.result
	return &out, nil
}

func newTestServer(t *testing.T, s *store.Store) *server.MCPServer {
	t.Helper()
	idx := &stubIndex{result: vector.Result{
		Chunks: []vector.Chunk{
			{CaseID: "14B/45/2022", Text: "damages for delayed remittance", Distance: 0.1},
			{CaseID: "7A/123/2023", Text: "determination of dues", Distance: 0.2},
		},
		Sources: []string{"14B/45/2022", "7A/123/2023"},
	}}
	return NewServer(ServerConfig{
		Store:     s,
		Retriever: retrieve.NewRetriever(idx, s),
		Version:   "test",
	})
}

// callTool invokes an MCP tool through the server's message handler.
func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]interface{}) *mcplib.CallToolResult {
	t.Helper()

	result := srv.HandleMessage(context.Background(), mustMarshal(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      name,
			"arguments": args,
		},
	}))

	respBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, string(respBytes))
	}
	if resp.Error != nil {
		t.Fatalf("JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}

	callResult := &mcplib.CallToolResult{IsError: resp.Result.IsError}
	for _, c := range resp.Result.Content {
		if c.Type == "text" {
			callResult.Content = append(callResult.Content, mcplib.NewTextContent(c.Text))
		}
	}
	return callResult
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func getTextContent(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content found")
	return ""
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, setupTestStore(t))
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
}

func TestPrecedentsTool(t *testing.T) {
	srv := newTestServer(t, setupTestStore(t))

	result := callTool(t, srv, "elis_search_precedents", map[string]interface{}{
		"query": "delayed remittance damages",
	})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getTextContent(t, result))
	}

	var results []precedentResult
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &results); err != nil {
		t.Fatalf("parsing precedent results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 precedents, got %d", len(results))
	}
	// Semantic rank order survives the round-trip.
	if results[0].CaseID != "14B/45/2022" || results[1].CaseID != "7A/123/2023" {
		t.Errorf("unexpected order: %s, %s", results[0].CaseID, results[1].CaseID)
	}
}

func TestPrecedentsToolSectionFilter(t *testing.T) {
	srv := newTestServer(t, setupTestStore(t))

	result := callTool(t, srv, "elis_search_precedents", map[string]interface{}{
		"query":   "dues",
		"section": "7A",
	})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getTextContent(t, result))
	}

	var results []precedentResult
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &results); err != nil {
		t.Fatalf("parsing precedent results: %v", err)
	}
	if len(results) != 1 || results[0].CaseID != "7A/123/2023" {
		t.Fatalf("expected only the 7A case, got %+v", results)
	}
}

func TestPrecedentsToolWithoutIndex(t *testing.T) {
	srv := NewServer(ServerConfig{Store: setupTestStore(t)})

	result := callTool(t, srv, "elis_search_precedents", map[string]interface{}{
		"query": "anything",
	})
	if !result.IsError {
		t.Fatal("expected error when no index is configured")
	}
}

func TestGetCaseTool(t *testing.T) {
	srv := newTestServer(t, setupTestStore(t))

	result := callTool(t, srv, "elis_get_case", map[string]interface{}{
		"case_id": "7A/123/2023",
	})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getTextContent(t, result))
	}

	text := getTextContent(t, result)
	if !strings.Contains(text, "7A/123/2023") || !strings.Contains(text, "A. K. Sharma") {
		t.Errorf("unexpected case payload: %s", text)
	}
}

func TestGetCaseToolMissing(t *testing.T) {
	srv := newTestServer(t, setupTestStore(t))

	result := callTool(t, srv, "elis_get_case", map[string]interface{}{
		"case_id": "NOPE/1",
	})
	if !result.IsError {
		t.Fatal("expected error for unknown case")
	}
}

func TestStatsTool(t *testing.T) {
	srv := newTestServer(t, setupTestStore(t))

	result := callTool(t, srv, "elis_corpus_stats", map[string]interface{}{})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getTextContent(t, result))
	}

	var stats store.CorpusStats
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &stats); err != nil {
		t.Fatalf("parsing stats: %v", err)
	}
	if stats.CaseCount != 2 {
		t.Errorf("expected 2 cases, got %d", stats.CaseCount)
	}
	if stats.ByCaseType["7A"] != 1 || stats.ByCaseType["14B"] != 1 {
		t.Errorf("unexpected case-type breakdown: %v", stats.ByCaseType)
	}
}
