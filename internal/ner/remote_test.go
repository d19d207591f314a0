package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Text == "" || len(req.Labels) == 0 {
			t.Errorf("request missing text or labels: %+v", req)
		}
		json.NewEncoder(w).Encode(extractResponse{
			Entities: map[string][]string{
				TypeJudge: {"A. K. Sharma"},
			},
		})
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL)
	got, err := remote.Extract(context.Background(), "order text")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got[TypeJudge]) != 1 || got[TypeJudge][0] != "A. K. Sharma" {
		t.Errorf("Judge = %v", got[TypeJudge])
	}
}

func TestRemoteExtractServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL)
	if _, err := remote.Extract(context.Background(), "order text"); err == nil {
		t.Fatal("expected error from 500 response")
	}
}

func TestRemoteExtractBlankInputSkipsCall(t *testing.T) {
	remote := NewRemote("http://127.0.0.1:1") // must never be dialed
	got, err := remote.Extract(context.Background(), "  \n ")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("entities = %v, want empty map", got)
	}
}
