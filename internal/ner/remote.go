package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Remote calls a model-backed tagger (transformer or zero-shot) exposed
// as an HTTP endpoint. One request per document, no retries: a failure
// here is stage-local and the pipeline substitutes an empty result.
type Remote struct {
	endpoint string
	http     *http.Client
}

type extractRequest struct {
	Text   string   `json:"text"`
	Labels []string `json:"labels"`
}

type extractResponse struct {
	Entities map[string][]string `json:"entities"`
}

// NewRemote creates a Remote extractor for the given endpoint URL.
func NewRemote(endpoint string) *Remote {
	return &Remote{
		endpoint: endpoint,
		http:     &http.Client{},
	}
}

// Extract POSTs the text and the expected label set, returning the
// endpoint's entity map as-is.
func (r *Remote) Extract(ctx context.Context, text string) (map[string][]string, error) {
	if strings.TrimSpace(text) == "" {
		return map[string][]string{}, nil
	}

	payload, err := json.Marshal(extractRequest{Text: text, Labels: Types})
	if err != nil {
		return nil, fmt.Errorf("marshaling ner request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating ner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ner endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ner endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding ner response: %w", err)
	}
	if decoded.Entities == nil {
		return map[string][]string{}, nil
	}
	return decoded.Entities, nil
}
