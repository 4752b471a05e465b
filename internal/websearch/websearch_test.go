// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/deep-research/pkg/types"
)

// --- Request construction ---

func TestSearchRequestPayload(t *testing.T) {
	var captured map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"query":"q","results":[]}`)
	}))
	defer ts.Close()

	old := tavilyAPIURL
	tavilyAPIURL = ts.URL
	defer func() { tavilyAPIURL = old }()

	c := &Client{Client: ts.Client(), APIKey: "tvly-test-key"}
	_, err := c.Search(context.Background(), "coral bleaching drivers")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got := captured["api_key"]; got != "tvly-test-key" {
		t.Errorf("api_key = %v, want %q", got, "tvly-test-key")
	}
	if got := captured["query"]; got != "coral bleaching drivers" {
		t.Errorf("query = %v, want %q", got, "coral bleaching drivers")
	}
	if got := captured["search_depth"]; got != "advanced" {
		t.Errorf("search_depth = %v, want %q", got, "advanced")
	}
	if got := captured["include_answer"]; got != false {
		t.Errorf("include_answer = %v, want false", got)
	}
	if got := captured["include_raw_content"]; got != true {
		t.Errorf("include_raw_content = %v, want true", got)
	}
}

// --- Response handling ---

func TestSearchReturnsDocumentsInOrder(t *testing.T) {
	resp := `{"query":"q","results":[
		{"title":"First","url":"https://a.example","content":"alpha","score":0.9},
		{"title":"Second","url":"https://b.example","content":"beta","score":0.5}
	]}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, resp)
	}))
	defer ts.Close()

	old := tavilyAPIURL
	tavilyAPIURL = ts.URL
	defer func() { tavilyAPIURL = old }()

	c := &Client{Client: ts.Client(), APIKey: "k"}
	docs, err := c.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []types.Document{
		{Title: "First", URL: "https://a.example", Content: "alpha"},
		{Title: "Second", URL: "https://b.example", Content: "beta"},
	}
	if len(docs) != len(want) {
		t.Fatalf("len(docs) = %d, want %d", len(docs), len(want))
	}
	for i := range want {
		if docs[i] != want[i] {
			t.Errorf("docs[%d] = %+v, want %+v", i, docs[i], want[i])
		}
	}
}

func TestSearchEmptyResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"query":"q","results":[]}`)
	}))
	defer ts.Close()

	old := tavilyAPIURL
	tavilyAPIURL = ts.URL
	defer func() { tavilyAPIURL = old }()

	c := &Client{Client: ts.Client(), APIKey: "k"}
	docs, err := c.Search(context.Background(), "obscure topic xyz")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("len(docs) = %d, want 0", len(docs))
	}
}

func TestSearchProviderErrorBodyDegradesToEmpty(t *testing.T) {
	// Tavily reports auth and quota problems as JSON error bodies. Those
	// must degrade to the no-results path, not abort the session.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":{"error":"invalid api key"}}`)
	}))
	defer ts.Close()

	old := tavilyAPIURL
	tavilyAPIURL = ts.URL
	defer func() { tavilyAPIURL = old }()

	c := &Client{Client: ts.Client(), APIKey: "bad-key"}
	docs, err := c.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("len(docs) = %d, want 0", len(docs))
	}
}

func TestSearchMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>proxy error</html>`)
	}))
	defer ts.Close()

	old := tavilyAPIURL
	tavilyAPIURL = ts.URL
	defer func() { tavilyAPIURL = old }()

	c := &Client{Client: ts.Client(), APIKey: "k"}
	_, err := c.Search(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("error = %q, want substring 'parsing'", err.Error())
	}
}

func TestSearchTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	ts.Close() // Closed server: every request fails at the transport layer.

	old := tavilyAPIURL
	tavilyAPIURL = ts.URL
	defer func() { tavilyAPIURL = old }()

	c := &Client{Client: http.DefaultClient, APIKey: "k"}
	_, err := c.Search(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error for transport failure")
	}
	if !strings.Contains(err.Error(), "Tavily API request") {
		t.Errorf("error = %q, want substring 'Tavily API request'", err.Error())
	}
}

func TestSearchContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer ts.Close()

	old := tavilyAPIURL
	tavilyAPIURL = ts.URL
	defer func() { tavilyAPIURL = old }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Client{Client: ts.Client(), APIKey: "k"}
	_, err := c.Search(ctx, "q")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

// --- Batch rendering ---

func TestRenderBatch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		docs  []types.Document
		want  string
	}{
		{
			name:  "formats title and content blocks",
			query: "q",
			docs: []types.Document{
				{Title: "Reef Study", Content: "Plastics accumulate in reef sediment."},
				{Title: "Follow-up", Content: "Coral polyps ingest microplastic particles."},
			},
			want: "Title: Reef Study\nContent: Plastics accumulate in reef sediment.\n\n" +
				"Title: Follow-up\nContent: Coral polyps ingest microplastic particles.",
		},
		{
			name:  "empty batch renders placeholder",
			query: "deep sea mining law",
			docs:  nil,
			want:  "No results for: deep sea mining law",
		},
		{
			name:  "empty content still renders block",
			query: "q",
			docs:  []types.Document{{Title: "Bare", Content: ""}},
			want:  "Title: Bare\nContent: ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderBatch(tt.query, tt.docs)
			if got != tt.want {
				t.Errorf("RenderBatch() = %q, want %q", got, tt.want)
			}
		})
	}
}
