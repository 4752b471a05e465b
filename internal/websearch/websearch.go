// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries the Tavily web-search API and renders result
// batches for the evidence summarizer.
// See docs/ARCHITECTURE.md § Search Client.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/deep-research/pkg/types"
)

// tavilyAPIURL is the Tavily search endpoint. Declared as a var so tests can
// substitute an httptest server.
var tavilyAPIURL = "https://api.tavily.com/search"

// Client queries the Tavily search API.
type Client struct {
	// Client is the HTTP client used for requests.
	Client *http.Client

	// APIKey authenticates against the Tavily API.
	APIKey string
}

// Search sends one query to Tavily and returns the result documents in
// provider order. Tavily reports provider-side failures in the JSON body, so
// the status code is not inspected: any decodable body without results yields
// an empty slice, which downstream rendering turns into the no-results
// placeholder. Only transport failures and undecodable bodies return an
// error, and those abort the session.
func (c *Client) Search(ctx context.Context, query string) ([]types.Document, error) {
	payload := tavilyRequest{
		APIKey:            c.APIKey,
		Query:             query,
		SearchDepth:       "advanced",
		IncludeAnswer:     false,
		IncludeRawContent: true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Tavily API request: %w", err)
	}
	defer resp.Body.Close()

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing Tavily response: %w", err)
	}

	var docs []types.Document
	for _, r := range tr.Results {
		docs = append(docs, types.Document{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
		})
	}
	return docs, nil
}

// RenderBatch formats one query's documents as summarizer input. Each hit
// becomes a Title/Content block; blocks are joined by blank lines. An empty
// batch renders as a no-results placeholder so the summarizer still receives
// exactly one batch per query.
func RenderBatch(query string, docs []types.Document) string {
	if len(docs) == 0 {
		return "No results for: " + query
	}

	blocks := make([]string, 0, len(docs))
	for _, d := range docs {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nContent: %s", d.Title, d.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// Tavily API JSON structures.
type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
