// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deep-research pipeline.
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

// Role tags one chat message with its speaker.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged entry in a completion request.
type Message struct {
	// Role identifies the speaker: system or user.
	Role Role `json:"role" yaml:"role"`

	// Content is the message text.
	Content string `json:"content" yaml:"content"`
}

// Document is one web-search hit returned for a query.
type Document struct {
	// Title is the page title as returned by the search provider.
	Title string `json:"title" yaml:"title"`

	// URL is the source location of the hit.
	URL string `json:"url" yaml:"url"`

	// Content is the extracted page content or snippet. May be empty.
	Content string `json:"content" yaml:"content"`
}

// CallStats counts the external calls made during one research session.
type CallStats struct {
	// CompletionCalls is the number of chat-completion requests issued.
	CompletionCalls int `json:"completion_calls" yaml:"completion_calls"`

	// SearchCalls is the number of web-search requests issued.
	SearchCalls int `json:"search_calls" yaml:"search_calls"`
}

// PromptSet holds the system prompts for each pipeline stage. Zero-value
// fields fall back to the built-in defaults at session construction.
type PromptSet struct {
	// Planning turns the research topic into initial search queries.
	Planning string `json:"planning" yaml:"planning"`

	// Summarizer condenses one search-result batch into topic-relevant text.
	Summarizer string `json:"summarizer" yaml:"summarizer"`

	// Evaluation inspects a cycle's summaries and proposes follow-up queries.
	Evaluation string `json:"evaluation" yaml:"evaluation"`

	// Filtering ranks accumulated summaries by relevance to the topic.
	Filtering string `json:"filtering" yaml:"filtering"`

	// Answer composes the selected summaries into the final cited report.
	Answer string `json:"answer" yaml:"answer"`
}
