// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Planner turns a research topic into the initial set of search queries.
type Planner struct {
	// Completion is the chat-completion client.
	Completion CompletionClient

	// Prompt is the planning system prompt.
	Prompt string

	// MaxQueries caps the number of queries returned.
	MaxQueries int

	// StepTokens caps the completion output.
	StepTokens int
}

// Plan asks the model to break topic into focused search queries. It always
// returns at least one query: when the response has no usable lines the raw
// text itself becomes the query. Completion failures propagate unmodified.
func (p *Planner) Plan(ctx context.Context, topic string) ([]string, error) {
	messages := []types.Message{
		{Role: types.RoleSystem, Content: p.Prompt},
		{Role: types.RoleUser, Content: topic},
	}

	response, err := p.Completion.Complete(ctx, messages, p.StepTokens)
	if err != nil {
		return nil, fmt.Errorf("planning queries: %w", err)
	}
	return ParseQueries(response, p.MaxQueries), nil
}
