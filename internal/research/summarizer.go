// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Summarizer condenses one search-result batch into a topic-relevant summary.
type Summarizer struct {
	// Completion is the chat-completion client.
	Completion CompletionClient

	// Prompt is the summarizer system prompt.
	Prompt string

	// StepTokens caps the completion output.
	StepTokens int
}

// Summarize distills an already-rendered result batch against topic. It runs
// once per query even when the batch is a no-results placeholder, so every
// query contributes exactly one summary to the evidence pool.
func (s *Summarizer) Summarize(ctx context.Context, topic, batch string) (string, error) {
	messages := []types.Message{
		{Role: types.RoleSystem, Content: s.Prompt},
		{Role: types.RoleUser, Content: fmt.Sprintf("Topic: %s\nContent:\n%s", topic, batch)},
	}

	summary, err := s.Completion.Complete(ctx, messages, s.StepTokens)
	if err != nil {
		return "", fmt.Errorf("summarizing evidence: %w", err)
	}
	return summary, nil
}
