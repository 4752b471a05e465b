// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Evaluator inspects one cycle's summaries and proposes follow-up queries.
type Evaluator struct {
	// Completion is the chat-completion client.
	Completion CompletionClient

	// Prompt is the evaluation system prompt.
	Prompt string

	// MaxQueries caps the number of follow-up queries returned.
	MaxQueries int

	// StepTokens caps the completion output.
	StepTokens int
}

// Evaluate returns follow-up queries for the gaps the model finds in the
// cycle's summaries. An empty result means the evidence has converged and
// the session should finalize.
func (e *Evaluator) Evaluate(ctx context.Context, topic string, summaries []string) ([]string, error) {
	messages := []types.Message{
		{Role: types.RoleSystem, Content: e.Prompt},
		{Role: types.RoleUser, Content: fmt.Sprintf("Topic: %s\nEvidence:\n%s", topic, strings.Join(summaries, "\n"))},
	}

	response, err := e.Completion.Complete(ctx, messages, e.StepTokens)
	if err != nil {
		return nil, fmt.Errorf("evaluating evidence: %w", err)
	}
	return ParseFollowUps(response, e.MaxQueries), nil
}
