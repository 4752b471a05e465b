// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Selector ranks the evidence pool and picks the most relevant entries.
type Selector struct {
	// Completion is the chat-completion client.
	Completion CompletionClient

	// Prompt is the filtering system prompt.
	Prompt string

	// MaxSources caps the number of selected entries.
	MaxSources int

	// StepTokens caps the completion output.
	StepTokens int
}

// Select presents the pool as stable 1-based "[i] summary" labels, asks the
// model for the most relevant subset, and returns the chosen indices in the
// model's ranking order: unique, within [1, len(pool)], at most MaxSources.
// A response without numeric tokens yields an empty selection, not an error.
func (s *Selector) Select(ctx context.Context, pool []string) ([]int, error) {
	labeled := make([]string, 0, len(pool))
	for i, summary := range pool {
		labeled = append(labeled, fmt.Sprintf("[%d] %s", i+1, summary))
	}

	messages := []types.Message{
		{Role: types.RoleSystem, Content: s.Prompt},
		{Role: types.RoleUser, Content: strings.Join(labeled, "\n")},
	}

	response, err := s.Completion.Complete(ctx, messages, s.StepTokens)
	if err != nil {
		return nil, fmt.Errorf("ranking sources: %w", err)
	}
	return ParseIndices(response, len(pool), s.MaxSources), nil
}
