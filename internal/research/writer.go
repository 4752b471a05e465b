// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/deep-research/pkg/types"
)

// refPreviewLen bounds the summary preview shown on each reference line.
const refPreviewLen = 60

// citationPattern matches [Ref N] citation markers in report text.
var citationPattern = regexp.MustCompile(`\[Ref\s+\d+\]`)

// Writer composes the selected summaries into the final cited report.
type Writer struct {
	// Completion is the chat-completion client.
	Completion CompletionClient

	// Prompt is the answer system prompt.
	Prompt string

	// ReportTokens caps the completion output for the report.
	ReportTokens int
}

// Write requests the final report. selected holds the chosen summaries in
// selection order; the references block labels them [Ref 1]..[Ref n] in that
// same order, each with a short preview of its summary. The full summary
// texts still go to the model for citation-grounded writing. The no-bullet
// and cite-with-[Ref X] constraints live in the system prompt, never in
// post-processing, so the text comes back exactly as the model wrote it. An
// empty selection still issues the request and returns a best-effort report.
func (w *Writer) Write(ctx context.Context, topic string, selected []string) (string, error) {
	refs := make([]string, 0, len(selected))
	for i, summary := range selected {
		refs = append(refs, fmt.Sprintf("[Ref %d] %s", i+1, refPreview(summary)))
	}

	messages := []types.Message{
		{Role: types.RoleSystem, Content: w.Prompt},
		{Role: types.RoleUser, Content: fmt.Sprintf(
			"Research Topic: %s\nSources:\n%s\nReferences:\n%s",
			topic, strings.Join(selected, "\n"), strings.Join(refs, "\n"))},
	}

	report, err := w.Completion.Complete(ctx, messages, w.ReportTokens)
	if err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return report, nil
}

// CountCitations returns the number of [Ref N] markers in report text.
func CountCitations(report string) int {
	return len(citationPattern.FindAllString(report, -1))
}

// refPreview truncates a summary for display on a reference line.
func refPreview(summary string) string {
	if len(summary) > refPreviewLen {
		summary = summary[:refPreviewLen]
	}
	return summary + "..."
}
