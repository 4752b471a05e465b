// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Built-in stage prompts. Prompt wording is configuration, not architecture:
// a YAML file loaded with LoadPrompts overrides any of these per stage.
const (
	defaultPlanningPrompt   = "You are a strategic research planner. Generate 3 focused search queries to break down the research topic."
	defaultSummarizerPrompt = "Extract and synthesize only the content relevant to the research topic from the following text."
	defaultEvaluationPrompt = "Evaluate the following research evidence for completeness. List any gaps or follow-up queries if needed."
	defaultFilteringPrompt  = "Rank the following sources by relevance to the research topic. Return top 5 as a list of source IDs."
	defaultAnswerPrompt     = "Create a markdown research report including title, intro, analysis sections with citations [Ref X], and conclusion. Do not use bullets."
)

// DefaultPrompts returns the built-in stage prompts.
func DefaultPrompts() types.PromptSet {
	return types.PromptSet{
		Planning:   defaultPlanningPrompt,
		Summarizer: defaultSummarizerPrompt,
		Evaluation: defaultEvaluationPrompt,
		Filtering:  defaultFilteringPrompt,
		Answer:     defaultAnswerPrompt,
	}
}

// LoadPrompts reads a YAML prompt file and merges it over the defaults.
// Stages absent from the file keep their built-in prompts.
func LoadPrompts(path string) (types.PromptSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PromptSet{}, fmt.Errorf("reading prompts file: %w", err)
	}

	var prompts types.PromptSet
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return types.PromptSet{}, fmt.Errorf("parsing prompts file %s: %w", path, err)
	}
	return mergePrompts(prompts), nil
}

// mergePrompts fills zero-value fields of prompts with the defaults.
func mergePrompts(prompts types.PromptSet) types.PromptSet {
	def := DefaultPrompts()
	if prompts.Planning == "" {
		prompts.Planning = def.Planning
	}
	if prompts.Summarizer == "" {
		prompts.Summarizer = def.Summarizer
	}
	if prompts.Evaluation == "" {
		prompts.Evaluation = def.Evaluation
	}
	if prompts.Filtering == "" {
		prompts.Filtering = def.Filtering
	}
	if prompts.Answer == "" {
		prompts.Answer = def.Answer
	}
	return prompts
}
