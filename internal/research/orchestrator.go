// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research implements the iterative research pipeline: query
// planning, per-cycle search and summarization, gap evaluation, source
// selection, and report synthesis, driven by a budget-bounded state machine.
// See docs/ARCHITECTURE.md § Research Orchestrator.
package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/deep-research/internal/websearch"
	"github.com/pdiddy/deep-research/pkg/types"
)

// CompletionClient sends a role-tagged message sequence to a language model
// and returns free-form text. Failures propagate to the caller unmodified;
// no implementation retries.
type CompletionClient interface {
	Complete(ctx context.Context, messages []types.Message, maxTokens int) (string, error)
}

// SearchClient sends a query to a web-search service and returns document
// snippets. Provider-side failures surface as an empty result, not an
// error; only transport-level failures return one.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]types.Document, error)
}

// state is one phase of the session state machine.
type state int

const (
	statePlan state = iota
	stateCycle
	stateEvaluate
	stateFinalize
)

// Result is the terminal value of one research session.
type Result struct {
	// SessionID is the UUID assigned at session start.
	SessionID string `json:"session_id" yaml:"session_id"`

	// Topic is the research question the session answered.
	Topic string `json:"topic" yaml:"topic"`

	// Report is the final cited markdown text.
	Report string `json:"report" yaml:"report"`

	// Evidence is the full evidence pool in append order, one summary per
	// issued query.
	Evidence []string `json:"evidence" yaml:"evidence"`

	// Selected holds the 1-based pool indices chosen for the report, in
	// selection order.
	Selected []int `json:"selected" yaml:"selected"`

	// Cycles is the number of completed search/summarize cycles.
	Cycles int `json:"cycles" yaml:"cycles"`

	// Converged reports whether the evaluator ended the loop before the
	// budget ran out.
	Converged bool `json:"converged" yaml:"converged"`

	// Citations is the number of [Ref N] markers in the report.
	Citations int `json:"citations" yaml:"citations"`

	// Stats counts the external calls the session made.
	Stats types.CallStats `json:"stats" yaml:"stats"`
}

// Orchestrator drives one research session through the PLAN → CYCLE →
// EVALUATE → FINALIZE state machine. It owns the evidence pool and the
// current query set for the duration of a session; no other component
// mutates them. Sessions are independent: nothing is shared or cached
// between runs, and every Run builds its state from scratch.
type Orchestrator struct {
	search     SearchClient
	planner    *Planner
	summarizer *Summarizer
	evaluator  *Evaluator
	selector   *Selector
	writer     *Writer
	cfg        types.ResearchConfig
	log        *zap.Logger
}

// New builds an orchestrator over the given clients. Zero-value config
// fields fall back to the package defaults, except Budget: zero is a valid
// budget meaning a single cycle. A nil logger disables logging, so the
// package works as a library without one.
func New(completion CompletionClient, search SearchClient, cfg types.ResearchConfig, log *zap.Logger) *Orchestrator {
	if cfg.MaxQueries <= 0 {
		cfg.MaxQueries = types.DefaultMaxQueries
	}
	if cfg.Budget < 0 {
		cfg.Budget = 0
	}
	if cfg.MaxSources <= 0 {
		cfg.MaxSources = types.DefaultMaxSources
	}
	if cfg.StepTokens <= 0 {
		cfg.StepTokens = types.DefaultStepTokens
	}
	if cfg.ReportTokens <= 0 {
		cfg.ReportTokens = types.DefaultReportTokens
	}
	cfg.Prompts = mergePrompts(cfg.Prompts)
	if log == nil {
		log = zap.NewNop()
	}

	return &Orchestrator{
		search: search,
		planner: &Planner{
			Completion: completion,
			Prompt:     cfg.Prompts.Planning,
			MaxQueries: cfg.MaxQueries,
			StepTokens: cfg.StepTokens,
		},
		summarizer: &Summarizer{
			Completion: completion,
			Prompt:     cfg.Prompts.Summarizer,
			StepTokens: cfg.StepTokens,
		},
		evaluator: &Evaluator{
			Completion: completion,
			Prompt:     cfg.Prompts.Evaluation,
			MaxQueries: cfg.MaxQueries,
			StepTokens: cfg.StepTokens,
		},
		selector: &Selector{
			Completion: completion,
			Prompt:     cfg.Prompts.Filtering,
			MaxSources: cfg.MaxSources,
			StepTokens: cfg.StepTokens,
		},
		writer: &Writer{
			Completion:   completion,
			Prompt:       cfg.Prompts.Answer,
			ReportTokens: cfg.ReportTokens,
		},
		cfg: cfg,
		log: log,
	}
}

// Run executes one research session for topic and returns its Result. The
// loop performs at most Budget+1 search/summarize cycles; convergence or
// budget exhaustion, whichever comes first, moves it to finalization. All
// external calls are strictly sequential. Any client error aborts the
// session with no partial report.
func (o *Orchestrator) Run(ctx context.Context, topic string) (Result, error) {
	if strings.TrimSpace(topic) == "" {
		return Result{}, fmt.Errorf("research topic is empty")
	}

	result := Result{
		SessionID: uuid.New().String(),
		Topic:     topic,
	}
	log := o.log.With(zap.String("session_id", result.SessionID))
	log.Info("session started",
		zap.String("topic", topic),
		zap.Int("budget", o.cfg.Budget),
		zap.Int("max_queries", o.cfg.MaxQueries))

	var (
		queries        []string
		cycleSummaries []string
		cycle          int
	)

	for s := statePlan; ; {
		switch s {
		case statePlan:
			planned, err := o.planner.Plan(ctx, topic)
			if err != nil {
				return Result{}, err
			}
			result.Stats.CompletionCalls++
			queries = planned
			log.Info("queries planned", zap.Strings("queries", queries))
			s = stateCycle

		case stateCycle:
			log.Info("cycle started", zap.Int("cycle", cycle), zap.Int("queries", len(queries)))
			start := len(result.Evidence)
			for _, query := range queries {
				docs, err := o.search.Search(ctx, query)
				if err != nil {
					return Result{}, fmt.Errorf("searching %q: %w", query, err)
				}
				result.Stats.SearchCalls++
				log.Info("search completed",
					zap.Int("cycle", cycle),
					zap.String("query", query),
					zap.Int("documents", len(docs)))

				summary, err := o.summarizer.Summarize(ctx, topic, websearch.RenderBatch(query, docs))
				if err != nil {
					return Result{}, err
				}
				result.Stats.CompletionCalls++
				result.Evidence = append(result.Evidence, summary)
			}
			cycleSummaries = result.Evidence[start:]
			s = stateEvaluate

		case stateEvaluate:
			followUps, err := o.evaluator.Evaluate(ctx, topic, cycleSummaries)
			if err != nil {
				return Result{}, err
			}
			result.Stats.CompletionCalls++
			result.Cycles = cycle + 1

			switch {
			case len(followUps) == 0:
				result.Converged = true
				log.Info("evidence converged", zap.Int("cycle", cycle))
				s = stateFinalize
			case cycle == o.cfg.Budget:
				log.Info("budget exhausted",
					zap.Int("cycle", cycle),
					zap.Strings("unresolved", followUps))
				s = stateFinalize
			default:
				queries = followUps
				cycle++
				log.Info("follow-up queries queued",
					zap.Int("cycle", cycle),
					zap.Strings("queries", queries))
				s = stateCycle
			}

		case stateFinalize:
			indices, err := o.selector.Select(ctx, result.Evidence)
			if err != nil {
				return Result{}, err
			}
			result.Stats.CompletionCalls++
			result.Selected = indices
			log.Info("sources selected",
				zap.Ints("indices", indices),
				zap.Int("pool", len(result.Evidence)))

			selected := make([]string, 0, len(indices))
			for _, idx := range indices {
				selected = append(selected, result.Evidence[idx-1])
			}

			report, err := o.writer.Write(ctx, topic, selected)
			if err != nil {
				return Result{}, err
			}
			result.Stats.CompletionCalls++
			result.Report = report
			result.Citations = CountCitations(report)
			log.Info("report written",
				zap.Int("chars", len(report)),
				zap.Int("citations", result.Citations))
			return result, nil
		}
	}
}
