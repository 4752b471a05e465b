package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/deep-research/internal/archive"
	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/internal/research"
	"github.com/pdiddy/deep-research/internal/websearch"
	"github.com/pdiddy/deep-research/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "deep-research/0.1"
)

var researchCmd = &cobra.Command{
	Use:   "research [topic]",
	Short: "Run an iterative research session on a topic",
	Long: `Research runs the full pipeline for a topic: plan search queries, search
the web, summarize what each search returns, evaluate the evidence for
gaps, and iterate on follow-up queries until the evidence converges or the
cycle budget runs out. The most relevant sources are then selected and
cited in a final markdown report printed to stdout.

With no topic argument, the topic is read interactively from stdin.`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().Int("max-queries", 0, "search queries per cycle (default 2)")
	researchCmd.Flags().Int("budget", 0, "extra research cycles after the first (default 2)")
	researchCmd.Flags().Int("max-sources", 0, "sources selected for the report (default 10)")
	researchCmd.Flags().String("model", "", "chat completion model (default gpt-4o)")
	researchCmd.Flags().Int("step-tokens", 0, "completion tokens per pipeline step (default 1024)")
	researchCmd.Flags().Int("report-tokens", 0, "completion tokens for the final report (default 8192)")
	researchCmd.Flags().String("prompts", "", "YAML file overriding built-in stage prompts")
	researchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	researchCmd.Flags().String("output", "", "also write the report to this file")
	researchCmd.Flags().Bool("save", false, "archive the finished session")
	researchCmd.Flags().String("archive", "", "archive database path (default deep-research.db)")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		var err error
		if topic, err = promptTopic(); err != nil {
			return err
		}
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	cfg := researchConfig(cmd)
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set: export it, add it to .env, or create .secrets/openai-api-key")
	}
	if cfg.Search.APIKey == "" {
		return fmt.Errorf("TAVILY_API_KEY is not set: export it, add it to .env, or create .secrets/tavily-api-key")
	}

	if promptsPath := promptsFile(cmd); promptsPath != "" {
		prompts, err := research.LoadPrompts(promptsPath)
		if err != nil {
			return err
		}
		cfg.Research.Prompts = prompts
	}

	llmClient := llm.NewClient(cfg.AI, httputil.NewClient(cfg.HTTP))
	searchClient := &websearch.Client{
		Client: httputil.NewClient(cfg.Search.HTTPConfig),
		APIKey: cfg.Search.APIKey,
	}

	orch := research.New(llmClient, searchClient, cfg.Research, logger)
	result, err := orch.Run(context.Background(), topic)
	if err != nil {
		return err
	}

	fmt.Printf("\n===== Final Report =====\n\n%s\n", result.Report)

	status := "budget exhausted"
	if result.Converged {
		status = "converged"
	}
	fmt.Fprintf(os.Stderr, "\nSession %s %s after %d cycle(s): %d sources gathered, %d selected, %d citation(s), %d completion call(s), %d search call(s)\n",
		result.SessionID, status, result.Cycles,
		len(result.Evidence), len(result.Selected), result.Citations,
		result.Stats.CompletionCalls, result.Stats.SearchCalls)

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		if err := os.WriteFile(outPath, []byte(result.Report), 0o644); err != nil {
			return fmt.Errorf("writing report to %s: %w", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outPath)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := archive.NewStore(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Save(context.Background(), result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Session archived to %s\n", cfg.Archive.Path)
	}

	return nil
}

// promptTopic reads the research topic interactively from stdin.
func promptTopic() (string, error) {
	fmt.Print("Enter your research question: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading topic: %w", err)
	}
	topic := strings.TrimSpace(line)
	if topic == "" {
		return "", fmt.Errorf("research topic is empty")
	}
	return topic, nil
}

// newLogger builds the session logger. Without --verbose only warnings and
// errors reach stderr, keeping the report output clean.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// researchConfig assembles the session config from viper (file, env,
// defaults) with explicit flags taking precedence.
func researchConfig(cmd *cobra.Command) types.Config {
	cfg := types.Config{
		Research: types.ResearchConfig{
			MaxQueries:   viper.GetInt("research.max_queries"),
			Budget:       viper.GetInt("research.budget"),
			MaxSources:   viper.GetInt("research.max_sources"),
			StepTokens:   viper.GetInt("research.step_tokens"),
			ReportTokens: viper.GetInt("research.report_tokens"),
		},
		AI: types.AIConfig{
			Model:       viper.GetString("research.model"),
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			BaseURL:     viper.GetString("ai.base_url"),
			Temperature: viper.GetFloat64("research.temperature"),
			TopP:        viper.GetFloat64("research.top_p"),
		},
		Search: types.SearchConfig{
			APIKey: os.Getenv("TAVILY_API_KEY"),
		},
		HTTP: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		Archive: types.ArchiveConfig{
			Path: viper.GetString("archive.path"),
		},
	}

	if v, _ := cmd.Flags().GetInt("max-queries"); v > 0 {
		cfg.Research.MaxQueries = v
	}
	if cmd.Flags().Changed("budget") {
		cfg.Research.Budget, _ = cmd.Flags().GetInt("budget")
	}
	if v, _ := cmd.Flags().GetInt("max-sources"); v > 0 {
		cfg.Research.MaxSources = v
	}
	if v, _ := cmd.Flags().GetInt("step-tokens"); v > 0 {
		cfg.Research.StepTokens = v
	}
	if v, _ := cmd.Flags().GetInt("report-tokens"); v > 0 {
		cfg.Research.ReportTokens = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.AI.Model = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.HTTP.Timeout = v
	}
	if v, _ := cmd.Flags().GetString("archive"); v != "" {
		cfg.Archive.Path = v
	}

	cfg.Search.HTTPConfig = cfg.HTTP
	return cfg
}

// promptsFile resolves the stage-prompt override path from the flag or config.
func promptsFile(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("prompts"); path != "" {
		return path
	}
	return viper.GetString("research.prompts_file")
}
