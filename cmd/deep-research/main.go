// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deep-research CLI.
// See docs/ARCHITECTURE.md § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deep-research/internal/secrets"
	"github.com/pdiddy/deep-research/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the deep-research CLI.
var rootCmd = &cobra.Command{
	Use:   "deep-research",
	Short: "Iterative LLM-driven web research",
	Long: `deep-research runs an iterative research pipeline over live web search:
it plans search queries for a topic, summarizes what each search returns,
evaluates the evidence for gaps, and loops on follow-up queries until the
evidence converges or the cycle budget runs out. The most relevant sources
are then cited in a final markdown report.

Credentials come from the environment (OPENAI_API_KEY, TAVILY_API_KEY),
a .env file in the working directory, or key files under .secrets/.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables win over both it and
		// the key files.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		secrets.ApplyEnv(s)
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deep-research.yaml or ~/.config/deep-research/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log every pipeline step")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deep-research")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deep-research"))
		}
	}

	viper.SetEnvPrefix("DEEP_RESEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("research.max_queries", types.DefaultMaxQueries)
	viper.SetDefault("research.budget", types.DefaultBudget)
	viper.SetDefault("research.max_sources", types.DefaultMaxSources)
	viper.SetDefault("research.step_tokens", types.DefaultStepTokens)
	viper.SetDefault("research.report_tokens", types.DefaultReportTokens)
	viper.SetDefault("research.model", types.DefaultModel)
	viper.SetDefault("research.temperature", types.DefaultTemperature)
	viper.SetDefault("research.top_p", types.DefaultTopP)
	viper.SetDefault("research.prompts_file", "")
	viper.SetDefault("ai.base_url", "")
	viper.SetDefault("http.timeout", defaultTimeout)
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("archive.path", "deep-research.db")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
