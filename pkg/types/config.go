package types

import "time"

// Default values applied when a config field is zero. The research command
// exposes each of these as a flag; the orchestrator also normalizes its own
// config so the package stays usable as a library.
const (
	DefaultMaxQueries   = 2
	DefaultBudget       = 2
	DefaultMaxSources   = 10
	DefaultStepTokens   = 1024
	DefaultReportTokens = 8192
	DefaultModel        = "gpt-4o"
	DefaultTemperature  = 0.7
	DefaultTopP         = 0.9
)

// HTTPConfig holds shared HTTP settings used by clients that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "deep-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for calls to the chat-completion API.
type AIConfig struct {
	// Model is the completion model identifier (default "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint. Empty means the provider default;
	// set it to point at a gateway or a test server.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Temperature is the sampling temperature (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// TopP is the nucleus-sampling cutoff (default 0.9).
	TopP float64 `json:"top_p" yaml:"top_p"`
}

// SearchConfig holds settings for the web-search client.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the authentication key for the search API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// ResearchConfig bounds one research session. It is passed to the
// orchestrator at construction; sessions with different budgets can
// coexist in one process.
type ResearchConfig struct {
	// MaxQueries is the maximum number of search queries per cycle (default 2).
	MaxQueries int `json:"max_queries" yaml:"max_queries"`

	// Budget is the number of extra search/summarize cycles allowed beyond
	// the first (default 2). Zero means a single cycle.
	Budget int `json:"budget" yaml:"budget"`

	// MaxSources is the maximum number of summaries selected for the final
	// report (default 10).
	MaxSources int `json:"max_sources" yaml:"max_sources"`

	// StepTokens caps the completion output for planning, summarizing,
	// evaluating, and filtering calls (default 1024).
	StepTokens int `json:"step_tokens" yaml:"step_tokens"`

	// ReportTokens caps the completion output for the final report
	// synthesis (default 8192).
	ReportTokens int `json:"report_tokens" yaml:"report_tokens"`

	// Prompts overrides the built-in stage prompts. Zero-value fields keep
	// their defaults.
	Prompts PromptSet `json:"prompts" yaml:"prompts"`
}

// ArchiveConfig holds settings for the session archive.
type ArchiveConfig struct {
	// Path is the SQLite database file for archived sessions
	// (default "deep-research.db").
	Path string `json:"path" yaml:"path"`
}

// Config groups all component configurations for the deep-research CLI.
type Config struct {
	Research ResearchConfig `json:"research" yaml:"research"`
	AI       AIConfig       `json:"ai" yaml:"ai"`
	Search   SearchConfig   `json:"search" yaml:"search"`
	HTTP     HTTPConfig     `json:"http" yaml:"http"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive"`
}
