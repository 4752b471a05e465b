// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides the chat-completion client used by every pipeline
// stage that talks to a language model.
// See docs/ARCHITECTURE.md § Completion Client.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Client sends role-tagged message sequences to the OpenAI chat-completions
// API and returns the completion text. A failed call is returned to the
// caller as-is; there is no retry or backoff at this layer, so transport,
// auth, and rate-limit failures abort the session.
type Client struct {
	api openai.Client
	cfg types.AIConfig
}

// NewClient builds a completion client from cfg. Zero-value model and
// sampling fields fall back to the package defaults. httpClient carries the
// shared timeout and User-Agent; nil means the SDK default client.
func NewClient(cfg types.AIConfig, httpClient *http.Client) *Client {
	if cfg.Model == "" {
		cfg.Model = types.DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = types.DefaultTemperature
	}
	if cfg.TopP == 0 {
		cfg.TopP = types.DefaultTopP
	}

	// The SDK retries rate limits twice by default; this pipeline never
	// retries, so pin it to zero.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &Client{api: openai.NewClient(opts...), cfg: cfg}
}

// Complete sends messages to the configured model and returns the trimmed
// text of the first choice. maxTokens caps the completion output.
func (c *Client) Complete(ctx context.Context, messages []types.Message, maxTokens int) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.cfg.Model),
		Messages:    toMessageParams(messages),
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(c.cfg.Temperature),
		TopP:        openai.Float(c.cfg.TopP),
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// toMessageParams converts pipeline messages to SDK message unions.
func toMessageParams(messages []types.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case types.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
