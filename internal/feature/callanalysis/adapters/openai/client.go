// Package openai provides a transcript analyzer backed by an OpenAI-compatible
// chat completion API (OpenAI itself, or Groq via OPENAI_BASE_URL).
package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"

	"call_analysis/internal/feature/callanalysis/adapters/prompt"
	"call_analysis/internal/feature/callanalysis/domain/entity"
	"call_analysis/internal/feature/callanalysis/usecase"
)

const (
	// DefaultModel is used when OPENAI_MODEL is not set.
	DefaultModel = "gpt-4o-mini"
	// DefaultTimeout is used when ANALYZER_TIMEOUT is not set or invalid.
	DefaultTimeout = 30 * time.Second
	maxTokens      = 512
)

// Config holds configuration for the chat completion client.
type Config struct {
	APIKey  string        // bearer token
	BaseURL string        // empty means the public OpenAI endpoint
	Model   string        // chat model name
	Timeout time.Duration // whole-request timeout
}

// LoadConfig loads the client configuration from environment variables.
func LoadConfig() Config {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = DefaultModel
	}
	timeout, err := time.ParseDuration(os.Getenv("ANALYZER_TIMEOUT"))
	if err != nil || timeout <= 0 {
		timeout = DefaultTimeout
	}
	return Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   model,
		Timeout: timeout,
	}
}

// Analyzer asks a chat model for a summary and a sentiment label.
type Analyzer struct {
	client *openai.Client
	model  string
}

var _ usecase.TranscriptAnalyzer = (*Analyzer)(nil)

// NewAnalyzer creates an Analyzer using httpClient for transport.
func NewAnalyzer(cfg Config, httpClient *http.Client) (*Analyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Analyzer{client: openai.NewClientWithConfig(oc), model: model}, nil
}

// Analyze implements usecase.TranscriptAnalyzer.
func (a *Analyzer) Analyze(ctx context.Context, transcript string) (entity.AnalysisResult, error) {
	req := openai.ChatCompletionRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.UserPrompt(transcript)},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return entity.AnalysisResult{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return entity.AnalysisResult{}, fmt.Errorf("chat completion returned no choices")
	}

	result, err := prompt.ParseResult(resp.Choices[0].Message.Content)
	if err != nil {
		return entity.AnalysisResult{}, fmt.Errorf("chat completion response: %w", err)
	}
	return result, nil
}
