// Package gemini はGoogle Gemini APIを使用したトランスクリプト分析クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"call_analysis/internal/feature/callanalysis/adapters/prompt"
	"call_analysis/internal/feature/callanalysis/domain/entity"
	"call_analysis/internal/feature/callanalysis/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// Config はGeminiAnalyzerの設定です。
type Config struct {
	Model  string              // 空の場合はDefaultModel
	Client *genai.ClientConfig // nilの場合は環境変数（ADC / GOOGLE_API_KEY）から解決
}

// LoadConfig は環境変数 GEMINI_MODEL から設定を読み込みます。
func LoadConfig() Config {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}
	return Config{Model: model}
}

// GeminiAnalyzer はGoogle Gemini APIを使用して要約と感情を生成します。
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// GeminiAnalyzerがTranscriptAnalyzerを実装していることをコンパイル時に検証します。
var _ usecase.TranscriptAnalyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer はGeminiAnalyzerの新しいインスタンスを生成します。
// cfg.Clientがnilの場合は環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT,
// GOOGLE_CLOUD_LOCATION もしくは GOOGLE_API_KEY が必要です。
func NewGeminiAnalyzer(ctx context.Context, cfg Config) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, cfg.Client)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

// Analyze はトランスクリプトから要約と感情を生成します。
func (g *GeminiAnalyzer) Analyze(ctx context.Context, transcript string) (entity.AnalysisResult, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.SystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt.UserPrompt(transcript)), cfg)
	if err != nil {
		return entity.AnalysisResult{}, fmt.Errorf("gemini API request failed: %w", err)
	}

	result, err := prompt.ParseResult(resp.Text())
	if err != nil {
		return entity.AnalysisResult{}, fmt.Errorf("gemini response: %w", err)
	}
	return result, nil
}
