// Package prompt はモデル経由の分析で共有するプロンプトと応答パーサーを提供します。
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"call_analysis/internal/feature/callanalysis/domain/entity"
)

// SystemPrompt はモデルにJSONのみを返させる指示です。
const SystemPrompt = `You analyze customer support call transcripts.
Reply with a single JSON object and nothing else:
{"summary": "<2-3 sentence summary>", "sentiment": "Positive" | "Negative" | "Neutral"}`

// UserPrompt はトランスクリプトを埋め込んだユーザーメッセージを返します。
func UserPrompt(transcript string) string {
	return "Transcript:\n" + transcript
}

type response struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
}

// ParseResult はモデルの応答をAnalysisResultに変換します。
// コードフェンスで囲まれた応答も受け付けます。
func ParseResult(raw string) (entity.AnalysisResult, error) {
	body := stripFence(strings.TrimSpace(raw))
	if body == "" {
		return entity.AnalysisResult{}, fmt.Errorf("empty model response")
	}

	var r response
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return entity.AnalysisResult{}, fmt.Errorf("decode model response: %w", err)
	}
	sentiment, err := entity.ParseSentiment(r.Sentiment)
	if err != nil {
		return entity.AnalysisResult{}, err
	}
	return entity.AnalysisResult{
		Summary:   strings.TrimSpace(r.Summary),
		Sentiment: sentiment,
	}, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// 言語指定（```json）を読み飛ばす
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
