// Package heuristic はモデルを使わない簡易的なトランスクリプト分析を提供します。
//
// 要約は先頭2文の切り出し、感情はキーワードの部分一致で判定します。
// どちらも本物の言語モデルに差し替えるためのプレースホルダです。
package heuristic

import (
	"context"
	"strings"

	"call_analysis/internal/feature/callanalysis/domain/entity"
	"call_analysis/internal/feature/callanalysis/usecase"
)

const (
	// summarySentences は要約に含める文の最大数です。
	summarySentences = 2
	// sentenceSeparator は要約内の文の区切りです。
	sentenceSeparator = ". "
)

// Analyzer はキーワード辞書を使ってトランスクリプトを分析します。
type Analyzer struct {
	lexicon Lexicon
}

var _ usecase.TranscriptAnalyzer = (*Analyzer)(nil)

// NewAnalyzer はAnalyzerの新しいインスタンスを生成します。
// 辞書はキーワードを小文字化したコピーとして保持します。
func NewAnalyzer(lexicon Lexicon) *Analyzer {
	return &Analyzer{lexicon: lexicon.normalized()}
}

// Analyze はusecase.TranscriptAnalyzerを実装します。失敗することはありません。
func (a *Analyzer) Analyze(_ context.Context, transcript string) (entity.AnalysisResult, error) {
	return a.AnalyzeText(transcript), nil
}

// AnalyzeText は任意の文字列（空文字列を含む）に対して決定的に結果を返します。
func (a *Analyzer) AnalyzeText(transcript string) entity.AnalysisResult {
	return entity.AnalysisResult{
		Summary:   Summarize(transcript),
		Sentiment: a.lexicon.Classify(transcript),
	}
}

// Summarize は "." で分割し、空白を除いた空でない先頭2片を ". " で連結します。
// 1片以上あれば末尾に "." を付け、1片もなければ空文字列を返します。
func Summarize(transcript string) string {
	taken := make([]string, 0, summarySentences)
	for _, piece := range strings.Split(transcript, ".") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		taken = append(taken, piece)
		if len(taken) == summarySentences {
			break
		}
	}
	if len(taken) == 0 {
		return ""
	}
	return strings.Join(taken, sentenceSeparator) + "."
}
