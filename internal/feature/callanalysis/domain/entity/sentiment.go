// Package entity はcallanalysisフィーチャーのドメインモデルを定義します。
package entity

import (
	"fmt"
	"strings"
)

// Sentiment は通話の感情ラベルです。ラベル文字列がそのままCSVとJSONに出力されます。
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// String はラベル文字列を返します。
func (s Sentiment) String() string {
	return string(s)
}

// ParseSentiment は大文字小文字を区別せずにラベルを解釈します。
// 未知のラベルはエラーになります。
func ParseSentiment(label string) (Sentiment, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive":
		return SentimentPositive, nil
	case "negative":
		return SentimentNegative, nil
	case "neutral":
		return SentimentNeutral, nil
	default:
		return "", fmt.Errorf("unknown sentiment label %q", label)
	}
}
