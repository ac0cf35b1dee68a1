// Package dto はcallanalysisフィーチャーのリクエスト/レスポンス型を定義します。
package dto

import "time"

// AnalyzeRequest は /analyze の入力です。JSONとフォームの両方から読み取ります。
type AnalyzeRequest struct {
	Transcript string `json:"transcript" form:"transcript"`
}

// AnalyzeResponse は /analyze のJSON出力です。
type AnalyzeResponse struct {
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
	Sentiment  string `json:"sentiment"`
}

// RecordResponse は履歴1件分の出力です。
type RecordResponse struct {
	ID         string    `json:"id"`
	Transcript string    `json:"transcript"`
	Summary    string    `json:"summary"`
	Sentiment  string    `json:"sentiment"`
	CreatedAt  time.Time `json:"created_at"`
}

// ErrorResponse はエラー時の出力です。
type ErrorResponse struct {
	Error string `json:"error"`
}
