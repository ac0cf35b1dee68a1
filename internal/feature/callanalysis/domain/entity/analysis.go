package entity

import "time"

// AnalysisResult は1件のトランスクリプトから導出された要約と感情です。
type AnalysisResult struct {
	Summary   string    // 先頭2文の切り出し（意味的な要約ではない）
	Sentiment Sentiment // キーワードから判定した感情
}

// LogRecord はCSVへ1行として追記される分析結果です。
type LogRecord struct {
	Transcript string
	Summary    string
	Sentiment  Sentiment
}

// NewLogRecord はトランスクリプトと分析結果からLogRecordを生成します。
func NewLogRecord(transcript string, r AnalysisResult) LogRecord {
	return LogRecord{
		Transcript: transcript,
		Summary:    r.Summary,
		Sentiment:  r.Sentiment,
	}
}

// StoredRecord は履歴ストアに保存されたLogRecordです。
type StoredRecord struct {
	ID        string
	LogRecord
	CreatedAt time.Time
}
