// Package usecase はcallanalysisフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"call_analysis/internal/feature/callanalysis/domain/entity"
)

const (
	// DefaultHistoryLimit は履歴取得のデフォルト件数です。
	DefaultHistoryLimit = 20
	// MaxHistoryLimit は履歴取得の最大件数です。
	MaxHistoryLimit = 500
)

// TranscriptAnalyzer はトランスクリプトから要約と感情を導出します。
// ヒューリスティック実装と言語モデル実装はこの境界で差し替え可能です。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TranscriptAnalyzer interface {
	Analyze(ctx context.Context, transcript string) (entity.AnalysisResult, error)
}

// RecordLogger は分析結果を永続的なログへ1件追記します。
type RecordLogger interface {
	Append(ctx context.Context, record entity.LogRecord) error
}

// RecordHistory は追記済みレコードの検索用ミラーです。
type RecordHistory interface {
	Save(ctx context.Context, record entity.LogRecord) (*entity.StoredRecord, error)
	Recent(ctx context.Context, limit int) ([]entity.StoredRecord, error)
}

// callAnalysisUsecase は分析と追記を順に実行するパイプラインです。
type callAnalysisUsecase struct {
	analyzer TranscriptAnalyzer
	logger   RecordLogger
	history  RecordHistory
}

// NewCallAnalysisUsecase はcallAnalysisUsecaseの新しいインスタンスを生成します。
// historyはnilでも構いません。
func NewCallAnalysisUsecase(analyzer TranscriptAnalyzer, logger RecordLogger, history RecordHistory) *callAnalysisUsecase {
	return &callAnalysisUsecase{analyzer: analyzer, logger: logger, history: history}
}

// AnalyzeCall はトランスクリプトを分析し、結果をログへ追記して返します。
func (u *callAnalysisUsecase) AnalyzeCall(ctx context.Context, transcript string) (*entity.LogRecord, error) {
	if transcript == "" {
		return nil, ErrMissingTranscript
	}

	result, err := u.analyzer.Analyze(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	record := entity.NewLogRecord(transcript, result)

	slog.Info("new analysis",
		"transcript", record.Transcript,
		"summary", record.Summary,
		"sentiment", record.Sentiment.String(),
	)

	if err := u.logger.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordNotPersisted, err)
	}

	if u.history != nil {
		// 履歴はベストエフォート。CSVへの追記が正となる
		if _, err := u.history.Save(ctx, record); err != nil {
			slog.Warn("failed to mirror record to history", "error", err)
		}
	}

	return &record, nil
}

// RecentRecords は履歴ストアから新しい順にレコードを返します。
func (u *callAnalysisUsecase) RecentRecords(ctx context.Context, limit int) ([]entity.StoredRecord, error) {
	if u.history == nil {
		return nil, ErrHistoryUnavailable
	}
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return u.history.Recent(ctx, limit)
}
