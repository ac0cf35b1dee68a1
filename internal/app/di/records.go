package di

import (
	"gorm.io/gorm"

	callanalysisadapters "call_analysis/internal/feature/callanalysis/adapters"
	"call_analysis/internal/feature/callanalysis/adapters/csvlog"
	"call_analysis/internal/feature/callanalysis/usecase"
)

// NewRecordLogger creates the CSV logger for cfg.Path behind a single-writer
// lock, since HTTP handlers append concurrently.
func NewRecordLogger(cfg csvlog.Config) usecase.RecordLogger {
	return csvlog.NewSerialized(csvlog.NewLogger(cfg))
}

// NewRecordHistory returns the database-backed history, or nil when no
// database is configured.
func NewRecordHistory(db *gorm.DB) usecase.RecordHistory {
	if db == nil {
		return nil
	}
	return callanalysisadapters.NewRecordRepository(db)
}
