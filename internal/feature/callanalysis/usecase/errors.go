package usecase

import "errors"

var (
	// ErrMissingTranscript is returned when no transcript was supplied.
	// Neither the analyzer nor the record logger is invoked in that case.
	ErrMissingTranscript = errors.New("no transcript provided")

	// ErrAnalysisFailed is returned when a model-backed analyzer could not produce a result.
	ErrAnalysisFailed = errors.New("transcript analysis failed")

	// ErrRecordNotPersisted is returned when the record could not be appended to the log.
	ErrRecordNotPersisted = errors.New("analysis record was not persisted")

	// ErrHistoryUnavailable is returned when no history store is configured.
	ErrHistoryUnavailable = errors.New("record history is not configured")
)
