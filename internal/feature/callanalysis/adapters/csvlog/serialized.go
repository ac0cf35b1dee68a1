package csvlog

import (
	"context"
	"sync"

	"call_analysis/internal/feature/callanalysis/domain/entity"
	"call_analysis/internal/feature/callanalysis/usecase"
)

// Serialized funnels appends from concurrent callers through a single lock.
// It only protects writers inside this process; other processes appending to
// the same file can still interleave rows.
type Serialized struct {
	mu    sync.Mutex
	inner usecase.RecordLogger
}

var _ usecase.RecordLogger = (*Serialized)(nil)

// NewSerialized wraps inner with a single-writer lock.
func NewSerialized(inner usecase.RecordLogger) *Serialized {
	return &Serialized{inner: inner}
}

// Append implements usecase.RecordLogger.
func (s *Serialized) Append(ctx context.Context, record entity.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Append(ctx, record)
}
