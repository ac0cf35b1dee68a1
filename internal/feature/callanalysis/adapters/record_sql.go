package adapters

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"call_analysis/internal/feature/callanalysis/domain/entity"
	"call_analysis/internal/feature/callanalysis/usecase"
)

type recordSQL struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.RecordHistory = (*recordSQL)(nil)

// NewRecordRepository はgormを使用した分析履歴リポジトリを生成します。
func NewRecordRepository(db *gorm.DB) *recordSQL {
	return &recordSQL{db: db, now: time.Now}
}

// RecordModel は call_analyses テーブルの1行です。
type RecordModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Transcript string    `gorm:"type:text;not null"`
	Summary    string    `gorm:"type:text;not null"`
	Sentiment  string    `gorm:"size:16;not null;index"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (RecordModel) TableName() string {
	return "call_analyses"
}

func toEntity(m RecordModel) entity.StoredRecord {
	return entity.StoredRecord{
		ID: m.ID,
		LogRecord: entity.LogRecord{
			Transcript: m.Transcript,
			Summary:    m.Summary,
			Sentiment:  entity.Sentiment(m.Sentiment),
		},
		CreatedAt: m.CreatedAt,
	}
}

// Save はLogRecordにUUIDと作成日時を付与して保存します。
func (r *recordSQL) Save(ctx context.Context, record entity.LogRecord) (*entity.StoredRecord, error) {
	m := RecordModel{
		ID:         uuid.NewString(),
		Transcript: record.Transcript,
		Summary:    record.Summary,
		Sentiment:  record.Sentiment.String(),
		CreatedAt:  r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	out := toEntity(m)
	return &out, nil
}

// Recent は新しい順にlimit件の履歴を返します。
func (r *recordSQL) Recent(ctx context.Context, limit int) ([]entity.StoredRecord, error) {
	var rows []RecordModel
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.StoredRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
