package repository

import (
	"context"

	"deudasacero/internal/domain"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append writes one audit row. Append-only: there is no update or
// delete method on purpose.
func (r *AuditRepository) Append(ctx context.Context, tx *gorm.DB, entry *domain.AuditLog) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) List(ctx context.Context, expedienteID *int64, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Model(&domain.AuditLog{}).Order("created_at DESC").Limit(limit)
	if expedienteID != nil {
		q = q.Where("expediente_id = ?", *expedienteID)
	}
	var list []domain.AuditLog
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AuditRepository) CountByExpediente(ctx context.Context, expedienteID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.AuditLog{}).
		Where("expediente_id = ?", expedienteID).
		Count(&count).Error
	return count, err
}
