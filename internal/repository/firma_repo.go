package repository

import (
	"context"

	"deudasacero/internal/domain"

	"gorm.io/gorm"
)

type FirmaRepository struct {
	db *gorm.DB
}

func NewFirmaRepository(db *gorm.DB) *FirmaRepository {
	return &FirmaRepository{db: db}
}

func (r *FirmaRepository) Create(ctx context.Context, f *domain.Firma) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FirmaRepository) ListByExpediente(ctx context.Context, expedienteID int64) ([]domain.Firma, error) {
	var list []domain.Firma
	err := r.db.WithContext(ctx).
		Where("expediente_id = ?", expedienteID).
		Order("firmado_en DESC").
		Find(&list).Error
	return list, err
}
