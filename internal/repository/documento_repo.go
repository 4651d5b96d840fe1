package repository

import (
	"context"

	"deudasacero/internal/domain"

	"gorm.io/gorm"
)

type DocumentoRepository struct {
	db *gorm.DB
}

func NewDocumentoRepository(db *gorm.DB) *DocumentoRepository {
	return &DocumentoRepository{db: db}
}

func (r *DocumentoRepository) Create(ctx context.Context, d *domain.Documento) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DocumentoRepository) GetByID(ctx context.Context, id int64) (*domain.Documento, error) {
	var d domain.Documento
	tx := r.db.WithContext(ctx).First(&d, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &d, nil
}

func (r *DocumentoRepository) ListByExpediente(ctx context.Context, expedienteID int64) ([]domain.Documento, error) {
	var list []domain.Documento
	err := r.db.WithContext(ctx).
		Where("expediente_id = ?", expedienteID).
		Order("subido_en DESC").
		Find(&list).Error
	return list, err
}

func (r *DocumentoRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.Documento{}).Where("id = ?", id).Updates(fields).Error
}

func (r *DocumentoRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Documento{}, id).Error
}

func (r *DocumentoRepository) CountPendientes(ctx context.Context, expedienteID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Documento{}).
		Where("expediente_id = ? AND estado = ?", expedienteID, domain.DocumentoPendiente).
		Count(&count).Error
	return count, err
}
