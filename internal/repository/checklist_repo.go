package repository

import (
	"context"

	"deudasacero/internal/domain"

	"gorm.io/gorm"
)

type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

func (r *ChecklistRepository) BulkCreate(ctx context.Context, tx *gorm.DB, items []domain.ChecklistItem) error {
	if len(items) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *ChecklistRepository) GetByID(ctx context.Context, id int64) (*domain.ChecklistItem, error) {
	var item domain.ChecklistItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ChecklistRepository) ListByExpediente(ctx context.Context, expedienteID int64) ([]domain.ChecklistItem, error) {
	var items []domain.ChecklistItem
	err := r.db.WithContext(ctx).
		Where("expediente_id = ?", expedienteID).
		Order("orden ASC").
		Find(&items).Error
	return items, err
}

func (r *ChecklistRepository) Vincular(ctx context.Context, itemID, documentoID int64) error {
	return r.db.WithContext(ctx).Model(&domain.ChecklistItem{}).Where("id = ?", itemID).
		Update("documento_vinculado_id", documentoID).Error
}

func (r *ChecklistRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.ChecklistItem{}).Where("id = ?", id).Updates(fields).Error
}

// Progreso returns linked-or-not-applicable vs total for one case.
func (r *ChecklistRepository) Progreso(ctx context.Context, expedienteID int64) (completados, total int64, err error) {
	base := r.db.WithContext(ctx).Model(&domain.ChecklistItem{}).Where("expediente_id = ?", expedienteID)
	if err = base.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&domain.ChecklistItem{}).
		Where("expediente_id = ? AND (documento_vinculado_id IS NOT NULL OR no_aplica = ?)", expedienteID, true).
		Count(&completados).Error
	return completados, total, err
}
