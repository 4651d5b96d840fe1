package repository

import (
	"context"

	"deudasacero/internal/domain"

	"gorm.io/gorm"
)

type FacturaRepository struct {
	db *gorm.DB
}

func NewFacturaRepository(db *gorm.DB) *FacturaRepository {
	return &FacturaRepository{db: db}
}

func (r *FacturaRepository) DB() *gorm.DB { return r.db }

func (r *FacturaRepository) Create(ctx context.Context, f *domain.Factura) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FacturaRepository) GetByID(ctx context.Context, id int64) (*domain.Factura, error) {
	var f domain.Factura
	tx := r.db.WithContext(ctx).First(&f, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &f, nil
}

func (r *FacturaRepository) List(ctx context.Context, userID *int64) ([]domain.Factura, error) {
	q := r.db.WithContext(ctx).Model(&domain.Factura{}).Order("created_at DESC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var list []domain.Factura
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *FacturaRepository) UpdateFields(ctx context.Context, tx *gorm.DB, id int64, fields map[string]any) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Model(&domain.Factura{}).Where("id = ?", id).Updates(fields).Error
}
