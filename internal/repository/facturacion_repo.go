package repository

import (
	"context"

	"deudasacero/internal/domain"

	"gorm.io/gorm"
)

type FacturacionRepository struct {
	db *gorm.DB
}

func NewFacturacionRepository(db *gorm.DB) *FacturacionRepository {
	return &FacturacionRepository{db: db}
}

func (r *FacturacionRepository) DB() *gorm.DB { return r.db }

func (r *FacturacionRepository) Create(ctx context.Context, f *domain.Facturacion) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FacturacionRepository) GetByID(ctx context.Context, id int64) (*domain.Facturacion, error) {
	var f domain.Facturacion
	tx := r.db.WithContext(ctx).Preload("Pagos").First(&f, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &f, nil
}

func (r *FacturacionRepository) GetByExpediente(ctx context.Context, expedienteID int64) (*domain.Facturacion, error) {
	var f domain.Facturacion
	tx := r.db.WithContext(ctx).Preload("Pagos").
		Where("expediente_id = ?", expedienteID).
		First(&f)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &f, nil
}

func (r *FacturacionRepository) UpdateFields(ctx context.Context, tx *gorm.DB, id int64, fields map[string]any) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Model(&domain.Facturacion{}).Where("id = ?", id).Updates(fields).Error
}

func (r *FacturacionRepository) CreatePago(ctx context.Context, tx *gorm.DB, p *domain.Pago) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(p).Error
}

func (r *FacturacionRepository) GetPago(ctx context.Context, id int64) (*domain.Pago, error) {
	var p domain.Pago
	tx := r.db.WithContext(ctx).First(&p, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &p, nil
}

func (r *FacturacionRepository) UpdatePagoFields(ctx context.Context, tx *gorm.DB, id int64, fields map[string]any) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Model(&domain.Pago{}).Where("id = ?", id).Updates(fields).Error
}

// SumPagosPagados is the reconciliation input: the sum of child
// payments already in state pagado.
func (r *FacturacionRepository) SumPagosPagados(ctx context.Context, tx *gorm.DB, facturacionID int64) (float64, error) {
	if tx == nil {
		tx = r.db
	}
	var total float64
	err := tx.WithContext(ctx).Model(&domain.Pago{}).
		Where("facturacion_id = ? AND estado = ?", facturacionID, domain.PagoPagado).
		Select("COALESCE(SUM(importe), 0)").
		Scan(&total).Error
	return total, err
}
