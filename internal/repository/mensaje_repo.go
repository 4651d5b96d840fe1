package repository

import (
	"context"

	"deudasacero/internal/domain"

	"gorm.io/gorm"
)

type MensajeRepository struct {
	db *gorm.DB
}

func NewMensajeRepository(db *gorm.DB) *MensajeRepository {
	return &MensajeRepository{db: db}
}

func (r *MensajeRepository) Create(ctx context.Context, m *domain.Mensaje) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MensajeRepository) ListByExpediente(ctx context.Context, expedienteID int64) ([]domain.Mensaje, error) {
	var list []domain.Mensaje
	err := r.db.WithContext(ctx).
		Where("expediente_id = ?", expedienteID).
		Order("enviado_en ASC").
		Find(&list).Error
	return list, err
}

// MarcarLeidos flips the read flag on every message of the thread not
// sent by the reader. Bulk update, fired when the thread is fetched.
func (r *MensajeRepository) MarcarLeidos(ctx context.Context, expedienteID, lectorID int64) error {
	return r.db.WithContext(ctx).Model(&domain.Mensaje{}).
		Where("expediente_id = ? AND user_id <> ? AND leido = ?", expedienteID, lectorID, false).
		Update("leido", true).Error
}

func (r *MensajeRepository) CountNoLeidos(ctx context.Context, expedienteID, lectorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Mensaje{}).
		Where("expediente_id = ? AND user_id <> ? AND leido = ?", expedienteID, lectorID, false).
		Count(&count).Error
	return count, err
}
