package repository

import (
	"context"
	"fmt"
	"time"

	"deudasacero/internal/domain"
	"deudasacero/internal/pkg/authz"

	"gorm.io/gorm"
)

type ExpedienteRepository struct {
	db *gorm.DB
}

func NewExpedienteRepository(db *gorm.DB) *ExpedienteRepository {
	return &ExpedienteRepository{db: db}
}

func (r *ExpedienteRepository) DB() *gorm.DB { return r.db }

func (r *ExpedienteRepository) Create(ctx context.Context, e *domain.Expediente) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExpedienteRepository) GetByID(ctx context.Context, id int64) (*domain.Expediente, error) {
	var e domain.Expediente
	tx := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Abogado").
		Preload("Deudas").
		First(&e, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &e, nil
}

func (r *ExpedienteRepository) GetByClienteID(ctx context.Context, clienteID int64) (*domain.Expediente, error) {
	var e domain.Expediente
	tx := r.db.WithContext(ctx).
		Preload("Abogado").
		Preload("Deudas").
		Where("cliente_id = ?", clienteID).
		First(&e)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &e, nil
}

func (r *ExpedienteRepository) ListScoped(ctx context.Context, auth authz.Authorizer) ([]domain.Expediente, error) {
	q := auth.ScopeExpedientes(r.db.WithContext(ctx).Model(&domain.Expediente{})).
		Preload("Cliente").
		Preload("Abogado").
		Order("created_at DESC")
	var list []domain.Expediente
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CambiarFase persists the phase transition in a single UPDATE. It
// deliberately does not touch estado when the case is already closed
// and the new phase is below 10: reopening is a separate action.
func (r *ExpedienteRepository) CambiarFase(ctx context.Context, tx *gorm.DB, id int64, fase domain.Fase, cierre *time.Time) error {
	if tx == nil {
		tx = r.db
	}
	fields := map[string]any{
		"fase_actual": int(fase),
		"progreso":    fase.Porcentaje(),
	}
	if fase.EsFinal() {
		fields["estado"] = domain.ExpedienteCerrado
		if cierre != nil {
			fields["fecha_cierre"] = cierre
		}
	}
	return tx.WithContext(ctx).Model(&domain.Expediente{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ExpedienteRepository) AsignarAbogado(ctx context.Context, id int64, abogadoID *int64) error {
	return r.db.WithContext(ctx).Model(&domain.Expediente{}).Where("id = ?", id).
		Update("abogado_asignado_id", abogadoID).Error
}

func (r *ExpedienteRepository) Reabrir(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.Expediente{}).Where("id = ?", id).
		Updates(map[string]any{
			"estado":       domain.ExpedienteActivo,
			"fecha_cierre": nil,
		}).Error
}

func (r *ExpedienteRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.Expediente{}).Where("id = ?", id).Updates(fields).Error
}

// SiguienteReferencia builds the next human-readable reference for the
// given year, LSO-<year>-<3-digit sequence>.
func (r *ExpedienteRepository) SiguienteReferencia(ctx context.Context, tx *gorm.DB, year int) (string, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	prefix := fmt.Sprintf("LSO-%d-", year)
	if err := tx.WithContext(ctx).Model(&domain.Expediente{}).
		Where("referencia LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func (r *ExpedienteRepository) SumDeudas(ctx context.Context, expedienteID int64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Deuda{}).
		Where("expediente_id = ?", expedienteID).
		Select("COALESCE(SUM(importe), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ExpedienteRepository) CreateDeudas(ctx context.Context, tx *gorm.DB, deudas []domain.Deuda) error {
	if len(deudas) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(&deudas).Error
}
