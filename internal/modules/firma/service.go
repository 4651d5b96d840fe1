package firma

import (
	"context"
	"errors"
	"time"

	"deudasacero/internal/domain"
	"deudasacero/internal/pkg/authz"
	"deudasacero/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	firmas      *repository.FirmaRepository
	expedientes *repository.ExpedienteRepository
}

func NewService(firmas *repository.FirmaRepository, expedientes *repository.ExpedienteRepository) *Service {
	return &Service{firmas: firmas, expedientes: expedientes}
}

// Crear appends a signature record. IP and user agent come from the
// request, never from the body.
func (s *Service) Crear(ctx context.Context, auth authz.Authorizer, req CrearRequest, ip, userAgent string) (*domain.Firma, error) {
	exp, err := s.resolverExpediente(ctx, auth, req.ExpedienteID)
	if err != nil {
		return nil, err
	}

	f := &domain.Firma{
		UUID:           uuid.NewString(),
		ExpedienteID:   exp.ID,
		UserID:         auth.UserID(),
		Tipo:           req.Tipo,
		DocumentoLabel: req.DocumentoLabel,
		FirmaBlob:      req.FirmaBlob,
		IP:             ip,
		UserAgent:      userAgent,
		FirmadoEn:      time.Now(),
	}
	if err := s.firmas.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) Listar(ctx context.Context, auth authz.Authorizer, expedienteID *int64) ([]domain.Firma, error) {
	exp, err := s.resolverExpediente(ctx, auth, expedienteID)
	if err != nil {
		return nil, err
	}
	return s.firmas.ListByExpediente(ctx, exp.ID)
}

func (s *Service) resolverExpediente(ctx context.Context, auth authz.Authorizer, expedienteID *int64) (*domain.Expediente, error) {
	if auth.Rol() == domain.RolCliente {
		exp, err := s.expedientes.GetByClienteID(ctx, auth.UserID())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSinExpediente
			}
			return nil, err
		}
		return exp, nil
	}

	if expedienteID == nil {
		return nil, ErrNotFound
	}
	exp, err := s.expedientes.GetByID(ctx, *expedienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !auth.CanView(exp) {
		return nil, ErrForbidden
	}
	return exp, nil
}
