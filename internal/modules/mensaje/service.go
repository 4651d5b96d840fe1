package mensaje

import (
	"context"
	"errors"
	"strings"
	"time"

	"deudasacero/internal/domain"
	"deudasacero/internal/pkg/authz"
	"deudasacero/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	mensajes    *repository.MensajeRepository
	expedientes *repository.ExpedienteRepository
	hub         *Hub
}

func NewService(mensajes *repository.MensajeRepository, expedientes *repository.ExpedienteRepository, hub *Hub) *Service {
	return &Service{mensajes: mensajes, expedientes: expedientes, hub: hub}
}

// Hilo returns the full thread of an expediente and marks every
// message not sent by the reader as read.
func (s *Service) Hilo(ctx context.Context, auth authz.Authorizer, expedienteID *int64) (*HiloResponse, error) {
	exp, err := s.resolverExpediente(ctx, auth, expedienteID)
	if err != nil {
		return nil, err
	}

	if err := s.mensajes.MarcarLeidos(ctx, exp.ID, auth.UserID()); err != nil {
		return nil, err
	}

	list, err := s.mensajes.ListByExpediente(ctx, exp.ID)
	if err != nil {
		return nil, err
	}

	return &HiloResponse{ExpedienteID: exp.ID, Mensajes: list, NoLeidos: 0}, nil
}

func (s *Service) NoLeidos(ctx context.Context, auth authz.Authorizer, expedienteID *int64) (int64, error) {
	exp, err := s.resolverExpediente(ctx, auth, expedienteID)
	if err != nil {
		return 0, err
	}
	return s.mensajes.CountNoLeidos(ctx, exp.ID, auth.UserID())
}

// Enviar stores the message and then pushes it to the online
// participants of the case. The hub delivery never fails the request.
func (s *Service) Enviar(ctx context.Context, auth authz.Authorizer, req EnviarRequest) (*domain.Mensaje, error) {
	if strings.TrimSpace(req.Texto) == "" {
		return nil, ErrTextoVacio
	}

	exp, err := s.resolverExpediente(ctx, auth, req.ExpedienteID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Mensaje{
		ExpedienteID:     exp.ID,
		UserID:           auth.UserID(),
		RolEmisor:        auth.Rol(),
		Texto:            req.Texto,
		AdjuntoNombre:    req.AdjuntoNombre,
		AdjuntoContenido: req.AdjuntoContenido,
		EnviadoEn:        time.Now(),
	}
	if req.RolDestino != "" {
		rol := domain.Rol(req.RolDestino)
		msg.RolDestino = &rol
	}

	if err := s.mensajes.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.notificar(exp, msg)

	return msg, nil
}

// notificar pushes the stored message to the case participants that
// hold a live websocket connection.
func (s *Service) notificar(exp *domain.Expediente, msg *domain.Mensaje) {
	if s.hub == nil {
		return
	}

	event := NewMensajeEvent(msg)

	if exp.ClienteID != msg.UserID {
		s.hub.SendToUser(exp.ClienteID, event)
	}
	if exp.AbogadoAsignadoID != nil && *exp.AbogadoAsignadoID != msg.UserID {
		s.hub.SendToUser(*exp.AbogadoAsignadoID, event)
	}
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
