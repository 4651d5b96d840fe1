package documento

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"deudasacero/internal/domain"
	"deudasacero/internal/pkg/authz"
	"deudasacero/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	documentos  *repository.DocumentoRepository
	checklist   *repository.ChecklistRepository
	expedientes *repository.ExpedienteRepository
	audit       *repository.AuditRepository
}

func NewService(
	documentos *repository.DocumentoRepository,
	checklist *repository.ChecklistRepository,
	expedientes *repository.ExpedienteRepository,
	audit *repository.AuditRepository,
) *Service {
	return &Service{
		documentos:  documentos,
		checklist:   checklist,
		expedientes: expedientes,
		audit:       audit,
	}
}

func (s *Service) Listar(ctx context.Context, auth authz.Authorizer, expedienteID *int64) ([]domain.Documento, error) {
	exp, err := s.resolverExpediente(ctx, auth, expedienteID)
	if err != nil {
		return nil, err
	}
	return s.documentos.ListByExpediente(ctx, exp.ID)
}

// Subir stores the upload inline and then tries to satisfy an open
// checklist slot through the substring matcher. A linkage failure is
// logged, never propagated: the upload itself already succeeded.
func (s *Service) Subir(ctx context.Context, auth authz.Authorizer, req SubirRequest) (*domain.Documento, error) {
	if strings.TrimSpace(req.Contenido) == "" {
		return nil, ErrContenidoVacio
	}

	exp, err := s.resolverExpediente(ctx, auth, req.ExpedienteID)
	if err != nil {
		return nil, err
	}

	doc := &domain.Documento{
		ExpedienteID:  &exp.ID,
		Nombre:        req.Nombre,
		Tipo:          req.Tipo,
		Estado:        domain.DocumentoSubido,
		Fase:          req.Fase,
		SubidoPor:     auth.UserID(),
		NombreFichero: req.NombreFichero,
		Contenido:     req.Contenido,
		Judicial:      req.Judicial,
		SubidoEn:      time.Now(),
	}
	if err := s.documentos.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.vincularChecklist(ctx, exp.ID, doc)

	return doc, nil
}

func (s *Service) vincularChecklist(ctx context.Context, expedienteID int64, doc *domain.Documento) {
	items, err := s.checklist.ListByExpediente(ctx, expedienteID)
	if err != nil {
		log.Printf("level=warn msg=checklist load failed expediente_id=%d err=%v", expedienteID, err)
		return
	}
	item := BuscarItemChecklist(doc.Tipo, items)
	if item == nil {
		return
	}
	if err := s.checklist.Vincular(ctx, item.ID, doc.ID); err != nil {
		log.Printf("level=warn msg=checklist link failed item_id=%d documento_id=%d err=%v", item.ID, doc.ID, err)
	}
}

func (s *Service) Revisar(ctx context.Context, auth authz.Authorizer, id int64, req RevisarRequest, ip, userAgent string) (*domain.Documento, error) {
	estado := domain.EstadoDocumento(req.Estado)
	if estado != domain.DocumentoRevisado && estado != domain.DocumentoIncorrecto {
		return nil, ErrEstadoInvalido
	}

	doc, err := s.cargarVisible(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"estado": estado}
	if req.Notas != "" {
		fields["notas"] = req.Notas
	}
	if err := s.documentos.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	if err := s.audit.Append(ctx, nil, &domain.AuditLog{
		UserID:       auth.UserID(),
		ExpedienteID: doc.ExpedienteID,
		Accion:       "revisar_documento",
		Descripcion:  fmt.Sprintf("documento %q marcado como %s", doc.Nombre, estado),
		IP:           ip,
		UserAgent:    userAgent,
	}); err != nil {
		log.Printf("level=warn msg=audit append failed accion=revisar_documento documento_id=%d err=%v", id, err)
	}

	return s.documentos.GetByID(ctx, id)
}

func (s *Service) Eliminar(ctx context.Context, id int64) error {
	if _, err := s.documentos.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.documentos.Delete(ctx, id)
}

func (s *Service) Checklist(ctx context.Context, auth authz.Authorizer, expedienteID *int64) ([]domain.ChecklistItem, error) {
	exp, err := s.resolverExpediente(ctx, auth, expedienteID)
	if err != nil {
		return nil, err
	}
	return s.checklist.ListByExpediente(ctx, exp.ID)
}

func (s *Service) MarcarNoAplica(ctx context.Context, auth authz.Authorizer, itemID int64, noAplica bool) error {
	item, err := s.checklist.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	exp, err := s.resolverExpediente(ctx, auth, &item.ExpedienteID)
	if err != nil {
		return err
	}
	// Clients resolve to their own case regardless of the item named.
	if exp.ID != item.ExpedienteID {
		return ErrForbidden
	}
	return s.checklist.UpdateFields(ctx, itemID, map[string]any{"no_aplica": noAplica})
}

// resolverExpediente maps the caller to a case: clients always land on
// their own case, everyone else names one and must be allowed to see it.
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

func (s *Service) cargarVisible(ctx context.Context, auth authz.Authorizer, id int64) (*domain.Documento, error) {
	doc, err := s.documentos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.ExpedienteID != nil {
		if _, err := s.resolverExpediente(ctx, auth, doc.ExpedienteID); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
