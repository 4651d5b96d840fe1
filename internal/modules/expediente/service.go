package expediente

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"deudasacero/internal/domain"
	"deudasacero/internal/pkg/authz"
	"deudasacero/internal/pkg/mailer"
	"deudasacero/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	expedientes *repository.ExpedienteRepository
	documentos  *repository.DocumentoRepository
	checklist   *repository.ChecklistRepository
	mensajes    *repository.MensajeRepository
	users       *repository.UserRepository
	audit       *repository.AuditRepository
	mailer      mailer.Mailer
}

func NewService(
	expedientes *repository.ExpedienteRepository,
	documentos *repository.DocumentoRepository,
	checklist *repository.ChecklistRepository,
	mensajes *repository.MensajeRepository,
	users *repository.UserRepository,
	audit *repository.AuditRepository,
	m mailer.Mailer,
) *Service {
	return &Service{
		expedientes: expedientes,
		documentos:  documentos,
		checklist:   checklist,
		mensajes:    mensajes,
		users:       users,
		audit:       audit,
		mailer:      m,
	}
}

// VistaCliente resolves the caller's single expediente through the
// cliente relation, never through an id parameter.
func (s *Service) VistaCliente(ctx context.Context, clienteID int64) (*ExpedienteConTotales, error) {
	exp, err := s.expedientes.GetByClienteID(ctx, clienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinExpediente
		}
		return nil, err
	}
	return s.conTotales(ctx, exp, clienteID)
}

func (s *Service) Listado(ctx context.Context, auth authz.Authorizer) ([]ExpedienteConTotales, error) {
	list, err := s.expedientes.ListScoped(ctx, auth)
	if err != nil {
		return nil, err
	}
	out := make([]ExpedienteConTotales, 0, len(list))
	for i := range list {
		ct, err := s.conTotales(ctx, &list[i], auth.UserID())
		if err != nil {
			return nil, err
		}
		out = append(out, *ct)
	}
	return out, nil
}

// Detalle loads one expediente by id and enforces visibility: a row
// that exists but belongs to someone else is ErrForbidden, not
// ErrNotFound.
func (s *Service) Detalle(ctx context.Context, auth authz.Authorizer, id int64) (*ExpedienteConTotales, error) {
	exp, err := s.expedientes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !auth.CanView(exp) {
		return nil, ErrForbidden
	}
	return s.conTotales(ctx, exp, auth.UserID())
}

type CambioFaseResult struct {
	Expediente *domain.Expediente
	Mensaje    string
}

// CambiarFase is the phase controller. Persisting the case mutation and
// appending the audit row share one transaction; the notification email
// runs after commit and its failure never surfaces to the caller.
func (s *Service) CambiarFase(ctx context.Context, adminID, expedienteID int64, faseNum int, ip, userAgent string) (*CambioFaseResult, error) {
	fase, err := domain.NuevaFase(faseNum)
	if err != nil {
		return nil, err
	}

	exp, err := s.expedientes.GetByID(ctx, expedienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	faseAnterior := exp.FaseActual

	var cierre *time.Time
	if fase.EsFinal() && exp.FechaCierre == nil {
		now := time.Now()
		cierre = &now
	}

	err = s.expedientes.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.expedientes.CambiarFase(ctx, tx, expedienteID, fase, cierre); err != nil {
			return err
		}
		return s.audit.Append(ctx, tx, &domain.AuditLog{
			UserID:       adminID,
			ExpedienteID: &expedienteID,
			Accion:       "cambio_fase",
			Descripcion:  fmt.Sprintf("fase %d -> %d (%d%%)", faseAnterior, int(fase), fase.Porcentaje()),
			IP:           ip,
			UserAgent:    userAgent,
		})
	})
	if err != nil {
		return nil, err
	}

	actualizado, err := s.expedientes.GetByID(ctx, expedienteID)
	if err != nil {
		return nil, err
	}

	if actualizado.Cliente != nil && actualizado.Cliente.Email != "" {
		s.notificarCambioFase(ctx, actualizado.Cliente, fase)
	}

	return &CambioFaseResult{
		Expediente: actualizado,
		Mensaje:    fmt.Sprintf("Expediente %s actualizado a la fase %d: %s", actualizado.Referencia, int(fase), fase.Nombre()),
	}, nil
}

func (s *Service) notificarCambioFase(ctx context.Context, cliente *domain.User, fase domain.Fase) {
	body := fmt.Sprintf(
		"<p>Hola %s,</p><p>Tu expediente ha avanzado a la fase %d: <strong>%s</strong>.</p><p>%s</p>",
		cliente.Nombre, int(fase), fase.Nombre(), fase.Descripcion(),
	)
	if err := s.mailer.Send(ctx, cliente.Email, "Actualización de tu expediente", body); err != nil {
		log.Printf("level=warn msg=phase notification email failed email=%s fase=%d err=%v", cliente.Email, int(fase), err)
	}
}

func (s *Service) AsignarAbogado(ctx context.Context, adminID, expedienteID int64, abogadoID *int64, ip, userAgent string) (*domain.Expediente, error) {
	exp, err := s.expedientes.GetByID(ctx, expedienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	descripcion := "abogado desasignado"
	if abogadoID != nil {
		abogado, err := s.users.GetByID(ctx, *abogadoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAbogadoInvalido
			}
			return nil, err
		}
		if abogado.Rol != domain.RolAbogado {
			return nil, ErrAbogadoInvalido
		}
		descripcion = fmt.Sprintf("abogado asignado: %s", abogado.Nombre)
	}

	if err := s.expedientes.AsignarAbogado(ctx, expedienteID, abogadoID); err != nil {
		return nil, err
	}

	if err := s.audit.Append(ctx, nil, &domain.AuditLog{
		UserID:       adminID,
		ExpedienteID: &exp.ID,
		Accion:       "asignar_abogado",
		Descripcion:  descripcion,
		IP:           ip,
		UserAgent:    userAgent,
	}); err != nil {
		log.Printf("level=warn msg=audit append failed accion=asignar_abogado expediente_id=%d err=%v", exp.ID, err)
	}

	return s.expedientes.GetByID(ctx, expedienteID)
}

// Reabrir is the explicit counterpart of the automatic close at fase
// 10. Lowering the phase alone never reopens a case.
func (s *Service) Reabrir(ctx context.Context, adminID, expedienteID int64, ip, userAgent string) (*domain.Expediente, error) {
	exp, err := s.expedientes.GetByID(ctx, expedienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if exp.Estado != domain.ExpedienteCerrado {
		return nil, ErrNoCerrado
	}

	if err := s.expedientes.Reabrir(ctx, expedienteID); err != nil {
		return nil, err
	}

	if err := s.audit.Append(ctx, nil, &domain.AuditLog{
		UserID:       adminID,
		ExpedienteID: &exp.ID,
		Accion:       "reabrir_expediente",
		Descripcion:  fmt.Sprintf("expediente %s reabierto", exp.Referencia),
		IP:           ip,
		UserAgent:    userAgent,
	}); err != nil {
		log.Printf("level=warn msg=audit append failed accion=reabrir expediente_id=%d err=%v", exp.ID, err)
	}

	return s.expedientes.GetByID(ctx, expedienteID)
}

func (s *Service) conTotales(ctx context.Context, exp *domain.Expediente, lectorID int64) (*ExpedienteConTotales, error) {
	totalDeuda, err := s.expedientes.SumDeudas(ctx, exp.ID)
	if err != nil {
		return nil, err
	}
	pendientes, err := s.documentos.CountPendientes(ctx, exp.ID)
	if err != nil {
		return nil, err
	}
	noLeidos, err := s.mensajes.CountNoLeidos(ctx, exp.ID, lectorID)
	if err != nil {
		return nil, err
	}
	completados, total, err := s.checklist.Progreso(ctx, exp.ID)
	if err != nil {
		return nil, err
	}
	porcentaje := 0
	if total > 0 {
		porcentaje = int(completados * 100 / total)
	}

	return &ExpedienteConTotales{
		Expediente: *exp,
		Totales: Totales{
			TotalDeuda:           totalDeuda,
			DocumentosPendientes: pendientes,
			MensajesNoLeidos:     noLeidos,
			ChecklistCompletado:  porcentaje,
		},
	}, nil
}
