package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"deudasacero/internal/domain"
	"deudasacero/internal/pkg/mailer"
	"deudasacero/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	users        *repository.UserRepository
	expedientes  *repository.ExpedienteRepository
	checklist    *repository.ChecklistRepository
	audit        *repository.AuditRepository
	mailer       mailer.Mailer
	jwtSecretSet bool
}

func NewService(
	users *repository.UserRepository,
	expedientes *repository.ExpedienteRepository,
	checklist *repository.ChecklistRepository,
	audit *repository.AuditRepository,
	m mailer.Mailer,
	jwtSecretSet bool,
) *Service {
	return &Service{
		users:        users,
		expedientes:  expedientes,
		checklist:    checklist,
		audit:        audit,
		mailer:       m,
		jwtSecretSet: jwtSecretSet,
	}
}

func (s *Service) ListUsuarios(ctx context.Context, rol string) ([]domain.User, error) {
	return s.users.List(ctx, domain.Rol(rol))
}

// CrearUsuario onboards a user. For a cliente with crearExpediente the
// user, the case, its deudas and the checklist template land in one
// transaction; the welcome email goes out after commit, best effort.
func (s *Service) CrearUsuario(ctx context.Context, adminID int64, req CrearUsuarioRequest, ip, userAgent string) (*CrearUsuarioResponse, error) {
	rol := domain.Rol(req.Rol)
	if !rol.Valida() {
		return nil, ErrRolInvalido
	}
	if req.CrearExpediente && rol != domain.RolCliente {
		return nil, ErrRolInvalido
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Nombre:       req.Nombre,
		Telefono:     req.Telefono,
		NIF:          req.NIF,
		Rol:          rol,
		Activo:       true,
	}

	var exp *domain.Expediente
	err = s.users.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(user).Error; err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrEmailAlreadyExists
			}
			return err
		}

		if !req.CrearExpediente {
			return nil
		}

		referencia, err := s.expedientes.SiguienteReferencia(ctx, tx, time.Now().Year())
		if err != nil {
			return err
		}

		exp = &domain.Expediente{
			Referencia: referencia,
			ClienteID:  user.ID,
			FaseActual: 1,
			Progreso:   5,
			Estado:     domain.ExpedienteActivo,
		}
		if err := tx.WithContext(ctx).Create(exp).Error; err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrYaTieneExpediente
			}
			return err
		}

		deudas := make([]domain.Deuda, 0, len(req.Deudas))
		for _, d := range req.Deudas {
			deudas = append(deudas, domain.Deuda{
				ExpedienteID: exp.ID,
				Tipo:         domain.TipoDeuda(d.Tipo),
				Importe:      d.Importe,
				Acreedor:     d.Acreedor,
				Descripcion:  d.Descripcion,
			})
		}
		if err := s.expedientes.CreateDeudas(ctx, tx, deudas); err != nil {
			return err
		}

		items := make([]domain.ChecklistItem, 0, len(domain.ChecklistPlantilla))
		for i, nombre := range domain.ChecklistPlantilla {
			items = append(items, domain.ChecklistItem{
				ExpedienteID: exp.ID,
				Nombre:       nombre,
				Orden:        i + 1,
				Obligatorio:  true,
			})
		}
		if err := s.checklist.BulkCreate(ctx, tx, items); err != nil {
			return err
		}

		return s.audit.Append(ctx, tx, &domain.AuditLog{
			UserID:       adminID,
			ExpedienteID: &exp.ID,
			Accion:       "alta_cliente",
			Descripcion:  fmt.Sprintf("alta de %s con expediente %s", user.Email, referencia),
			IP:           ip,
			UserAgent:    userAgent,
		})
	})
	if err != nil {
		return nil, err
	}

	if sendErr := s.mailer.Send(ctx, user.Email, "Bienvenido a tu área de cliente",
		fmt.Sprintf("<p>Hola %s, tu cuenta ya está activa.</p>", user.Nombre)); sendErr != nil {
		log.Printf("welcome email to %s failed: %v", user.Email, sendErr)
	}

	return &CrearUsuarioResponse{Usuario: user, Expediente: exp}, nil
}

// ActualizarUsuario edits profile and activation fields. The role is
// immutable after creation.
func (s *Service) ActualizarUsuario(ctx context.Context, id int64, req ActualizarUsuarioRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Rol != nil && domain.Rol(*req.Rol) != user.Rol {
		return nil, ErrRolInmutable
	}

	fields := map[string]any{}
	if req.Nombre != nil {
		fields["nombre"] = *req.Nombre
	}
	if req.Telefono != nil {
		fields["telefono"] = *req.Telefono
	}
	if req.NIF != nil {
		fields["nif"] = *req.NIF
	}
	if req.Activo != nil {
		fields["activo"] = *req.Activo
	}
	if len(fields) > 0 {
		if err := s.users.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.users.GetByID(ctx, id)
}

func (s *Service) Auditoria(ctx context.Context, expedienteID *int64, limit int) ([]domain.AuditLog, error) {
	return s.audit.List(ctx, expedienteID, limit)
}

// Health reports DB reachability, schema presence, user count and
// whether a signing secret is configured.
func (s *Service) Health(ctx context.Context) (*HealthResponse, bool) {
	out := &HealthResponse{Status: "ok"}
	out.Checks.JWT.Configured = s.jwtSecretSet

	db := s.users.DB()
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		out.Status = "error"
		return out, false
	}
	out.Checks.Database.Connected = true

	out.Checks.Database.TablesExist = db.Migrator().HasTable(&domain.User{}) &&
		db.Migrator().HasTable(&domain.Expediente{})

	if count, err := s.users.Count(ctx); err == nil {
		out.Checks.Database.UserCount = count
	}

	healthy := out.Checks.Database.Connected && out.Checks.Database.TablesExist
	if !healthy {
		out.Status = "error"
	}
	return out, healthy
}
