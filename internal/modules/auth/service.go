package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"deudasacero/internal/domain"
	"deudasacero/internal/pkg/mailer"
	"deudasacero/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type jwtService interface {
	GenerateToken(userID int64, email, nombre, rol string) (string, error)
}

// Service contains all business logic for authentication
type Service struct {
	users  UserRepositoryInterface
	jwt    jwtService
	mailer mailer.Mailer
}

func NewService(users UserRepositoryInterface, jwt jwtService, m mailer.Mailer) *Service {
	return &Service{users: users, jwt: jwt, mailer: m}
}

type LoginResult struct {
	User  *domain.User
	Token string
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if !user.Activo {
		return nil, ErrAccountInactive
	}
	if user.BloqueadoHasta != nil && user.BloqueadoHasta.After(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		failed := user.FailedLogins + 1
		updates := map[string]any{"failed_logins": failed}
		if failed >= maxFailedLoginAttempts {
			updates["bloqueado_hasta"] = now.Add(lockoutDuration)
		}
		if updateErr := s.users.UpdateFields(ctx, user.ID, updates); updateErr != nil {
			return nil, updateErr
		}
		if failed >= maxFailedLoginAttempts {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLogins > 0 || user.BloqueadoHasta != nil {
		if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
			"failed_logins":   0,
			"bloqueado_hasta": nil,
		}); err != nil {
			return nil, err
		}
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Nombre, string(user.Rol))
	if err != nil {
		return nil, err
	}

	if err := s.users.RegistrarAcceso(ctx, user.ID, now); err != nil {
		log.Printf("level=warn msg=failed to record last access user_id=%d err=%v", user.ID, err)
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, Token: token}, nil
}

// Registro creates a self-service cliente account. The welcome email is
// best-effort: a send failure never fails the registration.
func (s *Service) Registro(ctx context.Context, req RegistroRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
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
		Email:        email,
		PasswordHash: string(hash),
		Nombre:       req.Nombre,
		Telefono:     req.Telefono,
		NIF:          req.NIF,
		Rol:          domain.RolCliente,
		Activo:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// the unique index is the last line of defence against a racing
		// duplicate registration
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	if err := s.mailer.Send(ctx, user.Email, "Bienvenido a Deudas a Cero",
		fmt.Sprintf("<p>Hola %s, tu cuenta ya está activa.</p>", user.Nombre)); err != nil {
		log.Printf("level=warn msg=welcome email failed user_id=%d err=%v", user.ID, err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
