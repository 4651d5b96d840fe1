package auth

import (
	"context"
	"time"

	"deudasacero/internal/domain"
)

// UserRepositoryInterface — only the methods the auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	RegistrarAcceso(ctx context.Context, id int64, at time.Time) error
}
