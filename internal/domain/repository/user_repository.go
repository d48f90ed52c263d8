package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Save(ctx context.Context, u *entity.User) error
	// GetByID returns domain.ErrUserNotFound when no live user has the id.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	All(ctx context.Context) ([]*entity.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}
