package repository

import (
	"context"

	"github.com/oksasatya/skinsync/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByAccessToken(ctx context.Context, token string) (*entity.User, error)
	// SetAccessToken stores the current session token; empty clears it.
	SetAccessToken(ctx context.Context, id, token string) error
}
