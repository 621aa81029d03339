package repository

import (
	"context"
	"time"

	"github.com/oksasatya/skinsync/internal/domain/entity"
)

// ProductFilter narrows ListByUser.
type ProductFilter struct {
	Routine         entity.Routine // empty = any
	IncludeArchived bool
}

// ProductRepository persists shelf products.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListByUser(ctx context.Context, userID string, f ProductFilter) ([]entity.Product, error)
	// Search matches name, brand or category case-insensitively.
	Search(ctx context.Context, userID, q string, limit int) ([]entity.Product, error)
	// Update writes every mutable column of p in one statement, usage included.
	Update(ctx context.Context, p *entity.Product) error
	// UpdateUsage writes only used_today and usage_history.
	UpdateUsage(ctx context.Context, id string, usedToday bool, history []time.Time) error
	// ResetAllUsage clears used_today everywhere and returns affected rows.
	ResetAllUsage(ctx context.Context) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}
