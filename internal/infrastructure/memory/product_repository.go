package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/internal/domain/repository"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]entity.Product
	seq      int64
	order    map[string]int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]entity.Product),
		order:    make(map[string]int64),
	}
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	p.ID = newID()
	if p.Date.IsZero() {
		p.Date = now
	}
	p.UsageHistory = cloneTimes(p.UsageHistory)
	p.CreatedAt, p.UpdatedAt = now, now
	r.seq++
	r.order[p.ID] = r.seq
	r.products[p.ID] = clone(*p)
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := clone(p)
	return &out, nil
}

func (r *ProductRepository) ListByUser(_ context.Context, userID string, f repository.ProductFilter) ([]entity.Product, error) {
	return r.filter(func(p entity.Product) bool {
		if p.UserID != userID {
			return false
		}
		if f.Routine != "" && p.Routine != f.Routine {
			return false
		}
		return f.IncludeArchived || !p.Archived
	}, 0), nil
}

func (r *ProductRepository) Search(_ context.Context, userID, q string, limit int) ([]entity.Product, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	return r.filter(func(p entity.Product) bool {
		if p.UserID != userID {
			return false
		}
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) ||
			strings.Contains(string(p.Category), q)
	}, limit), nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = p.Name
	stored.Brand = p.Brand
	stored.Category = p.Category
	stored.Routine = p.Routine
	stored.Date = p.Date
	stored.Favorite = p.Favorite
	stored.Archived = p.Archived
	stored.ArchivedAt = cloneTimePtr(p.ArchivedAt)
	stored.ImageURL = p.ImageURL
	stored.UsedToday = p.UsedToday
	stored.UsageHistory = cloneTimes(p.UsageHistory)
	stored.UpdatedAt = time.Now().UTC()
	p.UpdatedAt = stored.UpdatedAt
	r.products[p.ID] = stored
	return nil
}

func (r *ProductRepository) UpdateUsage(_ context.Context, id string, usedToday bool, history []time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.UsedToday = usedToday
	stored.UsageHistory = cloneTimes(history)
	stored.UpdatedAt = time.Now().UTC()
	r.products[id] = stored
	return nil
}

func (r *ProductRepository) ResetAllUsage(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.products {
		if !p.UsedToday {
			continue
		}
		p.UsedToday = false
		r.products[id] = p
		n++
	}
	return n, nil
}

func (r *ProductRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	delete(r.order, id)
	return nil
}

func (r *ProductRepository) filter(keep func(entity.Product) bool, limit int) []entity.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Product, 0)
	for _, p := range r.products {
		if keep(p) {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Favorite != out[j].Favorite {
			return out[i].Favorite
		}
		return r.order[out[i].ID] < r.order[out[j].ID]
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func clone(p entity.Product) entity.Product {
	p.UsageHistory = cloneTimes(p.UsageHistory)
	p.ArchivedAt = cloneTimePtr(p.ArchivedAt)
	return p
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
