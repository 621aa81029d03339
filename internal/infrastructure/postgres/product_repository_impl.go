package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/internal/domain/repository"
)

const productColumns = `id, user_id, name, brand, category, routine, date, used_today, usage_history,
	favorite, archived, archived_at, image_url, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	history := p.UsageHistory
	if history == nil {
		history = []time.Time{}
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO skincare_products (user_id, name, brand, category, routine, date, used_today,
			usage_history, favorite, archived, archived_at, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Name, p.Brand, string(p.Category), string(p.Routine), p.Date, p.UsedToday,
		history, p.Favorite, p.Archived, p.ArchivedAt, p.ImageURL)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM skincare_products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if isNoRow(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) ListByUser(ctx context.Context, userID string, f repository.ProductFilter) ([]entity.Product, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
	)
	if f.Routine != "" {
		args = append(args, string(f.Routine))
		where = append(where, fmt.Sprintf("routine = $%d", len(args)))
	}
	if !f.IncludeArchived {
		where = append(where, "archived = FALSE")
	}
	return r.list(ctx, `
		SELECT `+productColumns+`
		FROM skincare_products
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY favorite DESC, created_at ASC
	`, args...)
}

func (r *ProductRepository) Search(ctx context.Context, userID, q string, limit int) ([]entity.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(q)) + "%"
	return r.list(ctx, `
		SELECT `+productColumns+`
		FROM skincare_products
		WHERE user_id = $1 AND (name ILIKE $2 OR brand ILIKE $2 OR category ILIKE $2)
		ORDER BY favorite DESC, name ASC
		LIMIT $3
	`, userID, pattern, limit)
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	history := p.UsageHistory
	if history == nil {
		history = []time.Time{}
	}
	row := r.db.QueryRow(ctx, `
		UPDATE skincare_products
		SET name = $1, brand = $2, category = $3, routine = $4, date = $5, favorite = $6,
			archived = $7, archived_at = $8, image_url = $9, used_today = $10, usage_history = $11,
			updated_at = now()
		WHERE id = $12
		RETURNING updated_at
	`, p.Name, p.Brand, string(p.Category), string(p.Routine), p.Date, p.Favorite,
		p.Archived, p.ArchivedAt, p.ImageURL, p.UsedToday, history, p.ID)

	if err := row.Scan(&p.UpdatedAt); err != nil {
		if isNoRow(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepository) UpdateUsage(ctx context.Context, id string, usedToday bool, history []time.Time) error {
	if history == nil {
		history = []time.Time{}
	}
	res, err := r.db.Exec(ctx, `
		UPDATE skincare_products
		SET used_today = $1, usage_history = $2, updated_at = now()
		WHERE id = $3
	`, usedToday, history, id)
	if isNoRow(err) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update product usage: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) ResetAllUsage(ctx context.Context) (int64, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE skincare_products
		SET used_today = FALSE, updated_at = now()
		WHERE used_today = TRUE
	`)
	if err != nil {
		return 0, fmt.Errorf("reset usage: %w", err)
	}
	return res.RowsAffected(), nil
}

func (r *ProductRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM skincare_products WHERE id = $1 AND user_id = $2`, id, userID)
	if isNoRow(err) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) list(ctx context.Context, query string, args ...any) ([]entity.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p                 = &entity.Product{}
		category, routine string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Brand, &category, &routine, &p.Date, &p.UsedToday,
		&p.UsageHistory, &p.Favorite, &p.Archived, &p.ArchivedAt, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Category = entity.Category(category)
	p.Routine = entity.Routine(routine)
	return p, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
