package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/internal/domain/entity"
	repo "github.com/oksasatya/skinsync/internal/domain/repository"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

// MaxBatchSize caps the number of ids accepted by ToggleAll.
const MaxBatchSize = 100

// ImageStore is satisfied by helpers.GCSStore.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// ProductService manages a user's shelf and the per-day usage ledger.
type ProductService struct {
	Repo     repo.ProductRepository
	Locker   helpers.Locker
	Stats    StatsCache
	Events   EventPublisher
	Images   ImageStore
	ES       *elasticsearch.Client
	ESIndex  string
	Logger   *logrus.Logger
	Location *time.Location
	Now      func() time.Time
}

type CreateProductInput struct {
	Name         string
	Brand        string
	Category     entity.Category
	Routine      entity.Routine
	Date         *time.Time
	UsageHistory []time.Time
}

// UpdateProductInput is a partial update; nil fields are left alone.
type UpdateProductInput struct {
	Name         *string
	Brand        *string
	Category     *entity.Category
	Routine      *entity.Routine
	Date         *time.Time
	UsedToday    *bool
	UsageHistory []time.Time
}

// UsageOutcome is the per-id result of ToggleAll.
type UsageOutcome struct {
	ProductID string
	Product   *entity.Product
	Err       error
}

func productLockKey(id string) string { return "lock:product:" + id }

func NewProductService(r repo.ProductRepository, locker helpers.Locker, loc *time.Location, logger *logrus.Logger) *ProductService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ProductService{Repo: r, Locker: locker, Logger: logger, Location: loc, Now: time.Now}
}

func (s *ProductService) Create(ctx context.Context, userID string, in CreateProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}
	if !in.Routine.Valid() {
		return nil, fmt.Errorf("%w: unknown routine %q", ErrInvalidInput, in.Routine)
	}
	now := s.Now()
	p := &entity.Product{
		UserID:       userID,
		Name:         name,
		Brand:        strings.TrimSpace(in.Brand),
		Category:     in.Category,
		Routine:      in.Routine,
		Date:         now,
		UsageHistory: in.UsageHistory,
	}
	if in.Date != nil && !in.Date.IsZero() {
		p.Date = *in.Date
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.index(ctx, p)
	s.changed(ctx, EventProductCreated, p, nil)
	return p, nil
}

// Get returns a product owned by userID.
func (s *ProductService) Get(ctx context.Context, userID, id string) (*entity.Product, error) {
	return s.load(ctx, userID, id)
}

func (s *ProductService) List(ctx context.Context, userID string, f repo.ProductFilter) ([]entity.Product, error) {
	out, err := s.Repo.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Search matches q against name, brand and category. Elasticsearch is used
// when configured; the repository search is the fallback.
func (s *ProductService) Search(ctx context.Context, userID, q string, size int) ([]entity.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	if s.ES != nil && s.ESIndex != "" {
		out, err := s.searchIndex(ctx, userID, q, size)
		if err == nil {
			return out, nil
		}
		s.Logger.WithError(err).WithField("user_id", userID).Warn("es product search failed, using database")
	}
	out, err := s.Repo.Search(ctx, userID, q, size)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return out, nil
}

func (s *ProductService) Update(ctx context.Context, userID, id string, in UpdateProductInput) (*entity.Product, error) {
	p, err := s.withProduct(ctx, userID, id, func(p *entity.Product) error {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: name is required", ErrInvalidInput)
			}
			p.Name = name
		}
		if in.Brand != nil {
			p.Brand = strings.TrimSpace(*in.Brand)
		}
		if in.Category != nil {
			if !in.Category.Valid() {
				return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *in.Category)
			}
			p.Category = *in.Category
		}
		if in.Routine != nil {
			if !in.Routine.Valid() {
				return fmt.Errorf("%w: unknown routine %q", ErrInvalidInput, *in.Routine)
			}
			p.Routine = *in.Routine
		}
		if in.Date != nil && !in.Date.IsZero() {
			p.Date = *in.Date
		}
		if in.UsedToday != nil {
			p.UsedToday = *in.UsedToday
		}
		if in.UsageHistory != nil {
			p.UsageHistory = in.UsageHistory
		}
		// details and usage are stored in a single write
		if err := s.Repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.index(ctx, p)
	s.changed(ctx, EventProductUpdated, p, nil)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, userID, id string) error {
	p, err := s.withProduct(ctx, userID, id, func(p *entity.Product) error {
		if err := s.Repo.Delete(ctx, userID, p.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.ES != nil && s.ESIndex != "" {
		if err := helpers.ESDelete(ctx, s.ES, s.ESIndex, p.ID); err != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es delete failed")
		}
	}
	s.changed(ctx, EventProductDeleted, p, nil)
	return nil
}

func (s *ProductService) SetArchived(ctx context.Context, userID, id string, archived bool) (*entity.Product, error) {
	return s.updateFlags(ctx, userID, id, func(p *entity.Product) {
		p.SetArchived(archived, s.Now())
	})
}

func (s *ProductService) SetFavorite(ctx context.Context, userID, id string, favorite bool) (*entity.Product, error) {
	return s.updateFlags(ctx, userID, id, func(p *entity.Product) {
		p.Favorite = favorite
	})
}

// UploadImage stores the image under products/<user>/<product>/ and links it.
func (s *ProductService) UploadImage(ctx context.Context, userID, id, filename, contentType string, r io.Reader) (*entity.Product, error) {
	if s.Images == nil {
		return nil, ErrStorageUnavailable
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: file must be an image", ErrInvalidInput)
	}
	p, err := s.withProduct(ctx, userID, id, func(p *entity.Product) error {
		ext := strings.ToLower(filepath.Ext(filename))
		objectPath := filepath.ToSlash(filepath.Join("products", userID, p.ID, uuid.NewString()+ext))
		url, err := s.Images.Upload(ctx, objectPath, contentType, r)
		if err != nil {
			return fmt.Errorf("upload image: %w", err)
		}
		p.ImageURL = url
		if err := s.Repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.index(ctx, p)
	s.changed(ctx, EventProductUpdated, p, map[string]any{"image_url": p.ImageURL})
	return p, nil
}

// SetUsage marks or unmarks today's use of a product.
func (s *ProductService) SetUsage(ctx context.Context, userID, id string, used bool) (*entity.Product, error) {
	var changed bool
	p, err := s.withProduct(ctx, userID, id, func(p *entity.Product) error {
		now := s.Now()
		if used {
			changed = p.MarkUsed(now, s.Location)
		} else {
			changed = p.UnmarkUsed(now, s.Location)
		}
		if !changed {
			return nil
		}
		if err := s.Repo.UpdateUsage(ctx, p.ID, p.UsedToday, p.UsageHistory); err != nil {
			return fmt.Errorf("update usage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.changed(ctx, EventProductUsageChanged, p, map[string]any{"used_today": p.UsedToday})
	}
	return p, nil
}

// ResetUsage clears the daily flag of one product. History is kept.
func (s *ProductService) ResetUsage(ctx context.Context, userID, id string) (*entity.Product, error) {
	p, err := s.withProduct(ctx, userID, id, func(p *entity.Product) error {
		p.ResetUsage()
		if err := s.Repo.UpdateUsage(ctx, p.ID, p.UsedToday, p.UsageHistory); err != nil {
			return fmt.Errorf("reset usage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, EventProductUsageReset, p, nil)
	return p, nil
}

// ToggleAll applies SetUsage to each id independently. A failure on one id
// does not undo or stop the others.
func (s *ProductService) ToggleAll(ctx context.Context, userID string, ids []string, used bool) ([]UsageOutcome, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one product id is required", ErrInvalidInput)
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("%w: at most %d product ids", ErrInvalidInput, MaxBatchSize)
	}
	out := make([]UsageOutcome, 0, len(ids))
	for _, id := range ids {
		p, err := s.SetUsage(ctx, userID, id, used)
		out = append(out, UsageOutcome{ProductID: id, Product: p, Err: err})
	}
	return out, nil
}

// ResetAllUsage clears the daily flag of every product and publishes one
// usage.daily_reset summary. It is run once a day.
func (s *ProductService) ResetAllUsage(ctx context.Context) (int64, error) {
	n, err := s.Repo.ResetAllUsage(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset all usage: %w", err)
	}
	now := s.Now()
	s.Logger.WithField("products", n).Info("daily usage reset")
	publish(ctx, s.Events, s.Logger, NewEvent(EventUsageDailyReset, "", now, map[string]any{
		"products": n,
		"day":      helpers.DayKey(now, s.Location),
	}))
	return n, nil
}

func (s *ProductService) updateFlags(ctx context.Context, userID, id string, apply func(p *entity.Product)) (*entity.Product, error) {
	p, err := s.withProduct(ctx, userID, id, func(p *entity.Product) error {
		apply(p)
		if err := s.Repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.index(ctx, p)
	s.changed(ctx, EventProductUpdated, p, nil)
	return p, nil
}

// withProduct runs fn on a freshly loaded, owned product under its lock.
func (s *ProductService) withProduct(ctx context.Context, userID, id string, fn func(p *entity.Product) error) (*entity.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}
	if s.Locker != nil {
		unlock, err := s.Locker.Lock(ctx, productLockKey(id))
		if err != nil {
			return nil, fmt.Errorf("acquire product lock: %w", err)
		}
		defer unlock()
	}
	p, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) load(ctx context.Context, userID, id string) (*entity.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !p.OwnedBy(userID) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *ProductService) changed(ctx context.Context, typ string, p *entity.Product, extra map[string]any) {
	if s.Stats != nil {
		s.Stats.Invalidate(ctx, p.UserID)
	}
	payload := map[string]any{"product_id": p.ID, "name": p.Name}
	for k, v := range extra {
		payload[k] = v
	}
	publish(ctx, s.Events, s.Logger, NewEvent(typ, p.UserID, s.Now(), payload))
}

type productDoc struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Category  string    `json:"category"`
	Routine   string    `json:"routine"`
	Favorite  bool      `json:"favorite"`
	Archived  bool      `json:"archived"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ProductService) index(ctx context.Context, p *entity.Product) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := productDoc{
		ID:        p.ID,
		UserID:    p.UserID,
		Name:      p.Name,
		Brand:     p.Brand,
		Category:  string(p.Category),
		Routine:   string(p.Routine),
		Favorite:  p.Favorite,
		Archived:  p.Archived,
		UpdatedAt: p.UpdatedAt,
	}
	if err := helpers.ESIndex(ctx, s.ES, s.ESIndex, p.ID, doc); err != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
	}
}

func (s *ProductService) searchIndex(ctx context.Context, userID, q string, size int) ([]entity.Product, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"name^2", "brand", "category"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	hits, err := helpers.ESSearch(ctx, s.ES, s.ESIndex, query)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(hits))
	for _, h := range hits {
		var doc productDoc
		if err := json.Unmarshal(h.Source, &doc); err == nil && doc.UserID != "" && doc.UserID != userID {
			continue
		}
		// The index may still hold deleted products.
		p, err := s.load(ctx, userID, h.ID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrForbidden) {
				continue
			}
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
