package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/internal/domain/repository"
)

type DailyReportRepository struct {
	mu      sync.RWMutex
	reports map[string]entity.DailyReport
}

func NewDailyReportRepository() *DailyReportRepository {
	return &DailyReportRepository{reports: make(map[string]entity.DailyReport)}
}

func (r *DailyReportRepository) Create(_ context.Context, d *entity.DailyReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	d.ID = newID()
	if d.Date.IsZero() {
		d.Date = now
	}
	d.CreatedAt, d.UpdatedAt = now, now
	r.reports[d.ID] = *d
	return nil
}

func (r *DailyReportRepository) Update(_ context.Context, d *entity.DailyReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.reports[d.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.ReportMetrics = d.ReportMetrics
	stored.UpdatedAt = time.Now().UTC()
	d.UpdatedAt = stored.UpdatedAt
	r.reports[d.ID] = stored
	return nil
}

func (r *DailyReportRepository) LatestBetween(_ context.Context, userID string, from, to time.Time) (*entity.DailyReport, error) {
	list := r.collect(userID, from, to)
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	latest := list[len(list)-1]
	return &latest, nil
}

func (r *DailyReportRepository) ListByUser(_ context.Context, userID string, from, to time.Time) ([]entity.DailyReport, error) {
	return r.collect(userID, from, to), nil
}

// Count returns the number of stored reports for userID.
func (r *DailyReportRepository) Count(userID string) int {
	return len(r.collect(userID, time.Time{}, time.Time{}))
}

func (r *DailyReportRepository) collect(userID string, from, to time.Time) []entity.DailyReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.DailyReport, 0)
	for _, d := range r.reports {
		if d.UserID != userID {
			continue
		}
		if !from.IsZero() && d.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !d.Date.Before(to) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

var _ repository.DailyReportRepository = (*DailyReportRepository)(nil)
