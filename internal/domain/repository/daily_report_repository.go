package repository

import (
	"context"
	"time"

	"github.com/oksasatya/skinsync/internal/domain/entity"
)

// DailyReportRepository persists daily reports.
type DailyReportRepository interface {
	Create(ctx context.Context, r *entity.DailyReport) error
	// Update overwrites the metrics of an existing report.
	Update(ctx context.Context, r *entity.DailyReport) error
	// LatestBetween returns the newest report of the user dated in [from, to),
	// or ErrNotFound.
	LatestBetween(ctx context.Context, userID string, from, to time.Time) (*entity.DailyReport, error)
	// ListByUser returns reports oldest first. Zero from/to leave that side open.
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]entity.DailyReport, error)
}
