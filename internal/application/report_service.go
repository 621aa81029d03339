package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/internal/domain/entity"
	repo "github.com/oksasatya/skinsync/internal/domain/repository"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

// ReportService keeps at most one daily report per user and calendar day.
type ReportService struct {
	Repo     repo.DailyReportRepository
	Locker   helpers.Locker
	Stats    StatsCache
	Events   EventPublisher
	Logger   *logrus.Logger
	Location *time.Location
	Now      func() time.Time
}

// SubmitResult is the stored report and whether this call created it.
type SubmitResult struct {
	Report  *entity.DailyReport
	Created bool
}

func reportLockKey(userID string) string { return "lock:report:" + userID }

func NewReportService(r repo.DailyReportRepository, locker helpers.Locker, loc *time.Location, logger *logrus.Logger) *ReportService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{Repo: r, Locker: locker, Logger: logger, Location: loc, Now: time.Now}
}

// Submit stores metrics for the day containing date (today when nil). An
// existing report for that day is overwritten field by field; otherwise a
// new one is created.
func (s *ReportService) Submit(ctx context.Context, userID string, date *time.Time, m entity.ReportMetrics) (*SubmitResult, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	now := s.Now()
	target := now
	if date != nil && !date.IsZero() {
		target = *date
	}

	// Without a locker two concurrent first submissions for a day can both
	// miss the lookup and create two rows.
	if s.Locker != nil {
		unlock, err := s.Locker.Lock(ctx, reportLockKey(userID))
		if err != nil {
			return nil, fmt.Errorf("acquire report lock: %w", err)
		}
		defer unlock()
	}

	from, to := helpers.DayBounds(target, s.Location)
	existing, err := s.Repo.LatestBetween(ctx, userID, from, to)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("find report for day: %w", err)
	}

	res := &SubmitResult{}
	if existing != nil {
		existing.Overwrite(m, now)
		if err := s.Repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update report: %w", err)
		}
		res.Report = existing
	} else {
		d := &entity.DailyReport{UserID: userID, Date: target, ReportMetrics: m}
		if err := s.Repo.Create(ctx, d); err != nil {
			return nil, fmt.Errorf("create report: %w", err)
		}
		res.Report, res.Created = d, true
	}

	s.Logger.WithFields(logrus.Fields{
		"user_id": userID,
		"day":     helpers.DayKey(target, s.Location),
		"created": res.Created,
	}).Debug("daily report stored")

	if s.Stats != nil {
		s.Stats.Invalidate(ctx, userID)
	}
	publish(ctx, s.Events, s.Logger, NewEvent(EventReportSubmitted, userID, now, map[string]any{
		"report_id": res.Report.ID,
		"day":       helpers.DayKey(target, s.Location),
		"created":   res.Created,
	}))
	return res, nil
}

// List returns every report of the user, oldest first.
func (s *ReportService) List(ctx context.Context, userID string) ([]entity.DailyReport, error) {
	out, err := s.Repo.ListByUser(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}
