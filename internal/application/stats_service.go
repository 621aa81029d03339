package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/skinsync/internal/domain/repository"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

const (
	DefaultStatsDays = 30
	MaxStatsDays     = 365
)

// StatsCache is implemented by StatsService; writers call Invalidate after
// every change that affects a user's statistics.
type StatsCache interface {
	Invalidate(ctx context.Context, userID string)
}

type MetricAverages struct {
	Exercised   float64 `json:"exercised"`
	Stress      float64 `json:"stress"`
	Acne        float64 `json:"acne"`
	Sugar       float64 `json:"sugar"`
	Alcohol     float64 `json:"alcohol"`
	Dairy       float64 `json:"dairy"`
	GreasyFood  float64 `json:"greasyFood"`
	WaterAmount float64 `json:"waterAmount"`
	SleepHours  float64 `json:"sleepHours"`
}

type ProductUsage struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Routine   string `json:"routine"`
	Uses      int    `json:"uses"`
}

type Statistics struct {
	Days        int            `json:"days"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	ReportCount int            `json:"reportCount"`
	PeriodDays  int            `json:"periodDays"`
	Averages    MetricAverages `json:"averages"`
	Products    []ProductUsage `json:"products"`
}

// StatsService aggregates reports and product usage over a trailing window.
type StatsService struct {
	Reports  repo.DailyReportRepository
	Products repo.ProductRepository
	Redis    *redis.Client
	TTL      time.Duration
	Logger   *logrus.Logger
	Location *time.Location
	Now      func() time.Time
}

func NewStatsService(reports repo.DailyReportRepository, products repo.ProductRepository, rdb *redis.Client, ttl time.Duration, loc *time.Location, logger *logrus.Logger) *StatsService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{Reports: reports, Products: products, Redis: rdb, TTL: ttl, Logger: logger, Location: loc, Now: time.Now}
}

func statsKey(userID string, days int) string {
	return "stats:" + userID + ":" + strconv.Itoa(days)
}

func statsPattern(userID string) string {
	return "stats:" + userID + ":*"
}

// Compute returns statistics for the last days calendar days, today included.
func (s *StatsService) Compute(ctx context.Context, userID string, days int) (*Statistics, error) {
	if days <= 0 {
		days = DefaultStatsDays
	}
	if days > MaxStatsDays {
		return nil, fmt.Errorf("%w: days must be at most %d", ErrInvalidInput, MaxStatsDays)
	}

	if s.Redis != nil {
		var cached Statistics
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, statsKey(userID, days), &cached)
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("stats cache read failed")
		}
		if ok {
			return &cached, nil
		}
	}

	_, to := helpers.DayBounds(s.Now(), s.Location)
	from := to.AddDate(0, 0, -days)

	reports, err := s.Reports.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	products, err := s.Products.ListByUser(ctx, userID, repo.ProductFilter{IncludeArchived: true})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	st := &Statistics{
		Days:        days,
		From:        helpers.DayKey(from, s.Location),
		To:          helpers.DayKey(to.Add(-time.Nanosecond), s.Location),
		ReportCount: len(reports),
		Products:    make([]ProductUsage, 0, len(products)),
	}
	var sum MetricAverages
	for _, r := range reports {
		if r.Period {
			st.PeriodDays++
		}
		sum.Exercised += float64(r.Exercised)
		sum.Stress += float64(r.Stress)
		sum.Acne += float64(r.Acne)
		sum.Sugar += float64(r.Sugar)
		sum.Alcohol += float64(r.Alcohol)
		sum.Dairy += float64(r.Dairy)
		sum.GreasyFood += float64(r.GreasyFood)
		sum.WaterAmount += r.WaterAmount
		sum.SleepHours += r.SleepHours
	}
	if n := float64(len(reports)); n > 0 {
		st.Averages = MetricAverages{
			Exercised:   sum.Exercised / n,
			Stress:      sum.Stress / n,
			Acne:        sum.Acne / n,
			Sugar:       sum.Sugar / n,
			Alcohol:     sum.Alcohol / n,
			Dairy:       sum.Dairy / n,
			GreasyFood:  sum.GreasyFood / n,
			WaterAmount: sum.WaterAmount / n,
			SleepHours:  sum.SleepHours / n,
		}
	}
	for i := range products {
		p := &products[i]
		st.Products = append(st.Products, ProductUsage{
			ProductID: p.ID,
			Name:      p.Name,
			Routine:   string(p.Routine),
			Uses:      p.UsesBetween(from, to),
		})
	}

	if s.Redis != nil && s.TTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsKey(userID, days), st, s.TTL); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("stats cache write failed")
		}
	}
	return st, nil
}

// Invalidate drops every cached window of the user.
func (s *StatsService) Invalidate(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if _, err := helpers.RedisDelPattern(ctx, s.Redis, statsPattern(userID)); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("stats cache invalidate failed")
	}
}
