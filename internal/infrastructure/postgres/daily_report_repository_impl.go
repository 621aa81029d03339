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

const reportColumns = `id, user_id, date, exercised, period, stress, acne, sugar, alcohol, dairy,
	greasy_food, water_amount, sleep_hours, created_at, updated_at`

type DailyReportRepository struct {
	db DBTX
}

func NewDailyReportRepository(db DBTX) *DailyReportRepository {
	return &DailyReportRepository{db: db}
}

func (r *DailyReportRepository) Create(ctx context.Context, d *entity.DailyReport) error {
	m := d.ReportMetrics
	row := r.db.QueryRow(ctx, `
		INSERT INTO daily_reports (user_id, date, exercised, period, stress, acne, sugar, alcohol,
			dairy, greasy_food, water_amount, sleep_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, d.UserID, d.Date, m.Exercised, m.Period, m.Stress, m.Acne, m.Sugar, m.Alcohol,
		m.Dairy, m.GreasyFood, m.WaterAmount, m.SleepHours)

	if err := row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return fmt.Errorf("insert daily report: %w", err)
	}
	return nil
}

func (r *DailyReportRepository) Update(ctx context.Context, d *entity.DailyReport) error {
	m := d.ReportMetrics
	row := r.db.QueryRow(ctx, `
		UPDATE daily_reports
		SET exercised = $1, period = $2, stress = $3, acne = $4, sugar = $5, alcohol = $6,
			dairy = $7, greasy_food = $8, water_amount = $9, sleep_hours = $10, updated_at = now()
		WHERE id = $11
		RETURNING updated_at
	`, m.Exercised, m.Period, m.Stress, m.Acne, m.Sugar, m.Alcohol,
		m.Dairy, m.GreasyFood, m.WaterAmount, m.SleepHours, d.ID)

	if err := row.Scan(&d.UpdatedAt); err != nil {
		if isNoRow(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update daily report: %w", err)
	}
	return nil
}

func (r *DailyReportRepository) LatestBetween(ctx context.Context, userID string, from, to time.Time) (*entity.DailyReport, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM daily_reports
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC
		LIMIT 1
	`, userID, from, to)

	d, err := scanReport(row)
	if err != nil {
		if isNoRow(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select latest daily report: %w", err)
	}
	return d, nil
}

func (r *DailyReportRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]entity.DailyReport, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
	)
	if !from.IsZero() {
		args = append(args, from)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, to)
		where = append(where, fmt.Sprintf("date < $%d", len(args)))
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+reportColumns+`
		FROM daily_reports
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY date ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily reports: %w", err)
	}
	defer rows.Close()

	out := make([]entity.DailyReport, 0)
	for rows.Next() {
		d, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily report: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list daily reports: %w", err)
	}
	return out, nil
}

func scanReport(row pgx.Row) (*entity.DailyReport, error) {
	d := &entity.DailyReport{}
	m := &d.ReportMetrics
	err := row.Scan(&d.ID, &d.UserID, &d.Date, &m.Exercised, &m.Period, &m.Stress, &m.Acne, &m.Sugar,
		&m.Alcohol, &m.Dairy, &m.GreasyFood, &m.WaterAmount, &m.SleepHours, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

var _ repository.DailyReportRepository = (*DailyReportRepository)(nil)
