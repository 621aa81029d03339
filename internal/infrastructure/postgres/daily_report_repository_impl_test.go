package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/internal/domain/repository"
)

var reportRowColumns = []string{"id", "user_id", "date", "exercised", "period", "stress", "acne", "sugar",
	"alcohol", "dairy", "greasy_food", "water_amount", "sleep_hours", "created_at", "updated_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestDailyReportRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDailyReportRepository(mock)
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO daily_reports`).
		WithArgs("u1", now, 1, false, 3, 2, 2, 0, 0, 1, 1500.0, 7.0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("r1", now, now))

	r := &entity.DailyReport{UserID: "u1", Date: now, ReportMetrics: entity.ReportMetrics{
		Exercised: 1, Stress: 3, Acne: 2, Sugar: 2, GreasyFood: 1, WaterAmount: 1500, SleepHours: 7,
	}}
	require.NoError(t, repo.Create(context.Background(), r))

	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, now, r.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyReportRepository_UpdateNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDailyReportRepository(mock)

	mock.ExpectQuery(`UPDATE daily_reports`).
		WithArgs(0, false, 0, 0, 0, 0, 0, 0, 0.0, 6.0, "missing").
		WillReturnError(pgx.ErrNoRows)

	err := repo.Update(context.Background(), &entity.DailyReport{ID: "missing", ReportMetrics: entity.ReportMetrics{SleepHours: 6}})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyReportRepository_LatestBetween(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDailyReportRepository(mock)
	from := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	at := from.Add(9 * time.Hour)

	mock.ExpectQuery(`(?s)SELECT .+\s+FROM daily_reports\s+WHERE user_id = \$1 AND date >= \$2 AND date < \$3\s+ORDER BY date DESC\s+LIMIT 1`).
		WithArgs("u1", from, to).
		WillReturnRows(pgxmock.NewRows(reportRowColumns).
			AddRow("r1", "u1", at, 1, true, 3, 2, 2, 0, 0, 1, 1500.0, 7.0, at, at))

	r, err := repo.LatestBetween(context.Background(), "u1", from, to)
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)
	assert.True(t, r.Period)
	assert.Equal(t, 7.0, r.SleepHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyReportRepository_LatestBetweenNone(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDailyReportRepository(mock)

	mock.ExpectQuery(`FROM daily_reports`).
		WithArgs("u1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.LatestBetween(context.Background(), "u1", time.Now(), time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDailyReportRepository_ListByUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDailyReportRepository(mock)
	d1 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	mock.ExpectQuery(`WHERE user_id = \$1 AND date >= \$2\s+ORDER BY date ASC`).
		WithArgs("u1", d1).
		WillReturnRows(pgxmock.NewRows(reportRowColumns).
			AddRow("r1", "u1", d1, 0, false, 1, 1, 0, 0, 0, 0, 1000.0, 8.0, d1, d1).
			AddRow("r2", "u1", d2, 1, false, 2, 0, 0, 0, 0, 0, 2000.0, 6.5, d2, d2))

	list, err := repo.ListByUser(context.Background(), "u1", d1, time.Time{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[1].ID)
	assert.Equal(t, 6.5, list[1].SleepHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyReportRepository_ListByUserQueryError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDailyReportRepository(mock)

	mock.ExpectQuery(`FROM daily_reports`).WithArgs("u1").WillReturnError(errors.New("db down"))

	_, err := repo.ListByUser(context.Background(), "u1", time.Time{}, time.Time{})
	assert.ErrorContains(t, err, "db down")
}
