package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/internal/infrastructure/memory"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

func newReportService(t *testing.T, now time.Time) (*ReportService, *memory.DailyReportRepository, *fixedClock) {
	t.Helper()
	r := memory.NewDailyReportRepository()
	clock := newClock(now)
	svc := NewReportService(r, helpers.NewKeyedMutex(), time.UTC, nil)
	svc.Now = clock.Now
	return svc, r, clock
}

func TestReportService_SameDayOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, r, clock := newReportService(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	pub := &capturePublisher{}
	stats := &countingStats{}
	svc.Events, svc.Stats = pub, stats

	first, err := svc.Submit(ctx, "u1", nil, metrics(3, 7))
	require.NoError(t, err)
	assert.True(t, first.Created)

	clock.Set(time.Date(2024, 3, 10, 21, 0, 0, 0, time.UTC))
	second, err := svc.Submit(ctx, "u1", nil, metrics(1, 8))
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Report.ID, second.Report.ID)
	assert.Equal(t, 1, r.Count("u1"))

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Stress)
	assert.Equal(t, 8.0, list[0].SleepHours)
	assert.Equal(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), list[0].Date)

	assert.Equal(t, []string{EventReportSubmitted, EventReportSubmitted}, pub.types())
	assert.Equal(t, 2, stats.calls["u1"])
}

func TestReportService_NewDayCreates(t *testing.T) {
	ctx := context.Background()
	svc, r, clock := newReportService(t, time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC))

	_, err := svc.Submit(ctx, "u1", nil, metrics(3, 7))
	require.NoError(t, err)
	clock.Set(time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC))
	res, err := svc.Submit(ctx, "u1", nil, metrics(2, 6))
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, 2, r.Count("u1"))

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, list[0].Stress)
	assert.Equal(t, 2, list[1].Stress)
}

func TestReportService_UsersAreSeparate(t *testing.T) {
	ctx := context.Background()
	svc, r, _ := newReportService(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := svc.Submit(ctx, "u1", nil, metrics(1, 7))
	require.NoError(t, err)
	res, err := svc.Submit(ctx, "u2", nil, metrics(1, 7))
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, 1, r.Count("u1"))
	assert.Equal(t, 1, r.Count("u2"))
}

func TestReportService_BackfilledDate(t *testing.T) {
	ctx := context.Background()
	svc, r, _ := newReportService(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := svc.Submit(ctx, "u1", nil, metrics(1, 7))
	require.NoError(t, err)

	past := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	res, err := svc.Submit(ctx, "u1", &past, metrics(4, 5))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, past, res.Report.Date)

	pastEvening := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	res, err = svc.Submit(ctx, "u1", &pastEvening, metrics(5, 5))
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, 2, r.Count("u1"))
}

func TestReportService_DayFollowsLocation(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+2", 2*60*60)
	svc, r, clock := newReportService(t, time.Date(2024, 3, 10, 21, 30, 0, 0, time.UTC))
	svc.Location = loc

	_, err := svc.Submit(ctx, "u1", nil, metrics(1, 7))
	require.NoError(t, err)
	// 22:30 UTC is already the next day at UTC+2.
	clock.Set(time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC))
	res, err := svc.Submit(ctx, "u1", nil, metrics(1, 7))
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, 2, r.Count("u1"))
}

func TestReportService_RejectsInvalidMetrics(t *testing.T) {
	svc, r, _ := newReportService(t, time.Now())

	_, err := svc.Submit(context.Background(), "u1", nil, entity.ReportMetrics{Stress: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(context.Background(), "u1", nil, entity.ReportMetrics{SleepHours: 25})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, r.Count("u1"))
}

func TestReportService_ConcurrentSubmitsKeepOneReport(t *testing.T) {
	svc, r, _ := newReportService(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), "u1", nil, metrics(i%5, 7))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, r.Count("u1"))
}
