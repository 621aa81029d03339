package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProduct_MarkAndUnmarkRoundTrip(t *testing.T) {
	yesterday := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	p := &Product{UsageHistory: []time.Time{yesterday}}

	assert.True(t, p.MarkUsed(now, time.UTC))
	assert.True(t, p.UsedToday)
	assert.Len(t, p.UsageHistory, 2)
	assert.Equal(t, now, p.UsageHistory[1])

	assert.True(t, p.UnmarkUsed(now.Add(time.Hour), time.UTC))
	assert.False(t, p.UsedToday)
	assert.Equal(t, []time.Time{yesterday}, p.UsageHistory)
}

func TestProduct_MarkUsedIsIdempotentWithinDay(t *testing.T) {
	now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	p := &Product{}

	assert.True(t, p.MarkUsed(now, time.UTC))
	assert.False(t, p.MarkUsed(now.Add(2*time.Hour), time.UTC))
	assert.Len(t, p.UsageHistory, 1)
}

func TestProduct_MarkUsedWithStaleFlag(t *testing.T) {
	// flag left over from yesterday because the reset job did not run
	yesterday := time.Date(2026, 5, 1, 22, 0, 0, 0, time.UTC)
	now := time.Date(2026, 5, 2, 7, 0, 0, 0, time.UTC)
	p := &Product{UsedToday: true, UsageHistory: []time.Time{yesterday}}

	assert.True(t, p.MarkUsed(now, time.UTC))
	assert.Len(t, p.UsageHistory, 2)
}

func TestProduct_UnmarkUsedKeepsOtherDays(t *testing.T) {
	yesterday := time.Date(2026, 5, 1, 22, 0, 0, 0, time.UTC)
	now := time.Date(2026, 5, 2, 7, 0, 0, 0, time.UTC)
	p := &Product{UsedToday: true, UsageHistory: []time.Time{yesterday}}

	assert.True(t, p.UnmarkUsed(now, time.UTC))
	assert.False(t, p.UsedToday)
	assert.Equal(t, []time.Time{yesterday}, p.UsageHistory)

	assert.False(t, p.UnmarkUsed(now, time.UTC))
}

func TestProduct_ResetUsageLeavesHistory(t *testing.T) {
	now := time.Date(2026, 5, 2, 7, 0, 0, 0, time.UTC)
	p := &Product{}
	p.MarkUsed(now, time.UTC)

	p.ResetUsage()

	assert.False(t, p.UsedToday)
	assert.Len(t, p.UsageHistory, 1)
}

func TestProduct_SetArchived(t *testing.T) {
	now := time.Date(2026, 5, 2, 7, 0, 0, 0, time.UTC)
	p := &Product{}

	p.SetArchived(true, now)
	assert.True(t, p.Archived)
	if assert.NotNil(t, p.ArchivedAt) {
		assert.Equal(t, now, *p.ArchivedAt)
	}

	p.SetArchived(false, now)
	assert.False(t, p.Archived)
	assert.Nil(t, p.ArchivedAt)
}

func TestProduct_OwnedBy(t *testing.T) {
	p := &Product{UserID: "u1"}
	assert.True(t, p.OwnedBy("u1"))
	assert.False(t, p.OwnedBy("u2"))
	assert.False(t, p.OwnedBy(""))

	var nilProduct *Product
	assert.False(t, nilProduct.OwnedBy("u1"))
}

func TestProduct_UsesBetween(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	p := &Product{UsageHistory: []time.Time{base, base.AddDate(0, 0, 1), base.AddDate(0, 0, 5)}}

	assert.Equal(t, 2, p.UsesBetween(base, base.AddDate(0, 0, 2)))
	assert.Equal(t, 0, p.UsesBetween(base.AddDate(0, 0, 6), base.AddDate(0, 0, 7)))
}
