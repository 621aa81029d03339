package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBounds(t *testing.T) {
	at := time.Date(2026, 3, 14, 21, 30, 0, 0, time.UTC)
	start, end := DayBounds(at, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), end)
	assert.False(t, at.Before(start))
	assert.True(t, at.Before(end))
}

func TestDayBounds_Location(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	// 23:30 UTC on the 14th is already the 15th in Stockholm.
	at := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	start, _ := DayBounds(at, loc)

	assert.Equal(t, 15, start.Day())
	assert.Equal(t, "2026-03-15", DayKey(at, loc))
	assert.Equal(t, "2026-03-14", DayKey(at, nil))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	next := time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)

	assert.True(t, SameDay(morning, evening, time.UTC))
	assert.False(t, SameDay(evening, next, time.UTC))
	assert.True(t, SameDay(evening, evening.In(time.FixedZone("X", 3600)), nil))
}
