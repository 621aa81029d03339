package entity

import (
	"errors"
	"time"
)

var ErrInvalidMetrics = errors.New("invalid report metrics")

// ReportMetrics is the set of values a user submits for a day.
// Integer fields are intensity scales; the unit of WaterAmount is ml.
type ReportMetrics struct {
	Exercised   int
	Period      bool
	Stress      int
	Acne        int
	Sugar       int
	Alcohol     int
	Dairy       int
	GreasyFood  int
	WaterAmount float64
	SleepHours  float64
}

// Validate rejects negative quantities and impossible sleep durations.
func (m ReportMetrics) Validate() error {
	for _, v := range []int{m.Exercised, m.Stress, m.Acne, m.Sugar, m.Alcohol, m.Dairy, m.GreasyFood} {
		if v < 0 {
			return ErrInvalidMetrics
		}
	}
	if m.WaterAmount < 0 || m.SleepHours < 0 || m.SleepHours > 24 {
		return ErrInvalidMetrics
	}
	return nil
}

// DailyReport holds one user's metrics for one calendar day.
// Only the day part of Date is meaningful.
type DailyReport struct {
	ID     string
	UserID string
	Date   time.Time
	ReportMetrics
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overwrite replaces every metric in place. Previous values for the day are discarded.
func (r *DailyReport) Overwrite(m ReportMetrics, at time.Time) {
	r.ReportMetrics = m
	r.UpdatedAt = at
}
