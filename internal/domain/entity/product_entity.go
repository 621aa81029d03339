package entity

import (
	"time"

	"github.com/oksasatya/skinsync/pkg/helpers"
)

// Product is a skincare item on a user's shelf.
//
// UsageHistory is append-mostly: MarkUsed appends, UnmarkUsed only removes
// an entry recorded on the current day.
type Product struct {
	ID           string
	UserID       string
	Name         string
	Brand        string
	Category     Category
	Routine      Routine
	Date         time.Time
	UsedToday    bool
	UsageHistory []time.Time
	Favorite     bool
	Archived     bool
	ArchivedAt   *time.Time
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedBy reports whether userID owns the product.
func (p *Product) OwnedBy(userID string) bool {
	return p != nil && userID != "" && p.UserID == userID
}

// MarkUsed sets UsedToday and records now in the history. It is a no-op when
// the product is already marked and already has a use recorded today.
// The return value tells whether anything changed.
func (p *Product) MarkUsed(now time.Time, loc *time.Location) bool {
	if p.UsedToday && p.lastUseOn(now, loc) >= 0 {
		return false
	}
	p.UsedToday = true
	p.UsageHistory = append(p.UsageHistory, now)
	return true
}

// UnmarkUsed clears UsedToday and drops the most recent use recorded on the
// same day as now. Uses from other days are kept.
func (p *Product) UnmarkUsed(now time.Time, loc *time.Location) bool {
	changed := p.UsedToday
	p.UsedToday = false
	if i := p.lastUseOn(now, loc); i >= 0 {
		p.UsageHistory = append(p.UsageHistory[:i], p.UsageHistory[i+1:]...)
		changed = true
	}
	return changed
}

// ResetUsage clears the daily flag without touching the history.
func (p *Product) ResetUsage() {
	p.UsedToday = false
}

// SetArchived toggles the soft-delete flag and stamps ArchivedAt.
func (p *Product) SetArchived(archived bool, now time.Time) {
	p.Archived = archived
	if archived {
		at := now
		p.ArchivedAt = &at
		return
	}
	p.ArchivedAt = nil
}

// UsesBetween counts history entries in [from, to).
func (p *Product) UsesBetween(from, to time.Time) int {
	n := 0
	for _, t := range p.UsageHistory {
		if !t.Before(from) && t.Before(to) {
			n++
		}
	}
	return n
}

func (p *Product) lastUseOn(day time.Time, loc *time.Location) int {
	for i := len(p.UsageHistory) - 1; i >= 0; i-- {
		if helpers.SameDay(p.UsageHistory[i], day, loc) {
			return i
		}
	}
	return -1
}
