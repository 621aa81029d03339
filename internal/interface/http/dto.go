package handlers

import (
	"time"

	"github.com/oksasatya/skinsync/internal/domain/entity"
)

type reportDTO struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Date        time.Time `json:"date"`
	Exercised   int       `json:"exercised"`
	Period      bool      `json:"period"`
	Stress      int       `json:"stress"`
	Acne        int       `json:"acne"`
	Sugar       int       `json:"sugar"`
	Alcohol     int       `json:"alcohol"`
	Dairy       int       `json:"dairy"`
	GreasyFood  int       `json:"greasyFood"`
	WaterAmount float64   `json:"waterAmount"`
	SleepHours  float64   `json:"sleepHours"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toReportDTO(r *entity.DailyReport) reportDTO {
	return reportDTO{
		ID:          r.ID,
		User:        r.UserID,
		Date:        r.Date,
		Exercised:   r.Exercised,
		Period:      r.Period,
		Stress:      r.Stress,
		Acne:        r.Acne,
		Sugar:       r.Sugar,
		Alcohol:     r.Alcohol,
		Dairy:       r.Dairy,
		GreasyFood:  r.GreasyFood,
		WaterAmount: r.WaterAmount,
		SleepHours:  r.SleepHours,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type productDTO struct {
	ID           string      `json:"id"`
	User         string      `json:"user"`
	Name         string      `json:"name"`
	Brand        string      `json:"brand,omitempty"`
	Category     string      `json:"category"`
	Routine      string      `json:"routine"`
	Date         time.Time   `json:"date"`
	UsedToday    bool        `json:"usedToday"`
	UsageHistory []time.Time `json:"usageHistory"`
	Favorite     bool        `json:"favorite"`
	Archived     bool        `json:"archived"`
	ArchivedAt   *time.Time  `json:"archivedAt,omitempty"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func toProductDTO(p *entity.Product) productDTO {
	history := p.UsageHistory
	if history == nil {
		history = []time.Time{}
	}
	return productDTO{
		ID:           p.ID,
		User:         p.UserID,
		Name:         p.Name,
		Brand:        p.Brand,
		Category:     string(p.Category),
		Routine:      string(p.Routine),
		Date:         p.Date,
		UsedToday:    p.UsedToday,
		UsageHistory: history,
		Favorite:     p.Favorite,
		Archived:     p.Archived,
		ArchivedAt:   p.ArchivedAt,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductDTOs(ps []entity.Product) []productDTO {
	out := make([]productDTO, len(ps))
	for i := range ps {
		out[i] = toProductDTO(&ps[i])
	}
	return out
}
