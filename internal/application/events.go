package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	EventUserRegistered      = "user.registered"
	EventUserLoggedIn        = "user.logged_in"
	EventUserLoggedOut       = "user.logged_out"
	EventReportSubmitted     = "report.submitted"
	EventProductCreated      = "product.created"
	EventProductUpdated      = "product.updated"
	EventProductDeleted      = "product.deleted"
	EventProductUsageChanged = "product.usage_changed"
	EventProductUsageReset   = "product.usage_reset"
	EventUsageDailyReset     = "usage.daily_reset"
)

// Event is the envelope published for every user-visible change.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	UserID     string         `json:"user_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func (e Event) EnvelopeID() string   { return e.ID }
func (e Event) EnvelopeType() string { return e.Type }

// EventPublisher is satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

func NewEvent(typ, userID string, at time.Time, payload map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		UserID:     userID,
		OccurredAt: at.UTC(),
		Payload:    payload,
	}
}

// publish is best effort: a broker outage never fails the request.
func publish(ctx context.Context, pub EventPublisher, logger *logrus.Logger, ev Event) {
	if pub == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pub.PublishJSON(c, ev); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{"event": ev.Type, "user_id": ev.UserID}).Warn("publish event failed")
	}
}
