package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/pkg/helpers"
)

// ErrMalformedEvent marks a message that can never be processed.
var ErrMalformedEvent = errors.New("malformed event")

// ActivityIndexer stores one event in the activity index.
type ActivityIndexer interface {
	IndexActivity(ctx context.Context, ev Event) error
}

// ActivityService writes published events into Elasticsearch.
type ActivityService struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewActivityService(es *elasticsearch.Client, index string, logger *logrus.Logger) *ActivityService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &ActivityService{ES: es, Index: index, Logger: logger}
}

func (s *ActivityService) IndexActivity(ctx context.Context, ev Event) error {
	if s.ES == nil || s.Index == "" {
		return errors.New("elasticsearch not configured")
	}
	return helpers.ESIndex(ctx, s.ES, s.Index, ev.ID, ev)
}

// DecodeEvent parses and checks a message body.
func DecodeEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.ID == "" || ev.Type == "" {
		return Event{}, fmt.Errorf("%w: id and type are required", ErrMalformedEvent)
	}
	return ev, nil
}

// HandleDelivery decodes body and indexes it. The returned error is
// ErrMalformedEvent when retrying cannot help.
func HandleDelivery(ctx context.Context, idx ActivityIndexer, body []byte) error {
	ev, err := DecodeEvent(body)
	if err != nil {
		return err
	}
	if err := idx.IndexActivity(ctx, ev); err != nil {
		return fmt.Errorf("index %s: %w", ev.ID, err)
	}
	return nil
}

var _ ActivityIndexer = (*ActivityService)(nil)
