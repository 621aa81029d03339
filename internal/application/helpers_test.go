package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/oksasatya/skinsync/internal/domain/entity"
)

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type capturePublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := body.(Event); ok {
		p.events = append(p.events, ev)
	}
	return p.err
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type countingStats struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingStats) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[userID]++
}

type fakeImageStore struct {
	path        string
	contentType string
	data        []byte
	err         error
}

func (f *fakeImageStore) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	f.path, f.contentType, f.data = objectPath, contentType, b
	return "https://img.test/" + objectPath, nil
}

type fakeIndexer struct {
	got []Event
	err error
}

func (f *fakeIndexer) IndexActivity(_ context.Context, ev Event) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, ev)
	return nil
}

var errBoom = errors.New("boom")

func metrics(stress int, sleep float64) entity.ReportMetrics {
	return entity.ReportMetrics{Exercised: 1, Stress: stress, Acne: 2, WaterAmount: 1500, SleepHours: sleep}
}
