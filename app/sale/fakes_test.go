package sale

import (
	"context"
	"errors"
	"pos/domain"
	"pos/pkg/events"
	"sort"
	"sync"
	"time"
)

type memRepository struct {
	mu       sync.Mutex
	sales    []domain.Sale
	failWith error
}

func (r *memRepository) InsertSale(_ context.Context, s domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}
	for _, existing := range r.sales {
		if existing.ID == s.ID {
			return errors.New("duplicate sale id")
		}
	}
	r.sales = append(r.sales, s)
	return nil
}

func (r *memRepository) ListSalesBetween(_ context.Context, from, to time.Time) ([]domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	var out []domain.Sale
	for _, s := range r.sales {
		if !s.Date.Before(from) && s.Date.Before(to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sales)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event *events.Event, _ events.Headers) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// blockingPublisher holds every publish until release is closed.
type blockingPublisher struct {
	release     chan struct{}
	mu          sync.Mutex
	names       []string
	contextErrs []error
}

func newBlockingPublisher() *blockingPublisher {
	return &blockingPublisher{release: make(chan struct{})}
}

func (p *blockingPublisher) Publish(ctx context.Context, _ string, event *events.Event, _ events.Headers) error {
	<-p.release

	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = append(p.names, event.Event)
	p.contextErrs = append(p.contextErrs, ctx.Err())
	return nil
}

func (p *blockingPublisher) Close() error { return nil }

var errStoreDown = errors.New("connection reset by peer")
