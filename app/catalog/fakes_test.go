package catalog

import (
	"context"
	"errors"
	"fmt"
	"pos/domain"
	"pos/pkg/events"
	"pos/pkg/token"
	"sync"
	"time"
)

type memRepository struct {
	mu         sync.Mutex
	categories []domain.Category
	seq        int
	failWith   error
}

func newMemRepository() *memRepository {
	return &memRepository{}
}

func (r *memRepository) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *memRepository) indexOf(id string) int {
	for i, c := range r.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (r *memRepository) ListCategories(context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	out := make([]domain.Category, len(r.categories))
	for i, c := range r.categories {
		c.Items = append([]domain.Item{}, c.Items...)
		out[i] = c
	}
	return out, nil
}

func (r *memRepository) GetCategory(_ context.Context, id string) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Category{}, domain.ErrNotFound
	}
	c := r.categories[i]
	c.Items = append([]domain.Item{}, c.Items...)
	return c, nil
}

func (r *memRepository) CreateCategory(_ context.Context, category domain.Category) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return domain.Category{}, r.failWith
	}

	category.ID = r.nextID("cat")
	category.CreatedAt = time.Now()
	category.Items = []domain.Item{}
	r.categories = append(r.categories, category)
	return category, nil
}

func (r *memRepository) AddItem(_ context.Context, item domain.Item) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(item.CategoryID)
	if i < 0 {
		return domain.Item{}, fmt.Errorf("add item: %w", domain.ErrNotFound)
	}
	item.ID = r.nextID("item")
	r.categories[i].Items = append(r.categories[i].Items, item)
	return item, nil
}

func (r *memRepository) DeleteItem(_ context.Context, categoryID, itemID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(categoryID)
	if i < 0 {
		return false, domain.ErrNotFound
	}
	items := r.categories[i].Items
	for j, item := range items {
		if item.ID == itemID {
			r.categories[i].Items = append(items[:j:j], items[j+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepository) DeleteCategory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.categories = append(r.categories[:i], r.categories[i+1:]...)
	return nil
}

type memCache struct {
	categories  []domain.Category
	hit         bool
	generation  int64
	invalidated int
	readErr     error
}

func (c *memCache) GetCategories(context.Context) ([]domain.Category, int64, bool, error) {
	if c.readErr != nil {
		return nil, 0, false, c.readErr
	}
	return c.categories, c.generation, c.hit, nil
}

func (c *memCache) SetCategories(_ context.Context, generation int64, categories []domain.Category) error {
	if generation != c.generation {
		return nil
	}
	c.categories = categories
	c.hit = true
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.categories = nil
	c.hit = false
	c.generation++
	c.invalidated++
	return nil
}

// racingRepository runs a mutation right after each catalog read, before
// the reader gets to fill the cache.
type racingRepository struct {
	*memRepository
	afterList func()
}

func (r *racingRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := r.memRepository.ListCategories(ctx)
	if r.afterList != nil {
		mutate := r.afterList
		r.afterList = nil
		mutate()
	}
	return categories, err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event *events.Event, _ events.Headers) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event.Event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func adminCtx() context.Context {
	return token.WithClaims(context.Background(), &token.Claims{Username: "admin", Role: domain.RoleAdmin})
}

func cashierCtx() context.Context {
	return token.WithClaims(context.Background(), &token.Claims{Username: "till", Role: domain.RoleCashier})
}

var errStoreDown = errors.New("connection refused")
