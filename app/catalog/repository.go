package catalog

import (
	"context"
	"pos/domain"
)

type Repository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	AddItem(ctx context.Context, item domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, categoryID, itemID string) (bool, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Cache holds the rendered catalog between mutations. Every Invalidate bumps
// the cache generation; SetCategories stores a list only while the generation
// it was read under is still current.
type Cache interface {
	GetCategories(ctx context.Context) (categories []domain.Category, generation int64, ok bool, err error)
	SetCategories(ctx context.Context, generation int64, categories []domain.Category) error
	Invalidate(ctx context.Context) error
}

type NopCache struct{}

func (NopCache) GetCategories(context.Context) ([]domain.Category, int64, bool, error) {
	return nil, 0, false, nil
}
func (NopCache) SetCategories(context.Context, int64, []domain.Category) error { return nil }
func (NopCache) Invalidate(context.Context) error                              { return nil }
