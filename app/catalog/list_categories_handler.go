package catalog

import (
	"context"
	"pos/domain"
	"pos/pkg/httperror"

	"go.uber.org/zap"
)

type ListCategoriesHandler struct {
	repository Repository
	cache      Cache
}

func NewListCategoriesHandler(repository Repository, cache Cache) *ListCategoriesHandler {
	return &ListCategoriesHandler{
		repository: repository,
		cache:      cache,
	}
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Products []domain.Category `json:"products"`
}

func (h ListCategoriesHandler) Handle(ctx context.Context, _ *ListCategoriesRequest) (*ListCategoriesResponse, error) {
	cached, generation, ok, err := h.cache.GetCategories(ctx)
	cacheable := err == nil
	if err != nil {
		zap.L().Warn("Catalog cache read failed", zap.Error(err))
	}
	if ok {
		return &ListCategoriesResponse{Products: cached}, nil
	}

	categories, err := h.repository.ListCategories(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"catalog.index.failed",
			"Failed to load products",
			err,
		)
	}

	if cacheable {
		if err := h.cache.SetCategories(ctx, generation, categories); err != nil {
			zap.L().Warn("Catalog cache write failed", zap.Error(err))
		}
	}

	return &ListCategoriesResponse{Products: categories}, nil
}
