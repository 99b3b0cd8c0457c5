package catalog

import (
	"context"
	"pos/domain"
	"pos/pkg/events"
	"pos/pkg/httperror"
)

type CreateCategoryHandler struct {
	repository     Repository
	cache          Cache
	eventPublisher events.Publisher
}

func NewCreateCategoryHandler(repository Repository, cache Cache, eventPublisher events.Publisher) *CreateCategoryHandler {
	return &CreateCategoryHandler{
		repository:     repository,
		cache:          cache,
		eventPublisher: eventPublisher,
	}
}

type CreateCategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

func (h CreateCategoryHandler) Handle(ctx context.Context, req *CreateCategoryRequest) (*domain.Category, error) {
	if err := requireAdmin(ctx, "catalog.category.create"); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, validationError("catalog.category.create", err)
	}

	category, err := domain.NewCategory(req.Category)
	if err != nil {
		return nil, validationError("catalog.category.create", err)
	}

	created, err := h.repository.CreateCategory(ctx, category)
	if err != nil {
		return nil, httperror.InternalServerError(
			"catalog.category.create.failed",
			"Failed to create category",
			err,
		)
	}

	invalidate(ctx, h.cache)
	publish(ctx, h.eventPublisher, events.CategoryCreatedEvent, events.CategoryCreatedPayload{
		ID:        created.ID,
		Name:      created.Name,
		CreatedAt: created.CreatedAt,
	})

	return &created, nil
}
