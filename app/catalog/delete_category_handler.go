package catalog

import (
	"context"
	"errors"
	"pos/domain"
	"pos/pkg/events"
	"pos/pkg/httperror"
	"time"
)

type DeleteCategoryHandler struct {
	repository     Repository
	cache          Cache
	eventPublisher events.Publisher
}

func NewDeleteCategoryHandler(repository Repository, cache Cache, eventPublisher events.Publisher) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{
		repository:     repository,
		cache:          cache,
		eventPublisher: eventPublisher,
	}
}

type DeleteCategoryRequest struct {
	ID string `params:"id" validate:"required"`
}

type DeleteCategoryResponse struct {
	Message string `json:"message"`
}

// Handle deletes a category with all of its items. Unknown ids are reported
// as not found.
func (h DeleteCategoryHandler) Handle(ctx context.Context, req *DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	if err := requireAdmin(ctx, "catalog.category.destroy"); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, validationError("catalog.category.destroy", err)
	}

	if err := h.repository.DeleteCategory(ctx, req.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, categoryNotFound("catalog.category.destroy", req.ID)
		}
		return nil, httperror.InternalServerError(
			"catalog.category.destroy.failed",
			"Failed to delete category",
			err,
		)
	}

	invalidate(ctx, h.cache)
	publish(ctx, h.eventPublisher, events.CategoryDeletedEvent, events.CategoryDeletedPayload{
		ID:        req.ID,
		DeletedAt: time.Now(),
	})

	return &DeleteCategoryResponse{Message: "Category deleted"}, nil
}
