package catalog

import (
	"context"
	"errors"
	"pos/domain"
	"pos/pkg/events"
	"pos/pkg/httperror"
	"time"
)

type DeleteItemHandler struct {
	repository     Repository
	cache          Cache
	eventPublisher events.Publisher
}

func NewDeleteItemHandler(repository Repository, cache Cache, eventPublisher events.Publisher) *DeleteItemHandler {
	return &DeleteItemHandler{
		repository:     repository,
		cache:          cache,
		eventPublisher: eventPublisher,
	}
}

type DeleteItemRequest struct {
	CategoryID string `json:"categoryId" validate:"required"`
	ItemID     string `json:"itemId" validate:"required"`
}

// Handle removes one item. Removing an item that is not there still succeeds
// and returns the unchanged category.
func (h DeleteItemHandler) Handle(ctx context.Context, req *DeleteItemRequest) (*domain.Category, error) {
	if err := requireAdmin(ctx, "catalog.item.destroy"); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, validationError("catalog.item.destroy", err)
	}

	removed, err := h.repository.DeleteItem(ctx, req.CategoryID, req.ItemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, categoryNotFound("catalog.item.destroy", req.CategoryID)
		}
		return nil, httperror.InternalServerError(
			"catalog.item.destroy.failed",
			"Failed to delete item",
			err,
		)
	}

	if removed {
		invalidate(ctx, h.cache)
		publish(ctx, h.eventPublisher, events.CatalogItemDeletedEvent, events.CatalogItemDeletedPayload{
			CategoryID: req.CategoryID,
			ItemID:     req.ItemID,
			DeletedAt:  time.Now(),
		})
	}

	category, err := h.repository.GetCategory(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, categoryNotFound("catalog.item.destroy", req.CategoryID)
		}
		return nil, httperror.InternalServerError(
			"catalog.item.destroy.failed",
			"Failed to load category",
			err,
		)
	}

	return &category, nil
}
