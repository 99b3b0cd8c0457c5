package catalog

import (
	"context"
	"errors"
	"pos/domain"
	"pos/pkg/events"
	"pos/pkg/httperror"

	"github.com/shopspring/decimal"
)

type AddItemHandler struct {
	repository     Repository
	cache          Cache
	eventPublisher events.Publisher
}

func NewAddItemHandler(repository Repository, cache Cache, eventPublisher events.Publisher) *AddItemHandler {
	return &AddItemHandler{
		repository:     repository,
		cache:          cache,
		eventPublisher: eventPublisher,
	}
}

type AddItemRequest struct {
	CategoryID string           `json:"categoryId" validate:"required"`
	Name       string           `json:"name" validate:"required"`
	Price      *decimal.Decimal `json:"price"`
}

// Handle appends an item and answers with the whole updated category.
func (h AddItemHandler) Handle(ctx context.Context, req *AddItemRequest) (*domain.Category, error) {
	if err := requireAdmin(ctx, "catalog.item.create"); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, validationError("catalog.item.create", err)
	}
	if req.Price == nil {
		return nil, httperror.BadRequest(
			"catalog.item.create.validation_failed",
			"Validation failed for the request",
			"price is required",
		)
	}

	item, err := domain.NewItem(req.CategoryID, req.Name, *req.Price)
	if err != nil {
		return nil, validationError("catalog.item.create", err)
	}

	added, err := h.repository.AddItem(ctx, item)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, categoryNotFound("catalog.item.create", req.CategoryID)
		}
		return nil, httperror.InternalServerError(
			"catalog.item.create.failed",
			"Failed to add item",
			err,
		)
	}

	invalidate(ctx, h.cache)
	publish(ctx, h.eventPublisher, events.CatalogItemAddedEvent, events.CatalogItemAddedPayload{
		CategoryID: added.CategoryID,
		ItemID:     added.ID,
		Name:       added.Name,
		Price:      added.Price,
	})

	category, err := h.repository.GetCategory(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, categoryNotFound("catalog.item.create", req.CategoryID)
		}
		return nil, httperror.InternalServerError(
			"catalog.item.create.failed",
			"Failed to load category",
			err,
		)
	}

	return &category, nil
}
