package sale

import (
	"context"
	"errors"
	"fmt"
	"pos/domain"
	"pos/pkg/cart"
	"pos/pkg/httperror"
	"time"

	"github.com/shopspring/decimal"
)

type RecordSaleHandler struct {
	coordinator *Coordinator
}

func NewRecordSaleHandler(coordinator *Coordinator) *RecordSaleHandler {
	return &RecordSaleHandler{
		coordinator: coordinator,
	}
}

type RecordSaleRequest struct {
	Items         []cart.Line      `json:"items"`
	Total         *decimal.Decimal `json:"total"`
	PaymentMethod string           `json:"paymentMethod"`
	Notes         string           `json:"notes"`
	Date          *time.Time       `json:"date"`
}

type RecordSaleResponse struct {
	Message string      `json:"message"`
	Sale    domain.Sale `json:"sale"`
}

func (h RecordSaleHandler) Handle(ctx context.Context, req *RecordSaleRequest) (*RecordSaleResponse, error) {
	basket := cart.FromLines(req.Items)

	if req.Total != nil && basket.Len() > 0 && !req.Total.Equal(basket.Total()) {
		return nil, httperror.BadRequest(
			"sale.create.validation_failed",
			"Validation failed for the request",
			fmt.Sprintf("total %s does not match items total %s", req.Total, basket.Total()),
		)
	}

	opts := CheckoutOptions{
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if req.Date != nil {
		opts.Date = *req.Date
	}

	recorded, err := h.coordinator.Checkout(ctx, basket, opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			return nil, httperror.BadRequest("sale.create.empty_cart", "Cart is empty", nil)
		case errors.Is(err, domain.ErrValidation):
			return nil, httperror.BadRequest("sale.create.validation_failed", "Validation failed for the request", err)
		}
		return nil, httperror.InternalServerError("sale.create.failed", "Failed to save sale", err)
	}

	return &RecordSaleResponse{
		Message: "Sale recorded successfully",
		Sale:    recorded,
	}, nil
}
