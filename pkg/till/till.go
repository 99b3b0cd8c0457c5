// Package till drives a cart through checkout against a remote POS server.
package till

import (
	"context"
	"pos/domain"
	"pos/pkg/cart"
	"time"

	"github.com/shopspring/decimal"
)

type SaleRequest struct {
	Items         []cart.Line     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Date          *time.Time      `json:"date,omitempty"`
}

type SaleRecorder interface {
	RecordSale(ctx context.Context, req SaleRequest) (domain.Sale, error)
}

type Till struct {
	cart     *cart.Cart
	recorder SaleRecorder
}

func New(recorder SaleRecorder) *Till {
	return &Till{
		cart:     cart.New(),
		recorder: recorder,
	}
}

func (t *Till) Cart() *cart.Cart {
	return t.cart
}

// Checkout sends the cart to the server. The cart is emptied only once the
// server has stored the sale; otherwise every line stays for a retry.
func (t *Till) Checkout(ctx context.Context, paymentMethod, notes string) (domain.Sale, error) {
	items, err := t.cart.BeginCheckout()
	if err != nil {
		return domain.Sale{}, err
	}

	recorded, err := t.recorder.RecordSale(ctx, SaleRequest{
		Items:         t.cart.Lines(),
		Total:         items.Total(),
		PaymentMethod: paymentMethod,
		Notes:         notes,
	})
	if err != nil {
		t.cart.AbortCheckout()
		return domain.Sale{}, err
	}

	t.cart.CompleteCheckout()
	return recorded, nil
}
