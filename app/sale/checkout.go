package sale

import (
	"context"
	"fmt"
	"pos/domain"
	"pos/pkg/cart"
	"pos/pkg/events"
	"strings"
	"sync"
	"time"
)

// publishTimeout bounds how long a sale.recorded publish may wait for the
// broker once the sale is committed.
const publishTimeout = 5 * time.Second

type CheckoutOptions struct {
	PaymentMethod string
	Notes         string
	Date          time.Time
}

// Coordinator turns a cart into a committed sale.
type Coordinator struct {
	ledger         *Ledger
	eventPublisher events.Publisher
	inflight       sync.WaitGroup
}

func NewCoordinator(ledger *Ledger, eventPublisher events.Publisher) *Coordinator {
	return &Coordinator{
		ledger:         ledger,
		eventPublisher: eventPublisher,
	}
}

// Checkout records the cart as a sale at the prices captured in its lines.
// On success the cart is cleared; on any failure it keeps its lines.
func (c *Coordinator) Checkout(ctx context.Context, basket *cart.Cart, opts CheckoutOptions) (domain.Sale, error) {
	items, err := basket.BeginCheckout()
	if err != nil {
		return domain.Sale{}, err
	}

	method, err := domain.ParsePaymentMethod(opts.PaymentMethod)
	if err != nil {
		basket.AbortCheckout()
		return domain.Sale{}, err
	}

	recorded, err := c.ledger.Append(ctx, domain.Sale{
		Items:         items,
		Total:         items.Total(),
		PaymentMethod: method,
		Notes:         strings.TrimSpace(opts.Notes),
		Date:          opts.Date,
	})
	if err != nil {
		basket.AbortCheckout()
		return domain.Sale{}, fmt.Errorf("checkout: %w", err)
	}

	basket.CompleteCheckout()
	c.publishRecorded(ctx, recorded)

	return recorded, nil
}

// publishRecorded announces the sale in the background so a slow broker
// never delays the checkout response.
func (c *Coordinator) publishRecorded(ctx context.Context, recorded domain.Sale) {
	payload := saleRecordedPayload(recorded)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		events.Emit(publishCtx, c.eventPublisher, events.SalesExchange, events.SaleRecordedEvent, payload, events.ServiceName)
	}()
}

// Wait blocks until every pending sale.recorded publish has finished.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}

func saleRecordedPayload(s domain.Sale) events.SaleRecordedPayload {
	items := make([]events.SaleRecordedItem, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, events.SaleRecordedItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		})
	}

	return events.SaleRecordedPayload{
		ID:            s.ID,
		Items:         items,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		Notes:         s.Notes,
		Date:          s.Date,
	}
}
