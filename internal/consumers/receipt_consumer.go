package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"pos/pkg/events"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const uploadAttempts = 3

// ReceiptStore is where archived receipts are written. *aws.S3 satisfies it.
type ReceiptStore interface {
	Upload(ctx context.Context, key string, data []byte) error
}

type Receipt struct {
	SaleID        string                    `json:"saleId"`
	Date          time.Time                 `json:"date"`
	Items         []events.SaleRecordedItem `json:"items"`
	Total         decimal.Decimal           `json:"total"`
	PaymentMethod string                    `json:"paymentMethod"`
	Notes         string                    `json:"notes,omitempty"`
	TraceID       string                    `json:"traceId"`
	ArchivedAt    time.Time                 `json:"archivedAt"`
}

type ReceiptEventHandler struct {
	store    ReceiptStore
	location *time.Location
	now      func() time.Time
	backoff  time.Duration
}

func NewReceiptEventHandler(store ReceiptStore, location *time.Location) *ReceiptEventHandler {
	if location == nil {
		location = time.Local
	}
	return &ReceiptEventHandler{
		store:    store,
		location: location,
		now:      time.Now,
		backoff:  200 * time.Millisecond,
	}
}

func (h *ReceiptEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	zap.L().Info("Sales event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.SaleRecordedEvent:
		return h.handleSaleRecorded(ctx, event)
	default:
		zap.L().Warn("Unknown sales event type", zap.String("event", event.Event))
		return nil
	}
}

func (h *ReceiptEventHandler) handleSaleRecorded(ctx context.Context, event *events.Event) error {
	var payload events.SaleRecordedPayload
	if err := event.DecodePayload(&payload); err != nil {
		return fmt.Errorf("malformed payload - unmarshal failed: %w", err)
	}
	if payload.ID == "" {
		return errors.New("malformed payload - sale id missing")
	}
	if len(payload.Items) == 0 {
		return errors.New("malformed payload - sale has no items")
	}

	body, err := json.Marshal(Receipt{
		SaleID:        payload.ID,
		Date:          payload.Date,
		Items:         payload.Items,
		Total:         payload.Total,
		PaymentMethod: payload.PaymentMethod,
		Notes:         payload.Notes,
		TraceID:       event.TraceID,
		ArchivedAt:    h.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}

	key := ReceiptKey(payload.ID, payload.Date, h.location)

	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		err = h.store.Upload(ctx, key, body)
		if err == nil {
			zap.L().Info("Receipt archived",
				zap.String("saleId", payload.ID),
				zap.String("key", key),
				zap.Int("attempt", attempt),
				zap.String("traceId", event.TraceID),
			)
			return nil
		}

		zap.L().Warn("Receipt upload failed",
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", uploadAttempts),
			zap.Error(err),
		)

		if attempt < uploadAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(h.backoff * time.Duration(attempt)):
			}
		}
	}

	return fmt.Errorf("failed to upload receipt after %d attempts: %w", uploadAttempts, err)
}

// ReceiptKey files receipts by the calendar day of the sale.
func ReceiptKey(saleID string, date time.Time, location *time.Location) string {
	return fmt.Sprintf("receipts/%s/%s.json", date.In(location).Format("2006/01/02"), saleID)
}
