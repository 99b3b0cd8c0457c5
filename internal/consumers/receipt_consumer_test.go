package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"pos/pkg/events"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failures int
	calls    int
}

func (s *memStore) Upload(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.failures > 0 {
		s.failures--
		return errors.New("503 slow down")
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	return nil
}

var nairobi = time.FixedZone("EAT", 3*3600)

func newHandler(store ReceiptStore) *ReceiptEventHandler {
	h := NewReceiptEventHandler(store, nairobi)
	h.backoff = time.Millisecond
	return h
}

func saleRecorded(t *testing.T, payload any) *events.Event {
	t.Helper()
	event, err := events.NewEvent(events.SaleRecordedEvent, events.EventVersionV1, payload, events.NewHeaders(events.ServiceName))
	require.NoError(t, err)
	return event
}

func validPayload() events.SaleRecordedPayload {
	return events.SaleRecordedPayload{
		ID: "sale-42",
		Items: []events.SaleRecordedItem{
			{Name: "Tea", Price: decimal.NewFromInt(50), Quantity: 2},
		},
		Total:         decimal.NewFromInt(100),
		PaymentMethod: "Cash",
		// 22:30 UTC is already the next day in Nairobi
		Date: time.Date(2026, 10, 18, 22, 30, 0, 0, time.UTC),
	}
}

func TestReceiptKey(t *testing.T) {
	date := time.Date(2026, 10, 18, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, "receipts/2026/10/19/s-1.json", ReceiptKey("s-1", date, nairobi))
	assert.Equal(t, "receipts/2026/10/18/s-1.json", ReceiptKey("s-1", date, time.UTC))
}

func TestReceiptEventHandler_ArchivesSale(t *testing.T) {
	store := &memStore{}
	event := saleRecorded(t, validPayload())

	require.NoError(t, newHandler(store).HandleEvent(context.Background(), event))

	body, ok := store.objects["receipts/2026/10/19/sale-42.json"]
	require.True(t, ok)

	var receipt Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, "sale-42", receipt.SaleID)
	assert.Equal(t, event.TraceID, receipt.TraceID)
	assert.True(t, decimal.NewFromInt(100).Equal(receipt.Total))
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, 2, receipt.Items[0].Quantity)
}

func TestReceiptEventHandler_RetriesUpload(t *testing.T) {
	store := &memStore{failures: 2}

	require.NoError(t, newHandler(store).HandleEvent(context.Background(), saleRecorded(t, validPayload())))
	assert.Equal(t, 3, store.calls)
	assert.Len(t, store.objects, 1)
}

func TestReceiptEventHandler_GivesUp(t *testing.T) {
	store := &memStore{failures: uploadAttempts}

	err := newHandler(store).HandleEvent(context.Background(), saleRecorded(t, validPayload()))
	assert.ErrorContains(t, err, "failed to upload receipt")
	assert.Equal(t, uploadAttempts, store.calls)
}

func TestReceiptEventHandler_MalformedPayloads(t *testing.T) {
	noID := validPayload()
	noID.ID = ""
	noItems := validPayload()
	noItems.Items = nil

	store := &memStore{}
	handler := newHandler(store)

	assert.Error(t, handler.HandleEvent(context.Background(), saleRecorded(t, noID)))
	assert.Error(t, handler.HandleEvent(context.Background(), saleRecorded(t, noItems)))
	assert.Error(t, handler.HandleEvent(context.Background(), &events.Event{Event: events.SaleRecordedEvent, Payload: json.RawMessage(`[1,2]`)}))
	assert.Zero(t, store.calls)
}

func TestReceiptEventHandler_IgnoresOtherEvents(t *testing.T) {
	store := &memStore{}

	err := newHandler(store).HandleEvent(context.Background(), &events.Event{Event: "sale.voided", Version: "v1"})
	assert.NoError(t, err)
	assert.Zero(t, store.calls)
}
