package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SalesExchange   = "pos.sales"
	CatalogExchange = "pos.catalog"
)

const (
	SaleRecordedEvent       = "sale.recorded"
	CategoryCreatedEvent    = "catalog.category.created"
	CategoryDeletedEvent    = "catalog.category.deleted"
	CatalogItemAddedEvent   = "catalog.item.added"
	CatalogItemDeletedEvent = "catalog.item.deleted"
)

const (
	EventVersionV1 = "v1"
)

type SaleRecordedItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Notes    string          `json:"notes,omitempty"`
}

type SaleRecordedPayload struct {
	ID            string             `json:"id"`
	Items         []SaleRecordedItem `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	Notes         string             `json:"notes,omitempty"`
	Date          time.Time          `json:"date"`
}

type CategoryCreatedPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryDeletedPayload struct {
	ID        string    `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}

type CatalogItemAddedPayload struct {
	CategoryID string          `json:"categoryId"`
	ItemID     string          `json:"itemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
}

type CatalogItemDeletedPayload struct {
	CategoryID string    `json:"categoryId"`
	ItemID     string    `json:"itemId"`
	DeletedAt  time.Time `json:"deletedAt"`
}

// ServiceName is stamped on every event this service publishes.
const ServiceName = "pos"
