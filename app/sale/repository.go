package sale

import (
	"context"
	"pos/domain"
	"time"
)

type Repository interface {
	// InsertSale stores a new sale. It never overwrites an existing record.
	InsertSale(ctx context.Context, sale domain.Sale) error
	// ListSalesBetween returns sales with from <= date < to, oldest first.
	ListSalesBetween(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
}
