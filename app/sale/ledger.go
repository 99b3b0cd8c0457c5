package sale

import (
	"context"
	"fmt"
	"pos/domain"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the append-only record of sales.
type Ledger struct {
	repository Repository
	location   *time.Location
	now        func() time.Time
}

func NewLedger(repository Repository, location *time.Location) *Ledger {
	if location == nil {
		location = time.Local
	}
	return &Ledger{
		repository: repository,
		location:   location,
		now:        time.Now,
	}
}

type DailySales struct {
	From       time.Time
	To         time.Time
	Sales      []domain.Sale
	TotalSales decimal.Decimal
}

func (l *Ledger) Location() *time.Location {
	return l.location
}

// Append validates the sale, assigns its id and default date, and stores it.
// The sale passed in is not modified.
func (l *Ledger) Append(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	method, err := domain.ParsePaymentMethod(string(sale.PaymentMethod))
	if err != nil {
		return domain.Sale{}, err
	}
	sale.PaymentMethod = method

	if err := sale.Validate(); err != nil {
		return domain.Sale{}, err
	}

	sale.ID = uuid.NewString()
	if sale.Date.IsZero() {
		sale.Date = l.now()
	}
	sale.Items = append(domain.SaleItems(nil), sale.Items...)

	if err := l.repository.InsertSale(ctx, sale); err != nil {
		return domain.Sale{}, fmt.Errorf("insert sale: %w", err)
	}
	return sale, nil
}

// QueryByDay returns the sales of the calendar day containing ref.
func (l *Ledger) QueryByDay(ctx context.Context, ref time.Time) (DailySales, error) {
	from, to := DayWindow(ref, l.location)

	sales, err := l.repository.ListSalesBetween(ctx, from, to)
	if err != nil {
		return DailySales{}, fmt.Errorf("list sales: %w", err)
	}
	if sales == nil {
		sales = []domain.Sale{}
	}

	return DailySales{
		From:       from,
		To:         to,
		Sales:      sales,
		TotalSales: domain.SumTotals(sales),
	}, nil
}

// Today is QueryByDay for the current instant.
func (l *Ledger) Today(ctx context.Context) (DailySales, error) {
	return l.QueryByDay(ctx, l.now())
}

// DayWindow is the half-open interval [midnight, next midnight) around ref in loc.
func DayWindow(ref time.Time, loc *time.Location) (time.Time, time.Time) {
	local := ref.In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}
