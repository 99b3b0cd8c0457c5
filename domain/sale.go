package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentMPesa PaymentMethod = "M-Pesa"
	PaymentCard  PaymentMethod = "Card"
)

// ParsePaymentMethod defaults an empty value to Cash.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.TrimSpace(s)) {
	case "":
		return PaymentCash, nil
	case PaymentCash:
		return PaymentCash, nil
	case PaymentMPesa:
		return PaymentMPesa, nil
	case PaymentCard:
		return PaymentCard, nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrValidation, s)
}

// SaleItem is a value snapshot of what was sold; it never references the catalog.
type SaleItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Notes    string          `json:"notes,omitempty"`
}

func (i SaleItem) Subtotal() decimal.Decimal {
	return LineTotal(i.Price, i.Quantity)
}

// SaleItems is stored as a single JSONB column.
type SaleItems []SaleItem

func (s SaleItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (s SaleItems) Value() (driver.Value, error) {
	if s == nil {
		s = SaleItems{}
	}
	return json.Marshal(s)
}

func (s *SaleItems) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*s = SaleItems{}
		return nil
	default:
		return fmt.Errorf("unsupported sale items type %T", src)
	}
	return json.Unmarshal(data, s)
}

type Sale struct {
	ID            string          `json:"_id" db:"id"`
	Items         SaleItems       `json:"items" db:"items"`
	Total         decimal.Decimal `json:"total" db:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	Notes         string          `json:"notes,omitempty" db:"notes"`
	Date          time.Time       `json:"date" db:"date"`
}

// Validate checks the shape a sale must have before it may enter the ledger.
func (s Sale) Validate() error {
	var errs []error

	if len(s.Items) == 0 {
		errs = append(errs, errors.New("sale must contain at least one item"))
	}
	for i, item := range s.Items {
		if strings.TrimSpace(item.Name) == "" {
			errs = append(errs, fmt.Errorf("items[%d]: name is required", i))
		}
		if item.Quantity < 1 {
			errs = append(errs, fmt.Errorf("items[%d]: quantity must be at least 1", i))
		}
		if err := checkAmount("price", item.Price); err != nil {
			errs = append(errs, fmt.Errorf("items[%d]: %w", i, err))
		}
	}
	if err := checkAmount("total", s.Total); err != nil {
		errs = append(errs, err)
	} else if !s.Total.Equal(s.Items.Total()) {
		errs = append(errs, fmt.Errorf("total %s does not match items total %s", s.Total, s.Items.Total()))
	}
	if _, err := ParsePaymentMethod(string(s.PaymentMethod)); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}
	return nil
}

// SumTotals adds up the stored totals of the given sales.
func SumTotals(sales []Sale) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range sales {
		sum = sum.Add(s.Total)
	}
	return sum
}
