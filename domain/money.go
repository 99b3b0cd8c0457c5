package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// prices and totals travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Amounts are stored as NUMERIC(12, 2).
const amountScale = 2

var maxAmount = decimal.New(1, 10)

// LineTotal is the only place price × quantity is computed.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// checkAmount rejects amounts the ledger could not store without rounding.
func checkAmount(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%s must not be negative", field)
	}
	if !v.Equal(v.Truncate(amountScale)) {
		return fmt.Errorf("%s must have at most %d decimal places", field, amountScale)
	}
	if v.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%s must be less than %s", field, maxAmount)
	}
	return nil
}
