package sale

import (
	"context"
	"pos/domain"
	"pos/pkg/httperror"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type GetDailySalesHandler struct {
	ledger *Ledger
}

func NewGetDailySalesHandler(ledger *Ledger) *GetDailySalesHandler {
	return &GetDailySalesHandler{
		ledger: ledger,
	}
}

type GetDailySalesRequest struct {
	Date string `query:"date"`
}

type GetDailySalesResponse struct {
	TotalSales decimal.Decimal `json:"totalSales"`
	Sales      []domain.Sale   `json:"sales"`
}

func (h GetDailySalesHandler) Handle(ctx context.Context, req *GetDailySalesRequest) (*GetDailySalesResponse, error) {
	ref := h.ledger.now()
	if req.Date != "" {
		day, err := time.ParseInLocation(dateLayout, req.Date, h.ledger.Location())
		if err != nil {
			return nil, httperror.BadRequest(
				"sale.index.invalid_date",
				"date must be formatted as YYYY-MM-DD",
				err,
			)
		}
		ref = day
	}

	daily, err := h.ledger.QueryByDay(ctx, ref)
	if err != nil {
		return nil, httperror.InternalServerError(
			"sale.index.failed",
			"Failed to read sales",
			err,
		)
	}

	return &GetDailySalesResponse{
		TotalSales: daily.TotalSales,
		Sales:      daily.Sales,
	}, nil
}
