package postgres

import (
	"context"
	"pos/domain"
	"time"
)

// InsertSale is a plain insert: sales are never updated.
func (r *PgRepository) InsertSale(ctx context.Context, sale domain.Sale) error {
	query := `
		INSERT INTO sales (
			id, items, total, payment_method, notes, date
		) VALUES (
			:id, :items, :total, :payment_method, :notes, :date
		)`

	_, err := r.db.NamedExecContext(ctx, query, sale)
	return err
}

func (r *PgRepository) ListSalesBetween(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	sales := make([]domain.Sale, 0)
	query := `
		SELECT id, items, total, payment_method, notes, date
		FROM sales
		WHERE date >= $1 AND date < $2
		ORDER BY date, id`

	if err := r.db.SelectContext(ctx, &sales, query, from, to); err != nil {
		return nil, err
	}

	return sales, nil
}
