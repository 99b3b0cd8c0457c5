package postgres

import (
	"context"
	"fmt"
	"pos/domain"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LegacyProducts is the shape of the old products.json export.
type LegacyProducts struct {
	Products []domain.Category `json:"products"`
}

type ImportStats struct {
	Categories int
	Items      int
	Sales      int
}

// ImportLegacy wipes the catalog and the sales and loads the exported data in
// one transaction. Legacy ids are replaced with fresh uuids. Sale lines without
// a quantity count once; sales that still fail validation are skipped.
func (r *PgRepository) ImportLegacy(ctx context.Context, products LegacyProducts, sales []domain.Sale) (ImportStats, error) {
	var stats ImportStats

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return stats, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE sales, category_items, categories`); err != nil {
		return stats, fmt.Errorf("truncate: %w", err)
	}

	for _, c := range products.Products {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			zap.L().Warn("Skipping unnamed legacy category", zap.String("legacyId", c.ID))
			continue
		}

		categoryID := uuid.NewString()
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2)`, categoryID, name); err != nil {
			return stats, fmt.Errorf("insert category %q: %w", name, err)
		}
		stats.Categories++

		for _, legacy := range c.Items {
			item, err := domain.NewItem(categoryID, legacy.Name, legacy.Price)
			if err != nil {
				zap.L().Warn("Skipping invalid legacy item",
					zap.String("category", name),
					zap.String("item", legacy.Name),
					zap.Error(err),
				)
				continue
			}

			query := `INSERT INTO category_items (id, category_id, name, price) VALUES ($1, $2, $3, $4)`
			if _, err := tx.ExecContext(ctx, query, uuid.NewString(), categoryID, item.Name, item.Price); err != nil {
				return stats, fmt.Errorf("insert item %q: %w", item.Name, err)
			}
			stats.Items++
		}
	}

	for _, s := range sales {
		if len(s.Items) == 0 {
			zap.L().Warn("Skipping legacy sale without items", zap.String("legacyId", s.ID))
			continue
		}

		legacyID := s.ID
		items := make(domain.SaleItems, len(s.Items))
		for i, item := range s.Items {
			item.Quantity = max(item.Quantity, 1)
			items[i] = item
		}
		s.Items = items

		if method, err := domain.ParsePaymentMethod(string(s.PaymentMethod)); err == nil {
			s.PaymentMethod = method
		}
		if err := s.Validate(); err != nil {
			zap.L().Warn("Skipping invalid legacy sale", zap.String("legacyId", legacyID), zap.Error(err))
			continue
		}

		s.ID = uuid.NewString()
		if s.Date.IsZero() {
			s.Date = time.Now()
		}

		query := `
			INSERT INTO sales (id, items, total, payment_method, notes, date)
			VALUES (:id, :items, :total, :payment_method, :notes, :date)`
		if _, err := tx.NamedExecContext(ctx, query, s); err != nil {
			return stats, fmt.Errorf("insert sale: %w", err)
		}
		stats.Sales++
	}

	if err := tx.Commit(); err != nil {
		return stats, err
	}
	return stats, nil
}
