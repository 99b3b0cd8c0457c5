package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pos/domain"

	"github.com/google/uuid"
)

func (r *PgRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	query := `SELECT id, name, created_at FROM categories ORDER BY position`

	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}

	var items []domain.Item
	query = `SELECT id, category_id, name, price, position FROM category_items ORDER BY position`

	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}

	byCategory := make(map[string]int, len(categories))
	for i := range categories {
		categories[i].Items = []domain.Item{}
		byCategory[categories[i].ID] = i
	}
	for _, item := range items {
		if i, ok := byCategory[item.CategoryID]; ok {
			categories[i].Items = append(categories[i].Items, item)
		}
	}

	return categories, nil
}

func (r *PgRepository) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	if !validID(id) {
		return c, domain.ErrNotFound
	}

	query := `SELECT id, name, created_at FROM categories WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, domain.ErrNotFound
		}
		return c, err
	}

	c.Items = make([]domain.Item, 0)
	query = `SELECT id, category_id, name, price, position FROM category_items WHERE category_id = $1 ORDER BY position`
	if err := r.db.SelectContext(ctx, &c.Items, query, id); err != nil {
		return c, err
	}

	return c, nil
}

func (r *PgRepository) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	var c domain.Category
	query := `INSERT INTO categories (id, name) VALUES ($1, $2) RETURNING id, name, created_at`

	if err := r.db.GetContext(ctx, &c, query, uuid.NewString(), category.Name); err != nil {
		return c, err
	}

	c.Items = []domain.Item{}
	return c, nil
}

// AddItem appends the item in one statement; nothing is inserted when the
// category does not exist.
func (r *PgRepository) AddItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	var i domain.Item
	if !validID(item.CategoryID) {
		return i, domain.ErrNotFound
	}

	query := `
		INSERT INTO category_items (id, category_id, name, price)
		SELECT $1, c.id, $3, $4 FROM categories c WHERE c.id = $2
		RETURNING id, category_id, name, price, position`

	err := r.db.GetContext(ctx, &i, query, uuid.NewString(), item.CategoryID, item.Name, item.Price)
	if errors.Is(err, sql.ErrNoRows) || hasCode(err, foreignKeyViolation) {
		return i, fmt.Errorf("category %s: %w", item.CategoryID, domain.ErrNotFound)
	}
	return i, err
}

// DeleteItem reports whether an item was removed. A missing item is not an
// error; a missing category is.
func (r *PgRepository) DeleteItem(ctx context.Context, categoryID, itemID string) (bool, error) {
	if !validID(categoryID) {
		return false, domain.ErrNotFound
	}

	if !validID(itemID) {
		var exists bool
		query := `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`
		if err := r.db.GetContext(ctx, &exists, query, categoryID); err != nil {
			return false, err
		}
		if !exists {
			return false, domain.ErrNotFound
		}
		return false, nil
	}

	var result struct {
		Found   bool `db:"found"`
		Removed bool `db:"removed"`
	}
	query := `
		WITH target AS (
			SELECT id FROM categories WHERE id = $1
		), removed AS (
			DELETE FROM category_items
			WHERE category_id IN (SELECT id FROM target) AND id = $2
			RETURNING id
		)
		SELECT EXISTS (SELECT 1 FROM target) AS found, EXISTS (SELECT 1 FROM removed) AS removed`

	if err := r.db.GetContext(ctx, &result, query, categoryID, itemID); err != nil {
		return false, err
	}
	if !result.Found {
		return false, domain.ErrNotFound
	}
	return result.Removed, nil
}

// DeleteCategory removes the category; its items go with it through the
// foreign key cascade.
func (r *PgRepository) DeleteCategory(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
