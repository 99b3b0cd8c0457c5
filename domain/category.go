package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is a menu section. Its items are kept in insertion order.
type Category struct {
	ID        string    `json:"_id" db:"id"`
	Name      string    `json:"category" db:"name"`
	Items     []Item    `json:"items" db:"-"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func NewCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	return Category{Name: name, Items: []Item{}}, nil
}

// HasItem reports whether an item with the given id belongs to the category.
func (c Category) HasItem(itemID string) bool {
	for _, item := range c.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

type Item struct {
	ID         string          `json:"_id" db:"id"`
	CategoryID string          `json:"-" db:"category_id"`
	Name       string          `json:"name" db:"name"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Position   int64           `json:"-" db:"position"`
}

func NewItem(categoryID, name string, price decimal.Decimal) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, fmt.Errorf("%w: item name is required", ErrValidation)
	}
	if err := checkAmount("price", price); err != nil {
		return Item{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return Item{CategoryID: categoryID, Name: name, Price: price}, nil
}
