// Package cart holds an order in progress on the till. A cart is never
// persisted; it lives from the first added item until checkout succeeds or
// the order is abandoned.
package cart

import (
	"errors"
	"pos/domain"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrCheckoutPending = errors.New("checkout already in progress")

type State int

const (
	StateEmpty State = iota
	StateBuilding
	StateCheckoutPending
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateBuilding:
		return "building"
	case StateCheckoutPending:
		return "checkout_pending"
	}
	return "unknown"
}

// Line is identified by the item name. UnitPrice is captured when the line is
// created and never re-read from the catalog.
type Line struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
}

func (l Line) Subtotal() decimal.Decimal {
	return domain.LineTotal(l.UnitPrice, l.Quantity)
}

type Cart struct {
	mu      sync.Mutex
	lines   []Line
	pending bool
}

func New() *Cart {
	return &Cart{}
}

// FromLines normalises lines received over the wire: quantities below one
// become one and identical lines (same name, price and notes) are merged.
// Lines that differ in price or notes stay separate.
func FromLines(lines []Line) *Cart {
	c := New()
	for _, l := range lines {
		l.Name = strings.TrimSpace(l.Name)
		l.Quantity = max(l.Quantity, 1)

		if i := c.indexOfLine(l); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

// Add puts one more of item into the cart.
func (c *Cart) Add(item domain.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return ErrCheckoutPending
	}

	if i := c.indexOf(item.Name); i >= 0 {
		c.lines[i].Quantity++
		return nil
	}

	c.lines = append(c.lines, Line{Name: item.Name, UnitPrice: item.Price, Quantity: 1})
	return nil
}

// Adjust changes a line's quantity by delta, never going below one.
func (c *Cart) Adjust(name string, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return ErrCheckoutPending
	}

	i := c.indexOf(name)
	if i < 0 {
		return domain.ErrNotFound
	}
	c.lines[i].Quantity = max(1, c.lines[i].Quantity+delta)
	return nil
}

// Decrement takes one away from a line and drops the line when nothing is left.
func (c *Cart) Decrement(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return ErrCheckoutPending
	}

	i := c.indexOf(name)
	if i < 0 {
		return domain.ErrNotFound
	}
	if c.lines[i].Quantity <= 1 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return nil
	}
	c.lines[i].Quantity--
	return nil
}

func (c *Cart) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return ErrCheckoutPending
	}

	if i := c.indexOf(name); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	return nil
}

func (c *Cart) SetNotes(name, notes string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return ErrCheckoutPending
	}

	i := c.indexOf(name)
	if i < 0 {
		return domain.ErrNotFound
	}
	c.lines[i].Notes = strings.TrimSpace(notes)
	return nil
}

// Clear empties the cart. It is meant to follow a successful checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	c.pending = false
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.lines)
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.items().Total()
}

func (c *Cart) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.pending:
		return StateCheckoutPending
	case len(c.lines) == 0:
		return StateEmpty
	default:
		return StateBuilding
	}
}

// BeginCheckout freezes the cart and returns the items to be sold.
func (c *Cart) BeginCheckout() (domain.SaleItems, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return nil, ErrCheckoutPending
	}
	if len(c.lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	c.pending = true
	return c.items(), nil
}

// CompleteCheckout empties the cart after the sale was recorded.
func (c *Cart) CompleteCheckout() {
	c.Clear()
}

// AbortCheckout unfreezes the cart and keeps every line for a retry.
func (c *Cart) AbortCheckout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = false
}

func (c *Cart) items() domain.SaleItems {
	items := make(domain.SaleItems, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, domain.SaleItem{
			Name:     l.Name,
			Price:    l.UnitPrice,
			Quantity: l.Quantity,
			Notes:    l.Notes,
		})
	}
	return items
}

func (c *Cart) indexOfLine(line Line) int {
	for i, l := range c.lines {
		if l.Name == line.Name && l.UnitPrice.Equal(line.UnitPrice) && l.Notes == line.Notes {
			return i
		}
	}
	return -1
}

func (c *Cart) indexOf(name string) int {
	for i, l := range c.lines {
		if l.Name == name {
			return i
		}
	}
	return -1
}
