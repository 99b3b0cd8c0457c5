package cart

import (
	"pos/domain"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tea  = domain.Item{ID: "i-tea", Name: "Tea", Price: decimal.NewFromInt(50)}
	soda = domain.Item{ID: "i-soda", Name: "Soda", Price: decimal.NewFromInt(100)}
)

func TestCart_AddMergesByName(t *testing.T) {
	c := New()
	assert.Equal(t, StateEmpty, c.State())

	require.NoError(t, c.Add(tea))
	require.NoError(t, c.Add(tea))
	require.NoError(t, c.Add(soda))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Tea", lines[0].Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, StateBuilding, c.State())
	assert.True(t, decimal.NewFromInt(200).Equal(c.Total()))
}

func TestCart_AdjustClampsAtOne(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(tea))

	require.NoError(t, c.Adjust("Tea", 3))
	assert.Equal(t, 4, c.Lines()[0].Quantity)

	require.NoError(t, c.Adjust("Tea", -10))
	assert.Equal(t, 1, c.Lines()[0].Quantity)
	assert.Equal(t, 1, c.Len())

	assert.ErrorIs(t, c.Adjust("Coffee", 1), domain.ErrNotFound)
}

func TestCart_DecrementRemovesLastUnit(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(tea))
	require.NoError(t, c.Add(tea))

	require.NoError(t, c.Decrement("Tea"))
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	require.NoError(t, c.Decrement("Tea"))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, StateEmpty, c.State())
}

func TestCart_Remove(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(tea))
	require.NoError(t, c.Add(soda))
	require.NoError(t, c.Add(soda))

	require.NoError(t, c.Remove("Soda"))
	require.NoError(t, c.Remove("Soda"))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Tea", lines[0].Name)
}

func TestCart_PriceCapturedAtAdd(t *testing.T) {
	item := tea
	c := New()
	require.NoError(t, c.Add(item))

	item.Price = decimal.NewFromInt(80)
	require.NoError(t, c.Add(item))

	assert.True(t, decimal.NewFromInt(100).Equal(c.Total()))
}

func TestCart_CheckoutLifecycle(t *testing.T) {
	c := New()

	_, err := c.BeginCheckout()
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	require.NoError(t, c.Add(tea))
	require.NoError(t, c.SetNotes("Tea", "no sugar"))

	items, err := c.BeginCheckout()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "no sugar", items[0].Notes)
	assert.Equal(t, StateCheckoutPending, c.State())

	_, err = c.BeginCheckout()
	assert.ErrorIs(t, err, ErrCheckoutPending)
	assert.ErrorIs(t, c.Add(soda), ErrCheckoutPending)

	c.AbortCheckout()
	assert.Equal(t, StateBuilding, c.State())
	assert.Equal(t, 1, c.Len())

	_, err = c.BeginCheckout()
	require.NoError(t, err)
	c.CompleteCheckout()
	assert.Equal(t, StateEmpty, c.State())
	assert.Equal(t, 0, c.Len())
}

func TestFromLines(t *testing.T) {
	c := FromLines([]Line{
		{Name: "Tea", UnitPrice: decimal.NewFromInt(50), Quantity: 2},
		{Name: " Soda ", UnitPrice: decimal.NewFromInt(100), Quantity: 0},
		{Name: "Tea", UnitPrice: decimal.NewFromInt(50), Quantity: 1},
	})

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "Soda", lines[1].Name)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.True(t, decimal.NewFromInt(250).Equal(c.Total()))
}

func TestFromLines_KeepsLinesWithDifferentPriceOrNotes(t *testing.T) {
	c := FromLines([]Line{
		{Name: "Tea", UnitPrice: decimal.NewFromInt(50), Quantity: 1, Notes: "no sugar"},
		{Name: "Tea", UnitPrice: decimal.NewFromInt(60), Quantity: 1, Notes: "with milk"},
		{Name: "Tea", UnitPrice: decimal.NewFromInt(50), Quantity: 1, Notes: "with milk"},
		{Name: "Tea", UnitPrice: decimal.NewFromInt(50), Quantity: 2, Notes: "no sugar"},
	})

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, Line{Name: "Tea", UnitPrice: decimal.NewFromInt(50), Quantity: 3, Notes: "no sugar"}, lines[0])
	assert.Equal(t, Line{Name: "Tea", UnitPrice: decimal.NewFromInt(60), Quantity: 1, Notes: "with milk"}, lines[1])
	assert.Equal(t, Line{Name: "Tea", UnitPrice: decimal.NewFromInt(50), Quantity: 1, Notes: "with milk"}, lines[2])
	assert.True(t, decimal.NewFromInt(260).Equal(c.Total()))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "checkout_pending", StateCheckoutPending.String())
}
