package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("  Drinks ")
	require.NoError(t, err)
	assert.Equal(t, "Drinks", c.Name)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)

	_, err = NewCategory("   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewItem(t *testing.T) {
	item, err := NewItem("cat-1", "Tea", decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Equal(t, "cat-1", item.CategoryID)

	_, err = NewItem("cat-1", "", decimal.NewFromInt(50))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewItem("cat-1", "Tea", decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewItem("cat-1", "Tea", decimal.RequireFromString("10.005"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewItem("cat-1", "Tea", decimal.New(1, 10))
	assert.ErrorIs(t, err, ErrValidation)

	priced, err := NewItem("cat-1", "Tea", decimal.RequireFromString("9999999999.99"))
	require.NoError(t, err)
	assert.Equal(t, "9999999999.99", priced.Price.String())

	free, err := NewItem("cat-1", "Water", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, free.Price.IsZero())
}

func TestCategory_HasItem(t *testing.T) {
	c := Category{Items: []Item{{ID: "a"}, {ID: "b"}}}
	assert.True(t, c.HasItem("b"))
	assert.False(t, c.HasItem("c"))
}

func TestUser_Password(t *testing.T) {
	u, err := NewUser("admin", "s3cret", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, u.CheckPassword("s3cret"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.True(t, u.IsAdmin())

	_, err = NewUser("bob", "pw", Role("owner"))
	assert.ErrorIs(t, err, ErrValidation)
}
