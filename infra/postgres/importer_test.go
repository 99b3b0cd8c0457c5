package postgres

import (
	"context"
	"encoding/json"
	"pos/domain"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyProducts = `{
	"products": [
		{"_id": "65f1c2e9a7b3d4e5f6a7b8c9", "category": "Drinks", "items": [
			{"_id": "65f1c2e9a7b3d4e5f6a7b8d0", "name": "Tea", "price": 50},
			{"_id": "65f1c2e9a7b3d4e5f6a7b8d1", "name": "", "price": 10}
		]},
		{"category": "  ", "items": []}
	]
}`

const legacySales = `[
	{"_id": "65f1c2e9a7b3d4e5f6a7b8e0", "items": [{"name": "Tea", "price": 50, "quantity": 2}], "total": 100, "date": "2025-03-13T09:15:00Z"},
	{"_id": "65f1c2e9a7b3d4e5f6a7b8e1", "items": [], "total": 0},
	{"_id": "65f1c2e9a7b3d4e5f6a7b8e2", "items": [{"name": "Soda", "price": 100}], "total": 100, "paymentMethod": "M-Pesa", "date": "2025-03-13T10:00:00Z"}
]`

const malformedLegacySales = `[
	{"_id": "65f1c2e9a7b3d4e5f6a7b8f0", "items": [{"name": "", "price": 50}], "total": 999},
	{"_id": "65f1c2e9a7b3d4e5f6a7b8f1", "items": [{"name": "Tea", "price": 50, "quantity": 1}], "total": 60},
	{"_id": "65f1c2e9a7b3d4e5f6a7b8f2", "items": [{"name": "Tea", "price": 50, "quantity": 1}], "total": 50, "paymentMethod": "Cheque"}
]`

func TestPgRepository_ImportLegacy(t *testing.T) {
	var products LegacyProducts
	require.NoError(t, json.Unmarshal([]byte(legacyProducts), &products))
	var sales []domain.Sale
	require.NoError(t, json.Unmarshal([]byte(legacySales), &sales))

	repo, mock := newMockRepository(t)
	mock.ExpectBegin()
	mock.ExpectExec(q(`TRUNCATE sales, category_items, categories`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q(`INSERT INTO categories`)).
		WithArgs(sqlmock.AnyArg(), "Drinks").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO category_items`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Tea", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO sales`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "Cash", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO sales`)).
		WithArgs(sqlmock.AnyArg(), []byte(`[{"name":"Soda","price":100,"quantity":1}]`), sqlmock.AnyArg(), "M-Pesa", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stats, err := repo.ImportLegacy(context.Background(), products, sales)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Categories: 1, Items: 1, Sales: 2}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepository_ImportLegacySkipsMalformedSales(t *testing.T) {
	var sales []domain.Sale
	require.NoError(t, json.Unmarshal([]byte(malformedLegacySales), &sales))

	repo, mock := newMockRepository(t)
	mock.ExpectBegin()
	mock.ExpectExec(q(`TRUNCATE sales, category_items, categories`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	stats, err := repo.ImportLegacy(context.Background(), LegacyProducts{}, sales)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepository_ImportLegacyRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectBegin()
	mock.ExpectExec(q(`TRUNCATE`)).WillReturnError(errConnReset)
	mock.ExpectRollback()

	_, err := repo.ImportLegacy(context.Background(), LegacyProducts{}, nil)
	assert.ErrorIs(t, err, errConnReset)
	assert.NoError(t, mock.ExpectationsWereMet())
}
