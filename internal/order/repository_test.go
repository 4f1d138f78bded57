package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemCols = []string{
	"id", "order_id", "customer_id", "store_id", "store_owner_id",
	"product_id", "suggested_product_id", "quantity", "store_status",
	"store_price", "store_notes", "store_suggestion", "store_action_at",
	"created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*sqlx.DB, Repository, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return db, NewRepository(db), mock
}

func TestRepository_FindItem(t *testing.T) {
	_, repo, mock := newMockRepo(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(itemCols).AddRow(
			1, 10, 7, 5, 42,
			100, nil, 2, "ACCEPTED",
			"12.50", "note", nil, now,
			now, now,
		)
		mock.ExpectQuery(`SELECT .* FROM order_items oi JOIN orders o ON o.id = oi.order_id JOIN stores s ON s.id = oi.store_id WHERE oi.id = \$1$`).
			WithArgs(1).
			WillReturnRows(rows)

		item, err := repo.FindItem(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(10), item.OrderID)
		assert.Equal(t, uint(7), item.CustomerID)
		assert.Equal(t, uint(42), item.StoreOwnerID)
		assert.Equal(t, uint(100), *item.ProductID)
		assert.Nil(t, item.SuggestedProductID)
		assert.Equal(t, StatusAccepted, item.StoreStatus)
		assert.True(t, item.StorePrice.Equal(decimal.RequireFromString("12.50")))
		assert.Equal(t, "note", *item.StoreNotes)
		assert.Nil(t, item.StoreSuggestion)
		require.NotNil(t, item.StoreActionAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`FROM order_items`).WithArgs(2).WillReturnError(sql.ErrNoRows)

		_, err := repo.FindItem(ctx, 2)
		assert.Equal(t, ErrOrderItemNotFound, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockItem(t *testing.T) {
	db, repo, mock := newMockRepo(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE oi.id = \$1 FOR UPDATE OF oi`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(
			1, 10, 7, 5, 42, 100, nil, 1, "PENDING", nil, nil, nil, nil, now, now,
		))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	item, err := repo.WithTx(tx).LockItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, item.StoreStatus)
	assert.Nil(t, item.StorePrice)
	assert.Nil(t, item.StoreActionAt)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockOrder(t *testing.T) {
	_, repo, mock := newMockRepo(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`SELECT id, customer_id, total_amount, created_at, updated_at FROM orders WHERE id = \$1 FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "total_amount", "created_at", "updated_at"}).
			AddRow(10, 7, "0", now, now))
	mock.ExpectQuery(`WHERE oi.order_id = \$1 ORDER BY oi.id`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(1, 10, 7, 5, 42, 100, nil, 2, "ACCEPTED", "10", nil, nil, now, now, now).
			AddRow(2, 10, 7, 6, 43, 101, nil, 1, "REFUSED", nil, "no stock", nil, now, now, now))

	o, err := repo.LockOrder(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, uint(7), o.CustomerID)
	assert.Len(t, o.Items, 2)
	assert.True(t, o.RecalculateTotal().Equal(decimal.NewFromInt(20)))

	mock.ExpectQuery(`FROM orders`).WithArgs(11).WillReturnError(sql.ErrNoRows)
	_, err = repo.FindOrder(ctx, 11)
	assert.Equal(t, ErrOrderNotFound, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateItem(t *testing.T) {
	_, repo, mock := newMockRepo(t)
	ctx := context.Background()

	price := decimal.NewFromInt(10)
	at := time.Now()
	item := pendingItem()
	item.StoreStatus = StatusAccepted
	item.StorePrice = &price
	item.StoreActionAt = &at
	item.UpdatedAt = at

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE order_items SET .* WHERE id = \$9 AND store_status = \$10`).
			WithArgs(int64(100), nil, "ACCEPTED", "10", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), 1, "PENDING").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateItem(ctx, item, StatusPending))
	})

	t.Run("StatusChangedMeanwhile", func(t *testing.T) {
		mock.ExpectExec(`UPDATE order_items`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateItem(ctx, item, StatusPending)
		assert.Equal(t, ErrConcurrentUpdate, err)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec(`UPDATE order_items`).
			WillReturnError(errors.New("db down"))

		assert.EqualError(t, repo.UpdateItem(ctx, item, StatusPending), "db down")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateTotal(t *testing.T) {
	_, repo, mock := newMockRepo(t)
	ctx := context.Background()

	o := &Order{ID: 10, TotalAmount: decimal.RequireFromString("35.5")}

	mock.ExpectExec(`UPDATE orders SET total_amount = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("35.5", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateTotal(ctx, o))

	mock.ExpectExec(`UPDATE orders`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.Equal(t, ErrOrderNotFound, repo.UpdateTotal(ctx, o))

	resultErr := errors.New("driver cannot report affected rows")
	mock.ExpectExec(`UPDATE orders`).WillReturnResult(sqlmock.NewErrorResult(resultErr))
	assert.Equal(t, resultErr, repo.UpdateTotal(ctx, o))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListStoreItems(t *testing.T) {
	_, repo, mock := newMockRepo(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("Defaults", func(t *testing.T) {
		mock.ExpectQuery(`WHERE oi.store_id = \$1 ORDER BY oi.created_at DESC, oi.id DESC LIMIT \$2 OFFSET \$3`).
			WithArgs(5, 20, 0).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow(1, 10, 7, 5, 42, 100, nil, 1, "PENDING", nil, nil, nil, nil, now, now))

		items, err := repo.ListStoreItems(ctx, 5, ItemFilter{})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("StatusAndPaging", func(t *testing.T) {
		status := StatusSuggested
		mock.ExpectQuery(`WHERE oi.store_id = \$1 AND oi.store_status = \$2 ORDER BY .* LIMIT \$3 OFFSET \$4`).
			WithArgs(5, "SUGGESTED", 100, 200).
			WillReturnRows(sqlmock.NewRows(itemCols))

		items, err := repo.ListStoreItems(ctx, 5, ItemFilter{Status: &status, Limit: 500, Page: 3})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_HasItemOfStoreOwner(t *testing.T) {
	_, repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(10, 42).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasItemOfStoreOwner(context.Background(), 10, 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
