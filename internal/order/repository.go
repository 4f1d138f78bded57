package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pharmacy-be/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Repository interface {
	// WithTx returns a repository bound to tx.
	WithTx(tx *sqlx.Tx) Repository

	FindOrder(ctx context.Context, id uint) (*Order, error)
	FindItem(ctx context.Context, id uint) (*OrderItem, error)

	// LockItem and LockOrder take a row lock for the rest of the
	// transaction. They must be called on a repository returned by WithTx.
	LockItem(ctx context.Context, id uint) (*OrderItem, error)
	LockOrder(ctx context.Context, id uint) (*Order, error)

	// UpdateItem writes the negotiation fields of item provided its stored
	// status still equals from.
	UpdateItem(ctx context.Context, item *OrderItem, from StoreStatus) error
	UpdateTotal(ctx context.Context, o *Order) error

	ListStoreItems(ctx context.Context, storeID uint, filter ItemFilter) ([]*OrderItem, error)
	HasItemOfStoreOwner(ctx context.Context, orderID, ownerID uint) (bool, error)
}

type repository struct {
	db sqlx.ExtContext
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sqlx.Tx) Repository {
	return &repository{db: tx}
}

const itemColumns = `
	oi.id,
	oi.order_id,
	o.customer_id,
	oi.store_id,
	s.owner_id AS store_owner_id,
	oi.product_id,
	oi.suggested_product_id,
	oi.quantity,
	oi.store_status,
	oi.store_price,
	oi.store_notes,
	oi.store_suggestion,
	oi.store_action_at,
	oi.created_at,
	oi.updated_at
`

const itemFrom = `
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	JOIN stores s ON s.id = oi.store_id
`

func (r *repository) FindItem(ctx context.Context, id uint) (*OrderItem, error) {
	return r.getItem(ctx, id, "")
}

func (r *repository) LockItem(ctx context.Context, id uint) (*OrderItem, error) {
	return r.getItem(ctx, id, " FOR UPDATE OF oi")
}

func (r *repository) getItem(ctx context.Context, id uint, lock string) (*OrderItem, error) {
	query := "SELECT" + itemColumns + itemFrom + " WHERE oi.id = $1" + lock

	var row itemRow
	err := sqlx.GetContext(ctx, r.db, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderItemNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query order item",
			zap.String("layer", "repository"),
			zap.Uint("order_item_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	return row.toItem(), nil
}

func (r *repository) FindOrder(ctx context.Context, id uint) (*Order, error) {
	return r.getOrder(ctx, id, "")
}

func (r *repository) LockOrder(ctx context.Context, id uint) (*Order, error) {
	return r.getOrder(ctx, id, " FOR UPDATE")
}

func (r *repository) getOrder(ctx context.Context, id uint, lock string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.Uint("order_id", id),
	)

	var row orderRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, customer_id, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1`+lock, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to query order", zap.Error(err))
		return nil, err
	}

	var rows []itemRow
	err = sqlx.SelectContext(ctx, r.db, &rows,
		"SELECT"+itemColumns+itemFrom+" WHERE oi.order_id = $1 ORDER BY oi.id", id)
	if err != nil {
		log.Error("failed to query order items", zap.Error(err))
		return nil, err
	}

	o := row.toOrder()
	o.Items = make([]*OrderItem, 0, len(rows))
	for _, ir := range rows {
		o.Items = append(o.Items, ir.toItem())
	}

	return o, nil
}

func (r *repository) UpdateItem(ctx context.Context, item *OrderItem, from StoreStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE order_items
		SET
			product_id = $1,
			suggested_product_id = $2,
			store_status = $3,
			store_price = $4,
			store_notes = $5,
			store_suggestion = $6,
			store_action_at = $7,
			updated_at = $8
		WHERE id = $9
		  AND store_status = $10
	`,
		uintArg(item.ProductID),
		uintArg(item.SuggestedProductID),
		string(item.StoreStatus),
		priceArg(item.StorePrice),
		item.StoreNotes,
		item.StoreSuggestion,
		item.StoreActionAt,
		item.UpdatedAt,
		item.ID,
		string(from),
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update order item",
			zap.String("layer", "repository"),
			zap.Uint("order_item_id", item.ID),
			zap.Error(err),
		)
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrConcurrentUpdate
	}

	return nil
}

func (r *repository) UpdateTotal(ctx context.Context, o *Order) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET total_amount = $1, updated_at = NOW()
		WHERE id = $2
	`, o.TotalAmount, o.ID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update order total",
			zap.String("layer", "repository"),
			zap.Uint("order_id", o.ID),
			zap.Error(err),
		)
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *repository) ListStoreItems(ctx context.Context, storeID uint, filter ItemFilter) ([]*OrderItem, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	log := logger.FromCtx(ctx).With(
		zap.String("method", "ListStoreItems"),
		zap.Uint("store_id", storeID),
		zap.Int("limit", limit),
		zap.Int("page", page),
	)

	query := "SELECT" + itemColumns + itemFrom + " WHERE oi.store_id = $1"
	args := []any{storeID}
	argIndex := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND oi.store_status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}

	query += " ORDER BY oi.created_at DESC, oi.id DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	var rows []itemRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		log.Error("failed to list store items", zap.Error(err))
		return nil, err
	}

	items := make([]*OrderItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toItem())
	}

	log.Debug("list store items success", zap.Int("count", len(items)))
	return items, nil
}

func (r *repository) HasItemOfStoreOwner(ctx context.Context, orderID, ownerID uint) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, `
		SELECT EXISTS(
			SELECT 1
			FROM order_items oi
			JOIN stores s ON s.id = oi.store_id
			WHERE oi.order_id = $1 AND s.owner_id = $2
		)
	`, orderID, ownerID)
	return exists, err
}
