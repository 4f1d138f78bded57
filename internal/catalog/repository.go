package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pharmacy-be/internal/logger"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Repository is the read side of the catalog the negotiation workflow
// consumes. Lookups return nil without error when the row is absent.
type Repository interface {
	FindProduct(ctx context.Context, id uint) (*Product, error)
	FindStore(ctx context.Context, id uint) (*Store, error)
	PriceFor(ctx context.Context, storeID, productID uint) (*decimal.Decimal, error)
}

type repository struct {
	db sqlx.QueryerContext
}

func NewRepository(db sqlx.QueryerContext) Repository {
	return &repository{db: db}
}

type productRow struct {
	ID        uint      `db:"id"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type storeRow struct {
	ID        uint      `db:"id"`
	Name      string    `db:"name"`
	OwnerID   uint      `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *repository) FindProduct(ctx context.Context, id uint) (*Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, name, status, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query product",
			zap.String("layer", "repository"),
			zap.Uint("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	p := &Product{ID: row.ID, Name: row.Name, Status: ProductStatus(row.Status)}
	p.CreatedAt, p.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return p, nil
}

func (r *repository) FindStore(ctx context.Context, id uint) (*Store, error) {
	var row storeRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM stores
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query store",
			zap.String("layer", "repository"),
			zap.Uint("store_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	s := &Store{ID: row.ID, Name: row.Name, OwnerID: row.OwnerID}
	s.CreatedAt, s.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return s, nil
}

func (r *repository) PriceFor(ctx context.Context, storeID, productID uint) (*decimal.Decimal, error) {
	var price decimal.Decimal
	err := sqlx.GetContext(ctx, r.db, &price, `
		SELECT price
		FROM store_products
		WHERE store_id = $1 AND product_id = $2
	`, storeID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query store product price",
			zap.String("layer", "repository"),
			zap.Uint("store_id", storeID),
			zap.Uint("product_id", productID),
			zap.Error(err),
		)
		return nil, err
	}

	return &price, nil
}
