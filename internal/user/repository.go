package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pharmacy-be/internal/entity"
	"pharmacy-be/internal/logger"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// FindByEmail returns nil without error when no user has email.
	FindByEmail(ctx context.Context, email string) (*User, error)
}

type repository struct {
	db sqlx.QueryerContext
}

func NewRepository(db sqlx.QueryerContext) Repository {
	return &repository{db: db}
}

type userRow struct {
	ID        uint           `db:"id"`
	Email     string         `db:"email"`
	Password  string         `db:"password"`
	Roles     pq.StringArray `db:"roles"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, email, password, roles, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to query user",
			zap.String("layer", "repository"),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	return &User{
		ID:       row.ID,
		Email:    row.Email,
		Password: row.Password,
		Roles:    row.Roles,
		Timestamps: entity.Timestamps{
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
	}, nil
}
