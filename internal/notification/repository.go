package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx *sqlx.Tx) Repository
	Insert(ctx context.Context, n *Notification) error
	FetchPending(ctx context.Context, limit int) ([]*Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
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

type notificationRow struct {
	ID          uuid.UUID  `db:"id"`
	RecipientID uint       `db:"recipient_id"`
	Kind        string     `db:"kind"`
	OrderItemID uint       `db:"order_item_id"`
	Payload     []byte     `db:"payload"`
	CreatedAt   time.Time  `db:"created_at"`
	SentAt      *time.Time `db:"sent_at"`
}

func (r *repository) Insert(ctx context.Context, n *Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, recipient_id, kind, order_item_id, payload, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		n.ID,
		n.RecipientID,
		string(n.Kind),
		n.OrderItemID,
		[]byte(n.Payload),
		n.CreatedAt,
	)
	return err
}

// FetchPending returns unsent notifications, oldest first. Rows already
// claimed by a concurrent dispatcher are skipped.
func (r *repository) FetchPending(ctx context.Context, limit int) ([]*Notification, error) {
	var rows []notificationRow
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id, recipient_id, kind, order_item_id, payload, created_at, sent_at
		FROM notifications
		WHERE sent_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, &Notification{
			ID:          row.ID,
			RecipientID: row.RecipientID,
			Kind:        Kind(row.Kind),
			OrderItemID: row.OrderItemID,
			Payload:     row.Payload,
			CreatedAt:   row.CreatedAt,
			SentAt:      row.SentAt,
		})
	}
	return out, nil
}

func (r *repository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET sent_at = $1
		WHERE id = $2 AND sent_at IS NULL
	`, at, id)
	return err
}
