package notification

import (
	"context"
	"time"

	"pharmacy-be/internal/db"
	"pharmacy-be/internal/logger"
	"pharmacy-be/internal/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sender delivers one notification to its recipient.
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}

// LogSender writes notifications to the structured log. Push delivery is
// handled outside this service.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, n *Notification) error {
	logger.FromCtx(ctx).Info("notification dispatched",
		zap.String("notification_id", n.ID.String()),
		zap.String("kind", string(n.Kind)),
		zap.Uint("recipient_id", n.RecipientID),
		zap.Uint("order_item_id", n.OrderItemID),
		zap.ByteString("payload", n.Payload),
	)
	return nil
}

type Dispatcher struct {
	tx     db.Transactor
	repo   Repository
	sender Sender
	batch  int
	now    func() time.Time
}

func NewDispatcher(tx db.Transactor, repo Repository, sender Sender, batch int) *Dispatcher {
	if batch <= 0 {
		batch = 50
	}
	return &Dispatcher{tx: tx, repo: repo, sender: sender, batch: batch, now: time.Now}
}

// Dispatch sends one batch of pending notifications and returns how many
// were marked sent. A failed send leaves the row pending for the next run.
func (d *Dispatcher) Dispatch(ctx context.Context) (int, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "dispatcher"))
	sent := 0

	err := d.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		repo := d.repo.WithTx(tx)

		pending, err := repo.FetchPending(ctx, d.batch)
		if err != nil {
			log.Error("failed to fetch pending notifications", zap.Error(err))
			return err
		}

		for _, n := range pending {
			if err := d.sender.Send(ctx, n); err != nil {
				log.Warn("notification send failed",
					zap.String("notification_id", n.ID.String()),
					zap.Error(err),
				)
				metrics.RecordNotification("failed")
				continue
			}

			if err := repo.MarkSent(ctx, n.ID, d.now()); err != nil {
				log.Error("failed to mark notification sent",
					zap.String("notification_id", n.ID.String()),
					zap.Error(err),
				)
				return err
			}
			metrics.RecordNotification("sent")
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if sent > 0 {
		log.Debug("notifications dispatched", zap.Int("count", sent))
	}
	return sent, nil
}

// Schedule registers Dispatch on c with the given cron spec.
func (d *Dispatcher) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		if _, err := d.Dispatch(context.Background()); err != nil {
			logger.L().Error("scheduled notification dispatch failed", zap.Error(err))
		}
	})
}
