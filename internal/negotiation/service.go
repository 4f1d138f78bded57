package negotiation

import (
	"context"
	"strings"
	"time"

	"pharmacy-be/internal/apperr"
	"pharmacy-be/internal/auth"
	"pharmacy-be/internal/catalog"
	"pharmacy-be/internal/db"
	"pharmacy-be/internal/logger"
	"pharmacy-be/internal/metrics"
	"pharmacy-be/internal/notification"
	"pharmacy-be/internal/order"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	actionAccept  = "accept"
	actionRefuse  = "refuse"
	actionSuggest = "suggest"
	actionApprove = "approve_suggestion"
)

// Catalog is the part of the product catalog the negotiation reads.
type Catalog interface {
	FindProduct(ctx context.Context, id uint) (*catalog.Product, error)
	PriceFor(ctx context.Context, storeID, productID uint) (*decimal.Decimal, error)
}

type AcceptInput struct {
	OrderItemID uint
	Actor       auth.Actor
	Notes       *string
}

type RefuseInput struct {
	OrderItemID uint
	Actor       auth.Actor
	Reason      string
}

type SuggestInput struct {
	OrderItemID        uint
	Actor              auth.Actor
	SuggestedProductID uint
	Suggestion         *string
	Notes              *string
}

type ApproveSuggestionInput struct {
	OrderItemID uint
	Actor       auth.Actor
	AdminNotes  *string
}

type Service interface {
	Accept(ctx context.Context, in AcceptInput) (*order.OrderItem, error)
	Refuse(ctx context.Context, in RefuseInput) (*order.OrderItem, error)
	Suggest(ctx context.Context, in SuggestInput) (*order.OrderItem, error)
	ApproveSuggestion(ctx context.Context, in ApproveSuggestionInput) (*order.OrderItem, error)
}

type service struct {
	tx            db.Transactor
	orders        order.Repository
	catalog       Catalog
	notifications notification.Repository
	now           func() time.Time
}

func NewService(
	tx db.Transactor,
	orders order.Repository,
	catalog Catalog,
	notifications notification.Repository,
) Service {
	return &service{
		tx:            tx,
		orders:        orders,
		catalog:       catalog,
		notifications: notifications,
		now:           time.Now,
	}
}

// mutation is one negotiation step run against a locked item. It returns
// the notification to enqueue with the change.
type mutation func(ctx context.Context, item *order.OrderItem, now time.Time) (*notification.Notification, error)

// run loads and locks the item, lets mutate change it, then persists the
// item, the order total when recompute is set, and the notification in one
// transaction.
func (s *service) run(ctx context.Context, action string, itemID uint, recompute bool, mutate mutation) (*order.OrderItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", action),
		zap.Uint("order_item_id", itemID),
	)
	timer := metrics.StartTimer()

	var result *order.OrderItem
	err := s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		orders := s.orders.WithTx(tx)

		item, err := orders.LockItem(ctx, itemID)
		if err != nil {
			return err
		}
		from := item.StoreStatus
		now := s.now()

		note, err := mutate(ctx, item, now)
		if err != nil {
			return err
		}

		if err := orders.UpdateItem(ctx, item, from); err != nil {
			return err
		}

		if recompute {
			o, err := orders.LockOrder(ctx, item.OrderID)
			if err != nil {
				return err
			}
			o.ReplaceItem(item)
			o.RecalculateTotal()
			if err := orders.UpdateTotal(ctx, o); err != nil {
				return err
			}
		}

		if note != nil {
			if err := s.notifications.WithTx(tx).Insert(ctx, note); err != nil {
				return err
			}
		}

		result = item
		return nil
	})

	metrics.RecordNegotiation(action, apperr.Label(err), timer.Duration())

	if err != nil {
		if apperr.IsBusiness(err) {
			log.Warn("negotiation rejected", zap.Error(err))
		} else {
			log.Error("negotiation failed", zap.Error(err))
		}
		return nil, err
	}

	log.Info("negotiation applied", zap.String("store_status", string(result.StoreStatus)))
	return result, nil
}

func (s *service) Accept(ctx context.Context, in AcceptInput) (*order.OrderItem, error) {
	if !in.Actor.Authenticated() {
		return nil, ErrUnauthenticated
	}

	return s.run(ctx, actionAccept, in.OrderItemID, true, func(ctx context.Context, item *order.OrderItem, now time.Time) (*notification.Notification, error) {
		if !in.Actor.CanManageStore(item.StoreOwnerID) {
			return nil, ErrForbidden
		}
		if err := item.CanAccept(); err != nil {
			return nil, err
		}

		price, err := s.catalog.PriceFor(ctx, item.StoreID, *item.ProductID)
		if err != nil {
			return nil, err
		}
		if price == nil {
			return nil, ErrNoStoreBinding
		}

		if err := item.Accept(*price, in.Notes, now); err != nil {
			return nil, err
		}

		return notification.New(notification.KindItemAccepted, item.CustomerID, item.ID, map[string]any{
			"orderId":     item.OrderID,
			"orderItemId": item.ID,
			"storeId":     item.StoreID,
			"storePrice":  item.StorePrice.StringFixed(2),
		}, now)
	})
}

func (s *service) Refuse(ctx context.Context, in RefuseInput) (*order.OrderItem, error) {
	if !in.Actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, order.ErrReasonRequired
	}

	return s.run(ctx, actionRefuse, in.OrderItemID, true, func(ctx context.Context, item *order.OrderItem, now time.Time) (*notification.Notification, error) {
		if !in.Actor.CanManageStore(item.StoreOwnerID) {
			return nil, ErrForbidden
		}
		if err := item.Refuse(in.Reason, now); err != nil {
			return nil, err
		}

		return notification.New(notification.KindItemRefused, item.CustomerID, item.ID, map[string]any{
			"orderId":     item.OrderID,
			"orderItemId": item.ID,
			"storeId":     item.StoreID,
			"reason":      *item.StoreNotes,
		}, now)
	})
}

// Suggest leaves the order total alone: the suggested price is not
// committed until the store accepts the approved substitute.
func (s *service) Suggest(ctx context.Context, in SuggestInput) (*order.OrderItem, error) {
	if !in.Actor.Authenticated() {
		return nil, ErrUnauthenticated
	}

	return s.run(ctx, actionSuggest, in.OrderItemID, false, func(ctx context.Context, item *order.OrderItem, now time.Time) (*notification.Notification, error) {
		if !in.Actor.CanManageStore(item.StoreOwnerID) {
			return nil, ErrForbidden
		}
		if err := item.CanSuggest(); err != nil {
			return nil, err
		}

		product, err := s.catalog.FindProduct(ctx, in.SuggestedProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrSuggestedProductNotFound
		}

		price, err := s.catalog.PriceFor(ctx, item.StoreID, product.ID)
		if err != nil {
			return nil, err
		}
		if price == nil {
			return nil, ErrNoStoreBinding
		}

		if err := item.Suggest(product.ID, *price, in.Suggestion, in.Notes, now); err != nil {
			return nil, err
		}

		return notification.New(notification.KindItemSuggested, item.CustomerID, item.ID, map[string]any{
			"orderId":            item.OrderID,
			"orderItemId":        item.ID,
			"storeId":            item.StoreID,
			"suggestedProductId": product.ID,
			"suggestedProduct":   product.Name,
			"storePrice":         item.StorePrice.StringFixed(2),
		}, now)
	})
}

func (s *service) ApproveSuggestion(ctx context.Context, in ApproveSuggestionInput) (*order.OrderItem, error) {
	if !in.Actor.Authenticated() {
		return nil, ErrUnauthenticated
	}

	return s.run(ctx, actionApprove, in.OrderItemID, true, func(ctx context.Context, item *order.OrderItem, now time.Time) (*notification.Notification, error) {
		if !in.Actor.IsAdmin() {
			return nil, ErrAdminRequired
		}
		if err := item.ApproveSuggestion(in.AdminNotes, now); err != nil {
			return nil, err
		}

		return notification.New(notification.KindSuggestionApproved, item.StoreOwnerID, item.ID, map[string]any{
			"orderId":     item.OrderID,
			"orderItemId": item.ID,
			"productId":   *item.ProductID,
		}, now)
	})
}
