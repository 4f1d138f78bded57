package order

import (
	"context"

	"pharmacy-be/internal/auth"
	"pharmacy-be/internal/catalog"
	"pharmacy-be/internal/logger"

	"go.uber.org/zap"
)

// StoreFinder is the part of the catalog the read side needs.
type StoreFinder interface {
	FindStore(ctx context.Context, id uint) (*catalog.Store, error)
}

// Service exposes the read side of orders to customers, stores and admins.
type Service interface {
	GetOrder(ctx context.Context, actor auth.Actor, orderID uint) (*Order, error)
	GetOrderItem(ctx context.Context, actor auth.Actor, itemID uint) (*OrderItem, error)
	ListStoreItems(ctx context.Context, actor auth.Actor, storeID uint, filter ItemFilter) ([]*OrderItem, error)
}

type service struct {
	repo   Repository
	stores StoreFinder
}

func NewService(repo Repository, stores StoreFinder) Service {
	return &service{repo: repo, stores: stores}
}

func (s *service) GetOrder(ctx context.Context, actor auth.Actor, orderID uint) (*Order, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}

	o, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if actor.IsAdmin() || o.CustomerID == actor.UserID {
		return o, nil
	}

	if actor.Caps.Has(auth.CapStore) {
		ok, err := s.repo.HasItemOfStoreOwner(ctx, orderID, actor.UserID)
		if err != nil {
			return nil, err
		}
		if ok {
			return o, nil
		}
	}

	logger.FromCtx(ctx).Warn("order access denied",
		zap.String("layer", "service"),
		zap.Uint("order_id", orderID),
	)
	return nil, ErrForbidden
}

func (s *service) GetOrderItem(ctx context.Context, actor auth.Actor, itemID uint) (*OrderItem, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}

	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if actor.IsAdmin() || item.CustomerID == actor.UserID || actor.CanManageStore(item.StoreOwnerID) {
		return item, nil
	}

	return nil, ErrForbidden
}

func (s *service) ListStoreItems(ctx context.Context, actor auth.Actor, storeID uint, filter ItemFilter) ([]*OrderItem, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	store, err := s.stores.FindStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	if !actor.IsAdmin() && !actor.CanManageStore(store.OwnerID) {
		return nil, ErrForbidden
	}

	return s.repo.ListStoreItems(ctx, storeID, filter)
}
