package order

import "pharmacy-be/internal/apperr"

var (
	ErrOrderNotFound     = apperr.New(apperr.ErrNotFound, "order not found")
	ErrOrderItemNotFound = apperr.New(apperr.ErrNotFound, "order item not found")
	ErrStoreNotFound     = apperr.New(apperr.ErrNotFound, "store not found")
	ErrForbidden         = apperr.New(apperr.ErrForbidden, "forbidden")
	ErrUnauthenticated   = apperr.New(apperr.ErrUnauthenticated, "unauthenticated")

	ErrNotPending        = apperr.New(apperr.ErrBadRequest, "order item is not pending")
	ErrNotSuggested      = apperr.New(apperr.ErrBadRequest, "order item has no pending suggestion")
	ErrAlreadyDecided    = apperr.New(apperr.ErrBadRequest, "order item was already accepted or refused")
	ErrProductMissing    = apperr.New(apperr.ErrBadRequest, "order item has no product")
	ErrSuggestionMissing = apperr.New(apperr.ErrBadRequest, "order item has no suggested product")
	ErrInvalidPrice      = apperr.New(apperr.ErrBadRequest, "store price must be positive")
	ErrReasonRequired    = apperr.New(apperr.ErrBadRequest, "refusal reason is required")
	ErrInvalidStatus     = apperr.New(apperr.ErrBadRequest, "invalid store status")

	// ErrConcurrentUpdate is returned when the item changed state between
	// load and save.
	ErrConcurrentUpdate = apperr.New(apperr.ErrConflict, "order item was modified concurrently")
)
