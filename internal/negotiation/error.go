package negotiation

import "pharmacy-be/internal/apperr"

var (
	ErrUnauthenticated          = apperr.New(apperr.ErrUnauthenticated, "authentication required")
	ErrForbidden                = apperr.New(apperr.ErrForbidden, "actor cannot act on this order item")
	ErrAdminRequired            = apperr.New(apperr.ErrForbidden, "admin privilege required")
	ErrSuggestedProductNotFound = apperr.New(apperr.ErrNotFound, "suggested product not found")
	ErrNoStoreBinding           = apperr.New(apperr.ErrBadRequest, "store does not sell this product")
)
