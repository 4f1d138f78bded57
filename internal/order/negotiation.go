package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The Can* checks only read the item. The matching transition repeats them
// before assigning anything, so a failed transition leaves the item as it
// was.

func (i *OrderItem) CanAccept() error {
	if i.StoreStatus != StatusPending {
		return ErrNotPending
	}
	if i.ProductID == nil {
		return ErrProductMissing
	}
	return nil
}

// CanRefuse also admits a suggested item so the store can withdraw an
// offer nobody approved. Accepted and refused items are final.
func (i *OrderItem) CanRefuse() error {
	switch i.StoreStatus {
	case StatusPending, StatusSuggested:
		return nil
	default:
		return ErrAlreadyDecided
	}
}

func (i *OrderItem) CanSuggest() error {
	if i.StoreStatus != StatusPending {
		return ErrNotPending
	}
	return nil
}

func (i *OrderItem) CanApproveSuggestion() error {
	if i.StoreStatus != StatusSuggested {
		return ErrNotSuggested
	}
	if i.SuggestedProductID == nil {
		return ErrSuggestionMissing
	}
	return nil
}

// Accept commits the store's price for the requested product.
func (i *OrderItem) Accept(price decimal.Decimal, notes *string, now time.Time) error {
	if err := i.CanAccept(); err != nil {
		return err
	}
	if !price.IsPositive() {
		return ErrInvalidPrice
	}

	i.StoreStatus = StatusAccepted
	i.StorePrice = &price
	i.StoreNotes = appendNote(i.StoreNotes, notes)
	i.stamp(now)
	return nil
}

// Refuse records that the store cannot fulfil the item.
func (i *OrderItem) Refuse(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if err := i.CanRefuse(); err != nil {
		return err
	}

	i.StoreStatus = StatusRefused
	i.StorePrice = nil
	i.SuggestedProductID = nil
	i.StoreNotes = &reason
	i.stamp(now)
	return nil
}

// Suggest proposes productID as a substitute at the store's price for it.
func (i *OrderItem) Suggest(productID uint, price decimal.Decimal, suggestion, notes *string, now time.Time) error {
	if err := i.CanSuggest(); err != nil {
		return err
	}
	if !price.IsPositive() {
		return ErrInvalidPrice
	}

	i.StoreStatus = StatusSuggested
	i.SuggestedProductID = &productID
	i.StorePrice = &price
	if s := trimmed(suggestion); s != nil {
		i.StoreSuggestion = s
	}
	if n := trimmed(notes); n != nil {
		i.StoreNotes = n
	}
	i.stamp(now)
	return nil
}

// ApproveSuggestion makes the suggested product the requested one and puts
// the item back to PENDING so the store can accept it at its own price.
func (i *OrderItem) ApproveSuggestion(adminNotes *string, now time.Time) error {
	if err := i.CanApproveSuggestion(); err != nil {
		return err
	}

	suggested := *i.SuggestedProductID
	i.ProductID = &suggested
	i.SuggestedProductID = nil
	i.StoreStatus = StatusPending
	i.StorePrice = nil
	i.StoreNotes = appendNote(i.StoreNotes, adminNotes)
	i.stamp(now)
	return nil
}

func (i *OrderItem) stamp(now time.Time) {
	i.StoreActionAt = &now
	i.Touch(now)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func appendNote(existing, note *string) *string {
	n := trimmed(note)
	if n == nil {
		return existing
	}
	if existing == nil || strings.TrimSpace(*existing) == "" {
		return n
	}
	joined := *existing + "\n" + *n
	return &joined
}
