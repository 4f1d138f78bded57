package order

import (
	"time"

	"pharmacy-be/internal/entity"

	"github.com/shopspring/decimal"
)

// StoreStatus is the store-side negotiation state of an order item.
type StoreStatus string

const (
	StatusPending   StoreStatus = "PENDING"
	StatusAccepted  StoreStatus = "ACCEPTED"
	StatusRefused   StoreStatus = "REFUSED"
	StatusSuggested StoreStatus = "SUGGESTED"
)

func (s StoreStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused, StatusSuggested:
		return true
	}
	return false
}

type Order struct {
	ID          uint
	CustomerID  uint
	TotalAmount decimal.Decimal
	Items       []*OrderItem
	entity.Timestamps
}

// OrderItem is one requested product of an order together with the store's
// answer to it.
type OrderItem struct {
	ID      uint
	OrderID uint
	// CustomerID and StoreOwnerID are loaded with the item for
	// authorization and notifications; they are never written back.
	CustomerID   uint
	StoreID      uint
	StoreOwnerID uint

	ProductID          *uint
	SuggestedProductID *uint
	Quantity           int

	StoreStatus     StoreStatus
	StorePrice      *decimal.Decimal
	StoreNotes      *string
	StoreSuggestion *string
	StoreActionAt   *time.Time

	entity.Timestamps
}

// Subtotal is StorePrice × Quantity, zero while no price is set.
func (i *OrderItem) Subtotal() decimal.Decimal {
	if i.StorePrice == nil {
		return decimal.Zero
	}
	return i.StorePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// RecalculateTotal sums the subtotals of accepted items. Refused items are
// dropped, pending and suggested ones carry no committed price yet.
func (o *Order) RecalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		if item.StoreStatus == StatusAccepted {
			total = total.Add(item.Subtotal())
		}
	}
	o.TotalAmount = total
	return total
}

// ReplaceItem swaps in the in-memory copy of an item so a recalculation
// sees the latest mutation.
func (o *Order) ReplaceItem(item *OrderItem) {
	for i, existing := range o.Items {
		if existing.ID == item.ID {
			o.Items[i] = item
			return
		}
	}
	o.Items = append(o.Items, item)
}

type ItemFilter struct {
	Status *StoreStatus
	Limit  int
	Page   int
}
