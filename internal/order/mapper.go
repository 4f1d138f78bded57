package order

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type orderRow struct {
	ID          uint            `db:"id"`
	CustomerID  uint            `db:"customer_id"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type itemRow struct {
	ID                 uint                `db:"id"`
	OrderID            uint                `db:"order_id"`
	CustomerID         uint                `db:"customer_id"`
	StoreID            uint                `db:"store_id"`
	StoreOwnerID       uint                `db:"store_owner_id"`
	ProductID          sql.NullInt64       `db:"product_id"`
	SuggestedProductID sql.NullInt64       `db:"suggested_product_id"`
	Quantity           int                 `db:"quantity"`
	StoreStatus        string              `db:"store_status"`
	StorePrice         decimal.NullDecimal `db:"store_price"`
	StoreNotes         sql.NullString      `db:"store_notes"`
	StoreSuggestion    sql.NullString      `db:"store_suggestion"`
	StoreActionAt      sql.NullTime        `db:"store_action_at"`
	CreatedAt          time.Time           `db:"created_at"`
	UpdatedAt          time.Time           `db:"updated_at"`
}

func (r orderRow) toOrder() *Order {
	o := &Order{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		TotalAmount: r.TotalAmount,
	}
	o.CreatedAt, o.UpdatedAt = r.CreatedAt, r.UpdatedAt
	return o
}

func (r itemRow) toItem() *OrderItem {
	item := &OrderItem{
		ID:                 r.ID,
		OrderID:            r.OrderID,
		CustomerID:         r.CustomerID,
		StoreID:            r.StoreID,
		StoreOwnerID:       r.StoreOwnerID,
		ProductID:          nullUint(r.ProductID),
		SuggestedProductID: nullUint(r.SuggestedProductID),
		Quantity:           r.Quantity,
		StoreStatus:        StoreStatus(r.StoreStatus),
		StoreNotes:         nullString(r.StoreNotes),
		StoreSuggestion:    nullString(r.StoreSuggestion),
	}
	if r.StorePrice.Valid {
		price := r.StorePrice.Decimal
		item.StorePrice = &price
	}
	if r.StoreActionAt.Valid {
		at := r.StoreActionAt.Time
		item.StoreActionAt = &at
	}
	item.CreatedAt, item.UpdatedAt = r.CreatedAt, r.UpdatedAt
	return item
}

func nullUint(v sql.NullInt64) *uint {
	if !v.Valid {
		return nil
	}
	u := uint(v.Int64)
	return &u
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func uintArg(v *uint) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func priceArg(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *v, Valid: true}
}

// ItemView is the JSON representation of an order item.
type ItemView struct {
	ID                 uint       `json:"id"`
	OrderID            uint       `json:"orderId"`
	StoreID            uint       `json:"storeId"`
	ProductID          *uint      `json:"productId"`
	SuggestedProductID *uint      `json:"suggestedProductId"`
	Quantity           int        `json:"quantity"`
	StoreStatus        string     `json:"storeStatus"`
	StorePrice         *string    `json:"storePrice"`
	StoreNotes         *string    `json:"storeNotes"`
	StoreSuggestion    *string    `json:"storeSuggestion"`
	StoreActionAt      *time.Time `json:"storeActionAt"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type OrderView struct {
	ID          uint        `json:"id"`
	CustomerID  uint        `json:"customerId"`
	TotalAmount string      `json:"totalAmount"`
	Items       []*ItemView `json:"items"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func ToItemView(i *OrderItem) *ItemView {
	if i == nil {
		return nil
	}

	var price *string
	if i.StorePrice != nil {
		p := i.StorePrice.StringFixed(2)
		price = &p
	}

	return &ItemView{
		ID:                 i.ID,
		OrderID:            i.OrderID,
		StoreID:            i.StoreID,
		ProductID:          i.ProductID,
		SuggestedProductID: i.SuggestedProductID,
		Quantity:           i.Quantity,
		StoreStatus:        string(i.StoreStatus),
		StorePrice:         price,
		StoreNotes:         i.StoreNotes,
		StoreSuggestion:    i.StoreSuggestion,
		StoreActionAt:      i.StoreActionAt,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}

func ToItemViews(items []*OrderItem) []*ItemView {
	views := make([]*ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ToItemView(item))
	}
	return views
}

func ToOrderView(o *Order) *OrderView {
	if o == nil {
		return nil
	}

	return &OrderView{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount.StringFixed(2),
		Items:       ToItemViews(o.Items),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
