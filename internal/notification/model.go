package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindItemAccepted       Kind = "order_item.accepted"
	KindItemRefused        Kind = "order_item.refused"
	KindItemSuggested      Kind = "order_item.suggested"
	KindSuggestionApproved Kind = "order_item.suggestion_approved"
)

// Notification is an outbox row. It is written in the same transaction as
// the change it reports and delivered later by the Dispatcher.
type Notification struct {
	ID          uuid.UUID
	RecipientID uint
	Kind        Kind
	OrderItemID uint
	Payload     json.RawMessage
	CreatedAt   time.Time
	SentAt      *time.Time
}

func New(kind Kind, recipientID, orderItemID uint, payload any, now time.Time) (*Notification, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Kind:        kind,
		OrderItemID: orderItemID,
		Payload:     data,
		CreatedAt:   now,
	}, nil
}
