package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetChatHistoryQueryIsNotConstructed = errors.New(
	"GetChatHistoryQuery must be created via NewGetChatHistoryQuery constructor",
)

// GetChatHistoryQuery retrieves the chat history of one order in creation
// order. Clients call this right after subscribing to close the gap between
// the snapshot and the live stream.
type GetChatHistoryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetChatHistoryQuery creates a chat history query.
func NewGetChatHistoryQuery(orderID kernel.UUID) (GetChatHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetChatHistoryQuery{}, err
	}
	return GetChatHistoryQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetChatHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetChatHistoryQueryIsNotConstructed)
}

// OrderID returns the order whose history is requested.
func (q GetChatHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetChatHistoryQueryResponse is the flat read model of one chat message.
type GetChatHistoryQueryResponse struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}
