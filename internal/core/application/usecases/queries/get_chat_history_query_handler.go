package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetChatHistoryQueryHandler reads the chat history of an order.
type GetChatHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetChatHistoryQueryHandler creates a handler for chat history reads.
func NewGetChatHistoryQueryHandler(db *gorm.DB) GetChatHistoryQueryHandler {
	return GetChatHistoryQueryHandler{db: db}
}

// Handle executes the query. An order without messages yields an empty slice.
func (h GetChatHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetChatHistoryQuery,
) ([]GetChatHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	messages := make([]GetChatHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			sender_id,
			receiver_id,
			text,
			read,
			created_at
		FROM chat_messages
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var msg GetChatHistoryQueryResponse
		if err = rows.Scan(
			&msg.ID,
			&msg.OrderID,
			&msg.SenderID,
			&msg.ReceiverID,
			&msg.Text,
			&msg.Read,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
