package ports

import (
	"context"

	"orderflow/internal/core/domain/model/chat"
	"orderflow/internal/core/domain/model/kernel"
)

// ChatMessageRepository defines the persistence contract for chat messages.
type ChatMessageRepository interface {
	// Add persists a new chat message.
	Add(ctx context.Context, message *chat.Message) error

	// Update persists changes to an existing message, e.g. the read flag.
	Update(ctx context.Context, message *chat.Message) error

	// GetByOrder retrieves all messages of an order ordered by creation time.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*chat.Message, error)
}
