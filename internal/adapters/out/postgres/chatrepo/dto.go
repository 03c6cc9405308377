// Package chatrepo persists chat messages attached to orders.
package chatrepo

import (
	"time"

	"orderflow/internal/core/domain/model/chat"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ChatMessageDTO represents the database structure for persisting chat messages.
type ChatMessageDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	SenderID   uuid.UUID `gorm:"type:uuid"`
	ReceiverID uuid.UUID `gorm:"type:uuid"`
	Text       string
	Read       bool
	CreatedAt  time.Time
}

// TableName specifies the database table name for chat message entities.
func (ChatMessageDTO) TableName() string {
	return "chat_messages"
}

func fromDomain(msg *chat.Message) ChatMessageDTO {
	return ChatMessageDTO{
		ID:         msg.ID().Bytes(),
		OrderID:    msg.OrderID().Bytes(),
		SenderID:   msg.SenderID().Bytes(),
		ReceiverID: msg.ReceiverID().Bytes(),
		Text:       msg.Text(),
		Read:       msg.IsRead(),
		CreatedAt:  msg.CreatedAt(),
	}
}

func toDomain(dto ChatMessageDTO) (*chat.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	senderID, err := kernel.UUIDFromBytes(dto.SenderID[:])
	if err != nil {
		return nil, err
	}
	receiverID, err := kernel.UUIDFromBytes(dto.ReceiverID[:])
	if err != nil {
		return nil, err
	}

	return chat.RestoreMessage(id, orderID, senderID, receiverID, dto.Text, dto.Read, dto.CreatedAt)
}
