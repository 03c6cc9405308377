// Package chat contains the per-order chat message aggregate. Messages are
// scoped to a single order and flow between its participants; the receiver is
// always derived from the order's party roles, never supplied by the client.
package chat

import (
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const maxTextLength = 2000

var (
	// ErrMessageIsNotConstructed is returned when a Message was not created
	// through NewMessage or RestoreMessage.
	ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage or RestoreMessage")
)

// Message is a chat message attached to an order.
type Message struct {
	id         kernel.UUID
	orderID    kernel.UUID
	senderID   kernel.UUID
	receiverID kernel.UUID
	text       string
	read       bool
	createdAt  time.Time

	isConstructed bool
}

// NewMessage creates an unread Message. The text must be non-empty after
// trimming and within the length limit.
func NewMessage(
	id kernel.UUID,
	orderID kernel.UUID,
	senderID kernel.UUID,
	receiverID kernel.UUID,
	text string,
	createdAt time.Time,
) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.NewValueIsRequiredError("text")
	}
	if len(text) > maxTextLength {
		return nil, errs.NewValueIsOutOfRangeError("text length", len(text), 1, maxTextLength)
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		senderID.Validate(),
		receiverID.Validate(),
	); err != nil {
		return nil, err
	}

	return &Message{
		id:            id,
		orderID:       orderID,
		senderID:      senderID,
		receiverID:    receiverID,
		text:          text,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreMessage rehydrates a Message from persistence.
func RestoreMessage(
	id kernel.UUID,
	orderID kernel.UUID,
	senderID kernel.UUID,
	receiverID kernel.UUID,
	text string,
	read bool,
	createdAt time.Time,
) (*Message, error) {
	msg, err := NewMessage(id, orderID, senderID, receiverID, text, createdAt)
	if err != nil {
		return nil, err
	}
	msg.read = read
	return msg, nil
}

// Validate ensures the Message was constructed through a factory function.
func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

// ID returns the message identifier.
func (m *Message) ID() kernel.UUID {
	return m.id
}

// OrderID returns the order the message belongs to.
func (m *Message) OrderID() kernel.UUID {
	return m.orderID
}

// SenderID returns the account that sent the message.
func (m *Message) SenderID() kernel.UUID {
	return m.senderID
}

// ReceiverID returns the derived recipient of the message.
func (m *Message) ReceiverID() kernel.UUID {
	return m.receiverID
}

// Text returns the message body.
func (m *Message) Text() string {
	return m.text
}

// IsRead reports whether the receiver has read the message.
func (m *Message) IsRead() bool {
	return m.read
}

// CreatedAt returns when the message was accepted.
func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

// MarkRead flags the message as read by its receiver. Only the receiving
// account may do this; callers pass the reader's identifier.
func (m *Message) MarkRead(readerID kernel.UUID) error {
	if !m.receiverID.IsEqual(readerID) {
		return errs.NewValueIsInvalidError("readerID")
	}
	m.read = true
	return nil
}
