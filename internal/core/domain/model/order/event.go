package order

import (
	"encoding/json"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// EventKind discriminates the two kinds of lifecycle events.
type EventKind string

const (
	EventStatusChanged EventKind = "status_changed"
	EventChatMessage   EventKind = "chat_message"
)

// Validate checks if the EventKind is one of the defined values.
func (k EventKind) Validate() error {
	switch k {
	case EventStatusChanged, EventChatMessage:
		return nil
	default:
		return errs.NewValueIsInvalidError("event kind")
	}
}

// Event is an immutable record of one accepted mutation on an order.
// Exactly one event is produced per accepted status change or chat message,
// persisted in the same transaction as the mutation and echoed to live
// subscribers after commit.
type Event struct {
	id        kernel.UUID
	kind      EventKind
	orderID   kernel.UUID
	actorID   kernel.UUID
	payload   json.RawMessage
	createdAt time.Time
}

// StatusChangedPayload is the JSON body of a status_changed event.
type StatusChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ChatMessagePayload is the JSON body of a chat_message event.
type ChatMessagePayload struct {
	MessageID  string `json:"messageId"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

// NewStatusChangedEvent creates the event recording a status transition.
func NewStatusChangedEvent(orderID, actorID kernel.UUID, from, to Status, now time.Time) (*Event, error) {
	payload, err := json.Marshal(StatusChangedPayload{From: from.String(), To: to.String()})
	if err != nil {
		return nil, err
	}
	return newEvent(EventStatusChanged, orderID, actorID, payload, now)
}

// NewChatMessageEvent creates the event recording an accepted chat message.
func NewChatMessageEvent(orderID, actorID kernel.UUID, payload ChatMessagePayload, now time.Time) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return newEvent(EventChatMessage, orderID, actorID, body, now)
}

// RestoreEvent rehydrates an Event from persistence.
func RestoreEvent(
	id kernel.UUID,
	kind EventKind,
	orderID kernel.UUID,
	actorID kernel.UUID,
	payload json.RawMessage,
	createdAt time.Time,
) (*Event, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := actorID.Validate(); err != nil {
		return nil, err
	}
	return &Event{
		id:        id,
		kind:      kind,
		orderID:   orderID,
		actorID:   actorID,
		payload:   payload,
		createdAt: createdAt,
	}, nil
}

func newEvent(kind EventKind, orderID, actorID kernel.UUID, payload json.RawMessage, now time.Time) (*Event, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := actorID.Validate(); err != nil {
		return nil, err
	}
	return &Event{
		id:        kernel.NewUUID(),
		kind:      kind,
		orderID:   orderID,
		actorID:   actorID,
		payload:   payload,
		createdAt: now,
	}, nil
}

// ID returns the event's unique identifier.
func (e *Event) ID() kernel.UUID {
	return e.id
}

// Kind returns the event kind.
func (e *Event) Kind() EventKind {
	return e.kind
}

// OrderID returns the order the event belongs to.
func (e *Event) OrderID() kernel.UUID {
	return e.orderID
}

// ActorID returns the account whose mutation produced the event.
func (e *Event) ActorID() kernel.UUID {
	return e.actorID
}

// Payload returns the kind-specific JSON body.
func (e *Event) Payload() json.RawMessage {
	return e.payload
}

// CreatedAt returns when the mutation was accepted.
func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}
