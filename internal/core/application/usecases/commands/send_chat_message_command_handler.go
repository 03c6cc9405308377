package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/chat"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// SendChatMessageCommandHandler handles chat messages on orders.
// The receiver is derived from the order's parties: customer messages reach
// the vendor (or the courier during delivery), vendor and courier messages
// reach the customer. The message and its chat event are persisted in one
// transaction; live fan-out happens strictly after commit.
type SendChatMessageCommandHandler struct {
	uowFactory ChatUoWFactory
	policy     services.AccessPolicy
	publisher  ports.EventPublisher
}

// NewSendChatMessageCommandHandler creates a handler for chat messages.
func NewSendChatMessageCommandHandler(
	uowFactory ChatUoWFactory,
	policy services.AccessPolicy,
	publisher ports.EventPublisher,
) SendChatMessageCommandHandler {
	return SendChatMessageCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		publisher:  publisher,
	}
}

// Handle processes the chat message request and returns the stored message.
// Returns a not-found error for unknown orders and services.ErrForbidden when
// the sender is not a participant of the order.
func (h *SendChatMessageCommandHandler) Handle(ctx context.Context, cmd SendChatMessageCommand) (*chat.Message, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.policy.CanSend(aggregate, cmd.Sender()); err != nil {
		return nil, err
	}
	receiverID, err := h.policy.ReceiverOf(aggregate, cmd.Sender())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	message, err := chat.NewMessage(kernel.NewUUID(), cmd.OrderID(), cmd.Sender().ID(), receiverID, cmd.Text(), now)
	if err != nil {
		return nil, err
	}

	if err = uow.ChatMessageRepository().Add(ctx, message); err != nil {
		return nil, err
	}

	event, err := order.NewChatMessageEvent(cmd.OrderID(), cmd.Sender().ID(), order.ChatMessagePayload{
		MessageID:  message.ID().String(),
		SenderID:   message.SenderID().String(),
		ReceiverID: message.ReceiverID().String(),
		Text:       message.Text(),
	}, now)
	if err != nil {
		return nil, err
	}
	if err = uow.EventRepository().Add(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(event)
	return message, nil
}
