package commands

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrSendChatMessageCommandIsNotConstructed = errors.New(
	"SendChatMessageCommand must be created via NewSendChatMessageCommand constructor",
)

// SendChatMessageCommand represents a request to send a chat message on an
// order. The sender only supplies the text; the receiver is derived from the
// order's parties by the access policy.
type SendChatMessageCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	sender  actor.Actor
	text    string

	guard guard.ConstructorGuard
}

// NewSendChatMessageCommand creates a chat message request.
func NewSendChatMessageCommand(orderID kernel.UUID, sender actor.Actor, text string) (SendChatMessageCommand, error) {
	cmd := SendChatMessageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		sender.Validate(),
	); err != nil {
		return SendChatMessageCommand{}, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return SendChatMessageCommand{}, errs.NewValueIsRequiredError("text")
	}

	cmd.orderID = orderID
	cmd.sender = sender
	cmd.text = text
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SendChatMessageCommand) Validate() error {
	return c.guard.Validate(ErrSendChatMessageCommandIsNotConstructed)
}

// OrderID returns the order the message belongs to.
func (c SendChatMessageCommand) OrderID() kernel.UUID { return c.orderID }

// Sender returns the account sending the message.
func (c SendChatMessageCommand) Sender() actor.Actor { return c.sender }

// Text returns the message body.
func (c SendChatMessageCommand) Text() string { return c.text }
