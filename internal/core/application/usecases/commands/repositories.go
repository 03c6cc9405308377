// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, authorization,
// transaction management, and persistence.
package commands

import (
	"context"

	"orderflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ChatRepoFactory provides access to the chat message repository within a transaction.
	ChatRepoFactory interface {
		ChatMessageRepository() ports.ChatMessageRepository
	}

	// EventRepoFactory provides access to the event repository within a transaction.
	EventRepoFactory interface {
		EventRepository() ports.EventRepository
	}

	// OrderUoW manages transactions for order mutations. Every accepted order
	// mutation appends its event in the same transaction, so the order unit of
	// work always carries the event repository too.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		EventRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// ChatUoW manages transactions for chat mutations. Sending a message reads
	// the order for authorization, writes the message, and appends its event.
	ChatUoW interface {
		TxManager
		OrderRepoFactory
		ChatRepoFactory
		EventRepoFactory
	}

	// ChatUoWFactory creates new chat unit of work instances.
	ChatUoWFactory interface {
		Create() ChatUoW
	}
)
