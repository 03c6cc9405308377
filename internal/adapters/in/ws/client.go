package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// ErrReconnectsExhausted is returned when the client gives up reconnecting
// after the configured number of attempts.
var ErrReconnectsExhausted = errors.New("websocket reconnect attempts exhausted")

// ClientConfig configures a reconnecting event consumer.
type ClientConfig struct {
	URL           string
	ActorID       kernel.UUID
	Role          actor.Role
	MaxReconnects uint64
	MaxInterval   time.Duration
	Logger        *slog.Logger
}

// Client is a reconnecting consumer of the event stream. It remembers which
// orders it has joined and re-declares them after every reconnect, so a
// dropped connection only loses events published while it was down, never the
// subscription itself.
type Client struct {
	cfg     ClientConfig
	onEvent func(payload []byte)
	logger  *slog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	joined map[kernel.UUID]struct{}
}

// NewClient creates a client; onEvent is invoked for every received frame.
func NewClient(cfg ClientConfig, onEvent func(payload []byte)) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		onEvent: onEvent,
		logger:  logger.With("component", "ws.Client"),
		joined:  make(map[kernel.UUID]struct{}),
	}
}

// Join declares interest in an order. The intent survives reconnects.
func (c *Client) Join(orderID kernel.UUID) error {
	c.mu.Lock()
	c.joined[orderID] = struct{}{}
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return c.writeControl(conn, actionJoinOrder, orderID)
}

// Leave withdraws interest in an order.
func (c *Client) Leave(orderID kernel.UUID) error {
	c.mu.Lock()
	delete(c.joined, orderID)
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return c.writeControl(conn, actionLeaveOrder, orderID)
}

// Run connects and consumes until the context is cancelled. Every lost
// connection is retried with exponential backoff up to MaxReconnects
// attempts; past that the client stops and reports ErrReconnectsExhausted.
func (c *Client) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	// Closing the active connection is the only way to interrupt a blocked
	// read; the watcher exits with Run when the retry budget runs out first.
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
	}()

	for {
		if err := c.connect(ctx); err != nil {
			return err
		}

		c.readLoop()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Info("connection lost, reconnecting")
	}
}

func (c *Client) connect(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	if c.cfg.MaxInterval > 0 {
		bo.MaxInterval = c.cfg.MaxInterval
	}

	dial := func() error {
		header := http.Header{}
		header.Set("X-Actor-Id", c.cfg.ActorID.String())
		header.Set("X-Actor-Role", c.cfg.Role.String())

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, header)
		if err != nil {
			return err
		}

		c.mu.Lock()
		c.conn = conn
		intents := make([]kernel.UUID, 0, len(c.joined))
		for id := range c.joined {
			intents = append(intents, id)
		}
		c.mu.Unlock()

		for _, id := range intents {
			if err = c.writeControl(conn, actionJoinOrder, id); err != nil {
				_ = conn.Close()
				return err
			}
		}
		return nil
	}

	err := backoff.Retry(dial, backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.MaxReconnects), ctx))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrReconnectsExhausted, err)
	}
	return nil
}

func (c *Client) readLoop() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if c.onEvent != nil {
			c.onEvent(payload)
		}
	}

	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Client) writeControl(conn *websocket.Conn, action string, orderID kernel.UUID) error {
	raw, err := json.Marshal(controlFrame{Action: action, OrderID: orderID.String()})
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, raw)
}
