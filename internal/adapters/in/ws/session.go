package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/metrics"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	actionJoinOrder  = "join_order"
	actionLeaveOrder = "leave_order"

	fetchTimeout = 5 * time.Second
)

// OrderFetcher loads the order a control frame refers to, so the session can
// check participation before subscribing.
type OrderFetcher func(ctx context.Context, orderID kernel.UUID) (*order.Order, error)

// controlFrame is a client-to-server message declaring interest in an order.
type controlFrame struct {
	Action  string `json:"action"`
	OrderID string `json:"orderId"`
}

type ackData struct {
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
}

type ackFrame struct {
	Type string  `json:"type"`
	Data ackData `json:"data"`
}

// Session owns one websocket connection. The read pump parses control frames
// and maintains registry entries; the write pump drains the buffered send
// channel. Identity is fixed at upgrade time, there is no auth frame on the
// channel itself.
type Session struct {
	conn       *websocket.Conn
	actor      actor.Actor
	registry   *Registry
	fetchOrder OrderFetcher
	policy     services.AccessPolicy
	logger     *slog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession wraps an upgraded connection. sendBuffer bounds the per-session
// FIFO queue; a full queue means deliveries to this session get dropped.
func NewSession(
	conn *websocket.Conn,
	a actor.Actor,
	registry *Registry,
	fetchOrder OrderFetcher,
	policy services.AccessPolicy,
	logger *slog.Logger,
	sendBuffer int,
) *Session {
	return &Session{
		conn:       conn,
		actor:      a,
		registry:   registry,
		fetchOrder: fetchOrder,
		policy:     policy,
		logger:     logger.With("component", "ws.Session", "actorId", a.ID().String()),
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Enqueue buffers a payload for delivery. It never blocks: a full buffer
// reports false, a closed session swallows the payload silently.
func (s *Session) Enqueue(payload []byte) bool {
	select {
	case <-s.done:
		return true
	default:
	}

	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

// Run drives both pumps and blocks until the connection ends. The session is
// fully removed from the registry before Run returns.
func (s *Session) Run() {
	metrics.SessionsActive.Inc()
	defer metrics.SessionsActive.Dec()

	go s.writePump()
	s.readPump()
	s.close()
}

func (s *Session) readPump() {
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame controlFrame
		if err = json.Unmarshal(raw, &frame); err != nil {
			s.sendAck(ackFrame{Type: "error", Data: ackData{Message: "malformed control frame"}})
			continue
		}
		s.handleControl(frame)
	}
}

func (s *Session) handleControl(frame controlFrame) {
	orderID, err := kernel.UUIDFromString(frame.OrderID)
	if err != nil {
		s.sendAck(ackFrame{Type: "error", Data: ackData{Message: "invalid order id"}})
		return
	}

	switch frame.Action {
	case actionJoinOrder:
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		o, fetchErr := s.fetchOrder(ctx, orderID)
		if fetchErr != nil || !s.policy.IsParticipant(o, s.actor) {
			s.sendAck(ackFrame{Type: "error", Data: ackData{OrderID: frame.OrderID, Message: "not a participant of this order"}})
			return
		}

		s.registry.Subscribe(s, orderID)
		s.sendAck(ackFrame{Type: "joined", Data: ackData{OrderID: frame.OrderID}})

	case actionLeaveOrder:
		s.registry.Unsubscribe(s, orderID)
		s.sendAck(ackFrame{Type: "left", Data: ackData{OrderID: frame.OrderID}})

	default:
		s.sendAck(ackFrame{Type: "error", Data: ackData{Message: "unknown action"}})
	}
}

func (s *Session) sendAck(frame ackFrame) {
	raw, err := json.Marshal(frame)
	if err != nil {
		return
	}
	if !s.Enqueue(raw) {
		s.logger.Warn("dropping control acknowledgement, send buffer full")
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// close tears the session down exactly once: registry entries are removed
// synchronously so no event published afterwards can be routed here.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.registry.Drop(s)
		_ = s.conn.Close()
	})
}
