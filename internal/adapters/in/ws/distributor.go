package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/metrics"
)

// eventEnvelope is the wire format pushed to subscribers.
type eventEnvelope struct {
	Type string    `json:"type"`
	Data eventData `json:"data"`
}

type eventData struct {
	OrderID   string          `json:"orderId"`
	ActorID   string          `json:"actorId"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Distributor fans committed lifecycle events out to the sessions subscribed
// to the event's order. It implements ports.EventPublisher.
//
// The envelope is marshaled once per event, not per subscriber. A subscriber
// whose buffer is full has the delivery dropped and counted; the publish call
// itself never fails, so a slow reader cannot stall a mutation.
type Distributor struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDistributor creates a distributor fanning out through the given registry.
func NewDistributor(registry *Registry, logger *slog.Logger) *Distributor {
	return &Distributor{
		registry: registry,
		logger:   logger.With("component", "ws.Distributor"),
	}
}

// Publish delivers the event to every subscriber of its order.
func (d *Distributor) Publish(event *order.Event) {
	raw, err := json.Marshal(eventEnvelope{
		Type: string(event.Kind()),
		Data: eventData{
			OrderID:   event.OrderID().String(),
			ActorID:   event.ActorID().String(),
			Payload:   event.Payload(),
			CreatedAt: event.CreatedAt(),
		},
	})
	if err != nil {
		d.logger.Error("failed to marshal event envelope",
			"orderId", event.OrderID().String(), "err", err)
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues(string(event.Kind())).Inc()

	for _, sub := range d.registry.SubscribersOf(event.OrderID()) {
		if !sub.Enqueue(raw) {
			metrics.DeliveriesDroppedTotal.Inc()
			d.logger.Warn("dropping event delivery to slow subscriber",
				"orderId", event.OrderID().String(), "kind", string(event.Kind()))
		}
	}
}
