// Package metrics holds the Prometheus instruments for the realtime
// distribution path. Everything is registered on the default registry and
// exposed through /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_events_published_total",
			Help: "Total number of lifecycle events handed to the distributor",
		},
		[]string{"kind"},
	)

	DeliveriesDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orderflow_deliveries_dropped_total",
			Help: "Total number of per-session deliveries dropped due to slow or dead connections",
		},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orderflow_ws_sessions_active",
			Help: "Number of currently open websocket sessions",
		},
	)
)

func init() {
	prometheus.MustRegister(EventsPublishedTotal)
	prometheus.MustRegister(DeliveriesDroppedTotal)
	prometheus.MustRegister(SessionsActive)
}
