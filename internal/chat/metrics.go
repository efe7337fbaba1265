package chat

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	visitorsCurrent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_visitors",
			Help: "Sessions currently connected",
		},
	)
	connectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_connects_total",
			Help: "Total sessions ever connected",
		},
	)
	broadcastsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_broadcast_messages_total",
			Help: "Messages enqueued by room broadcasts",
		},
	)
	droppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_dropped_messages_total",
			Help: "Messages dropped on full outbound mailboxes",
		},
	)
)

func init() {
	prometheus.MustRegister(visitorsCurrent, connectsTotal, broadcastsTotal, droppedTotal)
}
