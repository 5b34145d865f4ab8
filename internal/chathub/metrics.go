package chathub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_sessions",
		Help: "Number of sessions currently joined to a room.",
	})
	broadcastDeliveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_broadcast_deliveries_total",
		Help: "Frames handed to session send channels.",
	})
	broadcastDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_broadcast_drops_total",
		Help: "Frames dropped because the session was dead or backed up.",
	})
)
