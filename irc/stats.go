package irc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServerStats holds real-time server statistics as Prometheus collectors.
// Each server carries its own registry so tests can run several instances
// in one process.
type ServerStats struct {
	StartTime time.Time

	registry *prometheus.Registry

	connections      prometheus.Gauge
	peakConnections  prometheus.Gauge
	channels         prometheus.Gauge
	messagesReceived prometheus.Counter
	messagesSent     prometheus.Counter

	peak int
}

func newServerStats() *ServerStats {
	s := &ServerStats{
		StartTime: time.Now(),
		registry:  prometheus.NewRegistry(),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ircd_connections",
			Help: "Currently connected clients.",
		}),
		peakConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ircd_connections_peak",
			Help: "Highest number of simultaneously connected clients.",
		}),
		channels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ircd_channels",
			Help: "Channels currently in the registry.",
		}),
		messagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ircd_messages_received_total",
			Help: "Protocol lines received from clients.",
		}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ircd_messages_sent_total",
			Help: "Protocol lines queued to clients.",
		}),
	}
	s.registry.MustRegister(
		s.connections, s.peakConnections, s.channels,
		s.messagesReceived, s.messagesSent,
	)
	return s
}

func (s *ServerStats) clientConnected(current int) {
	s.connections.Set(float64(current))
	if current > s.peak {
		s.peak = current
		s.peakConnections.Set(float64(current))
	}
}

func (s *ServerStats) clientDisconnected(current int) {
	s.connections.Set(float64(current))
}

func (s *ServerStats) channelCreated() { s.channels.Inc() }
func (s *ServerStats) channelDeleted() { s.channels.Dec() }

func (s *ServerStats) messageReceived() { s.messagesReceived.Inc() }
func (s *ServerStats) messageSent()     { s.messagesSent.Inc() }

// MetricsRegistry exposes the server's Prometheus registry for the admin
// endpoint.
func (s *Server) MetricsRegistry() *prometheus.Registry {
	return s.stats.registry
}
