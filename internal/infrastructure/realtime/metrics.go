package realtime

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks realtime connection and delivery counters. A nil *Metrics is
// valid and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	openConnections prometheus.Gauge
	boundSessions   prometheus.Gauge
	eventsTotal     *prometheus.CounterVec
	droppedTotal    prometheus.Counter
	authFailures    prometheus.Counter
}

// NewMetrics registers the realtime collectors with reg (the default
// registerer when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		openConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatapp_realtime_open_connections",
			Help: "Websocket connections currently open, authenticated or not.",
		}),
		boundSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatapp_realtime_bound_sessions",
			Help: "Connections currently bound to an authenticated user.",
		}),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatapp_realtime_events_total",
			Help: "Inbound realtime events handled, by event type.",
		}, []string{"event"}),
		droppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatapp_realtime_dropped_deliveries_total",
			Help: "Events dropped because the recipient had no live session.",
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatapp_realtime_auth_failures_total",
			Help: "Authenticate events rejected due to an invalid credential.",
		}),
	}

	reg.MustRegister(
		m.openConnections,
		m.boundSessions,
		m.eventsTotal,
		m.droppedTotal,
		m.authFailures,
	)
	return m
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.openConnections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.openConnections.Dec()
}

func (m *Metrics) SessionBound() {
	if m == nil {
		return
	}
	m.boundSessions.Inc()
}

func (m *Metrics) SessionUnbound() {
	if m == nil {
		return
	}
	m.boundSessions.Dec()
}

func (m *Metrics) RecordEvent(event string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(event).Inc()
}

func (m *Metrics) RecordDrop() {
	if m == nil {
		return
	}
	m.droppedTotal.Inc()
}

func (m *Metrics) RecordAuthFailure() {
	if m == nil {
		return
	}
	m.authFailures.Inc()
}
