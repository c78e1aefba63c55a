package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Bridge metrics
	BridgeCalls    *prometheus.CounterVec
	BridgeDuration *prometheus.HistogramVec
	BridgePending  prometheus.Gauge

	// Content command metrics
	ContentCommands *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// Runtime metrics
	RuntimeState prometheus.Gauge
	RuntimePort  prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	snapshot Snapshot
	mu       sync.RWMutex
	stop     chan struct{}
	stopOnce sync.Once
}

// Snapshot holds current metric values for the health endpoint
type Snapshot struct {
	BridgeCalls       int64 `json:"bridgeCalls"`
	BridgeFailures    int64 `json:"bridgeFailures"`
	ActiveConnections int64 `json:"activeConnections"`
	UptimeSeconds     int64 `json:"uptimeSeconds"`
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),
		stop:      make(chan struct{}),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appshell_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "appshell_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		BridgeCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appshell_bridge_calls_total",
				Help: "Total number of bridge calls by result code",
			},
			[]string{"method", "code"},
		),
		BridgeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "appshell_bridge_call_duration_seconds",
				Help:    "Time from bridge call to callback delivery",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 30, 180},
			},
			[]string{"method"},
		),
		BridgePending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "appshell_bridge_pending_calls",
				Help: "Bridge calls waiting for their callback",
			},
		),

		ContentCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appshell_content_commands_total",
				Help: "Commands sent to the content by outcome",
			},
			[]string{"command", "handled"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "appshell_ws_connections",
				Help: "Number of active content connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appshell_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		RuntimeState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "appshell_runtime_state",
				Help: "Auxiliary runtime state (0 not started, 1 starting, 2 ready, 3 failed)",
			},
		),
		RuntimePort: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "appshell_runtime_port",
				Help: "Port reported by the auxiliary runtime",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "appshell_uptime_seconds",
				Help: "Shell uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// updateUptime updates the uptime metric until Close
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Uptime.Set(time.Since(m.startTime).Seconds())
		case <-m.stop:
			return
		}
	}
}

// Close stops background updates
func (m *Metrics) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Registry returns the registry backing these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus exposition handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordBridgeCall records a completed bridge call
func (m *Metrics) RecordBridgeCall(method, code string, failed bool, duration time.Duration) {
	m.BridgeCalls.WithLabelValues(method, code).Inc()
	m.BridgeDuration.WithLabelValues(method).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.BridgeCalls++
	if failed {
		m.snapshot.BridgeFailures++
	}
	m.mu.Unlock()
}

// RecordContentCommand records a command offered to the content
func (m *Metrics) RecordContentCommand(command string, handled bool) {
	label := "false"
	if handled {
		label = "true"
	}
	m.ContentCommands.WithLabelValues(command, label).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// SetRuntimeState records the auxiliary runtime state and port
func (m *Metrics) SetRuntimeState(state int, port int) {
	m.RuntimeState.Set(float64(state))
	m.RuntimePort.Set(float64(port))
}

// Snapshot returns current values for JSON reporting
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = int64(time.Since(m.startTime).Seconds())
	return s
}
