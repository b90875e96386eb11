// Package metrics defines the Prometheus instruments exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for store operations.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeNoSession  = "no_session"
	OutcomeValidation = "validation"
)

// Outcome labels for assistant requests.
const (
	AssistantOK           = "ok"
	AssistantUnconfigured = "unconfigured"
	AssistantEmpty        = "empty"
	AssistantError        = "error"
)

// Metrics groups every instrument the service records. A nil *Metrics is valid
// and records nothing, so tests and library callers can omit it.
type Metrics struct {
	storeOps          *prometheus.CounterVec
	assistantRequests *prometheus.CounterVec
	assistantDuration prometheus.Histogram
	wsConnections     prometheus.Gauge
	workspaces        prometheus.Gauge
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biztask_store_operations_total",
			Help: "Store mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		assistantRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biztask_assistant_requests_total",
			Help: "Assistant replies by outcome.",
		}, []string{"outcome"}),
		assistantDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "biztask_assistant_request_duration_seconds",
			Help:    "Latency of assistant model calls.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "biztask_ws_connections",
			Help: "Open websocket connections.",
		}),
		workspaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "biztask_workspaces",
			Help: "Live workspaces.",
		}),
	}

	collectors := []prometheus.Collector{
		m.storeOps,
		m.assistantRequests,
		m.assistantDuration,
		m.wsConnections,
		m.workspaces,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordStoreOp counts one store mutation.
func (m *Metrics) RecordStoreOp(operation, outcome string) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(operation, outcome).Inc()
}

// RecordAssistant counts one assistant reply and, for calls that reached the
// model, its latency.
func (m *Metrics) RecordAssistant(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.assistantRequests.WithLabelValues(outcome).Inc()
	if outcome != AssistantUnconfigured {
		m.assistantDuration.Observe(elapsed.Seconds())
	}
}

// AddWSConnection adjusts the websocket gauge by delta.
func (m *Metrics) AddWSConnection(delta int) {
	if m == nil {
		return
	}
	m.wsConnections.Add(float64(delta))
}

// SetWorkspaces reports the current number of workspaces.
func (m *Metrics) SetWorkspaces(n int) {
	if m == nil {
		return
	}
	m.workspaces.Set(float64(n))
}

// StoreOps exposes the store counter for tests.
func (m *Metrics) StoreOps() *prometheus.CounterVec { return m.storeOps }

// AssistantRequests exposes the assistant counter for tests.
func (m *Metrics) AssistantRequests() *prometheus.CounterVec { return m.assistantRequests }

// Workspaces exposes the workspace gauge for tests.
func (m *Metrics) Workspaces() prometheus.Gauge { return m.workspaces }

// WSConnections exposes the websocket gauge for tests.
func (m *Metrics) WSConnections() prometheus.Gauge { return m.wsConnections }
