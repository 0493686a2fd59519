// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "chat"

// Upstream request outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics bundles every collector the server updates. A nil *Metrics is
// valid and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	Registry *prometheus.Registry

	ConversationsCreated prometheus.Counter
	MessagesAppended     prometheus.Counter
	MessagesDropped      prometheus.Counter
	StreamSubscribers    prometheus.Gauge
	StreamOverflow       prometheus.Counter
	UpstreamRequests     *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry along
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		ConversationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversations_created_total",
			Help:      "Conversations created since start.",
		}),
		MessagesAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_appended_total",
			Help:      "Messages stored in a conversation.",
		}),
		MessagesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_dropped_total",
			Help:      "Messages sent to a conversation id that does not exist.",
		}),
		StreamSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Open message stream subscriptions.",
		}),
		StreamOverflow: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_overflow_total",
			Help:      "Pending stream frames discarded because a subscriber fell behind.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Calls to AI providers and the search API.",
		}, []string{"provider", "outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ConversationsCreated,
		m.MessagesAppended,
		m.MessagesDropped,
		m.StreamSubscribers,
		m.StreamOverflow,
		m.UpstreamRequests,
	)
	return m
}

func (m *Metrics) ConversationCreated() {
	if m != nil {
		m.ConversationsCreated.Inc()
	}
}

func (m *Metrics) MessageAppended() {
	if m != nil {
		m.MessagesAppended.Inc()
	}
}

func (m *Metrics) MessageDropped() {
	if m != nil {
		m.MessagesDropped.Inc()
	}
}

// SubscribersChanged adjusts the open-subscription gauge by delta.
func (m *Metrics) SubscribersChanged(delta int) {
	if m != nil {
		m.StreamSubscribers.Add(float64(delta))
	}
}

func (m *Metrics) Overflow() {
	if m != nil {
		m.StreamOverflow.Inc()
	}
}

// Upstream records one provider call.
func (m *Metrics) Upstream(provider string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.UpstreamRequests.WithLabelValues(provider, outcome).Inc()
}
