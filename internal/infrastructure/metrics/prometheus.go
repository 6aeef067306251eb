package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the marketplace counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	DealsCreated        prometheus.Counter
	DealTransitions     *prometheus.CounterVec
	SequenceStepErrors  *prometheus.CounterVec
	ListingsRemoved     prometheus.Counter
	ConversationsMade   prometheus.Counter
	ActiveSubscriptions prometheus.Gauge
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		DealsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deals_created_total",
			Help:      "Total number of deal requests created.",
		}),
		DealTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deal_transitions_total",
			Help:      "Deal status transitions by target status.",
		}, []string{"to"}),
		SequenceStepErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sequence_step_errors_total",
			Help:      "Failed downstream steps of multi-record sequences.",
		}, []string{"operation", "step"}),
		ListingsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_removed_total",
			Help:      "Listings removed through moderation.",
		}),
		ConversationsMade: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversations_created_total",
			Help:      "Conversations created by the resolver.",
		}),
		ActiveSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_subscriptions",
			Help:      "Live feed subscriptions currently held by websocket clients.",
		}),
	}

	registry.MustRegister(
		m.DealsCreated,
		m.DealTransitions,
		m.SequenceStepErrors,
		m.ListingsRemoved,
		m.ConversationsMade,
		m.ActiveSubscriptions,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) DealCreated() {
	if m == nil {
		return
	}
	m.DealsCreated.Inc()
}

func (m *Metrics) DealTransitioned(to string) {
	if m == nil {
		return
	}
	m.DealTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) StepFailed(operation, step string) {
	if m == nil {
		return
	}
	m.SequenceStepErrors.WithLabelValues(operation, step).Inc()
}

func (m *Metrics) ListingRemoved() {
	if m == nil {
		return
	}
	m.ListingsRemoved.Inc()
}

func (m *Metrics) ConversationCreated() {
	if m == nil {
		return
	}
	m.ConversationsMade.Inc()
}

func (m *Metrics) SubscriptionOpened() {
	if m == nil {
		return
	}
	m.ActiveSubscriptions.Inc()
}

func (m *Metrics) SubscriptionClosed() {
	if m == nil {
		return
	}
	m.ActiveSubscriptions.Dec()
}
