package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	PolicyCallDuration   *prometheus.HistogramVec
	ExchangeTransitions  *prometheus.CounterVec
	ExchangeOutcomes     *prometheus.CounterVec
	VerifierCacheClears  prometheus.Counter
	ConsentResponses     *prometheus.CounterVec
	ConsentReverts       prometheus.Counter
	ConsentReconciles    *prometheus.CounterVec
	ConsentsCallDuration *prometheus.HistogramVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PolicyCallDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketaccess_policy_call_duration_seconds",
			Help:    "Latency of policy server passthrough calls by action and outcome",
			Buckets: prometheus.DefBuckets,
		}, []string{"action", "outcome"}),
		ExchangeTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "marketaccess_exchange_transitions_total",
			Help: "Credential exchange state transitions",
		}, []string{"from", "to"}),
		ExchangeOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "marketaccess_exchange_outcomes_total",
			Help: "Finished credential exchanges by outcome",
		}, []string{"outcome"}),
		VerifierCacheClears: f.NewCounter(prometheus.CounterOpts{
			Name: "marketaccess_verifier_cache_clears_total",
			Help: "Times the verifier session cache was cleared after a failed check",
		}),
		ConsentResponses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "marketaccess_consent_responses_total",
			Help: "Consent responses by resulting status",
		}, []string{"status"}),
		ConsentReverts: f.NewCounter(prometheus.CounterOpts{
			Name: "marketaccess_consent_reverts_total",
			Help: "Consent responses reverted because the applier failed",
		}),
		ConsentReconciles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "marketaccess_consent_reconciliations_total",
			Help: "Aggregate counter invalidations caused by list drift",
		}, []string{"direction"}),
		ConsentsCallDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketaccess_consents_call_duration_seconds",
			Help:    "Latency of consents backend calls by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketaccess_http_request_duration_seconds",
			Help:    "Latency of UI API requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) ObservePolicyCall(action, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.PolicyCallDuration.WithLabelValues(action, outcome).Observe(d.Seconds())
}

func (m *Metrics) IncExchangeTransition(from, to string) {
	if m == nil {
		return
	}
	m.ExchangeTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncExchangeOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ExchangeOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncVerifierCacheClear() {
	if m == nil {
		return
	}
	m.VerifierCacheClears.Inc()
}

func (m *Metrics) IncConsentResponse(status string) {
	if m == nil {
		return
	}
	m.ConsentResponses.WithLabelValues(status).Inc()
}

func (m *Metrics) IncConsentRevert() {
	if m == nil {
		return
	}
	m.ConsentReverts.Inc()
}

func (m *Metrics) IncConsentReconcile(direction string) {
	if m == nil {
		return
	}
	m.ConsentReconciles.WithLabelValues(direction).Inc()
}

func (m *Metrics) ObserveConsentsCall(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.ConsentsCallDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
