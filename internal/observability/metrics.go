package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/resume-verifier/internal/types"
)

// Namespace for all metrics
const metricsNamespace = "resume_verifier"

// Metrics holds the Prometheus collectors for the verification service.
// Each server instance registers its collectors on a private registry, so
// constructing a second instance never panics on duplicate registration.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by route, method, and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures handler latency by route and method.
	RequestDurationSeconds *prometheus.HistogramVec

	// AnalysesTotal counts completed analyses by resulting risk level.
	AnalysesTotal *prometheus.CounterVec

	// FlagsTotal counts fired risk flags by code and severity.
	FlagsTotal *prometheus.CounterVec

	// VerificationsTotal counts external verification outcomes by source and result.
	VerificationsTotal *prometheus.CounterVec

	// TrustScore observes the distribution of computed trust scores.
	TrustScore prometheus.Histogram
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by route, method, and status code",
			},
			[]string{"route", "method", "status"},
		),

		RequestDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP handler latency by route and method",
				Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 10, 30, 60},
			},
			[]string{"route", "method"},
		),

		AnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "analyses_total",
				Help:      "Completed resume analyses by resulting risk level",
			},
			[]string{"risk_level"},
		),

		FlagsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "risk_flags_total",
				Help:      "Fired risk flags by code and severity",
			},
			[]string{"code", "severity"},
		),

		VerificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "verifications_total",
				Help:      "External verification outcomes by source and result",
			},
			[]string{"source", "result"},
		),

		TrustScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "trust_score",
				Help:      "Distribution of computed trust scores",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
		),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis records the outcome of one completed analysis.
func (m *Metrics) ObserveAnalysis(report *types.RiskReport) {
	if report == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(string(report.RiskLevel)).Inc()
	m.TrustScore.Observe(float64(report.TrustScore))
	for _, flag := range report.Flags {
		m.FlagsTotal.WithLabelValues(string(flag.Code), string(flag.Severity)).Inc()
	}
}

// ObserveEvidence records the outcome of every external lookup in a bundle.
func (m *Metrics) ObserveEvidence(bundle *types.EvidenceBundle) {
	if bundle == nil {
		return
	}
	for _, company := range bundle.Companies {
		m.VerificationsTotal.WithLabelValues("company_registry", string(company.LegallyRegistered)).Inc()
	}
	if bundle.Identity != nil {
		m.VerificationsTotal.WithLabelValues("github", string(bundle.Identity.ProfileExists)).Inc()
	}
	if bundle.LinkedIn != nil {
		m.VerificationsTotal.WithLabelValues("linkedin", string(bundle.LinkedIn.ProfileReachable)).Inc()
	}
}
