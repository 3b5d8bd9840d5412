package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream, cache and session metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visualquery",
			Name:      "upstream_requests_total",
			Help:      "Total number of entity API requests",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "visualquery",
			Name:      "upstream_request_duration_seconds",
			Help:      "Entity API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visualquery",
			Name:      "upstream_errors_total",
			Help:      "Total entity API errors",
		},
		[]string{"endpoint", "error_type"},
	)

	UpstreamBudgetRemaining = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "visualquery",
			Name:      "upstream_budget_requests_remaining",
			Help:      "Remaining daily entity API request budget",
		},
	)

	StatsCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visualquery",
			Name:      "stats_cache_total",
			Help:      "Statistics cache hits and misses",
		},
		[]string{"source", "result"}, // "hit" / "miss"
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "visualquery",
			Name:      "sessions_active",
			Help:      "Number of live query sessions",
		},
	)

	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visualquery",
			Name:      "constraint_mutations_total",
			Help:      "Constraint store transitions by action",
		},
		[]string{"action"},
	)

	AppliesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "visualquery",
			Name:      "query_applies_total",
			Help:      "Compiled queries handed to navigation",
		},
	)

	WidgetDataTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visualquery",
			Name:      "widget_data_total",
			Help:      "Widget aggregate loads by constraint and resulting status",
		},
		[]string{"constraint", "status"},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers the service metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		UpstreamErrorsTotal,
		UpstreamBudgetRemaining,
		StatsCacheTotal,
		SessionsActive,
		MutationsTotal,
		AppliesTotal,
		WidgetDataTotal,
	)
	domainMetricsRegistered = true
}
